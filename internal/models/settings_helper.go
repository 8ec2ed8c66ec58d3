package models

import (
	"strconv"

	"github.com/julianstephens/habitline/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Unknown keys are ignored so that older binaries can read newer databases.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingAPIURL:
			settings.APIURL = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingOfflineFallback:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, err
			}
			settings.OfflineFallback = b
		case constants.SettingLastSyncAt:
			settings.LastSyncAt = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingAPIURL:          settings.APIURL,
		constants.SettingTimezone:        settings.Timezone,
		constants.SettingOfflineFallback: strconv.FormatBool(settings.OfflineFallback),
		constants.SettingLastSyncAt:      settings.LastSyncAt,
	}
}

// DefaultSettings returns the settings written by a fresh init.
func DefaultSettings() Settings {
	return Settings{
		APIURL:          constants.DefaultAPIURL,
		Timezone:        constants.DefaultTimezone,
		OfflineFallback: constants.DefaultOfflineFallback,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.APIURL == "" {
		settings.APIURL = constants.DefaultAPIURL
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
