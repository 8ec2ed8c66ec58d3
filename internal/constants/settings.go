package constants

const (
	SettingAPIURL          = "api_url"
	SettingTimezone        = "timezone"
	SettingOfflineFallback = "offline_fallback"
	SettingLastSyncAt      = "last_sync_at"

	DefaultTimezone        = "Local" // Use system local timezone by default
	DefaultOfflineFallback = true
)
