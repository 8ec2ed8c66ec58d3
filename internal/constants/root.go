package constants

import "time"

// Category is one of the fixed habit categories offered by the service
type Category string

const (
	AppName            = "habitline"
	DefaultKeyringUser = "database-connection"
	TokenKeyringUser   = "id-token"
	DefaultConfigPath  = "~/.config/habitline/habitline.db"
	DefaultAPIURL      = "https://my-habit-tracker-server.vercel.app"
	Version            = "v0.3.0"

	// Environment overrides
	EnvAPIURL   = "HABITLINE_API_URL"
	EnvToken    = "HABITLINE_TOKEN"
	EnvTimezone = "HABITLINE_TIMEZONE"
	EnvDBConn   = "HABITLINE_DB_CONNECTION"

	// HTTP
	DefaultRequestTimeout = 15 * time.Second
	UserAgent             = AppName + "/" + Version

	// AlreadyCompletedMessage is the reply message the service sends when a
	// habit is marked complete twice on the same day.
	AlreadyCompletedMessage = "Habit already completed today."

	// Progress engine windows
	ProgressWindowDays = 30
	WeeklySeriesDays   = 7

	CategoryMorning Category = "Morning"
	CategoryWork    Category = "Work"
	CategoryFitness Category = "Fitness"
	CategoryEvening Category = "Evening"
	CategoryStudy   Category = "Study"
)

// Categories lists the categories in the order the service presents them.
var Categories = []Category{
	CategoryMorning,
	CategoryWork,
	CategoryFitness,
	CategoryEvening,
	CategoryStudy,
}

// IsCategory reports whether s names a known category (case-sensitive).
func IsCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}
