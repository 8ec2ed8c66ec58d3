package models

// Settings represents the persisted CLI settings
type Settings struct {
	APIURL          string `json:"api_url"`          // base URL of the habit service
	Timezone        string `json:"timezone"`         // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	OfflineFallback bool   `json:"offline_fallback"` // serve cached habits when the service is unreachable
	LastSyncAt      string `json:"last_sync_at"`     // RFC3339 timestamp of the last successful sync
}
