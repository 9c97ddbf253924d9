package config

// Config for application setup. Credentials and the database path are
// required and error when unset; the tunables fall back to defaults.
type Config interface {
	BadgerPath() (string, error)
	PushoverAPIToken() (string, error)
	PushoverDeviceToken() (string, error)
	LogLevel() string
	RetentionDays() int
	CleanupDays() int
	MaintenanceSpec() string
}

const (
	// DefaultLogLevel when none is configured
	DefaultLogLevel = "info"
	// DefaultRetentionDays for adherence records
	DefaultRetentionDays = 7
	// DefaultCleanupDays for completed notifications
	DefaultCleanupDays = 30
	// DefaultMaintenanceSpec is the cron spec for the daemon's
	// prune/cleanup pass
	DefaultMaintenanceSpec = "@daily"
)
