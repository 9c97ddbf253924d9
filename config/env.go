package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	// BadgerPathEnv name
	BadgerPathEnv = "BADGER_PATH"
	// PushoverAPITokenEnv name
	PushoverAPITokenEnv = "PUSHOVER_API_TOKEN"
	// PushoverDeviceTokenEnv name
	PushoverDeviceTokenEnv = "PUSHOVER_DEVICE_TOKEN"
	// LogLevelEnv name
	LogLevelEnv = "LOG_LEVEL"
	// RetentionDaysEnv name
	RetentionDaysEnv = "ADHERENCE_RETENTION_DAYS"
	// CleanupDaysEnv name
	CleanupDaysEnv = "CLEANUP_DAYS"
	// MaintenanceSpecEnv name
	MaintenanceSpecEnv = "MAINTENANCE_CRON"
)

var (
	// ErrEnvVariableNotSet occurs when an environment variable is not set
	ErrEnvVariableNotSet = errors.New("environment variable is not set")
)

// Env variable Config implementation
type Env struct {
}

// BadgerPath for the database directory
func (e *Env) BadgerPath() (string, error) {
	return e.required(BadgerPathEnv, "badger path")
}

// PushoverAPIToken getter
func (e *Env) PushoverAPIToken() (string, error) {
	return e.required(PushoverAPITokenEnv, "pushover API token")
}

// PushoverDeviceToken getter
func (e *Env) PushoverDeviceToken() (string, error) {
	return e.required(PushoverDeviceTokenEnv, "pushover device token")
}

// LogLevel getter
func (e *Env) LogLevel() string {
	if val, ok := os.LookupEnv(LogLevelEnv); ok {
		return val
	}

	return DefaultLogLevel
}

// RetentionDays for adherence records
func (e *Env) RetentionDays() int {
	return e.days(RetentionDaysEnv, DefaultRetentionDays)
}

// CleanupDays for completed notifications
func (e *Env) CleanupDays() int {
	return e.days(CleanupDaysEnv, DefaultCleanupDays)
}

// MaintenanceSpec is the cron spec for the daemon's maintenance pass
func (e *Env) MaintenanceSpec() string {
	if val, ok := os.LookupEnv(MaintenanceSpecEnv); ok {
		return val
	}

	return DefaultMaintenanceSpec
}

func (e *Env) required(envName, what string) (string, error) {
	val, ok := os.LookupEnv(envName)
	if !ok {
		return "", fmt.Errorf(
			"unable to get %s from env variable %s: %w",
			what,
			envName,
			ErrEnvVariableNotSet,
		)
	}

	return val, nil
}

func (e *Env) days(envName string, fallback int) int {
	val, ok := os.LookupEnv(envName)
	if !ok {
		return fallback
	}

	days, err := strconv.Atoi(val)
	if err != nil || days <= 0 {
		return fallback
	}

	return days
}
