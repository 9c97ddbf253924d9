package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the env variable pointing at a YAML config file.
// When it is set, FromEnvironment prefers the file over plain env vars.
const ConfigFileEnv = "DOSELOG_CONFIG"

var (
	// ErrConfigValueNotSet occurs when a required config file value is
	// missing
	ErrConfigValueNotSet = errors.New("config value is not set")
)

// File is a YAML file Config implementation
type File struct {
	Badger struct {
		Path string `yaml:"path"`
	} `yaml:"badger"`
	Pushover struct {
		APIToken    string `yaml:"api_token"`
		DeviceToken string `yaml:"device_token"`
	} `yaml:"pushover"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Maintenance struct {
		RetentionDays int    `yaml:"retention_days"`
		CleanupDays   int    `yaml:"cleanup_days"`
		Cron          string `yaml:"cron"`
	} `yaml:"maintenance"`
}

// LoadFile parses the YAML config at path
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	file := &File{}
	err = yaml.Unmarshal(data, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return file, nil
}

// FromEnvironment returns the file config named by DOSELOG_CONFIG when
// set, the env var config otherwise
func FromEnvironment() (Config, error) {
	path, ok := os.LookupEnv(ConfigFileEnv)
	if !ok {
		return &Env{}, nil
	}

	return LoadFile(path)
}

// BadgerPath for the database directory
func (f *File) BadgerPath() (string, error) {
	if f.Badger.Path == "" {
		return "", fmt.Errorf("badger.path: %w", ErrConfigValueNotSet)
	}

	return f.Badger.Path, nil
}

// PushoverAPIToken getter
func (f *File) PushoverAPIToken() (string, error) {
	if f.Pushover.APIToken == "" {
		return "", fmt.Errorf("pushover.api_token: %w", ErrConfigValueNotSet)
	}

	return f.Pushover.APIToken, nil
}

// PushoverDeviceToken getter
func (f *File) PushoverDeviceToken() (string, error) {
	if f.Pushover.DeviceToken == "" {
		return "", fmt.Errorf("pushover.device_token: %w", ErrConfigValueNotSet)
	}

	return f.Pushover.DeviceToken, nil
}

// LogLevel getter
func (f *File) LogLevel() string {
	if f.Log.Level == "" {
		return DefaultLogLevel
	}

	return f.Log.Level
}

// RetentionDays for adherence records
func (f *File) RetentionDays() int {
	if f.Maintenance.RetentionDays <= 0 {
		return DefaultRetentionDays
	}

	return f.Maintenance.RetentionDays
}

// CleanupDays for completed notifications
func (f *File) CleanupDays() int {
	if f.Maintenance.CleanupDays <= 0 {
		return DefaultCleanupDays
	}

	return f.Maintenance.CleanupDays
}

// MaintenanceSpec is the cron spec for the daemon's maintenance pass
func (f *File) MaintenanceSpec() string {
	if f.Maintenance.Cron == "" {
		return DefaultMaintenanceSpec
	}

	return f.Maintenance.Cron
}
