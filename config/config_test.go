package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears the variables for the test; t.Setenv registers the
// restore of whatever the caller had
func unsetenv(t *testing.T, names ...string) {
	t.Helper()

	for _, name := range names {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestEnvRequiredValues(t *testing.T) {
	t.Setenv(BadgerPathEnv, "/var/lib/doselog")
	t.Setenv(PushoverAPITokenEnv, "api-token")
	t.Setenv(PushoverDeviceTokenEnv, "device-token")

	env := &Env{}

	path, err := env.BadgerPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/doselog", path)

	apiToken, err := env.PushoverAPIToken()
	require.NoError(t, err)
	assert.Equal(t, "api-token", apiToken)

	deviceToken, err := env.PushoverDeviceToken()
	require.NoError(t, err)
	assert.Equal(t, "device-token", deviceToken)
}

func TestEnvMissingRequiredValue(t *testing.T) {
	unsetenv(t, BadgerPathEnv)

	_, err := (&Env{}).BadgerPath()
	assert.ErrorIs(t, err, ErrEnvVariableNotSet)
}

func TestEnvDefaults(t *testing.T) {
	unsetenv(t, LogLevelEnv, RetentionDaysEnv, CleanupDaysEnv, MaintenanceSpecEnv)

	env := &Env{}
	assert.Equal(t, DefaultLogLevel, env.LogLevel())
	assert.Equal(t, DefaultRetentionDays, env.RetentionDays())
	assert.Equal(t, DefaultCleanupDays, env.CleanupDays())
	assert.Equal(t, DefaultMaintenanceSpec, env.MaintenanceSpec())
}

func TestEnvIgnoresMalformedDays(t *testing.T) {
	t.Setenv(RetentionDaysEnv, "soon")
	t.Setenv(CleanupDaysEnv, "-4")

	env := &Env{}
	assert.Equal(t, DefaultRetentionDays, env.RetentionDays())
	assert.Equal(t, DefaultCleanupDays, env.CleanupDays())
}

func TestFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doselog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
badger:
  path: /var/lib/doselog
pushover:
  api_token: api-token
  device_token: device-token
log:
  level: debug
maintenance:
  retention_days: 14
  cleanup_days: 60
  cron: "@hourly"
`), 0o600))

	file, err := LoadFile(path)
	require.NoError(t, err)

	badgerPath, err := file.BadgerPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/doselog", badgerPath)

	assert.Equal(t, "debug", file.LogLevel())
	assert.Equal(t, 14, file.RetentionDays())
	assert.Equal(t, 60, file.CleanupDays())
	assert.Equal(t, "@hourly", file.MaintenanceSpec())
}

func TestFileConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doselog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("badger:\n  path: /tmp/db\n"), 0o600))

	file, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, file.LogLevel())
	assert.Equal(t, DefaultRetentionDays, file.RetentionDays())
	assert.Equal(t, DefaultCleanupDays, file.CleanupDays())

	_, err = file.PushoverAPIToken()
	assert.ErrorIs(t, err, ErrConfigValueNotSet)
}

func TestFromEnvironmentPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doselog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("badger:\n  path: /from/file\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := FromEnvironment()
	require.NoError(t, err)

	badgerPath, err := cfg.BadgerPath()
	require.NoError(t, err)
	assert.Equal(t, "/from/file", badgerPath)
}

func TestFromEnvironmentFallsBackToEnv(t *testing.T) {
	unsetenv(t, ConfigFileEnv)

	cfg, err := FromEnvironment()
	require.NoError(t, err)
	assert.IsType(t, &Env{}, cfg)
}
