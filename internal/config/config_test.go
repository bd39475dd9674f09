package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Config reads, restoring them when the
// test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV", "DATA_FILE", "STORAGE_DRIVER", "LOG_PATH"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "Enrollments.json", cfg.DataFile)
	require.Equal(t, DriverJSON, cfg.Storage)
	require.Empty(t, cfg.LogPath)
}

func TestLoad_FromFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: dev
data_file: spring.json
storage: sqlite
log_path: registrar.log
`), 0o644))
	t.Setenv("DATA_FILE", "fall.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "fall.db", cfg.DataFile)
	require.Equal(t, DriverSQLite, cfg.Storage)
	require.Equal(t, "registrar.log", cfg.LogPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "config file does not exist")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "csv")

	_, err := Load("")
	require.ErrorContains(t, err, "invalid config")
}

func TestValidate_AfterOverride(t *testing.T) {
	cfg := &Config{Env: "prod", DataFile: "x.json", Storage: DriverJSON}
	require.NoError(t, cfg.Validate())

	cfg.Storage = "xml"
	require.Error(t, cfg.Validate())

	cfg.Storage = DriverSQLite
	cfg.DataFile = ""
	require.Error(t, cfg.Validate())
}
