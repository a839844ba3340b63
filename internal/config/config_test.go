package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable/engine/internal/config"
)

func TestLoadAppliesDefaultsWithNoEnvironment(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 60*time.Second, cfg.Solver.DefaultTimeLimit)
	assert.Equal(t, 8, cfg.Solver.DefaultWorkers)
}

func TestLoadReadsOverridesFromTheEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SOLVER_TIME_LIMIT", "90s")
	t.Setenv("SOLVER_WORKERS", "4")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 90*time.Second, cfg.Solver.DefaultTimeLimit)
	assert.Equal(t, 4, cfg.Solver.DefaultWorkers)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV", "PORT", "LOG_LEVEL", "LOG_FORMAT", "SOLVER_TIME_LIMIT", "SOLVER_WORKERS"} {
		val, ok := os.LookupEnv(k)
		if ok {
			t.Cleanup(func() { os.Setenv(k, val) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}
