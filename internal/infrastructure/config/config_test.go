package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.RefreshDaysPast)
	assert.Equal(t, 10, cfg.RefreshDaysFuture)
	assert.Equal(t, 60, cfg.InitialLoadDaysPast)
	assert.Equal(t, 10, cfg.InitialLoadDaysFuture)
	assert.Empty(t, cfg.MongoURI)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OPERATOR", "skyjet")
	t.Setenv("REFRESH_DAYS_PAST", "7")
	t.Setenv("INITIAL_LOAD_MONTHS_PAST", "6")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "skyjet", cfg.Operator)
	assert.Equal(t, 7, cfg.RefreshDaysPast)
	assert.Equal(t, 180, cfg.InitialLoadDaysPast)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}
