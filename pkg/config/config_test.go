package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, RosterSourceMock, cfg.Roster.Source)
	assert.Equal(t, 500*time.Millisecond, cfg.Roster.LoadDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.Form.SaveDelay)
	assert.Equal(t, "roster:students", cfg.Notify.RedisChannel)
	assert.False(t, cfg.Notify.RedisEnabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Exports.Enabled)
	assert.Equal(t, "./exports", cfg.Exports.Dir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "Postgres")
	t.Setenv("ROSTER_LOAD_DELAY", "0s")
	t.Setenv("FORM_SAVE_DELAY", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("ENABLE_REDIS_SINK", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, RosterSourcePostgres, cfg.Roster.Source)
	assert.Equal(t, time.Duration(0), cfg.Roster.LoadDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.Form.SaveDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Notify.RedisEnabled)
}

func TestUnknownRosterSourceFallsBackToMock(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "spreadsheet")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, RosterSourceMock, cfg.Roster.Source)
}
