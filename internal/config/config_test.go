package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"FEED_POLL_INTERVAL", "DOUBLE_CLICK_WINDOW", "EXIT_ANIMATION", "RECENT_WINDOW", "WEEK_START", "TIMEZONE", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, 2*time.Second, cfg.FeedPollInterval)
	assert.Equal(t, 350*time.Millisecond, cfg.DoubleClickWindow)
	assert.Equal(t, 400*time.Millisecond, cfg.ExitAnimation)
	assert.Equal(t, 72*time.Hour, cfg.RecentWindow)
	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Nil(t, cfg.TrustedProxies)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DOUBLE_CLICK_WINDOW", "500ms")
	t.Setenv("EXIT_ANIMATION", "1s")
	t.Setenv("WEEK_START", " Monday ")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, ,192.168.0.0/16")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 500*time.Millisecond, cfg.DoubleClickWindow)
	assert.Equal(t, time.Second, cfg.ExitAnimation)
	assert.Equal(t, time.Monday, cfg.WeekStart)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}

func TestGetDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("FEED_POLL_INTERVAL", "soon")
	assert.Equal(t, 3*time.Second, getDuration("FEED_POLL_INTERVAL", 3*time.Second))

	t.Setenv("FEED_POLL_INTERVAL", "-1s")
	assert.Equal(t, 3*time.Second, getDuration("FEED_POLL_INTERVAL", 3*time.Second))
}

func TestParseWeekday_Unknown(t *testing.T) {
	assert.Equal(t, time.Sunday, parseWeekday("someday"))
	assert.Equal(t, time.Saturday, parseWeekday("SATURDAY"))
}
