package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicClients(t *testing.T) {
	clients := ParseBasicClients("calendar:secret, admin:p:ss,broken,:nouser")

	require.Len(t, clients, 2)
	assert.Equal(t, ConfigBasicClient{Username: "calendar", Password: "secret"}, clients[0])
	assert.Equal(t, ConfigBasicClient{Username: "admin", Password: "p:ss"}, clients[1])
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, EnvLocal, cfg.App.Env)
		assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
		assert.Equal(t, 5*time.Minute, cfg.Cache.SearchTTL)
		assert.Equal(t, 50, cfg.Calendar.MaxEventsPerDay)
		assert.Equal(t, 500, cfg.Calendar.VirtualizationThreshold)
		assert.Equal(t, 300*time.Millisecond, cfg.Calendar.SearchDebounce)
		assert.True(t, cfg.IsLocal())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "Production")
		t.Setenv("CACHE_DRIVER", "REDIS")
		t.Setenv("SCHEDULE_STORE_URL", "http://store:3000/")
		t.Setenv("CALENDAR_SEARCH_DEBOUNCE", "0s")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, EnvProduction, cfg.App.Env)
		assert.True(t, cfg.IsNotLocal())
		assert.Equal(t, CacheDriverRedis, cfg.Cache.Driver)
		assert.Equal(t, "http://store:3000", cfg.Store.URL)
		assert.Zero(t, cfg.Calendar.SearchDebounce)
	})
}
