package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{ServerEndpointAddr: "keep:1", RequestTimeout: time.Second}

	err := applyEnv(cfg, lookupFrom(map[string]string{
		envPingInterval: "0s",
		envTimeout:      "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, "keep:1", cfg.ServerEndpointAddr)
	assert.Equal(t, time.Duration(0), cfg.OnlineCheckInterval)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
}

func TestApplyEnv_Invalid(t *testing.T) {
	for _, v := range []string{"soon", "-5s", "10"} {
		cfg := &Config{}
		err := applyEnv(cfg, lookupFrom(map[string]string{envTimeout: v}))
		assert.Error(t, err, v)
	}
}

func TestParseEnv_PanicsOnBadValue(t *testing.T) {
	t.Setenv(envPingInterval, "often")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
