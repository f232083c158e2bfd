package config

import (
	"fmt"
	"os"
	"time"
)

const (
	envServer       = "STOREFRONT_CLI_SERVER"
	envPingInterval = "STOREFRONT_CLI_PING_INTERVAL"
	envTimeout      = "STOREFRONT_CLI_TIMEOUT"
)

// parseEnv overlays STOREFRONT_CLI_* variables. Durations use Go syntax
// ("5s", "1m"). Malformed values panic.
func parseEnv(cfg *Config) {
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		panic(err)
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envServer); ok && v != "" {
		cfg.ServerEndpointAddr = v
	}
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{envPingInterval, &cfg.OnlineCheckInterval},
		{envTimeout, &cfg.RequestTimeout},
	} {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			return fmt.Errorf("%s: invalid duration %q", d.key, v)
		}
		*d.dst = parsed
	}
	return nil
}
