package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		ServerEndpointAddr:  "127.0.0.1:50051",
		OnlineCheckInterval: 3 * time.Second,
		RequestTimeout:      10 * time.Second,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Layering(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "cli.json", map[string]any{
		"server_endpoint_addr": "json:1",
		"request_timeout":      "4s",
	})
	t.Setenv(envServer, "env:2")
	os.Args = []string{"storefront", "-c", path, "-t", "7s"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	want := &Config{
		ServerEndpointAddr:  "env:2",
		OnlineCheckInterval: 3 * time.Second,
		RequestTimeout:      7 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}
