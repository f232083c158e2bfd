package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name string
		app  *App
		want string
	}{
		{"empty", &App{}, ""},
		{"user only", &App{userName: "alice"}, "(alice )"},
		{"mode only", &App{Mode: ModeOnline}, "(online)"},
		{"user and mode", &App{userName: "alice", Mode: ModeOffline}, "(alice offline)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.app.getStatus())
		})
	}
}

func TestCheckOnline(t *testing.T) {
	fc := &fakeClient{}
	a := newTestApp(fc, nil)

	a.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, a.Mode)

	fc.pingErr = errors.New("down")
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.Mode)
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	fc := &fakeClient{}
	a := newTestApp(fc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.getStatus() == "(online)" }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWithTimeout(t *testing.T) {
	a := &App{config: &config.Config{RequestTimeout: time.Minute}}
	ctx, cancel := a.withTimeout(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	a = &App{}
	ctx2, cancel2 := a.withTimeout(context.Background())
	defer cancel2()
	_, ok = ctx2.Deadline()
	assert.False(t, ok)
}

func TestReport_Generic(t *testing.T) {
	out := capturePrintln(t)
	(&App{}).report(errors.New("boom"))
	assert.Equal(t, []string{"Error: boom"}, *out)
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(&config.Config{ServerEndpointAddr: "localhost:1"})
	require.NoError(t, err)
	require.NotNil(t, a.client)
	require.NoError(t, a.client.Close())
}
