package server

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer shared with the server goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func memoryConfig(addr string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageDriver = config.StorageMemory
	cfg.EndpointAddrGRPC = addr
	return cfg
}

func TestNewApp_Memory(t *testing.T) {
	var out syncBuffer
	app, err := NewApp(context.Background(), memoryConfig("127.0.0.1:0"), &out)
	require.NoError(t, err)
	require.NotNil(t, app.authService)
	assert.Contains(t, out.String(), `"driver":"memory"`)
}

func TestNewApp_BadLogLevel(t *testing.T) {
	cfg := memoryConfig("127.0.0.1:0")
	cfg.LogLevel = "loud"

	_, err := NewApp(context.Background(), cfg, &syncBuffer{})
	assert.Error(t, err)
}

func TestNewApp_UnknownStorage(t *testing.T) {
	cfg := memoryConfig("127.0.0.1:0")
	cfg.StorageDriver = "floppy"

	_, err := NewApp(context.Background(), cfg, &syncBuffer{})
	assert.ErrorContains(t, err, "db init error")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	var out syncBuffer
	app, err := NewApp(context.Background(), memoryConfig("127.0.0.1:0"), &out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.Contains(t, out.String(), "App stopped")
}

func TestRun_StopsWhenListenFails(t *testing.T) {
	var out syncBuffer
	app, err := NewApp(context.Background(), memoryConfig("127.0.0.1:99999"), &out)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after listen error")
	}
}
