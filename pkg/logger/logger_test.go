package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsLogger(t *testing.T) {
	logger := Get()
	require.NotNil(t, logger)
	assert.Same(t, logger, Get())
}

func TestInvalidLevel(t *testing.T) {
	_, err := newLogger(Config{Level: "shouting", Encoding: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewLoggerDefaults(t *testing.T) {
	logger, err := newLogger(Config{Level: "debug", Encoding: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestWithContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), BackendKey, "ak")
	ctx = context.WithValue(ctx, FieldKey, "muon_pt")

	logger := WithContext(ctx)
	require.NotNil(t, logger)

	// values of the wrong type are ignored
	bad := context.WithValue(context.Background(), BackendKey, 42)
	require.NotNil(t, WithContext(bad))
}

func TestSyncWithoutInit(t *testing.T) {
	assert.NotPanics(t, func() { _ = Sync() })
}
