package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"case insensitive", "DEBUG"},
		{"invalid level falls back to info", "loud"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(tc.logLevel)
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Run("returns default when context has no logger", func(t *testing.T) {
		log := FromContext(context.Background())
		assert.Equal(t, slog.Default(), log)
	})

	t.Run("returns stored logger", func(t *testing.T) {
		stored := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := WithLogger(context.Background(), stored)
		assert.Equal(t, stored, FromContext(ctx))
	})

	t.Run("nil context returns default", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil-context guard
		log := FromContext(nil)
		assert.Equal(t, slog.Default(), log)
	})
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("prefers context logger", func(t *testing.T) {
		stored := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := WithLogger(context.Background(), stored)
		assert.Equal(t, stored, FromContextOrDefault(ctx, fallback))
	})

	t.Run("falls back to component logger", func(t *testing.T) {
		assert.Equal(t, fallback, FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil fallback returns default", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
	})
}
