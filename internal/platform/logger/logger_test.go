package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		log, err := Setup(level)
		require.NoError(t, err, "level %q", level)
		assert.NotNil(t, log)
	}
}

func TestSetupInvalidLevel(t *testing.T) {
	_, err := Setup("verbose")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	log := slog.Default().With(slog.String("test", "value"))

	ctx := WithLogger(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, log, FromContextOrDefault(ctx, nil))
}

func TestFromContextFallbacks(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	def := slog.Default().With(slog.String("component", "test"))
	assert.Same(t, def, FromContextOrDefault(context.Background(), def))
	assert.Same(t, slog.Default(), FromContextOrDefault(nil, nil))
}

func TestWithLoggerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		WithLogger(context.Background(), nil)
	})
}
