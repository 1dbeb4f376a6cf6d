package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core).Sugar()

	ctx := IntoContext(context.Background(), l)
	FromContext(ctx).With("handler", "test").Infow("hello", "status", 200)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "test", entry.ContextMap()["handler"])
	assert.EqualValues(t, 200, entry.ContextMap()["status"])
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestNew_WithFileSink(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l := New("info", file)
	require.NotNil(t, l)
	l.Infow("written")
	_ = l.Sync()
	assert.FileExists(t, file)
}

func TestNew_BootstrapLoggerEmits(t *testing.T) {
	core := New("info", "").Desugar().Core()
	assert.True(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.FatalLevel))
	assert.False(t, core.Enabled(zapcore.DebugLevel))

	// the global logger stays a no-op until replaced
	assert.False(t, zap.S().Desugar().Core().Enabled(zapcore.FatalLevel))
}
