package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunLevel(t *testing.T) {
	l := Run("error")
	assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.ErrorLevel))

	l = Run("not-a-level")
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestRunWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.log")
	l := Run("info", WithFile(path))
	l.Infow("file-log-test", "k", "v")
	_ = l.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file-log-test")
}

func TestLogFromContext(t *testing.T) {
	rootLogger := Run("info")
	assert.Same(t, rootLogger, Log(context.Background()))

	core, logs := observer.New(zap.InfoLevel)
	reqLogger := zap.New(core).Sugar()
	ctx := WithLogger(context.Background(), reqLogger)

	Log(ctx).Infow("hello")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
}
