package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, closer, err := New(Options{File: path, Level: "debug"})
	require.NoError(t, err)

	l.WithField("topic", "Hàm số").Debug("quiz requested")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "quiz requested")
	assert.Contains(t, out, "level=debug")
	assert.True(t, strings.Contains(out, "topic="), "expected field in output: %s", out)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, closer, err := New(Options{File: path, Level: "warn"})
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, string(b), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWithoutFileDiscards(t *testing.T) {
	l, closer, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.NoError(t, closer.Close())
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := NewContext(context.Background(), l)
	assert.Same(t, l, WithContext(ctx))
	assert.Equal(t, logrus.StandardLogger(), WithContext(context.Background()))
}

func TestFromContextFallback(t *testing.T) {
	fallback := Discard()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.Equal(t, logrus.StandardLogger(), FromContext(context.Background(), nil))

	scoped := Discard()
	ctx := NewContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx, fallback))
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("LUYENTHI_LOG_FILE", "/tmp/explicit.log")
	assert.Equal(t, "/tmp/explicit.log", DefaultFile())

	dir := t.TempDir()
	t.Setenv("LUYENTHI_LOG_FILE", "")
	t.Setenv("XDG_STATE_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "luyenthi", "luyenthi.log"), DefaultFile())
}
