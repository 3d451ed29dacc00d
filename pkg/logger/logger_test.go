package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func capture(t *testing.T, cfg Config) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	initWith(cfg, zapcore.AddSync(&out), zapcore.AddSync(&errOut), nil)
	t.Cleanup(func() {
		initWith(Config{Output: "discard"}, zapcore.AddSync(&bytes.Buffer{}), zapcore.AddSync(&bytes.Buffer{}), nil)
	})
	return &out, &errOut
}

func TestLevelFiltering(t *testing.T) {
	out, errOut := capture(t, Config{Level: "warn"})

	Info("hidden")
	Warn("shown")
	Errorf("failed %d", 3)

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
	assert.Contains(t, errOut.String(), "failed 3")
	assert.NotContains(t, out.String(), "failed 3")
}

func TestJSONFormatWithFields(t *testing.T) {
	out, _ := capture(t, Config{Level: "debug", Format: "json"})

	WithFields(map[string]interface{}{"username": "alice"}).With("status", 200).Info("lookup done")

	line := strings.TrimSpace(out.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "lookup done", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "alice", entry["username"])
	assert.EqualValues(t, 200, entry["status"])
	assert.Contains(t, entry["file"], "logger_test.go")
}

func TestWithRequestID(t *testing.T) {
	out, _ := capture(t, Config{Format: "json"})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	WithRequestID(ctx).Info("hello")

	assert.Contains(t, out.String(), `"request_id":"req-1"`)
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestInitFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leetstats.log")
	require.NoError(t, Init(Config{Output: path}))
	t.Cleanup(func() { _ = Init(Config{Output: "discard"}) })
	Info("to file")
	Sync()
}

func TestInitBadFile(t *testing.T) {
	err := Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
	require.NoError(t, Init(Config{Output: "discard"}))
}
