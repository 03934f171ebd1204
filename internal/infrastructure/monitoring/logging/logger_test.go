package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Helper to create a logger that writes to a buffer for verification.
func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, buf, zapcore.DebugLevel)
	z := zap.New(core)
	return &zapLogger{z: z}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	cfg := LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	cfg := LogConfig{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{"stdout"},
	}
	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_Defaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestLogger_EmitsFields(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Info("table loaded",
		String("source", "yaml"),
		Int("reactions", 142),
		Bool("allow_empty", false),
		Duration("elapsed", 5*time.Millisecond),
	)

	out := buf.String()
	assert.Contains(t, out, `"msg":"table loaded"`)
	assert.Contains(t, out, `"source":"yaml"`)
	assert.Contains(t, out, `"reactions":142`)
}

func TestLogger_With(t *testing.T) {
	l, buf := newTestLogger(t)

	child := l.With(String("component", "explorer"))
	child.Warn("grouping stale")

	assert.Contains(t, buf.String(), `"component":"explorer"`)
}

func TestLogger_Named(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Named("http").Info("listening")

	assert.Contains(t, buf.String(), `"logger":"http"`)
}

func TestErr_NilAndNonNil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)

	e := errors.New("boom")
	f := Err(e)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, e, f.Value)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	// Unknown values fall back to info.
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.NotNil(t, l.With(String("k", "v")))
	assert.NotNil(t, l.Named("x"))
}

func TestDefault_RoundTrip(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored.
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
