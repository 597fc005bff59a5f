package logger

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"console stdout", Options{Verbosity: VerbosityInfo}},
		{"console stderr", Options{Verbosity: VerbosityDebug, Stderr: true}},
		{"json stdout", Options{JSON: true}},
		{"json stderr", Options{JSON: true, Stderr: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			require.NoError(t, InitializeWithOptions(tt.opts))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.opts.JSON, JSONOutput)
			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(5))

	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv+)", LevelName(3))
}

func TestConsoleEncoderRendersEveryField(t *testing.T) {
	enc := newConsoleEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "server.lsp",
		Message:    "LSP completion",
	}

	buf, err := enc.EncodeEntry(entry, []zapcore.Field{
		zap.String(FieldURI, "file:///a.vibe"),
		zap.Int(FieldCount, 33),
		zap.Bool("ok", true),
	})
	require.NoError(t, err)

	out := stripANSI(buf.String())
	assert.True(t, strings.HasPrefix(out, "13:04:35  s.lsp  LSP completion"))
	assert.Contains(t, out, "count=33")
	assert.Contains(t, out, "ok=true")
	assert.Contains(t, out, "uri=file:///a.vibe")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestConsoleEncoderKeepsContextFields(t *testing.T) {
	enc := newConsoleEncoder()
	zap.String(FieldSessionID, "abc").AddTo(enc.MapObjectEncoder)

	buf, err := enc.EncodeEntry(zapcore.Entry{Level: zapcore.WarnLevel, Message: "slow"}, nil)
	require.NoError(t, err)

	out := stripANSI(buf.String())
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "session_id=abc")

	// Clones must not leak fields back into the parent
	clone := enc.Clone().(*consoleEncoder)
	zap.String("extra", "x").AddTo(clone.MapObjectEncoder)
	_, leaked := enc.Fields["extra"]
	assert.False(t, leaked)
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "s.lsp", abbreviateName("server.lsp"))
	assert.Equal(t, "am", abbreviateName("am"))
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FieldsFromContext(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithSessionID(ctx, "sess-1")
	ctx = WithComponent(ctx, "api")

	fields := FieldsFromContext(ctx)
	assert.Equal(t, []interface{}{
		FieldRequestID, "req-1",
		FieldSessionID, "sess-1",
		FieldComponent, "api",
	}, fields)

	assert.NotNil(t, LoggerFromContext(ctx))
}

func TestCleanupWithNilLogger(t *testing.T) {
	Logger = nil
	assert.NotPanics(t, Cleanup)
	assert.NotPanics(t, func() { Infow("no logger", "k", "v") })
	Logger = zap.NewNop().Sugar()
}
