package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	debugs, infos, warns, errors int
}

func (r *recordingLogger) Debug(string, ...any) { r.debugs++ }
func (r *recordingLogger) Info(string, ...any)  { r.infos++ }
func (r *recordingLogger) Warn(string, ...any)  { r.warns++ }
func (r *recordingLogger) Error(string, ...any) { r.errors++ }

func TestOrNopReturnsNopForNil(t *testing.T) {
	require.NotNil(t, OrNop(nil))

	var typed *recordingLogger
	require.NotNil(t, OrNop(typed))

	real := &recordingLogger{}
	require.Equal(t, Logger(real), OrNop(real))
}

func TestIsNilDetectsTypedNil(t *testing.T) {
	var typed *recordingLogger
	require.True(t, IsNil(nil))
	require.True(t, IsNil(typed))
	require.False(t, IsNil(&recordingLogger{}))
	require.False(t, IsNil(Nop()))
}

func TestMultiFansOutToAllLoggers(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{}

	multi := Multi(a, nil, b)
	multi.Debug("d")
	multi.Info("i")
	multi.Warn("w")
	multi.Error("e")

	for _, rec := range []*recordingLogger{a, b} {
		require.Equal(t, 1, rec.debugs)
		require.Equal(t, 1, rec.infos)
		require.Equal(t, 1, rec.warns)
		require.Equal(t, 1, rec.errors)
	}
}

func TestMultiFlattensNestedMulti(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{}

	nested := Multi(Multi(a, b))
	inner, ok := nested.(*multiLogger)
	require.True(t, ok)
	require.Len(t, inner.loggers, 2)
}

func TestMultiWithNoLoggersIsNop(t *testing.T) {
	require.Equal(t, Nop(), Multi())
	require.Equal(t, Nop(), Multi(nil, nil))
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
}

func TestFileLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := &fileLogger{out: log.New(&buf, "", 0), level: LevelInfo, component: "test"}

	l.Debug("hidden %d", 1)
	require.Zero(t, buf.Len())

	l.Info("shown %d", 2)
	require.Contains(t, buf.String(), "shown 2")
	require.Contains(t, buf.String(), "[test]")
}

func TestSetDefaultLevelAppliesToNewComponentLoggers(t *testing.T) {
	base := defaultLogger()
	base.mu.Lock()
	prev := base.level
	base.mu.Unlock()
	defer SetDefaultLevel(prev)

	SetDefaultLevel(LevelWarn)

	logger, ok := NewComponentLogger("test").(*fileLogger)
	require.True(t, ok)
	require.Equal(t, LevelWarn, logger.level)
}
