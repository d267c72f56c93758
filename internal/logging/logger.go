package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"
	"time"
)

// Logger defines a minimal, printf-style logging contract.
//
// Components depend on this interface so tests can substitute a no-op or
// recording logger without touching the file-backed default.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// IsNil reports whether logger is nil or wraps a nil pointer receiver.
func IsNil(logger Logger) bool {
	if logger == nil {
		return true
	}
	val := reflect.ValueOf(logger)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return val.IsNil()
	default:
		return false
	}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if IsNil(logger) {
		return Nop()
	}
	return logger
}

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	defaultInstance *fileLogger
	defaultOnce     sync.Once
)

// fileLogger writes structured lines to vibemaker-debug.log in the user's
// home directory. Warn and Error additionally go to stderr.
type fileLogger struct {
	mu        sync.Mutex
	file      *os.File
	out       *log.Logger
	level     Level
	component string
}

func defaultLogger() *fileLogger {
	defaultOnce.Do(func() {
		defaultInstance = &fileLogger{level: LevelInfo}
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		path := filepath.Join(home, "vibemaker-debug.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}
		defaultInstance.file = f
		defaultInstance.out = log.New(f, "", 0)
	})
	return defaultInstance
}

// NewComponentLogger returns the default application logger scoped to a component.
func NewComponentLogger(component string) Logger {
	base := defaultLogger()
	return &fileLogger{
		file:      base.file,
		out:       base.out,
		level:     base.level,
		component: component,
	}
}

// SetDefaultLevel sets the minimum level for loggers created after this call.
// The default is LevelInfo; the CLI lowers it to LevelDebug under --debug.
func SetDefaultLevel(level Level) {
	base := defaultLogger()
	base.mu.Lock()
	base.level = level
	base.mu.Unlock()
}

func (l *fileLogger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)

	component := l.component
	if component == "" {
		component = "main"
	}

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	formatted := fmt.Sprintf("%s [%s] [%s] %s %s",
		time.Now().Format("2006-01-02 15:04:05.000"),
		level, component, caller, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out != nil {
		l.out.Println(formatted)
	}
	if level >= LevelWarn {
		fmt.Fprintln(os.Stderr, formatted)
	}
}

func (l *fileLogger) Debug(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *fileLogger) Info(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *fileLogger) Warn(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *fileLogger) Error(format string, args ...any) { l.logf(LevelError, format, args...) }

type multiLogger struct {
	loggers []Logger
}

// Multi returns a logger fan-out that calls every non-nil logger in order.
func Multi(loggers ...Logger) Logger {
	flattened := make([]Logger, 0, len(loggers))
	for _, logger := range loggers {
		if IsNil(logger) {
			continue
		}
		if ml, ok := logger.(*multiLogger); ok {
			flattened = append(flattened, ml.loggers...)
			continue
		}
		flattened = append(flattened, logger)
	}
	if len(flattened) == 0 {
		return Nop()
	}
	if len(flattened) == 1 {
		return flattened[0]
	}
	return &multiLogger{loggers: flattened}
}

func (l *multiLogger) Debug(format string, args ...any) {
	for _, logger := range l.loggers {
		logger.Debug(format, args...)
	}
}

func (l *multiLogger) Info(format string, args ...any) {
	for _, logger := range l.loggers {
		logger.Info(format, args...)
	}
}

func (l *multiLogger) Warn(format string, args ...any) {
	for _, logger := range l.loggers {
		logger.Warn(format, args...)
	}
}

func (l *multiLogger) Error(format string, args ...any) {
	for _, logger := range l.loggers {
		logger.Error(format, args...)
	}
}
