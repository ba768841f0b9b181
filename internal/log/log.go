package log

import (
	"fmt"
	"os"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

type Logger struct {
	mu     sync.Mutex
	level  Level
	output *os.File
}

var defaultLogger *Logger

func init() {
	defaultLogger = &Logger{
		level:  LevelInfo,
		output: os.Stderr,
	}
}

func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

func Debug(format string, args ...interface{}) {
	defaultLogger.log(LevelDebug, format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.log(LevelInfo, format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.log(LevelWarn, format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.log(LevelError, format, args...)
}

func Fatal(format string, args ...interface{}) {
	defaultLogger.log(LevelFatal, format, args...)
	os.Exit(1)
}

func (l *Logger) log(lvl Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lvl < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(l.output, "[%s] [%s] %s\n", timestamp, levelNames[lvl], msg)
}

// Named returns a Tag that prefixes every message with component, e.g.
// log.Named("vtab.cache").Info("built %d rows", n) logs
// "[vtab.cache] built 3 rows". Used so a busy host application's log
// stream can tell the planner, the cache builder, and the registration
// layer apart without grepping message text.
func Named(component string) Tag {
	return Tag(component)
}

// Tag is a component-scoped logging handle returned by Named.
type Tag string

func (t Tag) Debug(format string, args ...interface{}) { Debug("[%s] "+format, prepend(t, args)...) }
func (t Tag) Info(format string, args ...interface{})  { Info("[%s] "+format, prepend(t, args)...) }
func (t Tag) Warn(format string, args ...interface{})  { Warn("[%s] "+format, prepend(t, args)...) }
func (t Tag) Error(format string, args ...interface{}) { Error("[%s] "+format, prepend(t, args)...) }

func prepend(t Tag, args []interface{}) []interface{} {
	return append([]interface{}{string(t)}, args...)
}
