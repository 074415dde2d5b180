package logging

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// LevelLogger filters below a minimum level and writes plain text lines to an
// io.Writer. It serves the CLI, where JSON lines are noise.
type LevelLogger struct {
	out   io.Writer
	level int
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// NewLevelLogger creates a text logger writing to out at the given minimum
// level ("debug", "info", "warn", "error"; unknown means info).
func NewLevelLogger(out io.Writer, level string) *LevelLogger {
	min := levelInfo
	switch strings.ToLower(level) {
	case "debug":
		min = levelDebug
	case "info":
		min = levelInfo
	case "warn", "warning":
		min = levelWarn
	case "error":
		min = levelError
	}
	return &LevelLogger{out: out, level: min}
}

func (l *LevelLogger) write(level int, name, msg string, fields []interface{}) {
	if level < l.level {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", time.Now().Format("15:04:05"), name, msg)
	for k, v := range fieldsToMap(fields) {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	fmt.Fprintln(l.out, b.String())
}

func (l *LevelLogger) Debug(msg string, fields ...interface{}) {
	l.write(levelDebug, "DEBUG", msg, fields)
}

func (l *LevelLogger) Info(msg string, fields ...interface{}) {
	l.write(levelInfo, "INFO", msg, fields)
}

func (l *LevelLogger) Warn(msg string, fields ...interface{}) {
	l.write(levelWarn, "WARN", msg, fields)
}

func (l *LevelLogger) Error(msg string, fields ...interface{}) {
	l.write(levelError, "ERROR", msg, fields)
}
