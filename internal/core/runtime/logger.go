package runtime

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Field is a key-value pair attached to a structured log entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the structured logging contract used across the runtime.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	With(fields ...Field) Logger
}

// NopLogger discards all entries.
type NopLogger struct{}

func (*NopLogger) Debug(string, ...Field)        {}
func (*NopLogger) Info(string, ...Field)         {}
func (*NopLogger) Warn(string, ...Field)         {}
func (*NopLogger) Error(string, error, ...Field) {}
func (n *NopLogger) With(...Field) Logger        { return n }

// TextLogger writes human-readable structured entries to a writer.
type TextLogger struct {
	minLevel Level
	logger   *log.Logger
	fields   []Field
}

// NewTextLogger creates a logger that writes entries at or above minLevel.
// A nil writer discards everything.
func NewTextLogger(minLevel Level, writer io.Writer) *TextLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &TextLogger{
		minLevel: minLevel,
		logger:   log.New(writer, "", 0),
	}
}

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

func (t *TextLogger) write(level Level, msg string, err error, fields []Field) {
	if levelRank[level] < levelRank[t.minLevel] {
		return
	}

	parts := []string{
		time.Now().Format(time.RFC3339),
		string(level),
		msg,
	}
	if err != nil {
		parts = append(parts, fmt.Sprintf("error=%q", err.Error()))
	}
	all := append(append([]Field(nil), t.fields...), fields...)
	for _, f := range all {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	t.logger.Println(strings.Join(parts, " "))
}

func (t *TextLogger) Debug(msg string, fields ...Field) { t.write(LevelDebug, msg, nil, fields) }
func (t *TextLogger) Info(msg string, fields ...Field)  { t.write(LevelInfo, msg, nil, fields) }
func (t *TextLogger) Warn(msg string, fields ...Field)  { t.write(LevelWarn, msg, nil, fields) }
func (t *TextLogger) Error(msg string, err error, fields ...Field) {
	t.write(LevelError, msg, err, fields)
}

func (t *TextLogger) With(fields ...Field) Logger {
	return &TextLogger{
		minLevel: t.minLevel,
		logger:   t.logger,
		fields:   append(append([]Field(nil), t.fields...), fields...),
	}
}
