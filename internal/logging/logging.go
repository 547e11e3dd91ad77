package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents a logging level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Format represents the log output format
type Format int

const (
	Text Format = iota
	JSON
)

// Logger handles structured logging
type Logger struct {
	out      io.Writer
	level    Level
	format   Format
	logMutex sync.RWMutex
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level  Level
	Format Format
}

var (
	defaultLogger = &Logger{
		out:    os.Stderr,
		level:  INFO,
		format: Text,
	}

	// Color definitions
	debugColor = color.New(color.FgCyan)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// Configure sets up the default logger
func Configure(config LogConfig) {
	defaultLogger.logMutex.Lock()
	defaultLogger.level = config.Level
	defaultLogger.format = config.Format
	defaultLogger.logMutex.Unlock()
}

// SetOutput redirects the default logger, primarily for tests
func SetOutput(w io.Writer) {
	defaultLogger.logMutex.Lock()
	defaultLogger.out = w
	defaultLogger.logMutex.Unlock()
}

type logEntry struct {
	Timestamp string      `json:"timestamp"`
	Level     string      `json:"level"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

func (l *Logger) log(level Level, msg string, data interface{}) {
	l.logMutex.RLock()
	out, format, minLevel := l.out, l.format, l.level
	l.logMutex.RUnlock()

	if level < minLevel {
		return
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")

	if format == JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Message:   msg,
			Data:      data,
		}
		if err := json.NewEncoder(out).Encode(entry); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode log entry: %v\n", err)
		}
		return
	}

	// Text format
	var levelColor *color.Color
	switch level {
	case DEBUG:
		levelColor = debugColor
	case INFO:
		levelColor = infoColor
	case WARN:
		levelColor = warnColor
	case ERROR:
		levelColor = errorColor
	default:
		levelColor = infoColor
	}

	levelStr := levelColor.Sprintf("%-5s", level.String())
	fmt.Fprintf(out, "%s %s: %s", timestamp, levelStr, msg)
	if data != nil {
		fmt.Fprintf(out, " %+v", data)
	}
	fmt.Fprintln(out)
}

func (l *Logger) Debug(msg string, data ...interface{}) {
	l.log(DEBUG, msg, firstOrNil(data))
}

func (l *Logger) Info(msg string, data ...interface{}) {
	l.log(INFO, msg, firstOrNil(data))
}

func (l *Logger) Warn(msg string, data ...interface{}) {
	l.log(WARN, msg, firstOrNil(data))
}

func (l *Logger) Error(msg string, err error, data ...interface{}) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	l.log(ERROR, msg, firstOrNil(data))
}

// firstOrNil returns the first element of data if present, nil otherwise
func firstOrNil(data []interface{}) interface{} {
	if len(data) > 0 {
		return data[0]
	}
	return nil
}

// CollectStart logs the start of a statistics collection run
func (l *Logger) CollectStart(schema string, workers int) {
	l.Info("Collecting table statistics", map[string]interface{}{
		"schema":  schema,
		"workers": workers,
	})
}

// CollectComplete logs the completion of a statistics collection run
func (l *Logger) CollectComplete(schema string, tables int, dataBytes, indexBytes int64) {
	l.Info("Table statistics collected", map[string]interface{}{
		"schema":      schema,
		"tables":      tables,
		"data_bytes":  dataBytes,
		"index_bytes": indexBytes,
	})
}

// SampleStart logs the start of a workload sampling window
func (l *Logger) SampleStart(schema string, window time.Duration) {
	l.Info("Sampling live workload", map[string]interface{}{
		"schema": schema,
		"window": window.String(),
	})
}

// SampleComplete logs the completion of a workload sampling window
func (l *Logger) SampleComplete(schema string, operations int64, window time.Duration) {
	l.Info("Workload sample collected", map[string]interface{}{
		"schema":     schema,
		"operations": operations,
		"window":     window.String(),
	})
}

// SampleUnavailable logs a soft sampling failure
func (l *Logger) SampleUnavailable(schema string, err error) {
	l.Warn("Workload sampling unavailable, falling back to static heuristics", map[string]interface{}{
		"schema": schema,
		"cause":  err.Error(),
	})
}

// Default logger methods
func Debug(msg string, data ...interface{}) {
	defaultLogger.Debug(msg, data...)
}

func Info(msg string, data ...interface{}) {
	defaultLogger.Info(msg, data...)
}

func Warn(msg string, data ...interface{}) {
	defaultLogger.Warn(msg, data...)
}

func Error(msg string, err error, data ...interface{}) {
	defaultLogger.Error(msg, err, data...)
}

func CollectStart(schema string, workers int) {
	defaultLogger.CollectStart(schema, workers)
}

func CollectComplete(schema string, tables int, dataBytes, indexBytes int64) {
	defaultLogger.CollectComplete(schema, tables, dataBytes, indexBytes)
}

func SampleStart(schema string, window time.Duration) {
	defaultLogger.SampleStart(schema, window)
}

func SampleComplete(schema string, operations int64, window time.Duration) {
	defaultLogger.SampleComplete(schema, operations, window)
}

func SampleUnavailable(schema string, err error) {
	defaultLogger.SampleUnavailable(schema, err)
}
