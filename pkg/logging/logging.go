package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
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

// SlogLevel converts a LogLevel to its slog.Level equivalent.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEntry is the structured log entry passed to a capture-mode consumer.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Subsystem string
	Message   string
	Err       error
}

var (
	defaultLogger     *slog.Logger
	captureChan       chan LogEntry
	isCaptureMode     bool
	captureBufferSize = 2048
)

// Initcommon initializes the logger for either direct or capture mode.
// This should be called once at application startup.
func Initcommon(mode string, level LogLevel, output io.Writer, channelBufferSize int) <-chan LogEntry {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}

	var handler slog.Handler
	if mode == "capture" {
		isCaptureMode = true
		if channelBufferSize <= 0 {
			channelBufferSize = captureBufferSize
		}
		captureChan = make(chan LogEntry, channelBufferSize)
		handler = slog.NewTextHandler(io.Discard, opts)
	} else {
		isCaptureMode = false
		handler = slog.NewTextHandler(output, opts)
	}
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	if isCaptureMode {
		return captureChan
	}
	return nil
}

// InitForCLI initializes the logging system for direct (CLI) mode.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	Initcommon("cli", filterLevel, output, 0)
}

// InitForCapture initializes the logging system for capture mode, returning
// the channel log entries will be delivered on.
func InitForCapture(filterLevel LogLevel, channelBufferSize int) <-chan LogEntry {
	return Initcommon("capture", filterLevel, io.Discard, channelBufferSize)
}

// CloseCaptureChannel closes the capture-mode channel. Safe to call only
// once, after logging is no longer needed.
func CloseCaptureChannel() {
	if isCaptureMode && captureChan != nil {
		close(captureChan)
	}
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	if !isCaptureMode {
		if defaultLogger == nil || !defaultLogger.Enabled(context.Background(), level.SlogLevel()) {
			return
		}
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}
	now := time.Now()

	if isCaptureMode {
		if captureChan != nil {
			entry := LogEntry{Timestamp: now, Level: level, Subsystem: subsystem, Message: msg, Err: err}
			select {
			case captureChan <- entry:
			default:
				fmt.Fprintf(os.Stderr, "[LOGGING_CRITICAL] capture channel full/closed. Dropping: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
			}
		} else {
			fmt.Fprintf(os.Stderr, "[LOGGING_CRITICAL] capture mode active but channel is nil. Log: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
		}
		return
	}

	if defaultLogger == nil {
		fmt.Fprintf(os.Stderr, "[LOGGING_ERROR] Logger not initialized. Log: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
		return
	}

	var slogAttrs []slog.Attr
	slogAttrs = append(slogAttrs, slog.String("subsystem", subsystem))
	if err != nil {
		slogAttrs = append(slogAttrs, slog.String("error", err.Error()))
	}

	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, slogAttrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
