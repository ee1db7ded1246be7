// Package log provides context-aware logging for curator.
//
// User-facing diagnostics go through Printf/Println. Structured records
// (Debug, Warn, Error and external command traces) are encoded by zap so the
// same calls work for the terminal and for the dashboard's log file.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// Logger provides output and verbose command logging.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	zl      *zap.Logger
	closer  io.Closer
}

// New creates a logger writing to out.
// verbose enables debug records and command traces, quiet silences everything but errors.
func New(out io.Writer, verbose, quiet bool) *Logger {
	verbose = verbose && !quiet

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.NameKey = ""
	enc.StacktraceKey = ""
	enc.ConsoleSeparator = " "
	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder

	return &Logger{
		out:     out,
		verbose: verbose,
		quiet:   quiet,
		zl:      zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(out), levelFor(verbose, quiet))),
	}
}

// NewFile creates a logger that appends timestamped records to path.
// Used while the dashboard owns the terminal.
func NewFile(path string, verbose bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder
	enc.ConsoleSeparator = " "

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	return &Logger{
		out:     f,
		verbose: verbose,
		zl:      zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), level)),
		closer:  f,
	}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{out: io.Discard, zl: zap.NewNop()}
}

func levelFor(verbose, quiet bool) zapcore.Level {
	switch {
	case verbose:
		return zapcore.DebugLevel
	case quiet:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Debug records a message with key/value pairs, shown only in verbose mode.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.zl.Sugar().Debugw(msg, keysAndValues...)
}

// Info records an informational message.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.zl.Sugar().Infow(msg, keysAndValues...)
}

// Warn records a warning.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.zl.Sugar().Warnw(msg, keysAndValues...)
}

// Error records an error.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.zl.Sugar().Errorw(msg, keysAndValues...)
}

// Command logs an external command execution.
// The returned func records how long it took; both are no-ops unless verbose.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.verbose {
		return func(time.Duration) {}
	}
	line := "$ " + strings.TrimSpace(name+" "+strings.Join(args, " "))
	if dir != "" {
		line = "[" + dir + "] " + line
	}
	return func(d time.Duration) {
		l.zl.Debug(line, zap.Duration("took", d))
	}
}

// Verbose returns true if verbose mode is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// Close flushes buffered records and releases the log file, if any.
func (l *Logger) Close() error {
	_ = l.zl.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
