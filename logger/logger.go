package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with a map-fields API. It is constructed once
// per process and handed to each component; there is no package-level logger.
type Logger struct {
	logger  zerolog.Logger
	service string
	file    *os.File
}

// New creates a logger writing to the configured console stream and, when
// cfg.Dir is set, to a fresh file named after the process start time.
func New(cfg *Config, serviceName string) (*Logger, error) {
	return newAt(cfg, serviceName, time.Now())
}

func newAt(cfg *Config, serviceName string, start time.Time) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var console io.Writer
	if strings.ToLower(cfg.Format) == "json" {
		console = outputWriter(cfg.Output)
	} else {
		console = newConsoleWriter(cfg, serviceName)
	}

	l := &Logger{service: serviceName}
	writers := []io.Writer{console}
	if cfg.Dir != "" {
		f, err := openRunFile(cfg.Dir, cfg.FilePrefix, start)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, f)
	}

	zc := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	if serviceName != "" {
		zc = zc.Str(FieldService, serviceName)
	}
	l.logger = zc.Logger()
	return l, nil
}

// NewWriter creates a logger that writes JSON lines to w. Intended for tests.
func NewWriter(w io.Writer, serviceName string) *Logger {
	return &Logger{
		logger:  zerolog.New(w).With().Str(FieldService, serviceName).Logger(),
		service: serviceName,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// FilePath returns the path of the run log file, or "" when no file sink is open.
func (l *Logger) FilePath() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close flushes and closes the run log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.logger.With().Str(FieldComponent, name).Logger())
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return l.derive(zc.Logger())
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.logger.With().Err(err).Logger())
}

// GetLogger returns the underlying zerolog.Logger.
func (l *Logger) GetLogger() zerolog.Logger {
	return l.logger
}

// StdLogger adapts the logger to *log.Logger for libraries that only accept
// the standard type. Every line is logged at level.
func (l *Logger) StdLogger(level zerolog.Level) *log.Logger {
	return log.New(levelWriter{logger: l.logger, level: level}, "", 0)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	event := l.logger.Debug()
	addFields(event, fields...)
	event.Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	event := l.logger.Info()
	addFields(event, fields...)
	event.Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	event := l.logger.Warn()
	addFields(event, fields...)
	event.Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	event := l.logger.Error()
	addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) derive(zl zerolog.Logger) *Logger {
	// Derived loggers share the file; only the root closes it.
	return &Logger{logger: zl, service: l.service}
}

// --- internal helpers ---

type levelWriter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.logger.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func addFields(event *zerolog.Event, fields ...map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
}

// RunFileName returns the log file name used for a process started at t.
func RunFileName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.log", prefix, t.Format("20060102_150405"))
}

func openRunFile(dir, prefix string, start time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, RunFileName(prefix, start))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

func outputWriter(output string) *os.File {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}

func newConsoleWriter(cfg *Config, serviceName string) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        outputWriter(cfg.Output),
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl := levelTag(strings.ToUpper(fmt.Sprintf("%s", i)), cfg.NoColor)
			if len(serviceName) >= 3 {
				tag := strings.ToUpper(serviceName[:3])
				if !cfg.NoColor {
					return fmt.Sprintf("\033[34m[%s]\033[0m%s", tag, lvl)
				}
				return fmt.Sprintf("[%s]%s", tag, lvl)
			}
			return lvl
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
		// service is already shown as the level prefix
		FieldsExclude: []string{FieldService},
	}
}

var levelColors = map[string]struct {
	short string
	color string
}{
	"DEBUG": {"DBG", "36"},
	"INFO":  {"INF", "32"},
	"WARN":  {"WRN", "33"},
	"ERROR": {"ERR", "31"},
	"FATAL": {"FTL", "35"},
}

func levelTag(lvl string, noColor bool) string {
	lc, ok := levelColors[lvl]
	if !ok {
		return fmt.Sprintf("[%s]", lvl)
	}
	if noColor {
		return "[" + lc.short + "]"
	}
	return fmt.Sprintf("\033[%sm[%s]\033[0m", lc.color, lc.short)
}
