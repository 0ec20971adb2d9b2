package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mwantia/modkeep/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerService interface {
	Debug(msg string, args ...any)

	Info(msg string, args ...any)

	Warn(msg string, args ...any)

	Error(msg string, args ...any)

	Fatal(msg string, args ...any)

	Named(name string) LoggerService
}

type LoggerServiceImpl struct {
	LoggerService

	name    string
	level   LogLevel
	layout  string
	json    bool
	colored bool
	out     io.Writer
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

// NewLoggerService writes to stderr unless NoTerminal is set, and to the
// rotated file named by cfg.File.
func NewLoggerService(name string, cfg config.LogConfig) LoggerService {
	return newLogger(name, cfg, outputs(cfg), !cfg.NoTerminal && !cfg.NoColor)
}

// NewWriterLogger creates a logger that writes uncolored lines to w only.
func NewWriterLogger(name string, cfg config.LogConfig, w io.Writer) LoggerService {
	return newLogger(name, cfg, w, false)
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() LoggerService {
	return &LoggerServiceImpl{level: Fatal + 1, out: io.Discard}
}

func newLogger(name string, cfg config.LogConfig, out io.Writer, colored bool) *LoggerServiceImpl {
	return &LoggerServiceImpl{
		name:    name,
		level:   Parse(cfg.Level),
		layout:  cfg.TimeFormat,
		json:    cfg.JSON,
		colored: colored,
		out:     out,
	}
}

// Stdout carries reports and prompts, so terminal output goes to stderr.
func outputs(cfg config.LogConfig) io.Writer {
	var writers []io.Writer
	if !cfg.NoTerminal {
		writers = append(writers, os.Stderr)
	}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		})
	}

	switch len(writers) {
	case 0:
		return os.Stderr
	case 1:
		return writers[0]
	default:
		return io.MultiWriter(writers...)
	}
}

func (impl *LoggerServiceImpl) format(level LogLevel, msg string) []byte {
	var line bytes.Buffer
	timestamp := time.Now().Format(impl.layout)

	if impl.json {
		data, _ := json.Marshal(logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   impl.name,
			Message:   msg,
		})
		line.Write(data)
		line.WriteByte('\n')
		return line.Bytes()
	}

	if impl.colored {
		line.WriteString(Color(level))
	}
	fmt.Fprintf(&line, "[%s] %-5s", timestamp, level)
	if impl.name != "" {
		fmt.Fprintf(&line, " [%s]", impl.name)
	}
	line.WriteByte(' ')
	line.WriteString(msg)
	if impl.colored {
		line.WriteString("\033[0m")
	}
	line.WriteByte('\n')
	return line.Bytes()
}

func (impl *LoggerServiceImpl) log(level LogLevel, msg string, args ...any) {
	if level < impl.level {
		return
	}

	impl.out.Write(impl.format(level, fmt.Sprintf(msg, args...)))

	if level == Fatal {
		os.Exit(1)
	}
}

func (impl *LoggerServiceImpl) Debug(msg string, args ...any) {
	impl.log(Debug, msg, args...)
}

func (impl *LoggerServiceImpl) Info(msg string, args ...any) {
	impl.log(Info, msg, args...)
}

func (impl *LoggerServiceImpl) Warn(msg string, args ...any) {
	impl.log(Warn, msg, args...)
}

func (impl *LoggerServiceImpl) Error(msg string, args ...any) {
	impl.log(Error, msg, args...)
}

func (impl *LoggerServiceImpl) Fatal(msg string, args ...any) {
	impl.log(Fatal, msg, args...)
}

// Named returns a child logger sharing the output; names nest as parent/child.
func (impl *LoggerServiceImpl) Named(name string) LoggerService {
	child := *impl
	if impl.name != "" {
		child.name = impl.name + "/" + name
	} else {
		child.name = name
	}
	return &child
}
