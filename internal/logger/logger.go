package logger

import (
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type Logger struct {
	level  int
	prefix string
	out    *log.Logger
}

// New returns a logger writing to stderr.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithFile also writes to a size-rotated file when path is non-empty.
func NewWithFile(level, path string) *Logger {
	if path == "" {
		return New(level)
	}
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	return NewWithWriter(level, io.MultiWriter(os.Stderr, rotating))
}

func NewWithWriter(level string, w io.Writer) *Logger {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = levels["info"]
	}
	return &Logger{
		level: lvl,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// WithPrefix returns a logger that tags every line with a component name.
func (l *Logger) WithPrefix(prefix string) *Logger {
	p := "[" + prefix + "] "
	if l.prefix != "" {
		p = l.prefix + p
	}
	return &Logger{level: l.level, prefix: p, out: l.out}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.logf(levels["debug"], "[DEBUG] ", msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.logf(levels["info"], "[INFO] ", msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.logf(levels["warn"], "[WARN] ", msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.logf(levels["error"], "[ERROR] ", msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.out.Printf("[FATAL] "+l.prefix+msg, args...)
	os.Exit(1)
}

// Writer exposes the underlying output for libraries that log on their own.
func (l *Logger) Writer() io.Writer {
	return l.out.Writer()
}

// IsDebug reports whether debug output is enabled.
func (l *Logger) IsDebug() bool {
	return l.level <= levels["debug"]
}

func (l *Logger) logf(level int, tag, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf(tag+l.prefix+msg, args...)
}
