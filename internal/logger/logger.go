package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorOrange = "\033[38;5;208m"
)

// Logger writes leveled messages prefixed with the calling file and line.
// Everything goes to one writer so data on stdout is never interleaved with
// log lines.
type Logger struct {
	mu           sync.Mutex
	out          *log.Logger
	level        LogLevel
	color        bool
	showDateTime bool
}

var defaultLogger = New(os.Stderr, INFO)

// New returns a logger writing to w. Colours are used only when w is a
// terminal.
func New(w io.Writer, level LogLevel) *Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{
		out:   log.New(w, "", 0),
		level: level,
		color: color,
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(s string) (LogLevel, error) {
	for l := DEBUG; l <= FATAL; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) color() string {
	switch l {
	case DEBUG:
		return colorBlue
	case INFO:
		return colorGreen
	case WARN:
		return colorYellow
	case ERROR:
		return colorOrange
	case FATAL:
		return colorRed
	default:
		return colorReset
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) SetShowDateTime(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showDateTime = show
	if show {
		l.out.SetFlags(log.Ldate | log.Ltime)
	} else {
		l.out.SetFlags(0)
	}
}

func (l *Logger) Enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

// logf is called through exactly one wrapper, so the caller two frames up is
// the code that asked for the message.
func (l *Logger) logf(level LogLevel, format string, v ...any) {
	if !l.Enabled(level) {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	file = filepath.Base(file)

	msg := fmt.Sprintf(format, v...)
	if l.color {
		msg = level.color() + msg + colorReset
	}
	l.out.Printf("[%s] %s:%d: %s", level, file, line, msg)
}

func (l *Logger) Debug(format string, v ...any) { l.logf(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...any)  { l.logf(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...any)  { l.logf(WARN, format, v...) }
func (l *Logger) Error(format string, v ...any) { l.logf(ERROR, format, v...) }

func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

func SetShowDateTime(show bool) {
	defaultLogger.SetShowDateTime(show)
}

func Debug(format string, v ...any) {
	defaultLogger.logf(DEBUG, format, v...)
}

func Info(format string, v ...any) {
	defaultLogger.logf(INFO, format, v...)
}

func Warn(format string, v ...any) {
	defaultLogger.logf(WARN, format, v...)
}

func Fatal(format string, v ...any) {
	defaultLogger.logf(FATAL, format, v...)
	os.Exit(1)
}
