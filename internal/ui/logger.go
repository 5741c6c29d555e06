package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// LoggingConfig selects the process-wide logging behaviour. It is applied
// once at startup, before any subcommand runs.
type LoggingConfig struct {
	Verbosity int       // 0 = info, 1 = debug, >=2 = trace
	Quiet     bool      // only warnings and errors
	NoColor   bool      // plain prefixes
	Output    io.Writer // defaults to os.Stderr
}

// Level maps the configuration to a logrus threshold
func (c LoggingConfig) Level() logrus.Level {
	switch {
	case c.Quiet:
		return logrus.WarnLevel
	case c.Verbosity <= 0:
		return logrus.InfoLevel
	case c.Verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Logger provides color-coded, leveled operator messages
type Logger struct {
	log *logrus.Logger
}

// NewLogger creates a logger from cfg
func NewLogger(cfg LoggingConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(cfg.Level())
	l.SetFormatter(&prefixFormatter{noColor: cfg.NoColor || !isTerminal(out)})

	return &Logger{log: l}
}

// Level returns the active threshold
func (l *Logger) Level() logrus.Level {
	return l.log.GetLevel()
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Success logs a success message at info level
func (l *Logger) Success(format string, args ...interface{}) {
	l.log.WithField(successField, true).Infof(format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// Debug logs a debug message (-v)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// Trace logs a trace message (-vv)
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log.Tracef(format, args...)
}

const successField = "success"

// prefixFormatter renders "[LEVEL] message" lines
type prefixFormatter struct {
	noColor bool
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	label, attr := style(e)
	line := fmt.Sprintf("[%s] %s", label, e.Message)
	if !f.noColor {
		c := color.New(attr)
		c.EnableColor()
		line = c.Sprint(line)
	}
	return []byte(line + "\n"), nil
}

func style(e *logrus.Entry) (string, color.Attribute) {
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return "ERROR", color.FgRed
	case logrus.WarnLevel:
		return "WARNING", color.FgYellow
	case logrus.DebugLevel:
		return "DEBUG", color.FgCyan
	case logrus.TraceLevel:
		return "TRACE", color.FgMagenta
	}
	if _, ok := e.Data[successField]; ok {
		return "SUCCESS", color.FgGreen
	}
	return "INFO", color.FgBlue
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
