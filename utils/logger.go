package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	out *logrus.Logger
}

// NewLogger creates a new Logger writing to stdout.
func NewLogger() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{out: l}
}

func (l *Logger) Info(format string, args ...any) {
	l.out.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.out.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.out.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.out.Debugf(format, args...)
}
