// Package log is the leveled diagnostic logger. Everything goes to stderr so
// stdout carries nothing but the result line.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	logger = newLogger(os.Stderr, logrus.WarnLevel)
)

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(level)
	return l
}

// Setup points the logger at w. Verbose enables debug output, otherwise
// only warnings and errors are written.
func Setup(w io.Writer, verbose bool) {
	level := logrus.WarnLevel
	if verbose {
		level = logrus.DebugLevel
	}

	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, level)
}

func current() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// WithField starts an entry carrying one structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return current().WithField(key, value)
}

func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}
