// Package logging hands out the package level JSON loggers so their level can be changed together.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	loggers []*logrus.Logger
	level   = logrus.InfoLevel
)

// New returns a JSON logger at the shared level
func New() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})

	mu.Lock()
	defer mu.Unlock()
	l.SetLevel(level)
	loggers = append(loggers, l)
	return l
}

// SetLevel applies level to every logger from New, including ones created later
func SetLevel(l logrus.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	for _, logger := range loggers {
		logger.SetLevel(l)
	}
}
