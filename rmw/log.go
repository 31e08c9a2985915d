package rmw

import (
	"sync"

	modular "github.com/edwinhayes/logrus-modular"
	"github.com/sirupsen/logrus"
)

const logModule = "rmw_dds"

var logger *logrus.Logger

var (
	rootLoggersMu sync.Mutex
	rootLoggers   = make(map[*logrus.Logger]modular.RootLogger)
)

// DefaultLogger returns the process wide logger.
func DefaultLogger() *logrus.Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger
}

// NewLogger returns a new instance of a logger
func NewLogger() *logrus.Logger {
	return logrus.New()
}

// moduleLogger returns the rmw_dds module of the root logger wrapping l.
// The level l has when first seen becomes the module level.
func moduleLogger(l *logrus.Logger) modular.ModuleLogger {
	if l == nil {
		l = DefaultLogger()
	}
	rootLoggersMu.Lock()
	defer rootLoggersMu.Unlock()
	root, ok := rootLoggers[l]
	if !ok {
		root = modular.NewRootLogger(l)
		rootLoggers[l] = root
	}
	return root.GetOrCreateChild(logModule, root.GetLevel())
}
