/*
Package appender configures the named loggers used by benchmarks and the
file outputs they write to.
*/
package appender

import (
	"sync"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"

	"github.com/mkenney/log-bench/internal/codes"
	"github.com/mkenney/log-bench/pkg/layout"
)

/*
Open opens every appender in cfg and builds its named loggers. If any
appender fails to open, the ones already opened are closed.
*/
func Open(cfg *Config) (*Registry, error) {
	if err := cfg.Validate(); nil != err {
		return nil, err
	}

	registry := &Registry{
		appenders: make(map[string]Appender, len(cfg.Appenders)),
		loggers:   make(map[string]*log.Logger, len(cfg.Loggers)),
		cache:     layout.NewFrameCache(),
	}

	var formatter log.Formatter = &layout.TextFormat{Cache: registry.cache, Caller: cfg.Caller}
	if FormatJSON == cfg.Format {
		formatter = &layout.JSONFormat{Cache: registry.cache, Caller: cfg.Caller}
	}

	for _, a := range cfg.Appenders {
		appender, err := New(a)
		if nil != err {
			registry.Close()
			return nil, errs.Wrap(err, codes.ErrAppenderOpen, "could not open appender '"+a.Name+"'")
		}
		registry.appenders[a.Name] = appender
	}

	for _, l := range cfg.Loggers {
		levelName := cfg.Level
		if "" != l.Level {
			levelName = l.Level
		}
		level, _ := log.ParseLevel(levelName)

		logger := log.New()
		logger.Out = registry.appenders[l.Appender]
		logger.Formatter = formatter
		logger.Level = level
		registry.loggers[l.Name] = logger

		log.WithFields(log.Fields{
			"logger":   l.Name,
			"appender": l.Appender,
			"level":    levelName,
		}).Debug("registered logger")
	}

	return registry, nil
}

/*
Registry holds the loggers built from a Config and the appenders they
write to.
*/
type Registry struct {
	mux       sync.Mutex
	appenders map[string]Appender
	loggers   map[string]*log.Logger
	cache     *layout.FrameCache
}

// Logger returns the logger configured under name, or the root logger if
// there is none.
func (registry *Registry) Logger(name string) *log.Logger {
	registry.mux.Lock()
	defer registry.mux.Unlock()
	if logger, ok := registry.loggers[name]; ok {
		return logger
	}
	return registry.loggers[RootLogger]
}

// Cache returns the frame cache shared by every logger's layout.
func (registry *Registry) Cache() *layout.FrameCache {
	return registry.cache
}

// Flush writes any buffered log data to disk.
func (registry *Registry) Flush() error {
	registry.mux.Lock()
	defer registry.mux.Unlock()
	var err error
	for _, appender := range registry.appenders {
		if ferr := appender.Flush(); nil != ferr && nil == err {
			err = ferr
		}
	}
	return err
}

// Close closes every appender and returns the first error encountered.
// Loggers must not be used after Close.
func (registry *Registry) Close() error {
	registry.mux.Lock()
	defer registry.mux.Unlock()
	var err error
	for name, appender := range registry.appenders {
		if cerr := appender.Close(); nil != cerr && nil == err {
			err = errs.Wrap(cerr, codes.ErrUnspecified, "could not close appender '"+name+"'")
		}
	}
	registry.appenders = map[string]Appender{}
	return err
}
