package appender

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mkenney/log-bench/internal/codes"
)

const defaultBufferSize = 8192

/*
Appender is a log output. Appenders are safe for concurrent use.
*/
type Appender interface {
	io.WriteCloser
	// Name returns the configured appender name.
	Name() string
	// Flush writes any buffered data to the underlying file.
	Flush() error
}

/*
New opens the output described by cfg, creating parent directories as
needed. File appenders append to an existing file.
*/
func New(cfg AppenderConfig) (Appender, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); nil != err {
		return nil, errs.Wrap(err, codes.ErrAppenderOpen, "could not create log directory")
	}

	switch cfg.Type {
	case TypeFile:
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if nil != err {
			return nil, errs.Wrap(err, codes.ErrAppenderOpen, "could not open log file")
		}
		a := &fileAppender{name: cfg.Name, file: file}
		if cfg.Buffered {
			size := cfg.BufferSize
			if 0 == size {
				size = defaultBufferSize
			}
			a.buf = bufio.NewWriterSize(file, size)
		}
		log.WithFields(log.Fields{
			"appender": cfg.Name,
			"path":     cfg.Path,
			"buffered": cfg.Buffered,
		}).Debug("opened file appender")
		return a, nil

	case TypeRolling:
		log.WithFields(log.Fields{
			"appender":    cfg.Name,
			"path":        cfg.Path,
			"max_size":    cfg.MaxSize,
			"max_backups": cfg.MaxBackups,
		}).Debug("opened rolling appender")
		return &rollingAppender{
			name: cfg.Name,
			out: &lumberjack.Logger{
				Filename:   cfg.Path,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
				LocalTime:  true,
			},
		}, nil
	}

	return nil, errs.New(codes.ErrAppenderOpen, "unknown appender type '"+cfg.Type+"'")
}

// fileAppender writes to a single file, optionally through a buffer.
type fileAppender struct {
	name string

	mux  sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

func (a *fileAppender) Name() string { return a.name }

func (a *fileAppender) Write(p []byte) (int, error) {
	a.mux.Lock()
	defer a.mux.Unlock()
	if nil != a.buf {
		return a.buf.Write(p)
	}
	return a.file.Write(p)
}

func (a *fileAppender) Flush() error {
	a.mux.Lock()
	defer a.mux.Unlock()
	if nil == a.buf {
		return nil
	}
	return a.buf.Flush()
}

func (a *fileAppender) Close() error {
	a.mux.Lock()
	defer a.mux.Unlock()
	var err error
	if nil != a.buf {
		err = a.buf.Flush()
	}
	if cerr := a.file.Close(); nil == err {
		err = cerr
	}
	return err
}

// rollingAppender rolls its file over by size using lumberjack.
type rollingAppender struct {
	name string
	out  *lumberjack.Logger
}

func (a *rollingAppender) Name() string                { return a.name }
func (a *rollingAppender) Write(p []byte) (int, error) { return a.out.Write(p) }
func (a *rollingAppender) Flush() error                { return nil }
func (a *rollingAppender) Close() error                { return a.out.Close() }

/*
Files returns the files an appender configured by cfg may have written:
its path and, for rolling appenders, any rolled over backups.
*/
func Files(cfg AppenderConfig) []string {
	files := []string{cfg.Path}
	if TypeRolling != cfg.Type {
		return files
	}
	// lumberjack names backups <name>-<timestamp><ext>, with an optional
	// .gz suffix when compressed.
	ext := filepath.Ext(cfg.Path)
	prefix := strings.TrimSuffix(cfg.Path, ext) + "-"
	backups, _ := filepath.Glob(prefix + "*" + ext + "*")
	return append(files, backups...)
}

/*
Remove deletes every file written by the appenders in cfg. Missing files,
including paths below a regular file, are not an error.
*/
func Remove(cfg *Config) error {
	for _, a := range cfg.Appenders {
		for _, file := range Files(a) {
			if err := os.Remove(file); nil != err && !os.IsNotExist(err) && !errors.Is(err, syscall.ENOTDIR) {
				return errs.Wrap(err, codes.ErrUnspecified, "could not delete log file '"+file+"'")
			}
		}
	}
	return nil
}
