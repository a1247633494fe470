package appender

import (
	"fmt"
	"io/ioutil"
	"os"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"
	yaml "gopkg.in/yaml.v2"

	"github.com/mkenney/log-bench/internal/codes"
)

// EnvConfigFile names a YAML file that replaces the default configuration.
const EnvConfigFile = "LOG_BENCH_CONFIG"

// RootLogger is the logger used for names without their own configuration.
const RootLogger = "root"

// Appender types.
const (
	TypeFile    = "file"
	TypeRolling = "rolling"
)

// Layout formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the logging configuration for a benchmark run.
type Config struct {
	Level     string           `yaml:"level"`
	Format    string           `yaml:"format"`
	Caller    bool             `yaml:"caller"`
	Appenders []AppenderConfig `yaml:"appenders"`
	Loggers   []LoggerConfig   `yaml:"loggers"`
}

// AppenderConfig describes a single log output.
type AppenderConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Path string `yaml:"path"`

	// file appenders
	Buffered   bool `yaml:"buffered"`
	BufferSize int  `yaml:"buffer_size"`

	// rolling appenders
	MaxSize    int  `yaml:"max_size"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAge     int  `yaml:"max_age"`
	Compress   bool `yaml:"compress"`
}

// LoggerConfig binds a named logger to an appender. Level overrides the
// configuration level when set.
type LoggerConfig struct {
	Name     string `yaml:"name"`
	Appender string `yaml:"appender"`
	Level    string `yaml:"level"`
}

/*
DefaultConfig writes every benchmark logger at debug level to its own file
under target/.
*/
const DefaultConfig = `
level: debug
format: text
appenders:
  - name: File
    type: file
    path: target/test-file.log
  - name: BufferedFile
    type: file
    path: target/test-buffered.log
    buffered: true
    buffer_size: 262144
  - name: RollingFile
    type: rolling
    path: target/test-rolling.log
    max_size: 100
    max_backups: 5
loggers:
  - name: root
    appender: BufferedFile
  - name: FileAppender
    appender: File
  - name: RollingFileAppender
    appender: RollingFile
`

// Default returns the parsed DefaultConfig.
func Default() *Config {
	cfg, err := Parse([]byte(DefaultConfig))
	if nil != err {
		panic(err)
	}
	return cfg
}

// Parse decodes and validates a YAML configuration.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); nil != err {
		return nil, errs.Wrap(err, codes.ErrInvalidConfig, "could not parse logging configuration")
	}
	if err := cfg.Validate(); nil != err {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration in file. An empty file name returns the
// default configuration.
func Load(file string) (*Config, error) {
	if "" == file {
		return Default(), nil
	}
	contents, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, errs.Wrap(err, codes.ErrInvalidConfig, fmt.Sprintf("could not read logging configuration '%s'", file))
	}
	return Parse(contents)
}

// LoadEnv loads the file named by the LOG_BENCH_CONFIG environment
// variable, or the default configuration if it is unset.
func LoadEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfigFile))
}

// Validate checks that levels and formats are known, appenders are
// complete and uniquely named, and every logger, including the root
// logger, refers to a configured appender.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Level); nil != err {
		return errs.Wrap(err, codes.ErrInvalidConfig, fmt.Sprintf("invalid level '%s'", c.Level))
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return invalid("unknown format '%s'", c.Format)
	}

	appenders := map[string]bool{}
	for _, a := range c.Appenders {
		if "" == a.Name {
			return invalid("appender with empty name")
		}
		if appenders[a.Name] {
			return invalid("duplicate appender '%s'", a.Name)
		}
		appenders[a.Name] = true
		if "" == a.Path {
			return invalid("appender '%s' has no path", a.Name)
		}
		switch a.Type {
		case TypeFile:
			if a.BufferSize < 0 {
				return invalid("appender '%s' has a negative buffer size", a.Name)
			}
		case TypeRolling:
			if a.MaxSize < 0 || a.MaxBackups < 0 || a.MaxAge < 0 {
				return invalid("appender '%s' has a negative rollover limit", a.Name)
			}
		default:
			return invalid("appender '%s' has unknown type '%s'", a.Name, a.Type)
		}
	}

	loggers := map[string]bool{}
	for _, l := range c.Loggers {
		if "" == l.Name {
			return invalid("logger with empty name")
		}
		if loggers[l.Name] {
			return invalid("duplicate logger '%s'", l.Name)
		}
		loggers[l.Name] = true
		if !appenders[l.Appender] {
			return invalid("logger '%s' refers to unknown appender '%s'", l.Name, l.Appender)
		}
		if "" != l.Level {
			if _, err := log.ParseLevel(l.Level); nil != err {
				return errs.Wrap(err, codes.ErrInvalidConfig, fmt.Sprintf("logger '%s' has invalid level '%s'", l.Name, l.Level))
			}
		}
	}
	if !loggers[RootLogger] {
		return invalid("no '%s' logger configured", RootLogger)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errs.New(codes.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
