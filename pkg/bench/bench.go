/*
Package bench measures the cost of logging a debug message together with
an error carrying a deep stack trace.

Each benchmark writes through one of the configured loggers (see package
appender). The complex variants attach an error raised through a chain of
31 distinct call frames so that stack rendering and frame caching behave
as they would for an error from real application code; the simple
variants attach an error created directly by the caller.
*/
package bench

import (
	"regexp"
	"sync"
	"testing"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"

	"github.com/mkenney/log-bench/internal/codes"
	"github.com/mkenney/log-bench/pkg/appender"
	"github.com/mkenney/log-bench/pkg/layout"
	"github.com/mkenney/log-bench/pkg/stack"
)

// Message is the message logged by every benchmark.
const Message = "This is a debug message"

// Logger names.
const (
	PackageLogger             = "github.com/mkenney/log-bench/pkg/bench"
	FileAppenderLogger        = "FileAppender"
	RollingFileAppenderLogger = "RollingFileAppender"
)

var (
	// SimpleThrowable is created directly, with a shallow stack.
	SimpleThrowable = stack.Simple(stack.Message)

	// ComplexThrowable is raised through DefaultDepth layers of distinct
	// shapes.
	ComplexThrowable = stack.MustSynthesize(stack.DefaultDepth, stack.NumShapes)
)

/*
State holds the loggers used by a benchmark run.
*/
type State struct {
	Config   *appender.Config
	Registry *appender.Registry

	Logger              *log.Logger
	FileAppender        *log.Logger
	RollingFileAppender *log.Logger
}

// Setup loads the configuration named by LOG_BENCH_CONFIG, or the default
// configuration, and calls SetupConfig.
func Setup() (*State, error) {
	cfg, err := appender.LoadEnv()
	if nil != err {
		return nil, err
	}
	return SetupConfig(cfg)
}

// SetupConfig deletes log files left by earlier runs and opens the
// loggers in cfg.
func SetupConfig(cfg *appender.Config) (*State, error) {
	if err := appender.Remove(cfg); nil != err {
		return nil, err
	}
	registry, err := appender.Open(cfg)
	if nil != err {
		return nil, err
	}
	return &State{
		Config:              cfg,
		Registry:            registry,
		Logger:              registry.Logger(PackageLogger),
		FileAppender:        registry.Logger(FileAppenderLogger),
		RollingFileAppender: registry.Logger(RollingFileAppenderLogger),
	}, nil
}

// TearDown closes the loggers and deletes their log files.
func (s *State) TearDown() error {
	cerr := s.Registry.Close()
	if err := appender.Remove(s.Config); nil != err {
		return err
	}
	return cerr
}

// Benchmark is a single named operation to be measured.
type Benchmark struct {
	Name string
	Fn   func(s *State)
}

// Benchmarks lists every benchmark in reporting order.
var Benchmarks = []Benchmark{
	{"File", func(s *State) {
		s.Logger.WithField(layout.ErrorKey, ComplexThrowable).Debug(Message)
	}},
	{"FileAppender", func(s *State) {
		s.FileAppender.WithField(layout.ErrorKey, ComplexThrowable).Debug(Message)
	}},
	{"RollingFileAppender", func(s *State) {
		s.RollingFileAppender.WithField(layout.ErrorKey, ComplexThrowable).Debug(Message)
	}},
	{"FileSimple", func(s *State) {
		s.Logger.WithField(layout.ErrorKey, SimpleThrowable).Debug(Message)
	}},
	{"FileAppenderSimple", func(s *State) {
		s.FileAppender.WithField(layout.ErrorKey, SimpleThrowable).Debug(Message)
	}},
	{"RollingFileAppenderSimple", func(s *State) {
		s.RollingFileAppender.WithField(layout.ErrorKey, SimpleThrowable).Debug(Message)
	}},
}

// Select returns the benchmarks whose names match pattern. An empty
// pattern selects every benchmark.
func Select(pattern string) ([]Benchmark, error) {
	re, err := regexp.Compile(pattern)
	if nil != err {
		return nil, errs.Wrap(err, codes.ErrUnspecified, "invalid benchmark pattern")
	}
	selected := []Benchmark{}
	for _, bm := range Benchmarks {
		if re.MatchString(bm.Name) {
			selected = append(selected, bm)
		}
	}
	return selected, nil
}

/*
Runner runs benchmarks under the testing package.
*/
type Runner struct {
	// Config is the logging configuration. The configuration named by
	// LOG_BENCH_CONFIG, or the default, is used if nil.
	Config *appender.Config
	// Threads is the number of goroutines sharing the b.N iterations.
	// Values below 2 run the iterations on the benchmark goroutine.
	Threads int
}

/*
Run sets up the loggers, times b.N calls of bm split across r.Threads
goroutines, and tears the loggers down again. Throughput is reported as
the "ops/s" metric.
*/
func (r Runner) Run(b *testing.B, bm Benchmark) {
	var (
		s   *State
		err error
	)
	if nil == r.Config {
		s, err = Setup()
	} else {
		s, err = SetupConfig(r.Config)
	}
	if nil != err {
		b.Fatalf("%-v", err)
	}
	defer func() {
		if err := s.TearDown(); nil != err {
			b.Errorf("%-v", err)
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()
	if r.Threads < 2 {
		for i := 0; i < b.N; i++ {
			bm.Fn(s)
		}
	} else {
		runThreads(b.N, r.Threads, func() { bm.Fn(s) })
	}
	b.StopTimer()

	if elapsed := b.Elapsed(); elapsed > 0 {
		b.ReportMetric(float64(b.N)/elapsed.Seconds(), "ops/s")
	}
}

// runThreads calls fn n times in total from threads goroutines that are
// released together.
func runThreads(n, threads int, fn func()) {
	start := make(chan struct{})
	wg := new(sync.WaitGroup)
	for i := 0; i < threads; i++ {
		count := n / threads
		if i < n%threads {
			count++
		}
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			<-start
			for j := 0; j < count; j++ {
				fn()
			}
		}(count)
	}
	close(start)
	wg.Wait()
}
