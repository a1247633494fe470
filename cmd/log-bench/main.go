/*
log-bench measures the throughput of debug log calls that carry an error
with a deep stack trace.

	log-bench list
	log-bench run 'FileAppender' --warmup 10 --iterations 20 --threads 4

LOG_LEVEL sets the level of log-bench's own output (default "info").
The logging configuration under measurement is read from --config, or
the file named by LOG_BENCH_CONFIG, or the built in default.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"testing"
	"text/tabwriter"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"
	"github.com/spf13/cobra"

	"github.com/mkenney/log-bench/internal/codes"
	"github.com/mkenney/log-bench/pkg/appender"
	"github.com/mkenney/log-bench/pkg/bench"
)

func init() {
	// log level and format
	levelFlag := os.Getenv("LOG_LEVEL")
	if "" == levelFlag {
		levelFlag = "info"
	}
	level, err := log.ParseLevel(levelFlag)
	if nil != err {
		log.WithField("err", err).Warnf("%-v", err)
		level, _ = log.ParseLevel("debug")
	}
	log.SetFormatter(&log.TextFormatter{
		ForceTTY: true,
	})
	log.SetLevel(level)
}

func main() {
	if err := newRootCmd().Execute(); nil != err {
		log.Fatalf("%-v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "log-bench",
		Short:         "log-bench measures logging throughput with deep stack traces",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newListCmd())
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available benchmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, bm := range bench.Benchmarks {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), bm.Name); nil != err {
					return err
				}
			}
			return nil
		},
	}
}

type runOptions struct {
	config     string
	benchtime  string
	warmup     int
	iterations int
	threads    int
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run [pattern]",
		Short: "Run the benchmarks matching a regular expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) > 0 {
				pattern = args[0]
			}
			return run(cmd.OutOrStdout(), pattern, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "logging configuration file (default $"+appender.EnvConfigFile+" or built in)")
	flags.StringVar(&opts.benchtime, "time", "1s", "run time of each iteration, or a fixed count as Nx")
	flags.IntVarP(&opts.warmup, "warmup", "w", 10, "warmup iterations")
	flags.IntVarP(&opts.iterations, "iterations", "i", 20, "measurement iterations")
	flags.IntVarP(&opts.threads, "threads", "t", 1, "goroutines logging concurrently")
	return cmd
}

type result struct {
	name   string
	scores []float64
}

func run(w io.Writer, pattern string, opts runOptions) error {
	if opts.iterations < 1 || opts.warmup < 0 || opts.threads < 1 {
		return errs.New(codes.ErrUnspecified, "iterations and threads must be positive, warmup must not be negative")
	}

	benchmarks, err := bench.Select(pattern)
	if nil != err {
		return err
	}
	if 0 == len(benchmarks) {
		return errs.New(codes.ErrUnspecified, fmt.Sprintf("no benchmarks match '%s'", pattern))
	}

	cfg, err := loadConfig(opts.config)
	if nil != err {
		return err
	}

	// Surface setup failures here; inside testing.Benchmark they only
	// produce an empty result.
	s, err := bench.SetupConfig(cfg)
	if nil != err {
		return err
	}
	if err := s.TearDown(); nil != err {
		return err
	}

	testing.Init()
	if err := flag.Set("test.benchtime", opts.benchtime); nil != err {
		return errs.Wrap(err, codes.ErrUnspecified, "invalid iteration time")
	}

	runner := bench.Runner{Config: cfg, Threads: opts.threads}
	results := make([]result, 0, len(benchmarks))
	for _, bm := range benchmarks {
		bm := bm
		measure := func() (float64, error) {
			r := testing.Benchmark(func(b *testing.B) { runner.Run(b, bm) })
			if 0 == r.N {
				return 0, errs.New(codes.ErrUnspecified, fmt.Sprintf("benchmark '%s' failed", bm.Name))
			}
			return float64(r.N) / r.T.Seconds(), nil
		}

		for i := 0; i < opts.warmup; i++ {
			score, err := measure()
			if nil != err {
				return err
			}
			log.WithFields(log.Fields{
				"benchmark": bm.Name,
				"iteration": i + 1,
				"ops/s":     fmt.Sprintf("%.3f", score),
			}).Debug("warmup iteration")
		}

		res := result{name: bm.Name, scores: make([]float64, 0, opts.iterations)}
		for i := 0; i < opts.iterations; i++ {
			score, err := measure()
			if nil != err {
				return err
			}
			res.scores = append(res.scores, score)
			log.WithFields(log.Fields{
				"benchmark": bm.Name,
				"iteration": i + 1,
				"ops/s":     fmt.Sprintf("%.3f", score),
			}).Info("iteration")
		}
		results = append(results, res)
	}

	return report(w, results)
}

func loadConfig(file string) (*appender.Config, error) {
	if "" == file {
		return appender.LoadEnv()
	}
	return appender.Load(file)
}

// report writes one line per benchmark with the mean throughput and its
// standard deviation across iterations.
func report(w io.Writer, results []result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Benchmark\tMode\tCnt\tScore\t\tError\tUnits\t")
	for _, res := range results {
		mean, stddev := meanStddev(res.scores)
		fmt.Fprintf(tw, "%s\tthrpt\t%d\t%.3f\t±\t%.3f\tops/s\t\n", res.name, len(res.scores), mean, stddev)
	}
	return tw.Flush()
}

func meanStddev(scores []float64) (mean, stddev float64) {
	if 0 == len(scores) {
		return 0, 0
	}
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))
	if len(scores) < 2 {
		return mean, 0
	}
	for _, s := range scores {
		stddev += (s - mean) * (s - mean)
	}
	return mean, math.Sqrt(stddev / float64(len(scores)-1))
}
