package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/perfy/internal/observe"
	"github.com/psantana5/perfy/internal/report"
	"github.com/psantana5/perfy/internal/wrapper"
	"github.com/psantana5/perfy/pkg/metrics"
	"github.com/psantana5/perfy/pkg/perf"
	"github.com/psantana5/perfy/pkg/shutdown"
	"github.com/psantana5/perfy/pkg/tracing"
)

type runOptions struct {
	name         string
	repeat       int
	concurrent   bool
	printMetrics bool
	hold         bool
	dir          string
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Time a command",
		Long: `Run executes a command under a named high-resolution timer and prints the
measurement. With --repeat the command runs several times, one after the
other or, with --concurrent, all at once.

Example:
  perfy run -- make build
  perfy run --name encode --repeat 5 -- ffmpeg -i in.mp4 out.mp4
  perfy run --repeat 4 --concurrent --metrics-addr :9464 --hold -- ./bench.sh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasure(cmd, a, opts, args)
		},
	}

	flags := runCmd.Flags()
	flags.StringVarP(&opts.name, "name", "n", "", "timer name (default: command base name)")
	flags.IntVarP(&opts.repeat, "repeat", "r", 1, "number of times to run the command")
	flags.BoolVar(&opts.concurrent, "concurrent", false, "start all repeats at once")
	flags.BoolVar(&opts.printMetrics, "print-metrics", false, "print Prometheus metrics after the report")
	flags.BoolVar(&opts.hold, "hold", false, "keep serving metrics until interrupted (requires --metrics-addr)")
	flags.StringVar(&opts.dir, "dir", "", "working directory for the command")
	flags.String("metrics-addr", "", "serve /metrics and /health on this address")
	a.viper.BindPFlag("metrics_addr", flags.Lookup("metrics-addr"))

	return runCmd
}

func runMeasure(cmd *cobra.Command, a *app, opts *runOptions, args []string) error {
	if opts.repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", opts.repeat)
	}
	if opts.hold && a.cfg.MetricsAddr == "" {
		return fmt.Errorf("--hold requires --metrics-addr")
	}

	ctx := cmd.Context()
	mgr := shutdown.New(10*time.Second, a.log)

	tp, err := tracing.InitTracer(a.cfg.TracingSettings(Version), a.log)
	if err != nil {
		return err
	}
	mgr.Register(tp.Shutdown)

	exporter := metrics.NewExporter()
	reg := perf.New(
		perf.WithObserver(observe.NewLogObserver(a.log)),
		perf.WithObserver(exporter),
		perf.WithObserver(tracing.NewSpanObserver(ctx, tp)),
	)
	if err := exporter.TrackActive(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	if a.cfg.MetricsAddr != "" {
		srv, err := startMetricsServer(a.cfg.MetricsAddr, exporter, a.log)
		if err != nil {
			return err
		}
		mgr.Register(shutdown.StopHTTPServer(srv, "metrics"))
	}

	command := wrapper.Command{
		Path:   args[0],
		Args:   args[1:],
		Dir:    opts.dir,
		Stdout: cmd.ErrOrStderr(),
		Stderr: cmd.ErrOrStderr(),
	}
	names := timerNames(opts.name, args[0], opts.repeat)

	rep := report.New(args, report.DetectHost())
	if opts.concurrent {
		rep.AddOutcomes(wrapper.RunConcurrent(ctx, reg, names, command)...)
	} else {
		for _, name := range names {
			rep.AddOutcomes(wrapper.Run(ctx, reg, name, command))
		}
	}

	out := cmd.OutOrStdout()
	if err := rep.Write(out, a.cfg.Output); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if opts.printMetrics {
		fmt.Fprintln(out)
		if err := exporter.WriteText(out); err != nil {
			return err
		}
	}

	var shutdownErr error
	if opts.hold {
		a.log.Info("Serving metrics until interrupted", map[string]interface{}{"addr": a.cfg.MetricsAddr})
		shutdownErr = mgr.WaitWithContext(ctx)
	} else {
		shutdownErr = mgr.Shutdown()
	}
	if shutdownErr != nil {
		a.log.Warn("Shutdown incomplete", map[string]interface{}{"error": shutdownErr.Error()})
	}

	if failed := rep.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(rep.Runs))
	}
	return nil
}

// timerNames returns name for a single run and name#1..name#n otherwise
func timerNames(name, command string, repeat int) []string {
	if name == "" {
		name = filepath.Base(command)
	}
	if repeat == 1 {
		return []string{name}
	}
	names := make([]string, repeat)
	for i := range names {
		names[i] = fmt.Sprintf("%s#%d", name, i+1)
	}
	return names
}
