package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vaeleborne/rcpy/internal/config"
	"github.com/vaeleborne/rcpy/internal/engine"
	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/filter"
	"github.com/vaeleborne/rcpy/internal/stats"
	"github.com/vaeleborne/rcpy/internal/ui"
	"github.com/vaeleborne/rcpy/internal/ui/tui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// options holds every root command flag.
type options struct {
	singleThread bool
	workers      int
	verbose      bool
	onlyFiles    bool
	onlyDirs     bool
	dryRun       bool
	exclude      filter.ExclusionSet
	excludeFrom  string
	noRecursive  bool
	verify       bool
	bwLimit      string
	tui          bool
	noProgress   bool
	logFile      string
	debug        bool
	showVersion  bool
}

func run() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rcpy [flags] <source> <destination>",
		Short: "Copy a directory tree, in parallel, skipping excluded extensions",
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "rcpy %s\n", version)
				return nil
			}
			return runCopy(cmd, opts, args[0], args[1])
		},
	}

	f := rootCmd.Flags()
	f.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	f.BoolVarP(&opts.singleThread, "single-thread", "s", false, "copy on a single goroutine")
	f.IntVarP(&opts.workers, "workers", "n", runtime.NumCPU(), "number of copy workers")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print every directory and file")
	f.BoolVar(&opts.onlyFiles, "only-files", false, "print copied files only")
	f.BoolVar(&opts.onlyDirs, "only-dirs", false, "print created directories only")
	f.BoolVarP(&opts.dryRun, "dry-run", "d", false, "show what would be copied without writing")
	f.Var(&excludeFlag{set: &opts.exclude}, "exclude", "skip files with extension EXT (repeatable, comma-separated)")
	f.StringVar(&opts.excludeFrom, "exclude-from", "", "read excluded extensions from FILE")
	f.BoolVar(&opts.noRecursive, "no-recursive", false, "copy only the top level of the source")
	f.BoolVar(&opts.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	f.StringVar(&opts.bwLimit, "bwlimit", "", "bandwidth limit (e.g. 100M, 1G)")
	f.BoolVar(&opts.tui, "tui", false, "full-screen TUI (Bubble Tea)")
	f.BoolVar(&opts.noProgress, "no-progress", false, "disable the progress display")
	f.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	_ = f.MarkHidden("debug")

	rootCmd.MarkFlagsMutuallyExclusive("only-files", "only-dirs")

	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newInitConfigCmd())

	return rootCmd
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: CLI entry point wires every flag into the run
func runCopy(cmd *cobra.Command, opts *options, src, dst string) error {
	cfg, cfgErr := config.Load()
	applyConfigDefaults(cmd, cfg.Defaults, opts)

	verbosity, warning := ui.ResolveVerbosity(opts.verbose, opts.onlyFiles, opts.onlyDirs, opts.dryRun)

	closeLog, err := setupLogging(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfgErr != nil {
		slog.Warn("failed to load config", "error", cfgErr)
	}
	if warning != "" {
		slog.Warn(warning)
	}

	var bwLimit int64
	if opts.bwLimit != "" {
		bwLimit, err = config.ParseSize(opts.bwLimit)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
	}

	if opts.excludeFrom != "" {
		if err := opts.exclude.LoadFile(opts.excludeFrom); err != nil {
			return fmt.Errorf("load exclude file: %w", err)
		}
	}

	workers := opts.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if opts.singleThread {
		workers = 1
	}
	recursive := !opts.noRecursive

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)
	presenterEvents := (<-chan event.Event)(events)
	if opts.logFile != "" {
		presenterEvents = teeEvents(events)
	}

	engineCtx, engineCancel := context.WithCancel(ctx)
	defer engineCancel()

	isTTY := ui.IsTTY(os.Stderr.Fd())
	useTUI := opts.tui && isTTY
	if opts.tui && !isTTY {
		slog.Warn("--tui requires a terminal, falling back to inline output")
	}

	var presenter ui.Presenter
	if useTUI {
		presenter = tui.NewPresenter(tui.Config{
			Stats:     collector,
			Cancel:    engineCancel,
			Workers:   workers,
			SrcRoot:   src,
			DstRoot:   dst,
			Verbosity: verbosity,
			DryRun:    opts.dryRun,
			Theme:     cfg.Theme,
		})
	} else {
		presenter = ui.NewPresenter(ui.Config{
			Writer:     cmd.OutOrStdout(),
			ErrWriter:  cmd.ErrOrStderr(),
			Stats:      collector,
			SrcRoot:    src,
			DstRoot:    dst,
			Verbosity:  verbosity,
			DryRun:     opts.dryRun,
			Workers:    workers,
			IsTTY:      isTTY,
			NoProgress: opts.noProgress,
		})
		fmt.Fprintln(cmd.OutOrStdout(), ui.Banner(recursive, opts.dryRun, workers))
	}

	engineCfg := engine.Config{
		Src:       src,
		Dst:       dst,
		Recursive: recursive,
		Workers:   workers,
		DryRun:    opts.dryRun,
		Exclude:   opts.exclude,
		Verify:    opts.verify,
		BWLimit:   bwLimit,
		Events:    events,
		Stats:     collector,
	}

	slog.Debug("starting copy",
		"src", src,
		"dst", dst,
		"workers", workers,
		"recursive", recursive,
		"exclude", opts.exclude.String(),
		"bwlimit", bwLimit,
	)

	var result engine.Result
	if useTUI {
		// Bubble Tea owns the foreground so it can read stdin.
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			result = engine.Run(engineCtx, engineCfg)
			close(events)
		}()

		if err := presenter.Run(presenterEvents); err != nil {
			slog.Warn("tui failed", "error", err)
		}
		engineCancel()
		wg.Wait()
	} else {
		var presenterErr error
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			presenterErr = presenter.Run(presenterEvents)
		}()

		result = engine.Run(engineCtx, engineCfg)
		close(events)
		wg.Wait()
		if presenterErr != nil {
			fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
		}
	}

	return finish(cmd, presenter, result)
}

// finish prints the summary and maps the result onto an exit code.
func finish(cmd *cobra.Command, presenter ui.Presenter, result engine.Result) error {
	var fatal *engine.FatalError
	if errors.As(result.Err, &fatal) {
		fmt.Fprintf(cmd.ErrOrStderr(), "rcpy: %v\n", fatal)
		return &exitError{code: 2}
	}

	fmt.Fprintln(cmd.OutOrStdout(), presenter.Summary())

	switch {
	case result.Interrupted:
		slog.Warn("copy interrupted")
		return &exitError{code: 1}
	case result.Err != nil:
		slog.Debug("copy finished with errors", "error", result.Err)
		return &exitError{code: 1}
	}
	return nil
}

// setupLogging installs the default slog logger. With --log, records are
// also written as JSON to the log file; the returned func closes it.
func setupLogging(opts *options) (func(), error) {
	level := slog.LevelWarn
	switch {
	case opts.debug:
		level = slog.LevelDebug
	case opts.verbose:
		level = slog.LevelInfo
	}

	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	var handler slog.Handler = textHandler
	closeFn := func() {}

	if opts.logFile != "" {
		lf, err := os.Create(opts.logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closeFn = func() { _ = lf.Close() }
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		handler = ui.NewMultiHandler(textHandler, jsonHandler)
	}

	slog.SetDefault(slog.New(handler))
	return closeFn, nil
}

// teeEvents logs every event as a structured record before forwarding it.
func teeEvents(events <-chan event.Event) <-chan event.Event {
	teed := make(chan event.Event, 256)
	go func() {
		defer close(teed)
		for ev := range events {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("path", ev.Path),
			}
			if ev.DstPath != "" {
				attrs = append(attrs, slog.String("dst", ev.DstPath))
			}
			if ev.Size > 0 {
				attrs = append(attrs, slog.Int64("size", ev.Size))
			}
			if ev.WorkerID > 0 {
				attrs = append(attrs, slog.Int("worker", ev.WorkerID))
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			slog.LogAttrs(context.Background(), slog.LevelDebug, "rcpy.event", attrs...)
			teed <- ev
		}
	}()
	return teed
}

// applyConfigDefaults applies config file defaults for flags not explicitly
// set on the command line.
func applyConfigDefaults(cmd *cobra.Command, d config.DefaultsConfig, opts *options) {
	changed := cmd.Flags().Changed
	if !changed("workers") && d.Workers != nil {
		opts.workers = *d.Workers
	}
	if !changed("single-thread") && d.SingleThread != nil {
		opts.singleThread = *d.SingleThread
	}
	if !changed("no-recursive") && d.Recursive != nil {
		opts.noRecursive = !*d.Recursive
	}
	if !changed("exclude") {
		for _, ext := range d.Exclude {
			opts.exclude.Add(ext)
		}
	}
	if !changed("verify") && d.Verify != nil {
		opts.verify = *d.Verify
	}
	if !changed("bwlimit") && d.BWLimit != nil {
		opts.bwLimit = *d.BWLimit
	}
	if !changed("tui") && d.TUI != nil {
		opts.tui = *d.TUI
	}
	if !changed("no-progress") && d.NoProgress != nil {
		opts.noProgress = *d.NoProgress
	}
}

// excludeFlag is a repeatable pflag.Value; each use may carry a
// comma-separated list of extensions.
type excludeFlag struct {
	set *filter.ExclusionSet
}

var _ pflag.Value = (*excludeFlag)(nil)

func (f *excludeFlag) String() string {
	if f.set == nil {
		return ""
	}
	return f.set.String()
}

func (*excludeFlag) Type() string { return "ext" }

func (f *excludeFlag) Set(val string) error {
	exts := filter.SplitList(val)
	if len(exts) == 0 {
		return fmt.Errorf("empty extension list %q", val)
	}
	for _, ext := range exts {
		f.set.Add(ext)
	}
	return nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
