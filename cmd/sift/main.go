// Package main is the sift CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hyperjump/sift/internal/cli"
	"github.com/hyperjump/sift/internal/config"
	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/internal/pipeline"
	"github.com/hyperjump/sift/internal/server"
	"github.com/hyperjump/sift/internal/storage"
	"github.com/hyperjump/sift/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/sift/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if present; when neither exists the built-in defaults are used.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				cfg, err := config.Load(fallback)
				if err != nil {
					return nil, "", err
				}
				return cfg, fallback, nil
			}
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// flagsFirst moves flags that follow positional arguments to the front, so
// "sift process report.pdf --output json" parses like the flags-first form.
func flagsFirst(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// jobFlags are the flags shared by run and process.
type jobFlags struct {
	config  *string
	debug   *bool
	persona *string
	task    *string
	topK    *int
}

func addJobFlags(fs *flag.FlagSet) *jobFlags {
	return &jobFlags{
		config:  fs.String("config", defaultConfigPath, "config file path"),
		debug:   fs.Bool("debug", false, "enable debug logging"),
		persona: fs.String("persona", "", "reader persona (default from config)"),
		task:    fs.String("task", "", "task the reader wants to accomplish (default from config)"),
		topK:    fs.Int("top-k", 0, "number of sections to keep (default from config)"),
	}
}

// apply overrides cfg with the flags that were set.
func (f *jobFlags) apply(cfg *config.Config) {
	if *f.debug {
		cfg.Debug = true
	}
	if *f.persona != "" {
		cfg.Pipeline.Persona = *f.persona
	}
	if *f.task != "" {
		cfg.Pipeline.Task = *f.task
	}
	if *f.topK > 0 {
		cfg.Pipeline.TopK = *f.topK
	}
}

func jobFromConfig(cfg *config.Config) models.Job {
	return models.Job{Persona: cfg.Pipeline.Persona, Task: cfg.Pipeline.Task, TopK: cfg.Pipeline.TopK}
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	var err error
	switch command := os.Args[1]; command {
	case "run":
		err = runBatch(os.Args[2:], os.Stdout)
	case "process":
		err = runProcess(os.Args[2:], os.Stdout)
	case "serve", "server":
		err = runServe(os.Args[2:])
	case "status":
		err = runStatus(os.Args[2:], os.Stdout)
	case "version", "--version", "-v":
		fmt.Printf("sift version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads and validates config and builds a logger.
func setup(configPath string, apply func(*config.Config)) (*config.Config, *zap.Logger, error) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(cfg.Debug, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", cfg.Debug))
	return cfg, logger, nil
}

func runBatch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	jf := addJobFlags(fs)
	input := fs.String("input", "", "input directory (default from config)")
	output := fs.String("output", "", "output directory (default from config)")
	workers := fs.Int("workers", 0, "documents processed concurrently (default from config)")
	schedule := fs.String("schedule", "", "cron expression; repeat the run until interrupted")
	_ = fs.Parse(args)

	cfg, logger, err := setup(*jf.config, func(cfg *config.Config) {
		jf.apply(cfg)
		if *input != "" {
			cfg.Input.Directory = *input
		}
		if *output != "" {
			cfg.Output.Directory = *output
		}
		if *workers > 0 {
			cfg.Pipeline.Workers = *workers
		}
		if *schedule != "" {
			cfg.Pipeline.Schedule = *schedule
		}
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		return err
	}
	defer components.Close()

	batch := pipeline.NewBatch(components.Pipeline,
		pipeline.WithStore(components.Storage),
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithExtensions(cfg.Input.Extensions),
		pipeline.WithBatchLogger(logger),
	)
	job := jobFromConfig(cfg)
	runOnce := func(ctx context.Context) error {
		summary, err := batch.Run(ctx, cfg.Input.Directory, cfg.Output.Directory, job)
		if summary != nil {
			printRunSummary(out, summary)
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Pipeline.Schedule == "" {
		return runOnce(ctx)
	}

	c := newScheduler(logger)
	_, err = c.AddJob(cfg.Pipeline.Schedule, skipOverlapping(logger, func() {
		logger.Info("scheduled run triggered")
		if err := runOnce(ctx); err != nil {
			logger.Warn("scheduled run failed", zap.Error(err))
		}
	}))
	if err != nil {
		return fmt.Errorf("failed to set up schedule %q: %w", cfg.Pipeline.Schedule, err)
	}
	c.Start()
	logger.Info("scheduled batch runs", zap.String("schedule", cfg.Pipeline.Schedule))

	<-ctx.Done()
	logger.Info("Shutting down...")
	// Wait for a run in progress to observe the cancellation and finish.
	<-c.Stop().Done()
	return nil
}

func printRunSummary(w io.Writer, s *pipeline.RunSummary) {
	fmt.Fprintf(w, "Run %s: %d processed, %d failed in %s\n", s.RunID, s.Processed, s.Failed, s.Duration.Round(time.Millisecond))
	for _, rec := range s.Documents {
		if rec.Status == models.StatusOK {
			fmt.Fprintf(w, "  ok      %s -> %s\n", rec.Document, rec.OutputPath)
		} else {
			fmt.Fprintf(w, "  failed  %s (%s): %s\n", rec.Document, rec.ErrorKind, rec.Error)
		}
	}
}

func printProcessUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: sift process [flags] <file>\n\n")
	fs.PrintDefaults()
}

func runProcess(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	jf := addJobFlags(fs)
	outputFormat := fs.String("output", "json", "output format: json or text")
	fs.Usage = func() { printProcessUsage(fs) }
	_ = fs.Parse(flagsFirst(args))

	if fs.NArg() != 1 {
		printProcessUsage(fs)
		return errors.New("process takes exactly one file")
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	cfg, logger, err := setup(*jf.config, jf.apply)
	if err != nil {
		return err
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	result, err := components.Pipeline.ProcessFile(ctx, fs.Arg(0), jobFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("%w (%s)", err, models.Classify(err))
	}
	return cli.WriteResult(out, result, format)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	cfg, logger, err := setup(*configPath, func(cfg *config.Config) { cfg.Debug = cfg.Debug || *debug })
	if err != nil {
		return err
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		return err
	}
	defer components.Close()

	srv := server.NewServer(components.Pipeline, components.Storage, &cfg.Server, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sigChan:
	}

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func runStatus(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	recent := fs.Int("recent", 5, "number of recent runs to list")
	_ = fs.Parse(args)

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()

	status, err := storage.Status(context.Background(), store, *recent)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	return cli.WriteStatus(out, status, format)
}

func printUsage() {
	fmt.Println(`sift - Persona-driven section ranking and summarization for documents

Usage:
  sift run [flags]              Process every document in the input directory
  sift process [flags] <file>   Process one document and print the result
  sift serve [flags]            Start the HTTP API
  sift status [flags]           Show ledger counts and recent runs
  sift version                  Show version
  sift help                     Show this help

Run Flags:
  --config string     Config file path (default: /usr/local/etc/sift/config.yaml)
  --input string      Input directory
  --output string     Output directory for <document>.json results
  --persona string    Reader persona
  --task string       Task the reader wants to accomplish
  --top-k int         Number of sections to keep
  --workers int       Documents processed concurrently
  --schedule string   Cron expression; repeat the run until interrupted
  --debug             Enable debug logging

Process Flags:
  --config, --persona, --task, --top-k, --debug as for run
  --output string     Output format: json or text (default: json)

Serve Flags:
  --config string     Config file path
  --debug             Enable debug logging

Status Flags:
  --config string     Config file path
  --output string     Output format: text or json (default: text)
  --recent int        Number of recent runs to list (default: 5)

Environment (also read from .env):
  SIFT_OLLAMA_URL, ANTHROPIC_API_KEY, SIFT_PERSONA, SIFT_TASK

Examples:
  sift run --input ./docs --output ./out --persona "travel planner" --task "plan a 4-day trip"
  sift run --schedule "0 6 * * *"
  sift process report.pdf --output text
  sift status --output json`)
}
