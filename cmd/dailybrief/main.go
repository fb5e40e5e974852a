package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/dailybrief/dailybrief/pkg/config"
	"github.com/dailybrief/dailybrief/pkg/content"
	"github.com/dailybrief/dailybrief/pkg/digest"
	"github.com/dailybrief/dailybrief/pkg/feed"
	"github.com/dailybrief/dailybrief/pkg/llm"
	"github.com/dailybrief/dailybrief/pkg/notify"
	"github.com/dailybrief/dailybrief/pkg/scheduler"
	"github.com/dailybrief/dailybrief/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"config file (yaml), built-in defaults if omitted"`
	Once   bool   `long:"once" description:"run the pipeline once and exit"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"status server listen address, daemon mode only"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run loads config, wires the pipeline and executes the selected mode
func run(ctx context.Context, opts Opts) error {
	// load .env for local runs, ignore if absent
	_ = godotenv.Load()

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLog(opts.Debug, opts.NoColor, cfg.Telegram.Token, cfg.LLM.APIKey)

	log.Printf("[INFO] starting dailybrief version %s", revision)

	runner := makeRunner(cfg)

	if opts.Once {
		if err := runner.Run(ctx); err != nil {
			return fmt.Errorf("run failed: %w", err)
		}
		log.Print("[INFO] run completed")
		return nil
	}

	runDaemon(ctx, cfg, runner, opts)
	return nil
}

// makeRunner wires the pipeline components from config
func makeRunner(cfg *config.Config) *digest.Runner {
	extCfg := cfg.GetExtractionConfig()

	fetcher := feed.NewHTTPFetcher(30*time.Second, extCfg.UserAgent)
	reader := feed.NewReader(fetcher, cfg.Feeds, cfg.Digest.MaxAge, cfg.Digest.MaxItems)

	extractor := content.NewHTTPExtractor(extCfg.Timeout, extCfg.UserAgent, extCfg.MinTextLength)
	texts := content.NewBestEffort(extractor, content.NewSanitizer(extCfg.FallbackLimit))

	summarizer := llm.NewSummarizer(cfg.GetLLMConfig())
	telegram := notify.NewTelegram(cfg.GetTelegramConfig())

	return digest.NewRunner(reader, texts, summarizer, telegram, cfg.Digest.MaxItems, cfg.Digest.MaxLength)
}

// runDaemon runs the daily schedule loop with an optional status server
func runDaemon(ctx context.Context, cfg *config.Config, runner *digest.Runner, opts Opts) {
	tracker := server.NewTracker()

	if opts.Listen != "" {
		srv := server.New(opts.Listen, revision, opts.Debug, tracker)
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("[ERROR] status server failed: %v", err)
			}
		}()
	}

	daily := scheduler.NewDaily(cfg.Schedule.Hour, cfg.Schedule.Minute, cfg.Location())
	daily.OnSchedule(tracker.NextRun)

	daily.Run(ctx, func(ctx context.Context) error {
		err := runner.Run(ctx)
		tracker.RunCompleted(time.Now(), err)
		return err
	})
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(os.Stdout), lgr.Err(os.Stderr)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	// never log credentials
	secrets := make([]string, 0, len(secs))
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}

	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
