package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storytimeline/internal/autoplay"
	"storytimeline/internal/capture"
	"storytimeline/internal/config"
	appLog "storytimeline/internal/log"
	"storytimeline/internal/slideshow"
	"storytimeline/internal/store"
	"storytimeline/internal/web"
)

const version = "0.1.0"

// flagConfig holds CLI flag values; non-empty ones override the config file.
type flagConfig struct {
	configPath string
	dotenvPath string
	listen     string
	events     string
	exportDir  string
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	defer appLog.Sync()

	appLog.Info("storytimeline starting", "version", version)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if err := config.ApplyEnv(conf, flags.dotenvPath); err != nil {
		appLog.Error("failed to apply environment overrides", err)
		os.Exit(1)
	}

	// CLI flags override both the file and the environment.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.events != "" {
		conf.Events = flags.events
	}
	if flags.exportDir != "" {
		conf.ExportDir = flags.exportDir
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"events", conf.Events,
		"media_dir", conf.MediaDir,
		"locale", conf.Locale,
		"transition_ms", conf.TransitionMS,
		"autoplay", conf.Autoplay,
		"export", flags.exportDir != "",
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	events, err := store.Load(ctx, conf.Events, store.Options{
		CacheDir:       conf.CacheDir,
		DateLayout:     conf.DateLayout,
		Location:       time.Local,
		Until:          conf.Until(time.Now()),
		MaxOccurrences: conf.MaxOccurrences,
	})
	if err != nil {
		appLog.Error("failed to load events", err, "events", conf.Events)
		os.Exit(1)
	}

	deck, err := slideshow.NewDeck(events, slideshow.WithDelay(conf.TransitionDelay()))
	if err != nil {
		appLog.Error("failed to build slideshow", err)
		os.Exit(1)
	}
	defer deck.Close()

	srv := web.NewServer(conf, deck, flags.debug)

	if flags.exportDir != "" {
		if err := runExport(ctx, conf, srv, deck.Len()); err != nil {
			appLog.Error("export failed", err, "dir", conf.ExportDir)
			os.Exit(1)
		}
		return
	}

	if conf.Autoplay != "" {
		player, err := autoplay.New(conf.Autoplay, deck, conf.AutoplayLoop)
		if err != nil {
			appLog.Error("failed to configure autoplay", err)
			os.Exit(1)
		}
		go player.Run(ctx)
	}

	if err := srv.Run(ctx); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}
	appLog.Info("storytimeline exiting")
}

// runExport serves the slideshow on an ephemeral loopback port and captures
// every /print/{index} page into conf.ExportDir.
func runExport(ctx context.Context, conf *config.Config, srv *web.Server, count int) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}

	srvCtx, stop := context.WithCancel(ctx)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(srvCtx, ln)
	}()

	written, err := capture.ExportSlides(ctx, capture.ExportOptions{
		BaseURL: "http://" + ln.Addr().String(),
		Dir:     conf.ExportDir,
		Count:   count,
		Width:   conf.Capture.Width,
		Height:  conf.Capture.Height,
		Timeout: time.Duration(conf.Capture.TimeoutSec) * time.Second,
	})
	stop()
	if serveErr := <-errCh; serveErr != nil && err == nil {
		err = serveErr
	}
	if err != nil {
		return err
	}
	appLog.Info("export complete", "slides", len(written), "dir", conf.ExportDir)
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.yaml", "Path to config file (created with defaults if missing)")
	flag.StringVar(&cfg.dotenvPath, "env-file", ".env", "Optional dotenv file with STORYTIMELINE_* overrides")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.events, "events", "", "Event source path or URL (overrides config if set)")
	flag.StringVar(&cfg.exportDir, "export", "", "Capture every slide as PNG into this directory and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
