// botforge: perception and combat-timing core for a game bot.
// Connects to a game-client sidecar over WebSocket and serves the bot's
// believed state over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/botforge/go-botforge/internal/config"
	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/botforge"
	"github.com/botforge/go-botforge/pkg/bridge"
	"github.com/botforge/go-botforge/pkg/sound"
	"github.com/botforge/go-botforge/pkg/trace"
	"github.com/botforge/go-botforge/pkg/web"
)

var version = "0.1.0"

var (
	configPath = flag.String("config", "", "YAML config file (defaults are embedded)")
	tracePath  = flag.String("trace", "", "Write a CSV trace of tracked players to this file")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	url        = flag.String("url", "", "Game-client sidecar WebSocket URL to dial")
	port       = flag.String("port", "", "HTTP server port")
	noWeb      = flag.Bool("no-web", false, "Disable the HTTP server")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "botforge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags win over file and environment
	if *tracePath != "" {
		cfg.Trace.Path = *tracePath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *url != "" {
		cfg.Bridge.URL = *url
	}
	if *port != "" {
		cfg.Web.Port = *port
	}
	if *noWeb {
		cfg.Web.Enabled = false
	}

	log.Init(cfg.Log.Level)
	logger := log.Component("main")
	logger.Info("starting botforge", "version", version)

	rec, err := trace.Create(cfg.Trace.Path)
	if err != nil {
		return err
	}
	defer rec.Close()

	br := bridge.New(cfg.BridgeOptions())

	opts := []botforge.Option{}
	if cfg.Sound.Seed != 0 {
		opts = append(opts, botforge.WithSoundOptions(sound.WithSeed(cfg.Sound.Seed)))
	}
	if rec != nil {
		opts = append(opts, botforge.WithTickHook(rec.Hook()))
	}

	bot := botforge.New(botforge.Config{
		Sensory: cfg.SensoryOptions(),
		Sound:   cfg.SoundOptions(),
		Combat:  cfg.CombatOptions(),
	}, br, opts...)
	br.Attach(bot)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	errc := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		bot.Run(ctx)
	}()

	if cfg.Bridge.URL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := br.Run(ctx); err != nil {
				errc <- fmt.Errorf("bridge: %w", err)
			}
		}()
	}

	if cfg.Web.Enabled {
		srv := web.NewServer(cfg.WebOptions(), bot)
		br.RegisterRoutes(srv.App())
		br.RegisterAPIRoutes(srv.API())

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx); err != nil {
				errc <- fmt.Errorf("web: %w", err)
			}
		}()
	} else if cfg.Bridge.URL == "" {
		logger.Warn("no bridge URL and web disabled, nothing will feed the bot")
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errc:
		logger.Error("component failed", "error", err)
		stop()
	}

	if cerr := br.Close(); cerr != nil {
		logger.Warn("closing bridge", "error", cerr)
	}
	wg.Wait()

	logger.Info("stopped", "trace_rows", rec.Count())
	return err
}
