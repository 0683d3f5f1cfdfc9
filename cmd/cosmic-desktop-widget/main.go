// Command cosmic-desktop-widget renders a small always-on desktop panel of
// clock/weather/system-monitor/countdown/quotes widgets as a
// wlr-layer-shell surface on the bottom layer, below application windows.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/config"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/launcher"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/loop"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/weather"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cfgPath  = flag.String("config", "", "path to config.toml (default: $XDG_CONFIG_HOME/cosmic-desktop-widget/config.toml)")
		logLevel = flag.String("log-level", envOr("COSMIC_WIDGET_LOG", "info"), "log level: trace, debug, info, warn, error")
	)
	flag.Parse()

	log := newLogger(*logLevel)

	if os.Getenv("WAYLAND_DISPLAY") == "" {
		log.Error().Msg("WAYLAND_DISPLAY is not set; this daemon requires a running Wayland compositor")
		return 1
	}

	path := *cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			log.Error().Err(err).Msg("resolve default config path")
			return 1
		}
		path = p
	}

	r, err := loop.New(log, path, launcher.OS{}, weather.NewClient())
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received, finishing current pass")
		r.Shutdown()
		cancel()
	}()

	if err := r.Run(ctx); err != nil {
		log.Error().Err(err).Msg("daemon exited with error")
		return 1
	}
	return 0
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writer = os.Stderr
	var logger zerolog.Logger
	if isatty.IsTerminal(writer.Fd()) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(writer)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
