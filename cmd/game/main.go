package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/tomz197/ripples/internal/audio"
	"github.com/tomz197/ripples/internal/config"
	"github.com/tomz197/ripples/internal/logging"
	"github.com/tomz197/ripples/internal/loop/client"
	"github.com/tomz197/ripples/internal/loop/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game, so logs go to a file when asked for.
	log, err := logging.New(config.GetEnv("LOG_LEVEL", "warn"), config.GetEnv("LOG_FORMAT", "text"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.WithError(err).Fatal("failed to open log file")
		}
		defer f.Close()
		log.SetOutput(f)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.WithError(err).Fatal("invalid settings")
	}

	opts := client.ClientOptions{Username: os.Getenv("USER"), Logger: log}
	if sound, err := config.GetEnvBool("SOUND", true); err == nil && sound {
		player := audio.NewPlayer(0.4)
		if err := player.Init(); err != nil {
			// Non-fatal, the game runs without sound.
			log.WithError(err).Warn("audio unavailable")
		} else {
			defer player.Close()
			opts.Sound = player
		}
	}

	if err := run(settings, opts, log); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, opts client.ClientOptions, log *logrus.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := server.NewServer(settings, log)
	go gs.Run(ctx)

	c := client.NewClient(gs, bufio.NewReader(os.Stdin), os.Stdout, opts)
	return c.Run()
}
