package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pershin-daniil/meetups/internal/meetup"
	"github.com/pershin-daniil/meetups/pkg/config"
	"github.com/pershin-daniil/meetups/pkg/logger"
	"github.com/pershin-daniil/meetups/pkg/metrics"
	"github.com/pershin-daniil/meetups/pkg/service"
)

func main() {
	flags, err := parseFlags(os.Args[0], os.Args[1:], flag.ExitOnError, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags.profile)
	if err != nil {
		logrus.Fatal(err)
	}
	level := cfg.LogLevel
	if flags.verbose {
		level = logrus.DebugLevel.String()
	}
	log, err := logger.New(level)
	if err != nil {
		logrus.Fatal(err)
	}
	runID := uuid.New().String()
	entry := log.WithField("run", runID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		entry.Info("Received signal, cancelling request...")
		cancel()
	}()

	opts := flags.options(cfg.Search)
	m := metrics.New()
	client := meetup.New(ctx, entry, cfg, runID)
	app := service.NewMeetupService(entry, cfg, client, m)
	runErr := app.Run(ctx, opts, os.Stdout)

	if cfg.PushgatewayURL != "" {
		search := ""
		if opts.Search != nil {
			search = *opts.Search
		}
		if err = m.Push(cfg.PushgatewayURL, search); err != nil {
			entry.Warnf("err pushing metrics: %v", err)
		}
	}
	if runErr != nil {
		cancel()
		entry.Fatal(runErr)
	}
}
