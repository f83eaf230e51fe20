package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"github.com/web3tea/logrelay/config"
	"github.com/web3tea/logrelay/console"
	"github.com/web3tea/logrelay/di"
	"github.com/web3tea/logrelay/mailbox"
	"github.com/web3tea/logrelay/models"
	"github.com/web3tea/logrelay/pkg/log"
	"github.com/web3tea/logrelay/settings"
	"github.com/web3tea/logrelay/sink"
)

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "Relay records read from stdin to a console mailbox",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to the config file",
			Value:   "logrelay.toml",
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		injector := di.SetupContainer(c.String("config"))

		cfg, err := do.Invoke[*config.Config](injector)
		if err != nil {
			return err
		}
		setupLogging(cfg)

		store := do.MustInvoke[settings.Store](injector)
		defer store.Close()
		registry := do.MustInvoke[*mailbox.MapRegistry](injector)

		// the demo destination: a console printer draining a named mailbox
		mbox := mailbox.New(0)
		registry.Register(cfg.Relay.Destination, mbox)
		printer := console.NewPrinter(mbox)

		done := make(chan struct{})
		go func() {
			defer close(done)
			printer.Run(ctx)
		}()

		s, err := sink.Init(cfg.Relay.Name, relayOptions(cfg), store, registry, log.NewLogger("sink", os.Stderr))
		if err != nil {
			return err
		}
		log.Infof("relay %s started, level=%s destination=%s", s.Name(), s.Config().Level, cfg.Relay.Destination)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			log.Infof("received signal: %s", sig.String())
			cancel()
		}()

		dispatch(ctx, s, os.Stdin)

		s.Handle(models.Flush{})
		mbox.Close()
		cancel()
		<-done
		return nil
	},
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.SetGlobalLevel(level)
}

func relayOptions(cfg *config.Config) sink.Options {
	opts := sink.Options{
		"level":       cfg.Relay.Level,
		"destination": cfg.Relay.Destination,
	}
	if cfg.Relay.Node != "" {
		opts["node"] = cfg.Relay.Node
	}
	if cfg.Relay.Formatter != "" {
		opts["formatter"] = cfg.Relay.Formatter
	}
	if len(cfg.Relay.Metadata) > 0 {
		md := make(map[string]any, len(cfg.Relay.Metadata))
		for k, v := range cfg.Relay.Metadata {
			md[k] = v
		}
		opts["metadata"] = md
	}
	return opts
}

// dispatch plays the host dispatcher: each input line becomes a record,
// optionally prefixed with a level ("warning: disk full"). The read happens
// on its own goroutine so cancellation is honored even while blocked on
// input.
func dispatch(ctx context.Context, s *sink.Sink, r io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			s.Handle(parseRecord(line))
		}
	}
}

func parseRecord(line string) models.Record {
	rec := models.Record{
		Level:     models.LevelInfo,
		Source:    "stdin",
		Message:   line,
		Timestamp: time.Now(),
	}
	if prefix, rest, ok := strings.Cut(line, ":"); ok {
		if level, err := models.ParseLevel(strings.TrimSpace(prefix)); err == nil {
			rec.Level = level
			rec.Message = strings.TrimSpace(rest)
		}
	}
	return rec
}
