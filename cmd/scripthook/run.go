package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/atlanticdynamic/scripthook/internal/host"
	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"
)

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "Load the scripts and run the host until interrupted",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file (defaults apply when omitted)",
			Aliases: []string{"c"},
		},
		&cli.BoolFlag{
			Name:  "stdin",
			Usage: "Submit each line read from stdin to the console",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Do not echo console output to stdout",
		},
	},
	Action: runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	var levelOverride string
	if cmd.IsSet("log-level") {
		levelOverride = cmd.String("log-level")
	}
	handler, closer, err := openLogHandler(cfg.Logging, levelOverride, time.Now())
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to set up logging: %w", err), 1)
	}
	defer func() { _ = closer.Close() }()
	slog.SetDefault(slog.New(handler))
	logger := slog.Default()

	var transcript io.Writer
	if !cmd.Bool("quiet") {
		transcript = cmd.Root().Writer
	}
	runner, err := newRunner(ctx, cfg, handler, transcript)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create host runner: %w", err), 1)
	}

	if cmd.Bool("stdin") {
		go func() {
			if err := feedLines(ctx, os.Stdin, runner.Execute); err != nil {
				logger.Warn("Stopped reading stdin", "error", err)
			}
		}()
	}

	super, err := supervisor.New(
		supervisor.WithRunnables(runner),
		supervisor.WithLogHandler(handler),
		supervisor.WithContext(ctx),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create supervisor: %w", err), 1)
	}
	if err := super.Run(); err != nil {
		return cli.Exit(fmt.Errorf("failed to run host: %w", err), 1)
	}

	logger.Info("Host shutdown complete")
	return nil
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewDefault(), nil
	}
	cfg, err := config.NewConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newRunner(ctx context.Context, cfg *config.Config, handler slog.Handler, transcript io.Writer) (*host.Runner, error) {
	opts := []host.Option{
		host.WithContext(ctx),
		host.WithLogHandler(handler),
	}
	if transcript != nil {
		opts = append(opts, host.WithTranscript(transcript))
	}
	return host.NewRunner(cfg, opts...)
}

// feedLines submits every non-blank line of r until r ends or ctx is done.
func feedLines(ctx context.Context, r io.Reader, submit func(string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		submit(line)
	}
	return scanner.Err()
}
