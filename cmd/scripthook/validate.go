package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/urfave/cli/v3"
)

var validateCmd = &cli.Command{
	Name:    "validate",
	Aliases: []string{"lint"},
	Usage:   "Validate a configuration file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "Show detailed tree view of the validated configuration",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
		},
	},
	Suggest: true,
	Action:  validateAction,
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return fmt.Errorf(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
			)
		}
		configPath = cmd.Args().Get(0)
	}
	return validateLocal(ctx, cmd.Root().Writer, configPath, cmd.Bool("tree"))
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	summary.WriteString(fmt.Sprintf("- Path: %s\n", path))
	summary.WriteString(fmt.Sprintf("- Version: %s\n", cfg.Version))
	summary.WriteString(fmt.Sprintf("- Scripts dir: %s\n", cfg.Host.ScriptsDir))
	summary.WriteString(fmt.Sprintf("- Script entries: %d (%d disabled)\n",
		len(cfg.Scripts), len(cfg.Scripts)-len(cfg.EnabledScripts())))
	summary.WriteString(fmt.Sprintf("- Console language: %s\n", cfg.Console.Language))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}

func validateLocal(_ context.Context, out io.Writer, configPath string, treeView bool) error {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Fprintf(out, "Configuration file %s is valid\n", configPath)

	if treeView {
		fmt.Fprintln(out, cfg)
		return nil
	}

	fmt.Fprintln(out, renderConfigSummary(configPath, cfg))
	return nil
}
