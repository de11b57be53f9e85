package config

import (
	"fmt"

	"github.com/atlanticdynamic/scripthook/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("scripthook config (%s)", cfg.Version)))

	logging := fancy.Tree().Root("Logging")
	logging.Child(fmt.Sprintf("Format: %s", orDefault(cfg.Logging.Format.String(), "text")))
	logging.Child(fmt.Sprintf("Level: %s", orDefault(cfg.Logging.Level.String(), "info")))
	if cfg.Logging.Directory != "" {
		logging.Child(fmt.Sprintf("Directory: %s", fancy.PathText(cfg.Logging.Directory)))
		logging.Child(fmt.Sprintf("Max age: %d days", cfg.Logging.MaxAgeDays))
	} else {
		logging.Child(fmt.Sprintf("Output: %s", orDefault(cfg.Logging.Output, "stderr")))
	}

	host := fancy.Tree().Root("Host")
	host.Child(fmt.Sprintf("Frame interval: %s", cfg.Host.FrameInterval))
	host.Child(fmt.Sprintf("Reload key: %s", cfg.Host.ReloadKey))
	host.Child(fmt.Sprintf("Scripts dir: %s", fancy.PathText(cfg.Host.ScriptsDir)))
	host.Child(fmt.Sprintf("Parallel loads: %d", cfg.Host.MaxParallelLoads))

	console := fancy.Tree().Root("Console")
	console.Child(fmt.Sprintf("Open key: %s", cfg.Console.OpenKey))
	console.Child(fmt.Sprintf("Language: %s", cfg.Console.Language))
	console.Child(fmt.Sprintf("Lines per page: %d", cfg.Console.LinesPerPage))
	console.Child(fmt.Sprintf("Close block: %s", cfg.Console.CloseBlock))
	console.Child(fmt.Sprintf("Compile timeout: %s", cfg.Console.CompileTimeout))

	t.Child(logging, host, console)

	scripts := fancy.BranchNode("Scripts", fmt.Sprintf("(%d)", len(cfg.Scripts)))
	for _, s := range cfg.Scripts {
		label := fancy.ScriptText(s.Name)
		if s.Disabled {
			label = fancy.ErrorText(s.Name + " (disabled)")
		}
		node := fancy.Tree().Root(label)
		node.Child(fmt.Sprintf("Path: %s", fancy.PathText(s.Path)))
		node.Child(fmt.Sprintf("Runtime: %s", s.Runtime()))
		if s.Interval > 0 {
			node.Child(fmt.Sprintf("Interval: %s", s.Interval))
		}
		if s.Entrypoint != "" {
			node.Child(fmt.Sprintf("Entrypoint: %s", s.Entrypoint))
		}
		scripts.Child(node)
	}
	t.Child(scripts)

	return t.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
