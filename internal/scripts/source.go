package scripts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/config"
)

// Source describes one script file to load.
type Source struct {
	Name       string
	Path       string
	Runtime    string
	Interval   time.Duration
	Entrypoint string
}

func sourceFromPath(path string) Source {
	base := filepath.Base(path)
	return Source{
		Name:       strings.TrimSuffix(base, filepath.Ext(base)),
		Path:       path,
		Runtime:    config.RuntimeForPath(path),
		Entrypoint: config.DefaultEntrypoint,
	}
}

func sourceFromConfig(sc config.ScriptConfig) Source {
	src := sourceFromPath(sc.Path)
	if sc.Name != "" {
		src.Name = sc.Name
	}
	if sc.Entrypoint != "" {
		src.Entrypoint = sc.Entrypoint
	}
	src.Interval = sc.Interval.AsDuration()
	return src
}

// Discover lists the scripts in dir followed by the explicit entries.
// Explicit entries override a scanned file with the same path, and disabled
// paths are skipped. A missing directory is not an error.
func Discover(dir string, entries []config.ScriptConfig, disabled map[string]bool) ([]Source, error) {
	var found []Source
	if dir != "" {
		dirEntries, err := os.ReadDir(dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
		default:
			for _, e := range dirEntries {
				if e.IsDir() || config.RuntimeForPath(e.Name()) == "" {
					continue
				}
				found = append(found, sourceFromPath(filepath.Join(dir, e.Name())))
			}
		}
	}

	for _, sc := range entries {
		src := sourceFromConfig(sc)
		idx := slices.IndexFunc(found, func(f Source) bool {
			return filepath.Clean(f.Path) == filepath.Clean(src.Path)
		})
		if idx >= 0 {
			found[idx] = src
			continue
		}
		found = append(found, src)
	}

	return slices.DeleteFunc(found, func(s Source) bool {
		return disabled[filepath.Clean(s.Path)]
	}), nil
}
