package writers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

// DatedLayout is the date suffix of daily log files.
const DatedLayout = "2006-01-02"

// ErrUnsupportedOutput is returned for outputs that are neither a standard
// stream nor a local path.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// CreateWriter creates an io.Writer based on the output setting
// Supported formats:
//   - "stdout" or "" - writes to os.Stdout
//   - "stderr" - writes to os.Stderr
//   - "file:///path/to/file" - writes to file (creates directories if needed)
//   - "/path/to/file" - writes to file (creates directories if needed)
func CreateWriter(output string) (io.Writer, error) {
	switch {
	case output == "" || output == "stdout":
		return os.Stdout, nil
	case output == "stderr":
		return os.Stderr, nil
	case strings.HasPrefix(output, "file://"):
		return createFileWriter(strings.TrimPrefix(output, "file://"))
	case isFilePath(output):
		return createFileWriter(output)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOutput, output)
	}
}

// isFilePath determines if the string represents a local file path
func isFilePath(path string) bool {
	if strings.Contains(path, "://") && !strings.HasPrefix(path, "file://") {
		return false
	}
	return strings.Contains(path, "/") || strings.Contains(path, "\\") ||
		strings.HasSuffix(path, ".log")
}

// createFileWriter opens filePath for appending, creating parent directories.
func createFileWriter(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	return file, nil
}

// DatedFileName returns "<prefix>-YYYY-MM-DD.log".
func DatedFileName(prefix string, day time.Time) string {
	return fmt.Sprintf("%s-%s.log", prefix, day.Format(DatedLayout))
}

// CreateDatedFile opens (appending) the log file for the given day in dir.
func CreateDatedFile(dir, prefix string, day time.Time) (*os.File, error) {
	return createFileWriter(filepath.Join(dir, DatedFileName(prefix, day)))
}

// DeleteOldLogs removes "<prefix>-YYYY-MM-DD.log" files in dir whose date is
// more than maxAge before now. Files with other names are left alone. It
// returns the names it removed.
func DeleteOldLogs(dir, prefix string, maxAge time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log directory %s: %w", dir, err)
	}

	cutoff := now.Add(-maxAge)
	var removed []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stamp, ok := strings.CutPrefix(name, prefix+"-")
		if !ok {
			continue
		}
		stamp, ok = strings.CutSuffix(stamp, ".log")
		if !ok {
			continue
		}
		day, err := time.ParseInLocation(DatedLayout, stamp, now.Location())
		if err != nil {
			continue
		}
		if !day.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, name)
	}
	return removed, errors.Join(errs...)
}

// ParseWriterType determines the writer type from an output string
func ParseWriterType(output string) WriterType {
	if output == "" || output == "stdout" {
		return WriterTypeStdout
	}
	if output == "stderr" {
		return WriterTypeStderr
	}
	return WriterTypeFile
}
