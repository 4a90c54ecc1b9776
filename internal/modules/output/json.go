// Package output provides implementations for output modules.
// This file implements the "json" output module for writing feed records to
// stdout or a local file.
//
// Records are encoded as they arrive from the stream: the module never
// materializes the feed. The array form writes one element per record inside
// a JSON array; the ndjson form writes one JSON object per line.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/feedpipe/runtime/internal/errhandling"
	"github.com/feedpipe/runtime/internal/logger"
	"github.com/feedpipe/runtime/pkg/feed"
)

// Output formats produced by the json output module.
const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// StdoutPath selects stdout as the destination.
const StdoutPath = "-"

// JSONConfig represents the configuration for a json output module.
type JSONConfig struct {
	// Path is the destination file path, or "-" for stdout.
	// Empty defaults to stdout.
	Path string `json:"path,omitempty"`
	// Format is "json" (array, default) or "ndjson" (one object per line).
	Format string `json:"format,omitempty"`
}

// JSONModule implements the json output that writes records to a file or stdout.
type JSONModule struct {
	path   string
	format string
	file   *os.File
}

// NewJSONFromConfig creates a new json output module from configuration.
func NewJSONFromConfig(config JSONConfig) (*JSONModule, error) {
	format := config.Format
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatNDJSON {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	path := config.Path
	if path == "" {
		path = StdoutPath
	}

	logger.Debug("json output module initialized", "path", path, "format", format)

	return &JSONModule{path: path, format: format}, nil
}

// ParseJSONConfig parses a raw configuration map into JSONConfig.
func ParseJSONConfig(config map[string]any) (JSONConfig, error) {
	var cfg JSONConfig

	if raw, ok := config["path"]; ok {
		path, isString := raw.(string)
		if !isString {
			return cfg, errors.New("'path' must be a string")
		}
		cfg.Path = path
	}
	if format, ok := config["format"].(string); ok {
		cfg.Format = format
	}

	return cfg, nil
}

// Send implements the output.Module interface.
// It consumes the stream, writing each record as it arrives. On a stream
// error the records already written stay written and the error is returned
// with the count of delivered records.
func (m *JSONModule) Send(ctx context.Context, records feed.Stream) (int, error) {
	w, err := m.open()
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	sent := 0

	if m.format == FormatNDJSON {
		for record, err := range records {
			if err != nil {
				return sent, err
			}
			if err := ctx.Err(); err != nil {
				return sent, err
			}
			if err := enc.Encode(record); err != nil {
				return sent, errhandling.NewIOError(err, "writing feed record")
			}
			sent++
		}
		return sent, nil
	}

	if _, err := io.WriteString(w, "[\n"); err != nil {
		return 0, errhandling.NewIOError(err, "writing feed")
	}
	for record, err := range records {
		if err != nil {
			return sent, err
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if sent > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return sent, errhandling.NewIOError(err, "writing feed")
			}
		}
		if err := enc.Encode(record); err != nil {
			return sent, errhandling.NewIOError(err, "writing feed record")
		}
		sent++
	}
	if _, err := io.WriteString(w, "]\n"); err != nil {
		return sent, errhandling.NewIOError(err, "writing feed")
	}

	return sent, nil
}

// Close releases the destination file, if one was opened.
func (m *JSONModule) Close() error {
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	return err
}

// open returns the destination writer, creating the file on first use.
func (m *JSONModule) open() (io.Writer, error) {
	if m.path == StdoutPath {
		return os.Stdout, nil
	}
	if m.file != nil {
		return m.file, nil
	}
	f, err := os.Create(m.path)
	if err != nil {
		return nil, errhandling.NewIOError(err, "creating output file")
	}
	m.file = f
	return f, nil
}

// Verify interface compliance at compile time
var _ Module = (*JSONModule)(nil)
