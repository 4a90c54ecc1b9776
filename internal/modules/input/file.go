// Package input provides implementations for input modules.
// This file implements the "file" input module for reading feed records from
// a local file or stdin.
//
// Supported formats: a JSON array of objects, newline-delimited JSON (one
// object per line), and a YAML sequence of mappings. JSON formats are decoded
// incrementally, so the stream stays lazy over arbitrarily large files; YAML
// is decoded in one pass (the yaml decoder has no token-level streaming for
// sequences).
package input

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/feedpipe/runtime/internal/errhandling"
	"github.com/feedpipe/runtime/internal/logger"
	"github.com/feedpipe/runtime/pkg/feed"
)

// Feed formats accepted by the file input module.
const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// StdinPath selects stdin as the feed source.
const StdinPath = "-"

// FileConfig represents the configuration for a file input module.
type FileConfig struct {
	// Path is the feed file path, or "-" for stdin (required)
	Path string `json:"path"`
	// Format is the feed format: "json", "ndjson", or "yaml".
	// Empty means detect from the file extension, defaulting to JSON.
	Format string `json:"format,omitempty"`
}

// FileModule implements the file input that streams records from a file.
type FileModule struct {
	path   string
	format string
	reader io.ReadCloser
}

// NewFileFromConfig creates a new file input module from configuration.
func NewFileFromConfig(config FileConfig) (*FileModule, error) {
	if config.Path == "" {
		return nil, errors.New("feed file path is required")
	}

	format := config.Format
	if format == "" {
		format = detectFormat(config.Path)
	}
	switch format {
	case FormatJSON, FormatNDJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", format)
	}

	logger.Debug("file input module initialized", "path", config.Path, "format", format)

	return &FileModule{path: config.Path, format: format}, nil
}

// ParseFileConfig parses a raw configuration map into FileConfig.
func ParseFileConfig(config map[string]any) (FileConfig, error) {
	var cfg FileConfig

	p, ok := config["path"].(string)
	if !ok || p == "" {
		return cfg, errors.New("'path' is required")
	}
	cfg.Path = p

	if format, ok := config["format"].(string); ok {
		cfg.Format = format
	}

	return cfg, nil
}

// Open implements the input.Module interface.
// It opens the source and returns a stream decoding records on demand.
func (m *FileModule) Open(ctx context.Context) (feed.Stream, error) {
	var r io.ReadCloser
	if m.path == StdinPath {
		r = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(m.path)
		if err != nil {
			return nil, errhandling.NewIOError(err, "opening feed file")
		}
		r = f
	}
	m.reader = r

	switch m.format {
	case FormatNDJSON:
		return m.streamNDJSON(ctx, r), nil
	case FormatYAML:
		return m.streamYAML(ctx, r), nil
	default:
		return m.streamJSONArray(ctx, r), nil
	}
}

// Close releases the underlying reader, if open.
func (m *FileModule) Close() error {
	if m.reader == nil {
		return nil
	}
	err := m.reader.Close()
	m.reader = nil
	return err
}

// streamJSONArray decodes a JSON array of objects token by token, yielding
// one record per element without reading ahead.
func (m *FileModule) streamJSONArray(ctx context.Context, r io.Reader) feed.Stream {
	return func(yield func(feed.Record, error) bool) {
		dec := json.NewDecoder(r)

		tok, err := dec.Token()
		if err != nil {
			yield(nil, errhandling.NewIOError(err, "reading feed"))
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			yield(nil, errhandling.NewInputTypeError(tok))
			return
		}

		for dec.More() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			var element any
			if err := dec.Decode(&element); err != nil {
				yield(nil, errhandling.NewIOError(err, "decoding feed element"))
				return
			}
			record, ok := element.(map[string]any)
			if !ok {
				yield(nil, errhandling.NewInputTypeError(element))
				return
			}
			if !yield(feed.Record(record), nil) {
				return
			}
		}

		if _, err := dec.Token(); err != nil {
			yield(nil, errhandling.NewIOError(err, "reading feed"))
		}
	}
}

// streamNDJSON decodes newline-delimited JSON, one object per value.
func (m *FileModule) streamNDJSON(ctx context.Context, r io.Reader) feed.Stream {
	return func(yield func(feed.Record, error) bool) {
		dec := json.NewDecoder(r)

		for dec.More() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			var element any
			if err := dec.Decode(&element); err != nil {
				yield(nil, errhandling.NewIOError(err, "decoding feed element"))
				return
			}
			record, ok := element.(map[string]any)
			if !ok {
				yield(nil, errhandling.NewInputTypeError(element))
				return
			}
			if !yield(feed.Record(record), nil) {
				return
			}
		}
	}
}

// streamYAML decodes a YAML sequence of mappings in one pass and yields the
// elements in order.
func (m *FileModule) streamYAML(ctx context.Context, r io.Reader) feed.Stream {
	return func(yield func(feed.Record, error) bool) {
		var elements []any
		if err := yaml.NewDecoder(r).Decode(&elements); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			yield(nil, errhandling.NewIOError(err, "decoding feed"))
			return
		}

		for _, element := range elements {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			record, ok := element.(map[string]any)
			if !ok {
				yield(nil, errhandling.NewInputTypeError(element))
				return
			}
			if !yield(feed.Record(record), nil) {
				return
			}
		}
	}
}

// detectFormat maps a file extension to a feed format, defaulting to JSON.
func detectFormat(filepath string) string {
	switch strings.ToLower(path.Ext(filepath)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Verify interface compliance at compile time
var _ Module = (*FileModule)(nil)
