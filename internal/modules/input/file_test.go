package input

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/feedpipe/runtime/internal/errhandling"
	"github.com/feedpipe/runtime/pkg/feed"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func openStream(t *testing.T, cfg FileConfig) feed.Stream {
	t.Helper()
	m, err := NewFileFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })

	stream, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return stream
}

func TestFileModule_JSONArray(t *testing.T) {
	path := writeTemp(t, "feed.json", `[{"title":"a","x":1},{"title":"b","x":2}]`)

	got, err := feed.Collect(openStream(t, FileConfig{Path: path}))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []feed.Record{
		{"title": "a", "x": float64(1)},
		{"title": "b", "x": float64(2)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("records = %v, want %v", got, want)
	}
}

func TestFileModule_NDJSON(t *testing.T) {
	path := writeTemp(t, "feed.ndjson", "{\"title\":\"a\"}\n{\"title\":\"b\"}\n")

	got, err := feed.Collect(openStream(t, FileConfig{Path: path}))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []feed.Record{{"title": "a"}, {"title": "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("records = %v, want %v", got, want)
	}
}

func TestFileModule_YAML(t *testing.T) {
	path := writeTemp(t, "feed.yaml", "- title: a\n  x: 1\n- title: b\n  x: 2\n")

	got, err := feed.Collect(openStream(t, FileConfig{Path: path}))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []feed.Record{
		{"title": "a", "x": 1},
		{"title": "b", "x": 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("records = %v, want %v", got, want)
	}
}

func TestFileModule_NonObjectElement(t *testing.T) {
	path := writeTemp(t, "feed.json", `[{"title":"a"}, 42]`)

	got, err := feed.Collect(openStream(t, FileConfig{Path: path}))
	if err == nil {
		t.Fatal("expected input type error, got nil")
	}
	if !errhandling.IsCategory(err, errhandling.CategoryInputType) {
		t.Errorf("error category = %v, want %v", errhandling.Classify(err), errhandling.CategoryInputType)
	}
	if len(got) != 1 {
		t.Errorf("records before failure = %d, want 1", len(got))
	}
}

func TestFileModule_TopLevelNotArray(t *testing.T) {
	path := writeTemp(t, "feed.json", `{"title":"a"}`)

	_, err := feed.Collect(openStream(t, FileConfig{Path: path}))
	if !errhandling.IsCategory(err, errhandling.CategoryInputType) {
		t.Errorf("error category = %v, want %v", errhandling.Classify(err), errhandling.CategoryInputType)
	}
}

func TestFileModule_LazyDecoding(t *testing.T) {
	path := writeTemp(t, "feed.json", `[{"i":0},{"i":1},{"i":2},{"i":3}]`)

	got, err := feed.Collect(feed.Take(openStream(t, FileConfig{Path: path}), 2))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}
}

func TestFileModule_MissingFile(t *testing.T) {
	m, err := NewFileFromConfig(FileConfig{Path: filepath.Join(t.TempDir(), "absent.json")})
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}
	if _, err := m.Open(context.Background()); !errhandling.IsCategory(err, errhandling.CategoryIO) {
		t.Errorf("error category = %v, want %v", errhandling.Classify(err), errhandling.CategoryIO)
	}
}

func TestNewFileFromConfig_Validation(t *testing.T) {
	if _, err := NewFileFromConfig(FileConfig{}); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := NewFileFromConfig(FileConfig{Path: "x", Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseFileConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		want    FileConfig
		wantErr bool
	}{
		{
			name:    "missing path",
			config:  map[string]any{},
			wantErr: true,
		},
		{
			name:    "non-string path",
			config:  map[string]any{"path": 1},
			wantErr: true,
		},
		{
			name:   "path only",
			config: map[string]any{"path": "feed.json"},
			want:   FileConfig{Path: "feed.json"},
		},
		{
			name:   "path and format",
			config: map[string]any{"path": "feed.txt", "format": "ndjson"},
			want:   FileConfig{Path: "feed.txt", Format: "ndjson"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFileConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFileConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFileConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"feed.json", FormatJSON},
		{"feed.ndjson", FormatNDJSON},
		{"feed.jsonl", FormatNDJSON},
		{"feed.yaml", FormatYAML},
		{"feed.yml", FormatYAML},
		{"feed", FormatJSON},
	}
	for _, tt := range tests {
		if got := detectFormat(tt.path); got != tt.want {
			t.Errorf("detectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
