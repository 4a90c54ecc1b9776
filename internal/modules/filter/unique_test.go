package filter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/feedpipe/runtime/internal/errhandling"
	"github.com/feedpipe/runtime/pkg/feed"
)

func mustUnique(t *testing.T, key string) *UniqueModule {
	t.Helper()
	m, err := NewUniqueFromConfig(UniqueConfig{UniqKey: key})
	if err != nil {
		t.Fatalf("NewUniqueFromConfig() error = %v", err)
	}
	return m
}

func collect(t *testing.T, s feed.Stream) []feed.Record {
	t.Helper()
	records, err := feed.Collect(s)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	return records
}

func TestUniqueModule_Process(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		records []feed.Record
		want    []feed.Record
	}{
		{
			name: "drops later records sharing the key value",
			key:  "mod",
			records: []feed.Record{
				{"x": 0, "mod": 0},
				{"x": 1, "mod": 1},
				{"x": 2, "mod": 0},
				{"x": 3, "mod": 1},
				{"x": 4, "mod": 0},
			},
			want: []feed.Record{
				{"x": 0, "mod": 0},
				{"x": 1, "mod": 1},
			},
		},
		{
			name: "default key keeps all records with distinct titles",
			key:  "",
			records: []feed.Record{
				{"title": 0, "mod": 0},
				{"title": 1, "mod": 1},
				{"title": 2, "mod": 0},
				{"title": 3, "mod": 1},
				{"title": 4, "mod": 0},
			},
			want: []feed.Record{
				{"title": 0, "mod": 0},
				{"title": 1, "mod": 1},
				{"title": 2, "mod": 0},
				{"title": 3, "mod": 1},
				{"title": 4, "mod": 0},
			},
		},
		{
			name:    "empty input yields empty output",
			key:     "mod",
			records: nil,
			want:    nil,
		},
		{
			name: "all records sharing one key keep only the first",
			key:  "id",
			records: []feed.Record{
				{"id": "a", "seq": 1},
				{"id": "a", "seq": 2},
				{"id": "a", "seq": 3},
			},
			want: []feed.Record{
				{"id": "a", "seq": 1},
			},
		},
		{
			name: "missing field dedups under one sentinel key",
			key:  "id",
			records: []feed.Record{
				{"x": 1},
				{"x": 2},
				{"id": "a"},
				{"x": 3},
			},
			want: []feed.Record{
				{"x": 1},
				{"id": "a"},
			},
		},
		{
			name: "explicit nil value and missing field share the sentinel",
			key:  "id",
			records: []feed.Record{
				{"id": nil, "x": 1},
				{"x": 2},
			},
			want: []feed.Record{
				{"id": nil, "x": 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustUnique(t, tt.key)
			got := collect(t, m.Process(context.Background(), feed.FromSlice(tt.records)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Process() = %v, want %v", got, tt.want)
			}
			if len(got) > len(tt.records) {
				t.Errorf("output length %d exceeds input length %d", len(got), len(tt.records))
			}
		})
	}
}

func TestUniqueModule_Idempotent(t *testing.T) {
	records := []feed.Record{
		{"mod": 0}, {"mod": 1}, {"mod": 2}, {"mod": 0}, {"mod": 1},
	}
	m := mustUnique(t, "mod")

	once := collect(t, m.Process(context.Background(), feed.FromSlice(records)))
	twice := collect(t, m.Process(context.Background(), feed.FromSlice(once)))

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second application changed output: %v vs %v", once, twice)
	}
}

func TestUniqueModule_FreshSeenSetPerInvocation(t *testing.T) {
	records := []feed.Record{{"mod": 0}, {"mod": 0}}
	m := mustUnique(t, "mod")

	first := collect(t, m.Process(context.Background(), feed.FromSlice(records)))
	second := collect(t, m.Process(context.Background(), feed.FromSlice(records)))

	if len(first) != 1 || len(second) != 1 {
		t.Errorf("each invocation must own a fresh seen-set: got %d and %d records", len(first), len(second))
	}
}

func TestUniqueModule_InfiniteStream(t *testing.T) {
	pulled := 0
	infinite := feed.Stream(func(yield func(feed.Record, error) bool) {
		for i := 0; ; i++ {
			pulled++
			if !yield(feed.Record{"x": i, "mod": i % 2}, nil) {
				return
			}
		}
	})

	m := mustUnique(t, "mod")
	got := collect(t, feed.Take(m.Process(context.Background(), infinite), 2))

	want := []feed.Record{
		{"x": 0, "mod": 0},
		{"x": 1, "mod": 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Take(Process(infinite), 2) = %v, want %v", got, want)
	}
	if pulled != 2 {
		t.Errorf("filter pulled %d input records, want 2 (one per output decision)", pulled)
	}
}

func TestUniqueModule_UnhashableKeyFailsStream(t *testing.T) {
	records := []feed.Record{
		{"id": "a"},
		{"id": []any{"not", "comparable"}},
		{"id": "b"},
	}
	m := mustUnique(t, "id")

	got, err := feed.Collect(m.Process(context.Background(), feed.FromSlice(records)))
	if err == nil {
		t.Fatal("expected key extraction error, got nil")
	}
	if !errhandling.IsCategory(err, errhandling.CategoryKeyExtraction) {
		t.Errorf("error category = %v, want %v", errhandling.Classify(err), errhandling.CategoryKeyExtraction)
	}
	// The stream fails at the offending record; prior output stands.
	if len(got) != 1 {
		t.Errorf("records before failure = %d, want 1", len(got))
	}
}

func TestUniqueModule_PropagatesUpstreamError(t *testing.T) {
	upstream := errors.New("source exploded")
	m := mustUnique(t, "id")

	_, err := feed.Collect(m.Process(context.Background(), feed.Fail(upstream)))
	if !errors.Is(err, upstream) {
		t.Errorf("error = %v, want %v", err, upstream)
	}
}

func TestUniqueModule_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := mustUnique(t, "id")
	_, err := feed.Collect(m.Process(ctx, feed.FromSlice([]feed.Record{{"id": 1}})))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestUniqueModule_DoesNotMutateRecords(t *testing.T) {
	record := feed.Record{"id": "a", "x": 1}
	m := mustUnique(t, "id")

	got := collect(t, m.Process(context.Background(), feed.FromSlice([]feed.Record{record})))
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0], feed.Record{"id": "a", "x": 1}) {
		t.Errorf("record was mutated: %v", got[0])
	}
}

func TestParseUniqueConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		want    UniqueConfig
		wantErr bool
	}{
		{
			name:   "absent uniq_key falls back to default",
			config: map[string]any{},
			want:   UniqueConfig{},
		},
		{
			name:   "valid uniq_key",
			config: map[string]any{"uniq_key": "mod"},
			want:   UniqueConfig{UniqKey: "mod"},
		},
		{
			name:    "empty uniq_key",
			config:  map[string]any{"uniq_key": ""},
			wantErr: true,
		},
		{
			name:    "non-string uniq_key",
			config:  map[string]any{"uniq_key": 42},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUniqueConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUniqueConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errhandling.IsCategory(err, errhandling.CategoryConfiguration) {
					t.Errorf("error category = %v, want %v", errhandling.Classify(err), errhandling.CategoryConfiguration)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseUniqueConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUniqueFromConfig_DefaultKey(t *testing.T) {
	m := mustUnique(t, "")
	if m.key != DefaultUniqueKey {
		t.Errorf("key = %q, want %q", m.key, DefaultUniqueKey)
	}
}
