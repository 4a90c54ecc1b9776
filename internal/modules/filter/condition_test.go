package filter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/feedpipe/runtime/pkg/feed"
)

func TestNewConditionFromConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  ConditionConfig
		wantErr error
	}{
		{
			name:    "empty expression",
			config:  ConditionConfig{},
			wantErr: ErrEmptyExpression,
		},
		{
			name:    "invalid expression syntax",
			config:  ConditionConfig{Expression: "x >"},
			wantErr: ErrInvalidExpression,
		},
		{
			name:   "valid expression",
			config: ConditionConfig{Expression: "x > 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConditionFromConfig(tt.config)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewConditionFromConfig() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConditionFromConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConditionModule_Process(t *testing.T) {
	records := []feed.Record{
		{"x": 1}, {"x": 2}, {"x": 3}, {"x": 4},
	}

	tests := []struct {
		name   string
		config ConditionConfig
		want   []feed.Record
	}{
		{
			name:   "keep matching records",
			config: ConditionConfig{Expression: "x > 2"},
			want:   []feed.Record{{"x": 3}, {"x": 4}},
		},
		{
			name:   "inverted routing drops matching records",
			config: ConditionConfig{Expression: "x > 2", OnTrue: OnConditionSkip, OnFalse: OnConditionContinue},
			want:   []feed.Record{{"x": 1}, {"x": 2}},
		},
		{
			name:   "keep everything",
			config: ConditionConfig{Expression: "x > 2", OnFalse: OnConditionContinue},
			want:   records,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewConditionFromConfig(tt.config)
			if err != nil {
				t.Fatalf("NewConditionFromConfig() error = %v", err)
			}
			got := collect(t, m.Process(context.Background(), feed.FromSlice(records)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Process() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConditionModule_MissingFieldIsFalsy(t *testing.T) {
	m, err := NewConditionFromConfig(ConditionConfig{Expression: "flag == true"})
	if err != nil {
		t.Fatalf("NewConditionFromConfig() error = %v", err)
	}

	records := []feed.Record{
		{"flag": true, "x": 1},
		{"x": 2},
	}
	got := collect(t, m.Process(context.Background(), feed.FromSlice(records)))
	want := []feed.Record{{"flag": true, "x": 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestConditionModule_Lazy(t *testing.T) {
	pulled := 0
	infinite := feed.Stream(func(yield func(feed.Record, error) bool) {
		for i := 0; ; i++ {
			pulled++
			if !yield(feed.Record{"x": i}, nil) {
				return
			}
		}
	})

	m, err := NewConditionFromConfig(ConditionConfig{Expression: "x % 2 == 0"})
	if err != nil {
		t.Fatalf("NewConditionFromConfig() error = %v", err)
	}

	got := collect(t, feed.Take(m.Process(context.Background(), infinite), 3))
	want := []feed.Record{{"x": 0}, {"x": 2}, {"x": 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Take(Process(infinite), 3) = %v, want %v", got, want)
	}
	if pulled != 5 {
		t.Errorf("pulled %d input records, want 5", pulled)
	}
}
