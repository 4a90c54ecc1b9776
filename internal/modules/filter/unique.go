// Package filter provides implementations for filter modules.
// This file implements the "unique" filter module for removing duplicate
// records from a feed according to a configured key field.
//
// The unique filter keeps the first record observed for each distinct value of
// the key field and drops every later record sharing that value. Output order
// is input order; records are never mutated. The seen-set of observed key
// values belongs to a single Process invocation and grows monotonically until
// the returned stream is exhausted or abandoned.
package filter

import (
	"context"
	"reflect"

	"github.com/feedpipe/runtime/internal/errhandling"
	"github.com/feedpipe/runtime/internal/logger"
	"github.com/feedpipe/runtime/pkg/feed"
)

// DefaultUniqueKey is the key field used when the configuration does not
// name one.
const DefaultUniqueKey = "title"

// UniqueConfig represents the configuration for a unique filter module.
type UniqueConfig struct {
	// UniqKey is the field whose value must be unique across the feed.
	// Defaults to "title".
	UniqKey string `json:"uniq_key"`
}

// UniqueModule implements the unique filter that drops duplicate records.
type UniqueModule struct {
	key string
}

// NewUniqueFromConfig creates a new unique filter module from configuration.
// An empty UniqKey falls back to DefaultUniqueKey.
func NewUniqueFromConfig(config UniqueConfig) (*UniqueModule, error) {
	key := config.UniqKey
	if key == "" {
		key = DefaultUniqueKey
	}

	logger.Debug("unique filter module initialized", "uniq_key", key)

	return &UniqueModule{key: key}, nil
}

// Process implements the filter.Module interface.
//
// For each input record, in order, the key field's value is extracted; the
// record is emitted iff that value has not been seen before in this
// invocation. A record without the key field is keyed on nil, so only the
// first such record passes. A record whose key value is not comparable fails
// the stream with a key extraction error.
func (m *UniqueModule) Process(ctx context.Context, in feed.Stream) feed.Stream {
	return func(yield func(feed.Record, error) bool) {
		seen := make(map[any]struct{})

		for record, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if record == nil {
				yield(nil, errhandling.NewInputTypeError(record))
				return
			}

			// Missing field keys the record on nil, a legitimate
			// dedup key: only the first field-less record passes.
			value, _ := record.Field(m.key)
			if !isComparable(value) {
				yield(nil, errhandling.NewKeyExtractionError(m.key, value))
				return
			}

			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// ParseUniqueConfig parses a raw configuration map into UniqueConfig.
// An absent uniq_key is valid (the default applies); a present uniq_key must
// be a non-empty string.
func ParseUniqueConfig(config map[string]any) (UniqueConfig, error) {
	var cfg UniqueConfig

	raw, ok := config["uniq_key"]
	if !ok {
		return cfg, nil
	}

	key, ok := raw.(string)
	if !ok {
		return cfg, errhandling.NewConfigurationError("'uniq_key' must be a string, got %T", raw)
	}
	if key == "" {
		return cfg, errhandling.NewConfigurationError("'uniq_key' must not be empty")
	}

	cfg.UniqKey = key
	return cfg, nil
}

// isComparable reports whether v can be used as a map key without panicking.
// nil is comparable; values of non-comparable dynamic type (maps, slices,
// funcs, or structs containing them) are not.
func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}

// Verify interface compliance at compile time
var _ Module = (*UniqueModule)(nil)
