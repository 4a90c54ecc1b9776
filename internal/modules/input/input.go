// Package input provides implementations for input modules.
// Input modules are responsible for producing the record stream a pipeline
// consumes.
package input

import (
	"context"

	"github.com/feedpipe/runtime/pkg/feed"
)

// Module represents an input module that produces a record stream.
type Module interface {
	// Open returns the lazy record stream for this source. The stream is
	// produced incrementally; consuming it drives reads from the source.
	// The context can be used to cancel long-running reads.
	Open(ctx context.Context) (feed.Stream, error)
	// Close releases any resources held by the module.
	Close() error
}
