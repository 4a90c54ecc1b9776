// Package filter provides implementations for filter modules.
// Filter modules transform and conditionally drop records flowing through a
// pipeline. Every filter operates on a lazy record stream: it pulls one input
// record per output decision and never materializes the feed, so filters work
// on unbounded sources.
package filter

import (
	"context"

	"github.com/feedpipe/runtime/pkg/feed"
)

// Module represents a filter module that transforms a record stream.
type Module interface {
	// Process returns the filtered stream derived from in. The returned
	// stream is lazy: records are pulled from in only as the consumer
	// ranges over the result. Errors (including ctx cancellation) are
	// carried in-band and terminate the stream.
	Process(ctx context.Context, in feed.Stream) feed.Stream
}

// Error handling modes shared by filter modules.
const (
	OnErrorFail = "fail"
	OnErrorSkip = "skip"
	OnErrorLog  = "log"
)
