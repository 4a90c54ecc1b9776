// Package filter provides implementations for filter modules.
// This file provides an asynchronous invocation adapter for filter modules.
//
// The adapter exists purely to fit callers that schedule pipeline stages
// asynchronously. It runs the identical synchronous algorithm in a single
// goroutine and delivers the materialized result once; it adds no concurrency
// inside the filter and preserves ordering and dedup semantics exactly.
package filter

import (
	"context"

	"github.com/feedpipe/runtime/pkg/feed"
)

// AsyncResult is the outcome of an asynchronous filter invocation.
type AsyncResult struct {
	// Records is the materialized filter output, in input order.
	Records []feed.Record
	// Err is the first error the stream produced, if any.
	Err error
}

// ProcessAsync runs m.Process over in on a new goroutine and returns a
// channel that delivers the single AsyncResult when the stream is exhausted,
// fails, or ctx is cancelled.
//
// The input must be finite: the result is materialized before delivery.
func ProcessAsync(ctx context.Context, m Module, in feed.Stream) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)

	go func() {
		defer close(out)
		records, err := feed.Collect(m.Process(ctx, in))
		out <- AsyncResult{Records: records, Err: err}
	}()

	return out
}
