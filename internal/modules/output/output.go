// Package output provides implementations for output modules.
// Output modules are responsible for delivering the filtered record stream to
// a destination.
package output

import (
	"context"

	"github.com/feedpipe/runtime/pkg/feed"
)

// Module represents an output module that sends a record stream to a destination.
type Module interface {
	// Send consumes the stream and delivers each record as it arrives.
	// Returns the number of records successfully sent and any error.
	Send(ctx context.Context, records feed.Stream) (int, error)

	// Close releases any resources held by the module.
	Close() error
}
