// Package feed provides public types for feed-processing pipelines.
// This file defines the lazy record stream used between pipeline stages.
//
// A Stream is a pull-based sequence: records are produced one at a time as the
// consumer ranges over it, so a stage never forces the stages upstream of it to
// materialize the whole feed. Errors travel in-band as the second element of
// the sequence and terminate the stream at the point they occur.
package feed

import "iter"

// Stream is a lazy sequence of records. The error element is nil for every
// record yielded; a non-nil error is the final element of the sequence.
//
// Consumers that stop ranging early (break, bounded take) stop all upstream
// production: no background work continues once the consumer stops pulling.
type Stream = iter.Seq2[Record, error]

// FromSlice returns a Stream yielding the given records in order.
func FromSlice(records []Record) Stream {
	return func(yield func(Record, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Fail returns a Stream that yields no records and terminates with err.
func Fail(err error) Stream {
	return func(yield func(Record, error) bool) {
		yield(nil, err)
	}
}

// Collect materializes a Stream into a slice. It returns the records consumed
// up to the first error together with that error, or all records and nil.
// Collect must not be used on unbounded streams.
func Collect(s Stream) ([]Record, error) {
	var records []Record
	for r, err := range s {
		if err != nil {
			return records, err
		}
		records = append(records, r)
	}
	return records, nil
}

// Take returns a Stream yielding at most n records from s. The underlying
// stream is not consumed past the n-th record, so Take is safe on unbounded
// streams.
func Take(s Stream, n int) Stream {
	return func(yield func(Record, error) bool) {
		if n <= 0 {
			return
		}
		remaining := n
		for r, err := range s {
			if !yield(r, err) {
				return
			}
			if err != nil {
				return
			}
			remaining--
			if remaining == 0 {
				return
			}
		}
	}
}
