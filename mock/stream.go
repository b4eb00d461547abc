package mock

import (
	"errors"
	"io"

	"github.com/fwojciec/mosaic"
)

// Interface compliance check.
var _ mosaic.Stream = (*Stream)(nil)

// Stream is a test double for mosaic.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn and StateFn are nil-safe (no-op and
// StreamStateStreaming) because consumers call Close on every exit path and
// consult State only after an error.
type Stream struct {
	NextFn  func() (mosaic.Event, error)
	StateFn func() mosaic.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (mosaic.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateStreaming when StateFn is
// nil.
func (s *Stream) State() mosaic.StreamState {
	if s.StateFn == nil {
		return mosaic.StreamStateStreaming
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Item is one scripted result of Next.
type Item struct {
	Event mosaic.Event
	Err   error
}

// Script returns a Stream that replays items in order and then returns
// io.EOF. An item whose Err is not an *mosaic.APIError moves the stream to
// StreamStateError, mirroring a real stream's terminal errors.
func Script(items ...Item) *Stream {
	s := &Stream{}
	state := mosaic.StreamStateNew
	i := 0
	s.NextFn = func() (mosaic.Event, error) {
		switch state {
		case mosaic.StreamStateError:
			return nil, items[i-1].Err
		case mosaic.StreamStateClosed:
			return nil, mosaic.ErrStreamClosed
		}
		if i >= len(items) {
			state = mosaic.StreamStateComplete
			return nil, io.EOF
		}
		it := items[i]
		i++
		state = mosaic.StreamStateStreaming
		var apiErr *mosaic.APIError
		if it.Err != nil && !errors.As(it.Err, &apiErr) {
			state = mosaic.StreamStateError
		}
		return it.Event, it.Err
	}
	s.StateFn = func() mosaic.StreamState { return state }
	s.CloseFn = func() error {
		if state != mosaic.StreamStateComplete && state != mosaic.StreamStateError {
			state = mosaic.StreamStateClosed
		}
		return nil
	}
	return s
}
