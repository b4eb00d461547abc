package mosaic

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving events.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned a terminal error.
	StreamStateClosed                       // Close() called before a terminal state.
)

// Stream is a pull-based sequence of events read from one response.
//
// Next returns the next event, or io.EOF once EventMessageStop has been
// returned or the transport ended. Errors are one of:
//   - *TransportError: the frame source failed. Terminal.
//   - *ParseError: a payload matched no known shape. Terminal.
//   - *APIError: the server sent an error envelope in-band. Not terminal;
//     the caller may keep pulling or give up.
//
// After a terminal error Next keeps returning that error. State reports
// which case applies. Close releases the underlying connection; Next after
// Close returns ErrStreamClosed.
//
// A Stream is owned by a single consumer and is not safe for concurrent use.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}

// Provider sends requests to a chat completion API.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
	Message(ctx context.Context, req Request) (ResponseMessage, error)
}
