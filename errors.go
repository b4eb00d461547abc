package mosaic

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrUnknownEvent indicates a payload whose type discriminator names no
	// known event, block or delta.
	ErrUnknownEvent = errors.New("unknown event type")

	// ErrNotStarted indicates a content event arrived before the message
	// start.
	ErrNotStarted = errors.New("message not started")

	// ErrMessageComplete indicates an event arrived after the message stop.
	ErrMessageComplete = errors.New("message already complete")

	// ErrIncompleteMessage indicates the stream ended before the message
	// stop.
	ErrIncompleteMessage = errors.New("stream ended before message stop")

	// ErrUnexpectedResponse indicates a well-formed response that does not
	// have the shape the caller asked for.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// TransportError reports a failure of the frame source: a dropped connection
// or a protocol violation below the event layer. It is always terminal.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a frame whose payload matched neither an event nor an
// error envelope. Event and Data hold the raw frame for diagnostics.
type ParseError struct {
	Event string
	Data  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q event: %v: %s", e.Event, e.Err, e.Data)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ContentMismatchError reports a delta applied to a target of another kind.
// From is the offending delta and To names the target it could not merge
// into.
type ContentMismatchError struct {
	From Delta
	To   string
}

func (e *ContentMismatchError) Error() string {
	return fmt.Sprintf("cannot apply %s delta to %s", deltaKind(e.From), e.To)
}

// DeltaParseError reports merged partial JSON that did not parse. Input is
// the tool input the fragment was to be merged into.
type DeltaParseError struct {
	Fragment string
	Input    any
	Err      error
}

func (e *DeltaParseError) Error() string {
	return fmt.Sprintf("cannot merge partial json %q into %v: %v", e.Fragment, e.Input, e.Err)
}

func (e *DeltaParseError) Unwrap() error { return e.Err }

// IndexError reports a block event for an index other than the expected
// one.
type IndexError struct {
	Index int
	Want  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("block index %d out of order, want %d", e.Index, e.Want)
}
