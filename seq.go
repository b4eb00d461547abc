package mosaic

import (
	"errors"
	"io"
	"iter"
)

// All adapts s to a range-over-func sequence. The sequence ends after the
// first terminal error, at io.EOF, or when the consumer stops ranging; in
// every case s is closed before All returns. In-band *APIError items are
// yielded and the sequence continues.
func All(s Stream) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		defer s.Close()
		for {
			evt, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(evt, err) {
				return
			}
			if err != nil && s.State() != StreamStateStreaming {
				return
			}
		}
	}
}

// FilterRateLimit drops rate-limit and overload errors from seq and passes
// every other item through unchanged, in order. The server sends these
// notices while it keeps the stream open, so they need no client action.
func FilterRateLimit(seq iter.Seq2[Event, error]) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for evt, err := range seq {
			if err != nil && IsTransient(err) {
				continue
			}
			if !yield(evt, err) {
				return
			}
		}
	}
}

// Deltas projects seq onto the deltas of EventContentBlockDelta events.
// Other events are dropped; errors are passed through.
func Deltas(seq iter.Seq2[Event, error]) iter.Seq2[Delta, error] {
	return func(yield func(Delta, error) bool) {
		for evt, err := range seq {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if e, ok := evt.(EventContentBlockDelta); ok {
				if !yield(e.Delta, nil) {
					return
				}
			}
		}
	}
}

// Text projects seq onto the fragments of its text deltas. Other deltas and
// events are dropped; errors are passed through.
func Text(seq iter.Seq2[Event, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for d, err := range Deltas(seq) {
			if err != nil {
				if !yield("", err) {
					return
				}
				continue
			}
			if t, ok := d.(TextDelta); ok {
				if !yield(t.Text, nil) {
					return
				}
			}
		}
	}
}

// Assemble drives an Accumulator over seq and returns the finished message.
//
// It stops at the first error, from seq or from the accumulator, and returns
// the message assembled so far together with that error. Wrap seq with
// FilterRateLimit to ride out transient notices. A sequence that ends before
// EventMessageStop yields ErrIncompleteMessage.
func Assemble(seq iter.Seq2[Event, error]) (ResponseMessage, error) {
	var acc Accumulator
	for evt, err := range seq {
		if err != nil {
			return acc.Message(), err
		}
		if err := acc.Apply(evt); err != nil {
			return acc.Message(), err
		}
	}
	if !acc.Complete() {
		return acc.Message(), ErrIncompleteMessage
	}
	return acc.Message(), nil
}
