package anthropic

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/mosaic"
	"github.com/launchdarkly/eventsource"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ mosaic.Stream = (*Stream)(nil)

// Stream implements [mosaic.Stream] by decoding SSE frames from a response
// body. It does not accumulate anything; events are handed to the caller by
// value in the order the server sent them.
type Stream struct {
	body    io.ReadCloser
	decoder *eventsource.Decoder
	logger  zerolog.Logger
	state   mosaic.StreamState
	err     error // terminal error, if any
}

// NewStream returns a Stream reading frames from body. The stream owns body
// and closes it on Close.
func NewStream(body io.ReadCloser, logger zerolog.Logger) *Stream {
	return &Stream{
		body:    body,
		decoder: eventsource.NewDecoder(body),
		logger:  logger,
		state:   mosaic.StreamStateNew,
	}
}

// Next reads the next event from the SSE stream.
// Returns io.EOF after EventMessageStop or when the body ends.
func (s *Stream) Next() (mosaic.Event, error) {
	switch s.state {
	case mosaic.StreamStateComplete:
		return nil, io.EOF
	case mosaic.StreamStateError:
		return nil, s.err
	case mosaic.StreamStateClosed:
		return nil, fmt.Errorf("anthropic: %w", mosaic.ErrStreamClosed)
	}

	for {
		frame, err := s.decoder.Decode()
		if errors.Is(err, io.EOF) {
			s.logger.Debug().Msg("stream ended")
			s.state = mosaic.StreamStateComplete
			return nil, io.EOF
		}
		if err != nil {
			s.terminate(&mosaic.TransportError{Err: err})
			return nil, s.err
		}

		s.state = mosaic.StreamStateStreaming

		data := frame.Data()
		if strings.TrimSpace(data) == "" {
			continue
		}
		s.logger.Debug().Str("event", frame.Event()).Int("size", len(data)).Msg("frame")

		evt, err := ParseEvent(frame.Event(), []byte(data))
		if err != nil {
			var apiErr *mosaic.APIError
			if errors.As(err, &apiErr) {
				s.logger.Warn().Str("kind", string(apiErr.Kind)).Str("message", apiErr.Message).Msg("api error")
				return nil, apiErr
			}
			s.terminate(err)
			return nil, s.err
		}

		if _, ok := evt.(mosaic.EventMessageStop); ok {
			s.state = mosaic.StreamStateComplete
		}
		return evt, nil
	}
}

// State returns the current stream state.
func (s *Stream) State() mosaic.StreamState {
	return s.state
}

// Close closes the underlying response body.
func (s *Stream) Close() error {
	if s.state != mosaic.StreamStateComplete && s.state != mosaic.StreamStateError {
		s.state = mosaic.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error.
func (s *Stream) terminate(err error) {
	s.logger.Error().Err(err).Msg("stream failed")
	s.state = mosaic.StreamStateError
	s.err = err
}
