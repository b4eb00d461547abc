package mosaic

import "fmt"

// Accumulator assembles a ResponseMessage from the events of one stream.
// The consumer feeds it every event in order; it holds no reference to the
// stream. It is not safe for concurrent use.
//
// Deltas for the open block are buffered and merged when the block stops,
// since partial JSON only parses as a whole. Message therefore reflects
// closed blocks only.
type Accumulator struct {
	msg     ResponseMessage
	started bool
	stopped bool

	open   Block
	index  int
	deltas []Delta
}

// Apply advances the accumulator by one event. Errors leave the accumulator
// unchanged except for a failed block stop, which discards the open block.
func (a *Accumulator) Apply(evt Event) error {
	if a.stopped {
		return ErrMessageComplete
	}
	switch e := evt.(type) {
	case EventPing:
		return nil
	case EventMessageStart:
		if a.started {
			return fmt.Errorf("duplicate message start: %w", ErrMessageComplete)
		}
		a.msg = e.Message.clone()
		// Blocks are pushed as they close, so an empty body starts as an
		// empty list rather than being promoted around a blank text part.
		if text, ok := a.msg.Content.Text(); ok && text == "" {
			a.msg.Content = MultiPart()
		}
		a.started = true
		return nil
	}

	if !a.started {
		return ErrNotStarted
	}

	switch e := evt.(type) {
	case EventContentBlockStart:
		return a.start(e)
	case EventContentBlockDelta:
		if err := a.checkOpen(e.Index); err != nil {
			return err
		}
		a.deltas = append(a.deltas, e.Delta)
		return nil
	case EventContentBlockStop:
		return a.stop(e.Index)
	case EventMessageDelta:
		a.msg.ApplyStats(e.Stats)
		return nil
	case EventMessageStop:
		if a.open != nil {
			return fmt.Errorf("block %d still open: %w", a.index, ErrIncompleteMessage)
		}
		a.stopped = true
		return nil
	default:
		return fmt.Errorf("%T: %w", evt, ErrUnknownEvent)
	}
}

func (a *Accumulator) start(e EventContentBlockStart) error {
	if a.open != nil {
		return &IndexError{Index: e.Index, Want: a.index}
	}
	if want := a.msg.Content.Len(); e.Index != want {
		return &IndexError{Index: e.Index, Want: want}
	}
	a.open = e.Block
	a.index = e.Index
	a.deltas = a.deltas[:0]
	return nil
}

func (a *Accumulator) stop(index int) error {
	if err := a.checkOpen(index); err != nil {
		return err
	}
	blk, err := ApplyDeltas(a.open, a.deltas)
	a.open = nil
	a.deltas = a.deltas[:0]
	if err != nil {
		return fmt.Errorf("block %d: %w", index, err)
	}
	a.msg.Content.Push(blk)
	return nil
}

func (a *Accumulator) checkOpen(index int) error {
	if a.open == nil {
		return fmt.Errorf("no open block: %w", &IndexError{Index: index, Want: a.msg.Content.Len()})
	}
	if index != a.index {
		return &IndexError{Index: index, Want: a.index}
	}
	return nil
}

// Started reports whether the message start has been applied.
func (a *Accumulator) Started() bool { return a.started }

// Complete reports whether the message stop has been applied. A complete
// message accepts no further events.
func (a *Accumulator) Complete() bool { return a.stopped }

// Message returns a snapshot of the message assembled so far. The snapshot
// shares no mutable state with the accumulator.
func (a *Accumulator) Message() ResponseMessage {
	return a.msg.clone()
}
