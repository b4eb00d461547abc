package mosaic

// Event is a sealed interface representing one step of the streaming
// protocol. Transport failures and server-reported errors come from the
// error half of a stream item, never from events.
// The unexported marker method prevents external implementations.
//
// For a given block index events arrive in the order Start, zero or more
// Delta, Stop. EventMessageStart precedes all block events and
// EventMessageStop is the last event of a successful stream.
type Event interface {
	event()
}

// EventPing is a keepalive. It carries no data.
type EventPing struct{}

func (EventPing) event() {}

// EventMessageStart carries a freshly initialized message envelope. Usage
// counters may be partial.
type EventMessageStart struct {
	Message ResponseMessage
}

func (EventMessageStart) event() {}

// EventContentBlockStart opens the block at Index. Block carries its initial
// shape, e.g. an empty TextBlock or a ToolUseBlock with an empty input.
type EventContentBlockStart struct {
	Index int
	Block Block
}

func (EventContentBlockStart) event() {}

// EventContentBlockDelta is an incremental update to the open block at Index.
type EventContentBlockDelta struct {
	Index int
	Delta Delta
}

func (EventContentBlockDelta) event() {}

// EventContentBlockStop closes the block at Index.
type EventContentBlockStop struct {
	Index int
}

func (EventContentBlockStop) event() {}

// EventMessageDelta carries envelope-level updates reported once generation
// has finished but before EventMessageStop.
type EventMessageDelta struct {
	Stats MessageStats
}

func (EventMessageDelta) event() {}

// EventMessageStop terminates the stream. No events follow it.
type EventMessageStop struct{}

func (EventMessageStop) event() {}

// Interface compliance checks.
var (
	_ Event = EventPing{}
	_ Event = EventMessageStart{}
	_ Event = EventContentBlockStart{}
	_ Event = EventContentBlockDelta{}
	_ Event = EventContentBlockStop{}
	_ Event = EventMessageDelta{}
	_ Event = EventMessageStop{}
)
