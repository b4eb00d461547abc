package mosaic

// Message is one turn of a conversation sent to the server.
type Message struct {
	Role    Role
	Content Content
}

// ResponseMessage is the envelope assembled from a stream or returned by a
// single-shot call.
//
// StopReason is StopReasonUnset and StopSequence is empty until the server
// reports them, either eagerly in the message start or in a message delta.
type ResponseMessage struct {
	ID           string
	Role         Role
	Content      Content
	Model        string
	StopReason   StopReason
	StopSequence string
	Usage        Usage
}

// MessageStats is a sparse patch to the envelope. Nil fields are absent.
//
// Usage, when present, replaces the message usage wholesale. OutputTokens
// carries the common case where the server reports only the cumulative
// output counter; it is ignored when Usage is present.
type MessageStats struct {
	StopReason   *StopReason
	StopSequence *string
	Usage        *Usage
	OutputTokens *int
}

// ApplyStats overwrites the fields of m that are present in stats and leaves
// the others untouched.
func (m *ResponseMessage) ApplyStats(stats MessageStats) {
	if stats.StopReason != nil {
		m.StopReason = *stats.StopReason
	}
	if stats.StopSequence != nil {
		m.StopSequence = *stats.StopSequence
	}
	switch {
	case stats.Usage != nil:
		m.Usage = *stats.Usage
	case stats.OutputTokens != nil:
		m.Usage.OutputTokens = *stats.OutputTokens
	}
}

// ToolUse returns the trailing tool-use block when the message stopped to
// request a tool. It returns false otherwise.
func (m ResponseMessage) ToolUse() (ToolUseBlock, bool) {
	if m.StopReason != StopToolUse {
		return ToolUseBlock{}, false
	}
	last, ok := m.Content.Last()
	if !ok {
		return ToolUseBlock{}, false
	}
	tu, ok := last.(ToolUseBlock)
	return tu, ok
}

// clone returns a copy of m that shares no content slice with it.
func (m ResponseMessage) clone() ResponseMessage {
	m.Content = m.Content.clone()
	return m
}
