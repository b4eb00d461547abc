package mosaic

// StopReason indicates why the model stopped generating.
//
// The zero value means the server has not reported a reason yet. Values the
// server introduces after this package was written are kept verbatim; use
// Known to tell them apart.
type StopReason string

const (
	StopEndTurn     StopReason = "end_turn"
	StopMaxTokens   StopReason = "max_tokens"
	StopSequence    StopReason = "stop_sequence"
	StopToolUse     StopReason = "tool_use"
	StopReasonUnset StopReason = ""
)

// Known reports whether r is one of the documented stop reasons.
func (r StopReason) Known() bool {
	switch r {
	case StopEndTurn, StopMaxTokens, StopSequence, StopToolUse:
		return true
	default:
		return false
	}
}
