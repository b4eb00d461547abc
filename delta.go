package mosaic

// Delta is a sealed interface representing an incremental update to the open
// content block. A TextDelta only applies to a TextBlock and a JSONDelta only
// applies to a ToolUseBlock.
type Delta interface {
	delta()
}

// TextDelta is a fragment of text to append.
type TextDelta struct {
	Text string
}

func (TextDelta) delta() {}

// JSONDelta is a fragment of the serialized form of a structured value.
// Fragments of one block are chunks of a single document: they are
// concatenated as text and only parsed once merged.
type JSONDelta struct {
	PartialJSON string
}

func (JSONDelta) delta() {}

// Interface compliance checks.
var (
	_ Delta = TextDelta{}
	_ Delta = JSONDelta{}
)

// MergeDeltas folds an ordered run of deltas into a single delta of the same
// kind. Text fragments and JSON fragments are concatenated in order. The fold
// stops at the first delta whose kind differs from the first one and returns
// a *ContentMismatchError.
//
// Merging an empty run returns a nil Delta and a nil error: a block closed
// without deltas is valid.
func MergeDeltas(deltas []Delta) (Delta, error) {
	if len(deltas) == 0 {
		return nil, nil
	}
	acc := deltas[0]
	for _, d := range deltas[1:] {
		var err error
		if acc, err = mergeDelta(acc, d); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func mergeDelta(acc, d Delta) (Delta, error) {
	switch a := acc.(type) {
	case TextDelta:
		if t, ok := d.(TextDelta); ok {
			return TextDelta{Text: a.Text + t.Text}, nil
		}
	case JSONDelta:
		if j, ok := d.(JSONDelta); ok {
			return JSONDelta{PartialJSON: a.PartialJSON + j.PartialJSON}, nil
		}
	}
	return nil, &ContentMismatchError{From: d, To: deltaKind(acc) + " delta"}
}

// deltaKind returns the wire-independent name of a delta's kind.
func deltaKind(d Delta) string {
	switch d.(type) {
	case TextDelta:
		return "text"
	case JSONDelta:
		return "json"
	case nil:
		return "nil"
	default:
		return "unknown"
	}
}
