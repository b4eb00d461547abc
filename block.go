package mosaic

import (
	"encoding/json"
	"maps"
	"strings"
)

// Block is a sealed interface representing one unit of message content.
// The unexported marker method prevents external implementations.
type Block interface {
	block()
}

// TextBlock contains plain text.
type TextBlock struct {
	Text string
}

func (TextBlock) block() {}

// ToolUseBlock is a request to invoke the named tool. Input holds the decoded
// structured argument, normally a map[string]any.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input any
}

func (ToolUseBlock) block() {}

// ToolResultBlock is the outcome of a previously issued tool use.
type ToolResultBlock struct {
	ToolUseID string
	Content   Content
	IsError   bool
}

func (ToolResultBlock) block() {}

// Interface compliance checks.
var (
	_ Block = TextBlock{}
	_ Block = ToolUseBlock{}
	_ Block = ToolResultBlock{}
)

// ApplyDelta returns b updated with the merged delta d. b is not modified;
// the caller replaces its copy with the result.
//
// A TextDelta is appended to a TextBlock. A JSONDelta is parsed and, when
// both the parsed value and the block's input are objects, shallow-merged
// into the input with new keys overwriting old ones. When either side is not
// an object the merge is a no-op. A JSONDelta that does not parse yields a
// *DeltaParseError. Any other pairing yields a *ContentMismatchError.
//
// A nil delta, the result of merging an empty run, leaves b unchanged.
func ApplyDelta(b Block, d Delta) (Block, error) {
	if d == nil {
		return b, nil
	}
	switch blk := b.(type) {
	case TextBlock:
		if t, ok := d.(TextDelta); ok {
			blk.Text += t.Text
			return blk, nil
		}
	case ToolUseBlock:
		if j, ok := d.(JSONDelta); ok {
			return mergeInput(blk, j.PartialJSON)
		}
	}
	return nil, &ContentMismatchError{From: d, To: blockKind(b) + " block"}
}

// ApplyDeltas merges a run of deltas with MergeDeltas and applies the result
// to b with ApplyDelta.
func ApplyDeltas(b Block, deltas []Delta) (Block, error) {
	d, err := MergeDeltas(deltas)
	if err != nil {
		return nil, err
	}
	return ApplyDelta(b, d)
}

func mergeInput(blk ToolUseBlock, fragment string) (Block, error) {
	// Tools without arguments stream a single empty fragment.
	if strings.TrimSpace(fragment) == "" {
		return blk, nil
	}
	var v any
	if err := json.Unmarshal([]byte(fragment), &v); err != nil {
		return nil, &DeltaParseError{Fragment: fragment, Input: blk.Input, Err: err}
	}
	patch, ok := v.(map[string]any)
	if !ok {
		return blk, nil
	}
	input, ok := blk.Input.(map[string]any)
	if !ok {
		return blk, nil
	}
	merged := maps.Clone(input)
	if merged == nil {
		merged = make(map[string]any, len(patch))
	}
	maps.Copy(merged, patch)
	blk.Input = merged
	return blk, nil
}

// blockKind returns the wire-independent name of a block's kind.
func blockKind(b Block) string {
	switch b.(type) {
	case TextBlock:
		return "text"
	case ToolUseBlock:
		return "tool_use"
	case ToolResultBlock:
		return "tool_result"
	case nil:
		return "nil"
	default:
		return "unknown"
	}
}
