// Package json encodes and decodes mosaic messages in the wire shape of the
// Messages API: content is either a bare string or an array of blocks tagged
// by "type".
package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/mosaic"
)

// messageDTO is the JSON representation of a ResponseMessage.
type messageDTO struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Role         string          `json:"role"`
	Content      json.RawMessage `json:"content"`
	Model        string          `json:"model"`
	StopReason   *string         `json:"stop_reason"`
	StopSequence *string         `json:"stop_sequence"`
	Usage        UsageDTO        `json:"usage"`
}

// UsageDTO is the JSON representation of Usage. Counters may be absent or
// null on the wire.
type UsageDTO struct {
	InputTokens  *int `json:"input_tokens,omitempty"`
	OutputTokens *int `json:"output_tokens,omitempty"`
}

// contentBlock is the JSON representation of a Block with a type
// discriminator. Different fields are populated depending on Type.
type contentBlock struct {
	Type string `json:"type"`

	// text
	Text *string `json:"text,omitempty"`

	// tool_use
	ID    *string         `json:"id,omitempty"`
	Name  *string         `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID *string         `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   *bool           `json:"is_error,omitempty"`
}

// MarshalMessage serializes a ResponseMessage.
func MarshalMessage(m mosaic.ResponseMessage) ([]byte, error) {
	content, err := MarshalContent(m.Content)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	dto := messageDTO{
		ID:      m.ID,
		Type:    "message",
		Role:    string(m.Role),
		Content: content,
		Model:   m.Model,
		Usage:   usageToDTO(m.Usage),
	}
	if m.StopReason != mosaic.StopReasonUnset {
		sr := string(m.StopReason)
		dto.StopReason = &sr
	}
	if m.StopSequence != "" {
		dto.StopSequence = &m.StopSequence
	}
	return json.Marshal(dto)
}

// UnmarshalMessage deserializes a ResponseMessage. Missing or null content
// decodes to an empty multi-part content.
func UnmarshalMessage(data []byte) (mosaic.ResponseMessage, error) {
	var dto messageDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return mosaic.ResponseMessage{}, fmt.Errorf("unmarshal message: %w", err)
	}
	content, err := UnmarshalContent(dto.Content)
	if err != nil {
		return mosaic.ResponseMessage{}, fmt.Errorf("content: %w", err)
	}
	m := mosaic.ResponseMessage{
		ID:      dto.ID,
		Role:    mosaic.Role(dto.Role),
		Content: content,
		Model:   dto.Model,
		Usage:   dto.Usage.Usage(),
	}
	if dto.StopReason != nil {
		m.StopReason = mosaic.StopReason(*dto.StopReason)
	}
	if dto.StopSequence != nil {
		m.StopSequence = *dto.StopSequence
	}
	return m, nil
}

// Usage converts the DTO to Usage, treating absent counters as zero.
func (u UsageDTO) Usage() mosaic.Usage {
	var usage mosaic.Usage
	if u.InputTokens != nil {
		usage.InputTokens = *u.InputTokens
	}
	if u.OutputTokens != nil {
		usage.OutputTokens = *u.OutputTokens
	}
	return usage
}

func usageToDTO(u mosaic.Usage) UsageDTO {
	return UsageDTO{InputTokens: &u.InputTokens, OutputTokens: &u.OutputTokens}
}

// MarshalContent serializes a single-part content as a string and a
// multi-part content as an array of blocks.
func MarshalContent(c mosaic.Content) (json.RawMessage, error) {
	if text, ok := c.Text(); ok {
		return json.Marshal(text)
	}
	blocks := c.Blocks()
	dtos := make([]contentBlock, len(blocks))
	for i, b := range blocks {
		dto, err := marshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		dtos[i] = dto
	}
	return json.Marshal(dtos)
}

// UnmarshalContent deserializes a string or an array of blocks. Empty input
// and null decode to an empty multi-part content.
func UnmarshalContent(data []byte) (mosaic.Content, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return mosaic.MultiPart(), nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return mosaic.Content{}, fmt.Errorf("unmarshal text content: %w", err)
		}
		return mosaic.SinglePart(text), nil
	}
	var dtos []contentBlock
	if err := json.Unmarshal(data, &dtos); err != nil {
		return mosaic.Content{}, fmt.Errorf("unmarshal content blocks: %w", err)
	}
	blocks := make([]mosaic.Block, len(dtos))
	for i, dto := range dtos {
		b, err := unmarshalBlock(dto)
		if err != nil {
			return mosaic.Content{}, fmt.Errorf("content block %d: %w", i, err)
		}
		blocks[i] = b
	}
	return mosaic.MultiPart(blocks...), nil
}

// MarshalBlock serializes a Block with its type discriminator.
func MarshalBlock(b mosaic.Block) ([]byte, error) {
	dto, err := marshalBlock(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto)
}

// UnmarshalBlock deserializes a Block. Unknown block types yield an error
// wrapping [mosaic.ErrUnknownEvent].
func UnmarshalBlock(data []byte) (mosaic.Block, error) {
	var dto contentBlock
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal block: %w", err)
	}
	return unmarshalBlock(dto)
}

func marshalBlock(b mosaic.Block) (contentBlock, error) {
	switch v := b.(type) {
	case mosaic.TextBlock:
		return contentBlock{Type: "text", Text: &v.Text}, nil
	case mosaic.ToolUseBlock:
		input := v.Input
		if input == nil {
			input = map[string]any{}
		}
		raw, err := json.Marshal(input)
		if err != nil {
			return contentBlock{}, fmt.Errorf("marshal tool input: %w", err)
		}
		return contentBlock{Type: "tool_use", ID: &v.ID, Name: &v.Name, Input: raw}, nil
	case mosaic.ToolResultBlock:
		content, err := MarshalContent(v.Content)
		if err != nil {
			return contentBlock{}, fmt.Errorf("tool result: %w", err)
		}
		return contentBlock{Type: "tool_result", ToolUseID: &v.ToolUseID, Content: content, IsError: &v.IsError}, nil
	default:
		return contentBlock{}, fmt.Errorf("unknown block type: %T", b)
	}
}

func unmarshalBlock(dto contentBlock) (mosaic.Block, error) {
	switch dto.Type {
	case "text", "text_delta":
		var text string
		if dto.Text != nil {
			text = *dto.Text
		}
		return mosaic.TextBlock{Text: text}, nil
	case "tool_use":
		var id, name string
		if dto.ID != nil {
			id = *dto.ID
		}
		if dto.Name != nil {
			name = *dto.Name
		}
		input, err := unmarshalInput(dto.Input)
		if err != nil {
			return nil, err
		}
		return mosaic.ToolUseBlock{ID: id, Name: name, Input: input}, nil
	case "tool_result":
		var toolUseID string
		if dto.ToolUseID != nil {
			toolUseID = *dto.ToolUseID
		}
		content, err := UnmarshalContent(dto.Content)
		if err != nil {
			return nil, fmt.Errorf("tool result: %w", err)
		}
		var isError bool
		if dto.IsError != nil {
			isError = *dto.IsError
		}
		return mosaic.ToolResultBlock{ToolUseID: toolUseID, Content: content, IsError: isError}, nil
	default:
		return nil, fmt.Errorf("block type %q: %w", dto.Type, mosaic.ErrUnknownEvent)
	}
}

// unmarshalInput decodes a tool input. Absent or null input decodes to an
// empty object so that streamed fragments have something to merge into.
func unmarshalInput(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]any{}, nil
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("unmarshal tool input: %w", err)
	}
	return input, nil
}
