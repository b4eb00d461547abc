package mosaic

import (
	"encoding/json"
	"fmt"
)

// Request carries model selection and generation parameters.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model         string // model ID; empty = provider default
	System        string
	Messages      []Message
	MaxTokens     int      // 0 = provider default
	Temperature   *float64 // nil = provider default
	TopK          *int
	TopP          *float64
	StopSequences []string
	Tools         []Tool
	ToolChoice    *ToolChoice
	Metadata      map[string]any
}

// Tool describes a capability the model may invoke.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// ToolChoiceType selects how the model may use tools.
type ToolChoiceType string

const (
	ToolChoiceAuto ToolChoiceType = "auto"
	ToolChoiceAny  ToolChoiceType = "any"
	ToolChoiceTool ToolChoiceType = "tool"
)

// ToolChoice constrains tool use. Name is required when Type is
// ToolChoiceTool.
type ToolChoice struct {
	Type ToolChoiceType
	Name string
}

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("at least one message is required: %w", ErrValidation)
	}
	for i, m := range r.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("message %d: unknown role %q: %w", i, m.Role, ErrValidation)
		}
	}
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 1 {
			return fmt.Errorf("temperature must be in [0, 1], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.TopP != nil {
		if *r.TopP < 0 || *r.TopP > 1 {
			return fmt.Errorf("top_p must be in [0, 1], got %g: %w", *r.TopP, ErrValidation)
		}
	}
	if r.TopK != nil && *r.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d: %w", *r.TopK, ErrValidation)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	if c := r.ToolChoice; c != nil {
		switch c.Type {
		case ToolChoiceAuto, ToolChoiceAny:
		case ToolChoiceTool:
			if c.Name == "" {
				return fmt.Errorf("tool choice %q requires a name: %w", c.Type, ErrValidation)
			}
		default:
			return fmt.Errorf("unknown tool choice %q: %w", c.Type, ErrValidation)
		}
	}
	for i, t := range r.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool %d: name is required: %w", i, ErrValidation)
		}
	}
	return nil
}
