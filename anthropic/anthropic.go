// Package anthropic implements [mosaic.Provider] for the Anthropic Messages API.
//
// The streaming path reads server-sent event frames with the eventsource
// decoder and parses each payload into a [mosaic.Event] with a two-stage
// decode: the type discriminator is peeked first, then the matching variant
// is decoded. Errors the server pushes in-band surface as [*mosaic.APIError]
// without ending the stream.
package anthropic

import "encoding/json"

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 8192
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"
)

// apiRequest is the JSON body sent to the Anthropic Messages API.
type apiRequest struct {
	Model         string         `json:"model"`
	MaxTokens     int            `json:"max_tokens"`
	Stream        bool           `json:"stream,omitempty"`
	System        string         `json:"system,omitempty"`
	Messages      []apiMessage   `json:"messages"`
	Tools         []apiTool      `json:"tools,omitempty"`
	ToolChoice    *apiToolChoice `json:"tool_choice,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	TopK          *int           `json:"top_k,omitempty"`
	TopP          *float64       `json:"top_p,omitempty"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// apiMessage carries content in its canonical wire form: a bare string or
// an array of blocks.
type apiMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type apiTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type apiToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// SSE payload types. Each is decoded only after the type discriminator has
// selected it.

type sseMessageStart struct {
	Message json.RawMessage `json:"message"`
}

type sseContentBlockStart struct {
	Index        int             `json:"index"`
	ContentBlock json.RawMessage `json:"content_block"`
}

type sseContentBlockDelta struct {
	Index int      `json:"index"`
	Delta sseDelta `json:"delta"`
}

type sseDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	PartialJSON string `json:"partial_json"`
}

type sseContentBlockStop struct {
	Index int `json:"index"`
}

// sseMessageDelta carries the envelope patch. Usage is normally top-level
// but is also accepted inside delta.
type sseMessageDelta struct {
	Delta sseMessageDeltaVal `json:"delta"`
	Usage *sseDeltaUsage     `json:"usage"`
}

type sseMessageDeltaVal struct {
	StopReason   *string        `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        *sseDeltaUsage `json:"usage"`
}

// sseDeltaUsage is used in message_delta events. Input tokens are usually
// absent; when present the usage replaces the message usage wholesale.
type sseDeltaUsage struct {
	InputTokens  *int `json:"input_tokens"`
	OutputTokens *int `json:"output_tokens"`
}

// apiErrorResponse is the error envelope, sent in-band on the stream and as
// the body of non-200 HTTP responses.
type apiErrorResponse struct {
	Type  string         `json:"type"`
	Error apiErrorDetail `json:"error"`
}

type apiErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
