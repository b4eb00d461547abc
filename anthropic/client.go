package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/mosaic"
	mosaicjson "github.com/fwojciec/mosaic/json"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Interface compliance check.
var _ mosaic.Provider = (*Client)(nil)

// Client implements [mosaic.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	version    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used by the client and its streams.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithVersion overrides the Anthropic-Version header.
func WithVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		version:    apiVersion,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends a streaming request to the Anthropic Messages API and returns
// a [mosaic.Stream] of its events. Cancelling ctx aborts the underlying
// read.
func (c *Client) Stream(ctx context.Context, req mosaic.Request) (mosaic.Stream, error) {
	resp, err := c.post(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return NewStream(resp.Body, c.logger), nil
}

// Message sends a single-shot request and returns the complete response.
func (c *Client) Message(ctx context.Context, req mosaic.Request) (mosaic.ResponseMessage, error) {
	resp, err := c.post(ctx, req, false)
	if err != nil {
		return mosaic.ResponseMessage{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return mosaic.ResponseMessage{}, fmt.Errorf("anthropic: %w", &mosaic.TransportError{Err: err})
	}
	msg, err := mosaicjson.UnmarshalMessage(body)
	if err != nil {
		return mosaic.ResponseMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	return msg, nil
}

// CallTool sends a single-shot request and returns the input of the tool
// use the model stopped on. It fails with [mosaic.ErrUnexpectedResponse]
// when the response did not stop to use a tool.
func (c *Client) CallTool(ctx context.Context, req mosaic.Request) (mosaic.ToolUseBlock, error) {
	msg, err := c.Message(ctx, req)
	if err != nil {
		return mosaic.ToolUseBlock{}, err
	}
	tu, ok := msg.ToolUse()
	if !ok {
		return mosaic.ToolUseBlock{}, fmt.Errorf("anthropic: stop reason %q without tool use: %w", msg.StopReason, mosaic.ErrUnexpectedResponse)
	}
	return tu, nil
}

// post sends req and returns the response when the status is 200. The
// caller closes the body.
func (c *Client) post(ctx context.Context, req mosaic.Request, stream bool) (*http.Response, error) {
	body, err := c.buildRequestBody(req, stream)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", c.version)

	c.logger.Debug().Str("model", gjson.GetBytes(body, "model").String()).Bool("stream", stream).Msg("request")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", &mosaic.TransportError{Err: err})
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		err := parseHTTPError(resp)
		c.logger.Warn().Int("status", resp.StatusCode).Err(err).Msg("request failed")
		return nil, err
	}
	return resp, nil
}

func (c *Client) buildRequestBody(req mosaic.Request, stream bool) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	messages, err := convertMessages(req.Messages)
	if err != nil {
		return nil, err
	}
	apiReq := apiRequest{
		Model:         model,
		MaxTokens:     maxTokens,
		Stream:        stream,
		System:        req.System,
		Messages:      messages,
		Tools:         convertTools(req.Tools),
		ToolChoice:    convertToolChoice(req.ToolChoice),
		Temperature:   req.Temperature,
		TopK:          req.TopK,
		TopP:          req.TopP,
		StopSequences: req.StopSequences,
		Metadata:      req.Metadata,
	}
	return json.Marshal(apiReq)
}

func convertMessages(msgs []mosaic.Message) ([]apiMessage, error) {
	result := make([]apiMessage, len(msgs))
	for i, m := range msgs {
		content, err := mosaicjson.MarshalContent(m.Content)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		result[i] = apiMessage{Role: string(m.Role), Content: content}
	}
	return result, nil
}

func convertTools(tools []mosaic.Tool) []apiTool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]apiTool, len(tools))
	for i, t := range tools {
		schema := t.InputSchema
		if len(schema) == 0 {
			schema = json.RawMessage(`{"type":"object"}`)
		}
		result[i] = apiTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		}
	}
	return result
}

func convertToolChoice(tc *mosaic.ToolChoice) *apiToolChoice {
	if tc == nil {
		return nil
	}
	return &apiToolChoice{Type: string(tc.Type), Name: tc.Name}
}

// parseHTTPError classifies a non-200 response. A body holding the error
// envelope keeps the server's kind; anything else is classified by status.
func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Type == "" {
		return fmt.Errorf("anthropic: %w", mosaic.ErrorFromStatus(resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return fmt.Errorf("anthropic: %w", mosaic.NewAPIError(apiErr.Error.Type, apiErr.Error.Message, resp.StatusCode))
}
