package anthropic

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/mosaic"
	mosaicjson "github.com/fwojciec/mosaic/json"
	"github.com/tidwall/gjson"
)

// ParseEvent decodes one frame payload.
//
// It returns exactly one of: a typed event; an *mosaic.APIError when the
// payload is an error envelope; or a *mosaic.ParseError carrying the raw
// frame. The payload's own "type" field selects the variant. The frame's
// event name is used only when the payload has none.
func ParseEvent(event string, data []byte) (mosaic.Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, parseError(event, data, errors.New("invalid json"))
	}
	if e := gjson.GetBytes(data, "error"); e.IsObject() {
		return nil, mosaic.NewAPIError(e.Get("type").String(), e.Get("message").String(), 0)
	}

	typ := gjson.GetBytes(data, "type").String()
	if typ == "" {
		typ = event
	}

	evt, err := decodeEvent(typ, data)
	if err != nil {
		return nil, parseError(event, data, err)
	}
	return evt, nil
}

func decodeEvent(typ string, data []byte) (mosaic.Event, error) {
	switch typ {
	case "ping":
		return mosaic.EventPing{}, nil
	case "message_start":
		var p sseMessageStart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		msg, err := mosaicjson.UnmarshalMessage(p.Message)
		if err != nil {
			return nil, err
		}
		return mosaic.EventMessageStart{Message: msg}, nil
	case "content_block_start":
		var p sseContentBlockStart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		b, err := mosaicjson.UnmarshalBlock(p.ContentBlock)
		if err != nil {
			return nil, err
		}
		return mosaic.EventContentBlockStart{Index: p.Index, Block: b}, nil
	case "content_block_delta":
		var p sseContentBlockDelta
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		d, err := convertDelta(p.Delta)
		if err != nil {
			return nil, err
		}
		return mosaic.EventContentBlockDelta{Index: p.Index, Delta: d}, nil
	case "content_block_stop":
		var p sseContentBlockStop
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return mosaic.EventContentBlockStop{Index: p.Index}, nil
	case "message_delta":
		var p sseMessageDelta
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return mosaic.EventMessageDelta{Stats: convertStats(p)}, nil
	case "message_stop":
		return mosaic.EventMessageStop{}, nil
	default:
		return nil, fmt.Errorf("event type %q: %w", typ, mosaic.ErrUnknownEvent)
	}
}

func convertDelta(d sseDelta) (mosaic.Delta, error) {
	switch d.Type {
	case "text_delta", "text":
		return mosaic.TextDelta{Text: d.Text}, nil
	case "input_json_delta":
		return mosaic.JSONDelta{PartialJSON: d.PartialJSON}, nil
	default:
		return nil, fmt.Errorf("delta type %q: %w", d.Type, mosaic.ErrUnknownEvent)
	}
}

func convertStats(p sseMessageDelta) mosaic.MessageStats {
	var stats mosaic.MessageStats
	if p.Delta.StopReason != nil {
		sr := mosaic.StopReason(*p.Delta.StopReason)
		stats.StopReason = &sr
	}
	stats.StopSequence = p.Delta.StopSequence

	u := p.Usage
	if u == nil {
		u = p.Delta.Usage
	}
	switch {
	case u == nil:
	case u.InputTokens != nil:
		usage := mosaic.Usage{InputTokens: *u.InputTokens}
		if u.OutputTokens != nil {
			usage.OutputTokens = *u.OutputTokens
		}
		stats.Usage = &usage
	case u.OutputTokens != nil:
		stats.OutputTokens = u.OutputTokens
	}
	return stats
}

func parseError(event string, data []byte, err error) *mosaic.ParseError {
	return &mosaic.ParseError{Event: event, Data: string(data), Err: err}
}
