package mosaic_test

import (
	"testing"

	"github.com/fwojciec/mosaic"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestResponseMessage_ApplyStats(t *testing.T) {
	t.Parallel()

	base := func() mosaic.ResponseMessage {
		return mosaic.ResponseMessage{
			ID:    "msg_1",
			Role:  mosaic.RoleAssistant,
			Usage: mosaic.Usage{InputTokens: 10, OutputTokens: 1},
		}
	}

	t.Run("stop reason only leaves usage untouched", func(t *testing.T) {
		t.Parallel()
		m := base()
		m.ApplyStats(mosaic.MessageStats{StopReason: ptr(mosaic.StopToolUse)})
		assert.Equal(t, mosaic.StopToolUse, m.StopReason)
		assert.Equal(t, mosaic.Usage{InputTokens: 10, OutputTokens: 1}, m.Usage)
		assert.Empty(t, m.StopSequence)
	})

	t.Run("usage replaces wholesale", func(t *testing.T) {
		t.Parallel()
		m := base()
		m.ApplyStats(mosaic.MessageStats{Usage: &mosaic.Usage{OutputTokens: 7}})
		assert.Equal(t, mosaic.Usage{OutputTokens: 7}, m.Usage)
	})

	t.Run("output tokens patch only the output counter", func(t *testing.T) {
		t.Parallel()
		m := base()
		m.ApplyStats(mosaic.MessageStats{OutputTokens: ptr(42)})
		assert.Equal(t, mosaic.Usage{InputTokens: 10, OutputTokens: 42}, m.Usage)
	})

	t.Run("usage wins over output tokens", func(t *testing.T) {
		t.Parallel()
		m := base()
		m.ApplyStats(mosaic.MessageStats{Usage: &mosaic.Usage{InputTokens: 1, OutputTokens: 2}, OutputTokens: ptr(99)})
		assert.Equal(t, mosaic.Usage{InputTokens: 1, OutputTokens: 2}, m.Usage)
	})

	t.Run("stop sequence", func(t *testing.T) {
		t.Parallel()
		m := base()
		m.ApplyStats(mosaic.MessageStats{StopReason: ptr(mosaic.StopSequence), StopSequence: ptr("END")})
		assert.Equal(t, mosaic.StopSequence, m.StopReason)
		assert.Equal(t, "END", m.StopSequence)
	})

	t.Run("empty patch changes nothing", func(t *testing.T) {
		t.Parallel()
		m := base()
		m.ApplyStats(mosaic.MessageStats{})
		assert.Equal(t, base(), m)
	})
}

func TestResponseMessage_ToolUse(t *testing.T) {
	t.Parallel()
	tu := mosaic.ToolUseBlock{ID: "tu_1", Name: "weather", Input: map[string]any{"city": "Oslo"}}

	t.Run("trailing tool use", func(t *testing.T) {
		t.Parallel()
		m := mosaic.ResponseMessage{
			Content:    mosaic.MultiPart(mosaic.TextBlock{Text: "Checking."}, tu),
			StopReason: mosaic.StopToolUse,
		}
		got, ok := m.ToolUse()
		assert.True(t, ok)
		assert.Equal(t, tu, got)
	})

	t.Run("other stop reason", func(t *testing.T) {
		t.Parallel()
		m := mosaic.ResponseMessage{Content: mosaic.MultiPart(tu), StopReason: mosaic.StopEndTurn}
		_, ok := m.ToolUse()
		assert.False(t, ok)
	})

	t.Run("last block is text", func(t *testing.T) {
		t.Parallel()
		m := mosaic.ResponseMessage{
			Content:    mosaic.MultiPart(tu, mosaic.TextBlock{Text: "done"}),
			StopReason: mosaic.StopToolUse,
		}
		_, ok := m.ToolUse()
		assert.False(t, ok)
	})

	t.Run("single part", func(t *testing.T) {
		t.Parallel()
		m := mosaic.ResponseMessage{Content: mosaic.SinglePart("hi"), StopReason: mosaic.StopToolUse}
		_, ok := m.ToolUse()
		assert.False(t, ok)
	})
}

func TestStopReason_Known(t *testing.T) {
	t.Parallel()
	for _, r := range []mosaic.StopReason{mosaic.StopEndTurn, mosaic.StopMaxTokens, mosaic.StopSequence, mosaic.StopToolUse} {
		assert.True(t, r.Known(), r)
	}
	assert.False(t, mosaic.StopReasonUnset.Known())
	assert.False(t, mosaic.StopReason("pause_turn").Known())
}
