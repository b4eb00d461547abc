package mosaic_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fwojciec/mosaic"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDelta_Text(t *testing.T) {
	t.Parallel()
	b := mosaic.TextBlock{Text: "Hel"}
	got, err := mosaic.ApplyDelta(b, mosaic.TextDelta{Text: "lo"})
	require.NoError(t, err)
	assert.Equal(t, mosaic.TextBlock{Text: "Hello"}, got)
	assert.Equal(t, mosaic.TextBlock{Text: "Hel"}, b)
}

func TestApplyDelta_NilDelta(t *testing.T) {
	t.Parallel()
	b := mosaic.ToolUseBlock{ID: "tu_1", Input: map[string]any{}}
	got, err := mosaic.ApplyDelta(b, nil)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestApplyDelta_ShallowJSONMerge(t *testing.T) {
	t.Parallel()

	apply := func(t *testing.T, b mosaic.Block, fragments ...string) mosaic.Block {
		t.Helper()
		for _, f := range fragments {
			var err error
			b, err = mosaic.ApplyDelta(b, mosaic.JSONDelta{PartialJSON: f})
			require.NoError(t, err)
		}
		return b
	}

	t.Run("distinct keys accumulate", func(t *testing.T) {
		t.Parallel()
		got := apply(t, mosaic.ToolUseBlock{Input: map[string]any{}}, `{"a":1}`, `{"b":2}`)
		assert.Equal(t, map[string]any{"a": 1.0, "b": 2.0}, got.(mosaic.ToolUseBlock).Input)
	})

	t.Run("last write wins per key", func(t *testing.T) {
		t.Parallel()
		got := apply(t, mosaic.ToolUseBlock{Input: map[string]any{}}, `{"a":1}`, `{"a":2}`)
		assert.Equal(t, map[string]any{"a": 2.0}, got.(mosaic.ToolUseBlock).Input)
	})

	t.Run("merge is shallow", func(t *testing.T) {
		t.Parallel()
		got := apply(t, mosaic.ToolUseBlock{Input: map[string]any{}}, `{"o":{"x":1}}`, `{"o":{"y":2}}`)
		assert.Equal(t, map[string]any{"o": map[string]any{"y": 2.0}}, got.(mosaic.ToolUseBlock).Input)
	})

	t.Run("does not modify the original input", func(t *testing.T) {
		t.Parallel()
		input := map[string]any{"a": 1.0}
		apply(t, mosaic.ToolUseBlock{Input: input}, `{"b":2}`)
		assert.Equal(t, map[string]any{"a": 1.0}, input)
	})

	t.Run("empty fragment is a no-op", func(t *testing.T) {
		t.Parallel()
		got := apply(t, mosaic.ToolUseBlock{Input: map[string]any{}}, ``, ` `)
		assert.Equal(t, map[string]any{}, got.(mosaic.ToolUseBlock).Input)
	})

	t.Run("nil map input becomes the patch", func(t *testing.T) {
		t.Parallel()
		var input map[string]any
		got := apply(t, mosaic.ToolUseBlock{Input: input}, `{"a":"x"}`)
		assert.Equal(t, map[string]any{"a": "x"}, got.(mosaic.ToolUseBlock).Input)
	})
}

// Non-object values on either side are dropped without an error, so a caller
// relying on such input loses it silently. These cases pin that behavior so
// that changing it is a deliberate decision.
func TestApplyDelta_NonObjectMergeIsNoOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    any
		fragment string
	}{
		{name: "array fragment", input: map[string]any{"a": 1.0}, fragment: `[1,2]`},
		{name: "scalar fragment", input: map[string]any{"a": 1.0}, fragment: `"text"`},
		{name: "array input", input: []any{1.0}, fragment: `{"a":1}`},
		{name: "nil input", input: nil, fragment: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := mosaic.ToolUseBlock{ID: "tu_1", Input: tt.input}
			got, err := mosaic.ApplyDelta(b, mosaic.JSONDelta{PartialJSON: tt.fragment})
			require.NoError(t, err)
			assert.Equal(t, b, got)
		})
	}
}

func TestApplyDelta_InvalidJSON(t *testing.T) {
	t.Parallel()
	input := map[string]any{"a": 1.0}
	_, err := mosaic.ApplyDelta(mosaic.ToolUseBlock{Input: input}, mosaic.JSONDelta{PartialJSON: `{"a":`})

	var parseErr *mosaic.DeltaParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, `{"a":`, parseErr.Fragment)
	assert.Equal(t, input, parseErr.Input)
	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestApplyDelta_Mismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block mosaic.Block
		delta mosaic.Delta
		want  string
	}{
		{name: "json onto text", block: mosaic.TextBlock{}, delta: mosaic.JSONDelta{PartialJSON: "{}"}, want: "cannot apply json delta to text block"},
		{name: "text onto tool use", block: mosaic.ToolUseBlock{}, delta: mosaic.TextDelta{Text: "x"}, want: "cannot apply text delta to tool_use block"},
		{name: "text onto tool result", block: mosaic.ToolResultBlock{}, delta: mosaic.TextDelta{Text: "x"}, want: "cannot apply text delta to tool_result block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mosaic.ApplyDelta(tt.block, tt.delta)
			assert.Nil(t, got)
			var mismatch *mosaic.ContentMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.delta, mismatch.From)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestApplyDeltas(t *testing.T) {
	t.Parallel()

	t.Run("merges fragments of one document", func(t *testing.T) {
		t.Parallel()
		got, err := mosaic.ApplyDeltas(mosaic.ToolUseBlock{Input: map[string]any{}}, []mosaic.Delta{
			mosaic.JSONDelta{PartialJSON: ""},
			mosaic.JSONDelta{PartialJSON: `{"city":`},
			mosaic.JSONDelta{PartialJSON: ` "Paris"}`},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"city": "Paris"}, got.(mosaic.ToolUseBlock).Input)
	})

	t.Run("no deltas leaves the block unchanged", func(t *testing.T) {
		t.Parallel()
		got, err := mosaic.ApplyDeltas(mosaic.TextBlock{Text: "x"}, nil)
		require.NoError(t, err)
		assert.Equal(t, mosaic.TextBlock{Text: "x"}, got)
	})

	t.Run("mixed run fails", func(t *testing.T) {
		t.Parallel()
		_, err := mosaic.ApplyDeltas(mosaic.TextBlock{}, []mosaic.Delta{
			mosaic.TextDelta{Text: "x"},
			mosaic.JSONDelta{PartialJSON: "{}"},
		})
		var mismatch *mosaic.ContentMismatchError
		assert.ErrorAs(t, err, &mismatch)
	})
}

func TestApplyDelta_MergeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every key of the later patch wins", prop.ForAll(
		func(first, second map[string]int) bool {
			b, err := mosaic.ApplyDelta(mosaic.ToolUseBlock{Input: map[string]any{}}, jsonDelta(first))
			if err != nil {
				return false
			}
			b, err = mosaic.ApplyDelta(b, jsonDelta(second))
			if err != nil {
				return false
			}
			got := b.(mosaic.ToolUseBlock).Input.(map[string]any)
			want := map[string]any{}
			for k, v := range first {
				want[k] = float64(v)
			}
			for k, v := range second {
				want[k] = float64(v)
			}
			return assert.ObjectsAreEqual(want, got)
		},
		gen.MapOf(gen.AlphaString(), gen.IntRange(-1000, 1000)),
		gen.MapOf(gen.AlphaString(), gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}

func jsonDelta(m map[string]int) mosaic.JSONDelta {
	data, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("marshal %v: %v", m, err))
	}
	return mosaic.JSONDelta{PartialJSON: string(data)}
}
