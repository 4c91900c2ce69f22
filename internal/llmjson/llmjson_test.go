package llmjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func acceptObject(raw []byte) bool { return IsObject(raw) }

func TestExtract_WholeText(t *testing.T) {
	raw, ok := Extract(`  {"a": 1}  `, acceptObject)
	require.True(t, ok)
	require.JSONEq(t, `{"a": 1}`, string(raw))
}

func TestExtract_FencedBlock(t *testing.T) {
	raw, ok := Extract("Sure! ```json\n{\"a\": {\"b\": 2}}\n``` done", acceptObject)
	require.True(t, ok)
	require.JSONEq(t, `{"a": {"b": 2}}`, string(raw))
}

func TestExtract_BalancedBraces(t *testing.T) {
	text := `Here it is: {"x": {"y": 1}} and more {"z": 2}`
	raw, ok := Extract(text, acceptObject)
	require.True(t, ok)
	require.JSONEq(t, `{"x": {"y": 1}}`, string(raw))
}

func TestExtract_SkipsInvalidSpans(t *testing.T) {
	text := `bad {not json} then {"ok": true}`
	raw, ok := Extract(text, acceptObject)
	require.True(t, ok)
	require.JSONEq(t, `{"ok": true}`, string(raw))
}

func TestExtract_StrayClosingBrace(t *testing.T) {
	raw, ok := Extract(`} {"ok": 1}`, acceptObject)
	require.True(t, ok)
	require.JSONEq(t, `{"ok": 1}`, string(raw))
}

func TestExtract_NothingFound(t *testing.T) {
	_, ok := Extract("no json here {unterminated", acceptObject)
	require.False(t, ok)

	_, ok = Extract("   ", acceptObject)
	require.False(t, ok)
}

func TestDecodeObject(t *testing.T) {
	var out struct {
		ProductType string `json:"product_type"`
	}
	ok := DecodeObject("```json\n{\"product_type\": \"juice\"}\n```", &out)
	require.True(t, ok)
	require.Equal(t, "juice", out.ProductType)
}

func TestIsObject(t *testing.T) {
	require.True(t, IsObject([]byte(`{}`)))
	require.False(t, IsObject([]byte(`[]`)))
	require.False(t, IsObject([]byte(`null`)))
	require.False(t, IsObject(json.RawMessage(`{"a":`)))
}
