package compliance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()

	require.Equal(t, 80, r.snippetLimit)
	require.Equal(t, 512, r.maxDepth)
	require.True(t, r.tileClass("clubcard-side"))
	require.False(t, r.tileClass("promo"))
	require.True(t, r.tileID("hero-price-box"))
	require.False(t, r.tileID(""))
}

func TestRules_MatchBanned(t *testing.T) {
	r := DefaultRules()

	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"full money back guarantee today", "money back guarantee", true},
		{"enter our competition", "competition", true},
		{"win a prize", "prize", true},
		{"we are the #1 brand", "#1", true},
		{"sustainably sourced", "sustainab", true},
		{"see t&cs", "t&cs", true},
		{"enter our competitions", "competition", true},
		{"big prizes to be won", "prize", true},
		{"winners announced weekly", "winner", true},
		{"all guarantees honoured", "guarantee", true},
		{"guaranteed fresh", "guarantee", true},
		{"greener packaging", "greener", true},
		{"our bestselling juice", "best", true},
		{"supporting local charities", "charit", true},
		{"winning taste", "winning", true},
		{"fine wine selection", "", false},
		{"winter warmer", "", false},
		{"greenhouse tomatoes", "", false},
		{"spring greens", "", false},
		{"rewind and relax", "", false},
		{"fresh taste", "", false},
	}
	for _, tc := range cases {
		got, ok := r.matchBanned(tc.text)
		require.Equal(t, tc.ok, ok, tc.text)
		require.Equal(t, tc.want, got, tc.text)
	}
}

func TestRules_MatchPrice(t *testing.T) {
	r := DefaultRules()

	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"only £4.99", "£4.99", true},
		{"$1,299.00 value", "$1,299.00", true},
		{"costs 15 GBP", "15 GBP", true},
		{"Save 20% now!", "Save 20", true},
		{"25 % off", "25 %", true},
		{"was 3 pounds", "was 3", true},
		{"Fresh Taste", "", false},
		{"Pack of 6", "", false},
	}
	for _, tc := range cases {
		got, ok := r.matchPrice(tc.text)
		require.Equal(t, tc.ok, ok, tc.text)
		require.Equal(t, tc.want, got, tc.text)
	}
}

func TestRules_Snippet(t *testing.T) {
	r := DefaultRules()

	long := strings.Repeat("é", 100)
	require.Equal(t, strings.Repeat("é", 80), r.snippet(long))
	require.Equal(t, "short", r.snippet("short"))
}

func TestParseRules_Override(t *testing.T) {
	r, err := ParseRules([]byte(`
snippet_limit: 10
banned_phrases:
  - organic
`))
	require.NoError(t, err)
	require.Equal(t, 10, r.snippetLimit)

	_, ok := r.matchBanned("win big")
	require.False(t, ok)
	phrase, ok := r.matchBanned("organic apples")
	require.True(t, ok)
	require.Equal(t, "organic", phrase)

	_, ok = r.matchPrice("£2")
	require.True(t, ok)
}

func TestParseRules_Invalid(t *testing.T) {
	_, err := ParseRules([]byte("snippet_limit: 0"))
	require.Error(t, err)

	_, err = ParseRules([]byte("price_patterns:\n  - name: broken\n    pattern: '(['"))
	require.ErrorContains(t, err, "broken")

	_, err = ParseRules([]byte("price_patterns: []"))
	require.Error(t, err)

	_, err = ParseRules([]byte("max_depth: [oops"))
	require.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	r, err := LoadRules("")
	require.NoError(t, err)
	require.Equal(t, 512, r.maxDepth)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 64\n"), 0o600))

	r, err = LoadRules(path)
	require.NoError(t, err)
	require.Equal(t, 64, r.maxDepth)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
