package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_BuildsTreeWithParents(t *testing.T) {
	doc, err := Parse(`<div class="promo  hero" id="main"><p>hi</p></div>`, 512)
	require.NoError(t, err)

	texts := doc.Texts()
	require.Len(t, texts, 1)
	require.Equal(t, "hi", texts[0].Data)

	p := texts[0].Parent()
	require.Equal(t, "p", p.Tag)

	div := p.Parent()
	require.Equal(t, "div", div.Tag)
	require.Equal(t, []string{"promo", "hero"}, div.Classes)
	require.Equal(t, "main", div.ID)
	require.True(t, div.HasClass("hero"))
	require.False(t, div.HasClass("her"))
	require.Equal(t, "div.promo.hero#main", div.Path())
}

func TestParse_RecoversMalformedMarkup(t *testing.T) {
	cases := []string{
		`<div class="value-tile">£4.99`,
		`</span><div>ok</div></p>`,
		`<h1>Title<h2>Sub</h1>`,
		`<div <p>broken`,
		``,
	}
	for _, markup := range cases {
		_, err := Parse(markup, 512)
		require.NoError(t, err, markup)
	}
}

func TestParse_DropsComments(t *testing.T) {
	doc, err := Parse(`<!DOCTYPE html><!-- win a prize --><p>Fresh</p>`, 512)
	require.NoError(t, err)

	texts := doc.Texts()
	require.Len(t, texts, 1)
	require.Equal(t, "Fresh", texts[0].Data)
}

func TestParse_TooDeep(t *testing.T) {
	markup := strings.Repeat("<div>", 20) + "x" + strings.Repeat("</div>", 20)

	_, err := Parse(markup, 10)
	require.ErrorIs(t, err, ErrTooDeep)

	_, err = Parse(markup, 100)
	require.NoError(t, err)
}

func TestElement_Closest(t *testing.T) {
	doc, err := Parse(`<section class="clubcard"><div><span>£1</span></div></section>`, 512)
	require.NoError(t, err)

	span := doc.Texts()[0].Parent()
	found := span.Closest(func(e *Element) bool { return e.HasClass("clubcard") })
	require.NotNil(t, found)
	require.Equal(t, "section", found.Tag)

	require.Nil(t, span.Closest(func(e *Element) bool { return e.Tag == "table" }))
}

func TestFlatten(t *testing.T) {
	require.Equal(t, "Fish & Chips £2", Flatten("<p>Fish &amp; Chips</p>\n<b>£2</b>"))
	require.Equal(t, "", Flatten("<br/><hr>"))
}

func TestParsedMarkup_Spans(t *testing.T) {
	rules := DefaultRules()
	parsed := ParseMarkup(`<div class="value-tile"><span>£4.99</span></div><h1>Fresh</h1><style>.win{}</style>`, rules)
	require.False(t, parsed.Degraded())

	require.Equal(t, []TextSpan{
		{Text: "£4.99", Membership: InTile, Path: "span"},
		{Text: "Fresh", Membership: OutsideTile, Path: "h1"},
	}, parsed.Spans(rules))
}

func TestParsedMarkup_SpansJoinInlineText(t *testing.T) {
	rules := DefaultRules()
	parsed := ParseMarkup(`<h1>Only <b>£</b>4.99</h1><p>Was <s>£5</s> <span class="value-tile">£4</span> now</p>`, rules)

	require.Equal(t, []TextSpan{
		{Text: "Only £4.99", Membership: OutsideTile, Path: "h1"},
		{Text: "Was £5", Membership: OutsideTile, Path: "p"},
		{Text: "£4", Membership: InTile, Path: "span.value-tile"},
		{Text: "now", Membership: OutsideTile, Path: "p"},
	}, parsed.Spans(rules))
}

func TestParsedMarkup_SpansByID(t *testing.T) {
	rules := DefaultRules()
	parsed := ParseMarkup(`<div id="main-offer-box"><p>£3</p></div>`, rules)

	spans := parsed.Spans(rules)
	require.Len(t, spans, 1)
	require.Equal(t, InTile, spans[0].Membership)
}

func TestParsedMarkup_Degraded(t *testing.T) {
	rules, err := ParseRules([]byte("max_depth: 3"))
	require.NoError(t, err)

	parsed := ParseMarkup(`<div><div><div>Save <b>20%</b></div></div></div>`, rules)
	require.True(t, parsed.Degraded())
	require.ErrorIs(t, parsed.Err, ErrTooDeep)
	require.Equal(t, []TextSpan{{Text: "Save 20%", Membership: MembershipUnknown}}, parsed.Spans(rules))
}
