package compliance

import (
	"fmt"
	"strings"

	"postergen/internal/domain/entity"
)

const rulePriceText = "Price text"

// Scanner локальная проверка без обращения к модели. Отклоняет очевидные нарушения
// и никогда не выдаёт окончательного одобрения.
type Scanner struct {
	rules *Rules
}

// NewScanner создаёт сканер с заданным набором правил
func NewScanner(rules *Rules) *Scanner {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scanner{rules: rules}
}

// Scan возвращает FAIL при явном нарушении, PASS если найдены только цены внутри плашек,
// и nil, если сказать нечего и решение остаётся за моделью.
func (s *Scanner) Scan(markup ParsedMarkup, _ []entity.DetectedObject, _ entity.ComplianceContext) *entity.Verdict {
	spans := markup.Spans(s.rules)
	if markup.Degraded() {
		return s.scanFlat(spans)
	}

	outside := make([]string, 0, len(spans))
	for _, sp := range spans {
		if sp.Membership != InTile {
			outside = append(outside, sp.Text)
		}
	}
	if phrase, ok := s.rules.matchBanned(strings.ToLower(strings.Join(outside, " "))); ok {
		return verdictPtr(entity.FailVerdict(
			fmt.Sprintf("Disallowed copy keyword detected outside value-tile: '%s'", phrase)))
	}

	var details []entity.RuleDetail
	for _, sp := range spans {
		token, ok := s.rules.matchPrice(sp.Text)
		if !ok {
			continue
		}
		if sp.Membership != InTile {
			return verdictPtr(entity.FailVerdict(
				"Price/discount copy detected outside allowed value-tile",
				entity.RuleDetail{
					Rule:   rulePriceText,
					Result: entity.RuleFail,
					Explain: fmt.Sprintf("Found price-like token '%s' in element <%s> with text '%s'",
						token, sp.Path, s.rules.snippet(sp.Text)),
				}))
		}
		details = append(details, entity.RuleDetail{
			Rule:    rulePriceText,
			Result:  entity.RulePass,
			Explain: fmt.Sprintf("Found price inside allowed tile: '%s'", s.rules.snippet(sp.Text)),
		})
	}

	if len(details) == 0 {
		return nil
	}
	return verdictPtr(entity.PassVerdict("OK (fast-checks)", details...))
}

// scanFlat работает без дерева: плашки не определить, поэтому только FAIL или nil.
func (s *Scanner) scanFlat(spans []TextSpan) *entity.Verdict {
	texts := make([]string, 0, len(spans))
	for _, sp := range spans {
		texts = append(texts, sp.Text)
	}
	text := strings.Join(texts, " ")
	lower := strings.ToLower(text)

	if phrase, ok := s.rules.matchBanned(lower); ok {
		return verdictPtr(entity.FailVerdict(
			fmt.Sprintf("Disallowed copy keyword detected in HTML: '%s'", phrase)))
	}
	if kw, ok := s.rules.matchFlatKeyword(lower); ok {
		return verdictPtr(entity.FailVerdict(
			fmt.Sprintf("Price/discount copy detected in HTML: '%s'", kw)))
	}
	if token, ok := s.rules.matchPrice(text); ok {
		return verdictPtr(entity.FailVerdict(
			fmt.Sprintf("Price/discount copy detected in HTML: '%s'", token)))
	}
	return nil
}

func verdictPtr(v entity.Verdict) *entity.Verdict { return &v }
