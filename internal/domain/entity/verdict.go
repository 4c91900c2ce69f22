package entity

import "strings"

// RuleResult итог проверки одного правила
type RuleResult string

const (
	RulePass RuleResult = "pass"
	RuleFail RuleResult = "fail"
	RuleWarn RuleResult = "warn"
)

// ParseRuleResult приводит ответ модели к одному из трёх значений.
// Всё, что не распознано, считается предупреждением.
func ParseRuleResult(s string) RuleResult {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "passed", "ok":
		return RulePass
	case "fail", "failed":
		return RuleFail
	default:
		return RuleWarn
	}
}

// RuleDetail пояснение по отдельному правилу
type RuleDetail struct {
	Rule    string     `json:"rule"`
	Result  RuleResult `json:"result"`
	Explain string     `json:"explain"`
}

// Verdict итог проверки постера. После создания не изменяется.
type Verdict struct {
	Passed  bool         `json:"passed"`
	Reason  string       `json:"reason"`
	Details []RuleDetail `json:"details,omitempty"`
	Raw     string       `json:"raw,omitempty"` // сырой ответ модели для диагностики
}

// PassVerdict создаёт успешный вердикт
func PassVerdict(reason string, details ...RuleDetail) Verdict {
	return Verdict{Passed: true, Reason: reason, Details: details}
}

// FailVerdict создаёт отрицательный вердикт
func FailVerdict(reason string, details ...RuleDetail) Verdict {
	return Verdict{Passed: false, Reason: reason, Details: details}
}

// Clone возвращает копию, не разделяющую слайс деталей с оригиналом.
func (v Verdict) Clone() Verdict {
	if v.Details != nil {
		details := make([]RuleDetail, len(v.Details))
		copy(details, v.Details)
		v.Details = details
	}
	return v
}
