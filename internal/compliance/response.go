package compliance

import (
	"encoding/json"
	"strings"

	"postergen/internal/domain/entity"
	"postergen/internal/llmjson"
)

const (
	reasonUnparsable = "unparsable response"
	reasonNoReason   = "adjudication failed without reason"
)

type detailPayload struct {
	Rule    string `json:"rule"`
	Result  string `json:"result"`
	Explain string `json:"explain"`
}

type verdictPayload struct {
	Passed  *bool           `json:"passed"`
	Reason  string          `json:"reason"`
	Details []detailPayload `json:"details"`
}

// ParseResponse достаёт вердикт из ответа модели. Кандидат принимается, только если это
// JSON-объект с логическим полем passed. Если ничего не подошло, возвращается FAIL
// с сырым ответом для диагностики. FAIL без причины получает причину по умолчанию.
func ParseResponse(raw string) entity.Verdict {
	var payload verdictPayload
	_, ok := llmjson.Extract(raw, func(b []byte) bool {
		if !llmjson.IsObject(b) {
			return false
		}
		var p verdictPayload
		if err := json.Unmarshal(b, &p); err != nil || p.Passed == nil {
			return false
		}
		payload = p
		return true
	})
	if !ok {
		v := entity.FailVerdict(reasonUnparsable)
		v.Raw = raw
		return v
	}

	details := make([]entity.RuleDetail, 0, len(payload.Details))
	for _, d := range payload.Details {
		details = append(details, entity.RuleDetail{
			Rule:    d.Rule,
			Result:  entity.ParseRuleResult(d.Result),
			Explain: d.Explain,
		})
	}
	reason := strings.TrimSpace(payload.Reason)
	if !*payload.Passed && reason == "" {
		reason = reasonNoReason
	}
	return entity.Verdict{
		Passed:  *payload.Passed,
		Reason:  reason,
		Details: details,
	}
}
