package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRuleResult(t *testing.T) {
	require.Equal(t, RulePass, ParseRuleResult("PASS"))
	require.Equal(t, RuleFail, ParseRuleResult(" fail "))
	require.Equal(t, RuleWarn, ParseRuleResult("warn"))
	require.Equal(t, RuleWarn, ParseRuleResult("maybe"))
}

func TestVerdictClone_DoesNotShareDetails(t *testing.T) {
	v := FailVerdict("bad", RuleDetail{Rule: "Price text", Result: RuleFail})
	c := v.Clone()
	c.Details[0].Rule = "changed"
	require.Equal(t, "Price text", v.Details[0].Rule)
}
