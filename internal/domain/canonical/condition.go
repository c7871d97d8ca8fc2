package canonical

import (
	"sort"
	"strings"

	"enrollment-sync/internal/pkg/errs"
)

type Condition string

const (
	ConditionFRAPExists                 Condition = "FRAP_EXISTS"
	ConditionHedgeRegistrationSubmitted Condition = "HEDGE_REGISTRATION_SUBMITTED"
	ConditionOfferSubmitted             Condition = "OFFER_SUBMITTED"
	ConditionZRCTransactionExists       Condition = "ZRC_TRANSACTION_EXISTS"
)

var ErrUnknownCondition = errs.New("unknown blocking condition")

var conditionSentences = map[Condition]string{
	ConditionFRAPExists:                 "A FRAP exists for this resource. Withdrawal is not allowed until it is resolved.",
	ConditionHedgeRegistrationSubmitted: "A hedge registration has been submitted for this resource. Withdrawal is not allowed until it is resolved.",
	ConditionOfferSubmitted:             "An offer has been submitted for this resource. Withdrawal is not allowed until it is resolved.",
	ConditionZRCTransactionExists:       "A ZRC transaction exists for this resource. Withdrawal is not allowed until it is resolved.",
}

func ParseCondition(code string) (Condition, error) {
	c := Condition(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := conditionSentences[c]; !ok {
		return "", errs.Mark(errs.Newf("unknown blocking condition %q", code), ErrUnknownCondition)
	}
	return c, nil
}

func (c Condition) String() string { return string(c) }

// Sentence is the fixed user-facing text for the condition.
func (c Condition) Sentence() string {
	return conditionSentences[c]
}

// ComposeReason joins the sentences of the given conditions, ordered by code,
// with a single space.
func ComposeReason(conds []Condition) string {
	sorted := SortConditions(conds)
	parts := make([]string, 0, len(sorted))
	for _, c := range sorted {
		parts = append(parts, c.Sentence())
	}
	return strings.Join(parts, " ")
}

func SortConditions(conds []Condition) []Condition {
	out := append([]Condition(nil), conds...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
