package canonical

import "time"

// Verdict is what gets published as the eligibility message.
type Verdict struct {
	Allowed    bool
	Reason     *string
	Conditions []Condition
}

func (v Verdict) ConditionCodes() []string {
	out := make([]string, 0, len(v.Conditions))
	for _, c := range v.Conditions {
		out = append(out, c.String())
	}
	return out
}

// Eligibility recomputes the verdict from current state.
func (r *Resource) Eligibility() Verdict {
	conds := r.Conditions()
	v := Verdict{
		Allowed:    r.status == StatusActive && len(conds) == 0,
		Conditions: conds,
	}
	switch {
	case r.status == StatusWithdrawn:
		msg := MsgWithdrawn
		v.Reason = &msg
	case len(conds) > 0:
		msg := ComposeReason(conds)
		v.Reason = &msg
	}
	return v
}

type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeCompleted
)

// Decision is the adjudicator's answer to a withdraw request. Eligibility is
// set when a fresh verdict must be published alongside the outcome.
type Decision struct {
	Outcome     Outcome
	Reason      string
	Eligibility *Verdict
}

// Adjudicate decides a withdraw request against current authoritative state.
// r may be nil when no canonical record exists. On completion r is mutated.
func Adjudicate(r *Resource, now time.Time) Decision {
	if r == nil {
		return Decision{Outcome: OutcomeRejected, Reason: MsgNotAvailable}
	}
	if r.status == StatusWithdrawn {
		return Decision{Outcome: OutcomeRejected, Reason: MsgAlreadyWithdrawn}
	}
	if r.IsBlocked() {
		v := r.Eligibility()
		return Decision{Outcome: OutcomeRejected, Reason: *v.Reason, Eligibility: &v}
	}

	r.withdraw(now)
	v := r.Eligibility()
	return Decision{Outcome: OutcomeCompleted, Eligibility: &v}
}
