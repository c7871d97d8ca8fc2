// Package eligibility holds the Enrollment Service's local copy of the
// Authority Service's withdraw verdict for one resource.
package eligibility

import "time"

const DefaultDenialReason = "Withdrawal is not allowed."

// Snapshot is overwritten wholesale by every inbound eligibility message.
// Reason is opaque text owned by the Authority Service.
type Snapshot struct {
	PlanningPeriod     string
	ExternalID         string
	Allowed            bool
	Reason             *string
	BlockingConditions []string
	UpdatedAt          time.Time
}

// DenialReason is the text surfaced to a user whose withdraw is refused.
func (s *Snapshot) DenialReason() string {
	if s.Reason != nil && *s.Reason != "" {
		return *s.Reason
	}
	return DefaultDenialReason
}

func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	if s.Reason != nil {
		r := *s.Reason
		c.Reason = &r
	}
	c.BlockingConditions = append([]string(nil), s.BlockingConditions...)
	return &c
}
