package enrollment

import (
	"enrollment-sync/internal/pkg/errs"
)

type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusSubmitted         Status = "SUBMITTED"
	StatusApproved          Status = "APPROVED"
	StatusWithdrawRequested Status = "WITHDRAW_REQUESTED"
	StatusWithdrawn         Status = "WITHDRAWN"
	StatusWithdrawRejected  Status = "WITHDRAW_REJECTED"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved,
		StatusWithdrawRequested, StatusWithdrawn, StatusWithdrawRejected:
		return true
	}
	return false
}

type ResourceType string

const (
	ResourceTypeDR   ResourceType = "DR"
	ResourceTypeBTMG ResourceType = "BTMG"
)

func ParseResourceType(s string) (ResourceType, error) {
	switch rt := ResourceType(s); rt {
	case ResourceTypeDR, ResourceTypeBTMG:
		return rt, nil
	}
	return "", errs.Mark(errs.Newf("unknown resource type %q", s), ErrInvalidField)
}

func (t ResourceType) String() string { return string(t) }

var (
	ErrInvalidField = errs.New("invalid enrollment field")
	ErrInvalidState = errs.New("invalid state transition")

	ErrEligibilityUnknown = errs.New("Eligibility unknown; please retry later.")
	ErrEligibilityDenied  = errs.New("withdrawal denied by eligibility")
)
