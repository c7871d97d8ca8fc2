// Package event defines the wire messages exchanged between the Enrollment
// and Authority services. Payloads are JSON with camelCase keys.
package event

import (
	"encoding/json"
	"time"

	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/pkg/errs"

	"github.com/google/uuid"
)

type Type string

const (
	TypeApproved          Type = "enrollment.approved"
	TypeWithdrawRequested Type = "enrollment.withdraw.requested"
	TypeEligibility       Type = "resource.withdraw.eligibility"
	TypeWithdrawCompleted Type = "resource.withdraw.completed"
	TypeWithdrawRejected  Type = "resource.withdraw.rejected"
)

// Topics maps each message kind to its broker topic.
type Topics struct {
	Approved          string
	WithdrawRequested string
	Eligibility       string
	WithdrawCompleted string
	WithdrawRejected  string
}

func TopicsFromConfig(cfg config.TopicsConfig) Topics {
	return Topics{
		Approved:          cfg.Approved,
		WithdrawRequested: cfg.WithdrawRequested,
		Eligibility:       cfg.Eligibility,
		WithdrawCompleted: cfg.WithdrawCompleted,
		WithdrawRejected:  cfg.WithdrawRejected,
	}
}

// RoutingKey keeps every message about one resource on the same partition.
func RoutingKey(planningPeriod, externalID string) string {
	return planningPeriod + ":" + externalID
}

type Header struct {
	EventID        string    `json:"eventId"`
	EventType      Type      `json:"eventType"`
	OccurredAt     time.Time `json:"occurredAt"`
	ExternalID     string    `json:"externalId"`
	PlanningPeriod string    `json:"planningPeriod"`
}

func NewHeader(t Type, planningPeriod, externalID string, now time.Time) Header {
	return Header{
		EventID:        uuid.NewString(),
		EventType:      t,
		OccurredAt:     now,
		ExternalID:     externalID,
		PlanningPeriod: planningPeriod,
	}
}

func (h Header) Meta() Header { return h }

func (h Header) RoutingKey() string { return RoutingKey(h.PlanningPeriod, h.ExternalID) }

func (h Header) validate(want Type) error {
	switch {
	case h.EventID == "":
		return errs.New("eventId is required")
	case h.ExternalID == "":
		return errs.New("externalId is required")
	case h.PlanningPeriod == "":
		return errs.New("planningPeriod is required")
	case h.OccurredAt.IsZero():
		return errs.New("occurredAt is required")
	case h.EventType != "" && h.EventType != want:
		return errs.Newf("eventType %q does not match %q", h.EventType, want)
	}
	return nil
}

// Message is implemented by every payload type.
type Message interface {
	Meta() Header
	Kind() Type
	Validate() error
}

type Approved struct {
	Header
	ParticipantName string `json:"participantName"`
	ResourceName    string `json:"resourceName"`
	ResourceType    string `json:"resourceType"`
}

func (Approved) Kind() Type         { return TypeApproved }
func (m Approved) Validate() error { return m.validate(TypeApproved) }

type WithdrawRequested struct {
	Header
}

func (WithdrawRequested) Kind() Type         { return TypeWithdrawRequested }
func (m WithdrawRequested) Validate() error { return m.validate(TypeWithdrawRequested) }

// Eligibility carries the authority's verdict. A missing "allowed" decodes as
// false.
type Eligibility struct {
	Header
	Allowed            bool      `json:"allowed"`
	Reason             *string   `json:"reason,omitempty"`
	BlockingConditions []string  `json:"blockingConditions"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (Eligibility) Kind() Type         { return TypeEligibility }
func (m Eligibility) Validate() error { return m.validate(TypeEligibility) }

type WithdrawCompleted struct {
	Header
}

func (WithdrawCompleted) Kind() Type         { return TypeWithdrawCompleted }
func (m WithdrawCompleted) Validate() error { return m.validate(TypeWithdrawCompleted) }

type WithdrawRejected struct {
	Header
	Reason string `json:"reason"`
}

func (WithdrawRejected) Kind() Type         { return TypeWithdrawRejected }
func (m WithdrawRejected) Validate() error { return m.validate(TypeWithdrawRejected) }

func Encode(m Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to encode %s", m.Kind())
	}
	return b, nil
}

// Decode unmarshals payload into m and validates it. Every failure is marked
// errs.ErrMalformedMessage.
func Decode(payload []byte, m Message) error {
	if err := json.Unmarshal(payload, m); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to decode message"), errs.ErrMalformedMessage)
	}
	if err := m.Validate(); err != nil {
		return errs.Mark(errs.Wrapf(err, "invalid %s message", m.Kind()), errs.ErrMalformedMessage)
	}
	return nil
}
