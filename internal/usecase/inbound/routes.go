package inbound

import (
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/usecase/commands"
)

// NewEnrollmentRoutes subscribes the Enrollment Service to the authority's
// verdicts and outcomes.
func NewEnrollmentRoutes(g *Guard, h *commands.EnrollmentEvents, topics event.Topics) *Router {
	r := NewRouter()
	r.Handle(topics.Eligibility, Route[event.Eligibility](g, h.ApplyEligibility))
	r.Handle(topics.WithdrawCompleted, Route[event.WithdrawCompleted](g, h.ApplyWithdrawCompleted))
	r.Handle(topics.WithdrawRejected, Route[event.WithdrawRejected](g, h.ApplyWithdrawRejected))
	return r
}

// NewAuthorityRoutes subscribes the Authority Service to enrollment events.
func NewAuthorityRoutes(g *Guard, h *commands.ResourceEvents, topics event.Topics) *Router {
	r := NewRouter()
	r.Handle(topics.Approved, Route[event.Approved](g, h.ApplyApproved))
	r.Handle(topics.WithdrawRequested, Route[event.WithdrawRequested](g, h.ApplyWithdrawRequested))
	return r
}
