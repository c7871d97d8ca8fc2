//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/infra/memory"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/pkg/errs"
	"enrollment-sync/internal/usecase/commands"
	"enrollment-sync/tests/common/builder"

	"github.com/stretchr/testify/suite"
)

type EnrollmentCommandsTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	clock *clock.MockClock
	cmds  commands.EnrollmentCommands
}

func (s *EnrollmentCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.clock = clock.NewMockClock(builder.FixedNow)
	s.cmds = commands.NewEnrollmentCommands(s.store, s.clock, topics)
}

func TestEnrollmentCommandsSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentCommandsTestSuite))
}

func (s *EnrollmentCommandsTestSuite) status(id string) string {
	v, err := s.store.FindByExternalID(s.ctx, id)
	s.Require().NoError(err)
	return v.Status
}

func (s *EnrollmentCommandsTestSuite) givenEnrollment(status enrollment.Status) {
	seedEnrollment(s.T(), s.store, builder.NewEnrollmentBuilder().WithStatus(status).BuildDomain())
}

func (s *EnrollmentCommandsTestSuite) validInput() commands.CreateEnrollmentInput {
	return commands.CreateEnrollmentInput{
		ExternalID:      "R-1",
		ParticipantName: "Northwind Energy",
		ResourceName:    "Plant A",
		ResourceType:    "DR",
		PlanningPeriod:  "2025",
	}
}

func (s *EnrollmentCommandsTestSuite) TestCreate() {
	s.Run("creates a draft without emitting events", func() {
		s.SetupTest()
		s.Require().NoError(s.cmds.Create(s.ctx, s.validInput()))

		v, err := s.store.FindByExternalID(s.ctx, "R-1")
		s.Require().NoError(err)
		s.Equal("DRAFT", v.Status)
		s.Equal(builder.FixedNow, v.CreatedAt)
		s.Empty(s.store.Outbox())
	})

	s.Run("duplicate external id is a conflict", func() {
		s.SetupTest()
		s.Require().NoError(s.cmds.Create(s.ctx, s.validInput()))

		err := s.cmds.Create(s.ctx, s.validInput())
		s.True(errs.Is(err, errs.ErrConflict))
		s.Contains(err.Error(), "already exists")
	})

	s.Run("invalid fields are validation errors", func() {
		s.SetupTest()
		in := s.validInput()
		in.ResourceType = "SOLAR"
		err := s.cmds.Create(s.ctx, in)
		s.True(errs.Is(err, errs.ErrValidation))

		in = s.validInput()
		in.ParticipantName = "  "
		err = s.cmds.Create(s.ctx, in)
		s.True(errs.Is(err, errs.ErrValidation))

		_, err = s.store.FindByExternalID(s.ctx, "R-1")
		s.Error(err)
	})
}

func (s *EnrollmentCommandsTestSuite) TestSubmit() {
	s.Run("draft becomes submitted", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusDraft)

		s.Require().NoError(s.cmds.Submit(s.ctx, "R-1"))
		s.Equal("SUBMITTED", s.status("R-1"))
	})

	s.Run("submitting twice is a conflict", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusSubmitted)

		err := s.cmds.Submit(s.ctx, "R-1")
		s.True(errs.Is(err, errs.ErrConflict))
		s.Equal("SUBMITTED", s.status("R-1"))
	})

	s.Run("unknown id is not found", func() {
		s.SetupTest()
		err := s.cmds.Submit(s.ctx, "missing")
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

func (s *EnrollmentCommandsTestSuite) TestApprove() {
	s.Run("emits exactly one approved event with the enrollment data", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusSubmitted)
		s.clock.Set(builder.FixedNow.Add(time.Minute))

		s.Require().NoError(s.cmds.Approve(s.ctx, "R-1"))
		s.Equal("APPROVED", s.status("R-1"))

		recs := outboxOn(s.store, topics.Approved)
		s.Require().Len(recs, 1)
		s.Equal("2025:R-1", recs[0].Key)
		msg := decode[event.Approved](s.T(), recs[0])
		s.Equal(event.TypeApproved, msg.EventType)
		s.Equal("R-1", msg.ExternalID)
		s.Equal("2025", msg.PlanningPeriod)
		s.Equal("Northwind Energy", msg.ParticipantName)
		s.Equal("Plant A", msg.ResourceName)
		s.Equal("DR", msg.ResourceType)
		s.NotEmpty(msg.EventID)
	})

	s.Run("approving a draft is a conflict and emits nothing", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusDraft)

		err := s.cmds.Approve(s.ctx, "R-1")
		s.True(errs.Is(err, errs.ErrConflict))
		s.Empty(s.store.Outbox())
	})
}

func (s *EnrollmentCommandsTestSuite) TestWithdraw() {
	s.Run("without a snapshot eligibility is unknown", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusApproved)

		err := s.cmds.Withdraw(s.ctx, "R-1")
		s.True(errs.Is(err, errs.ErrConflict))
		s.Equal("Eligibility unknown; please retry later.", err.Error())
		s.Equal("APPROVED", s.status("R-1"))
		s.Empty(s.store.Outbox())
	})

	s.Run("a denied snapshot surfaces its reason", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusApproved)
		seedSnapshot(s.T(), s.store, builder.DeniedSnapshot("2025", "R-1", ptr("An offer has been submitted."), "OFFER_SUBMITTED"))

		err := s.cmds.Withdraw(s.ctx, "R-1")
		s.True(errs.Is(err, errs.ErrConflict))
		s.Equal("An offer has been submitted.", err.Error())
		s.Equal("APPROVED", s.status("R-1"))
		s.Empty(s.store.Outbox())
	})

	s.Run("a denied snapshot without reason uses the default text", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusApproved)
		seedSnapshot(s.T(), s.store, builder.DeniedSnapshot("2025", "R-1", nil))

		err := s.cmds.Withdraw(s.ctx, "R-1")
		s.Equal("Withdrawal is not allowed.", err.Error())
	})

	s.Run("an allowed snapshot requests withdrawal", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusApproved)
		seedSnapshot(s.T(), s.store, builder.AllowedSnapshot("2025", "R-1"))

		s.Require().NoError(s.cmds.Withdraw(s.ctx, "R-1"))
		s.Equal("WITHDRAW_REQUESTED", s.status("R-1"))

		recs := outboxOn(s.store, topics.WithdrawRequested)
		s.Require().Len(recs, 1)
		msg := decode[event.WithdrawRequested](s.T(), recs[0])
		s.Equal("R-1", msg.ExternalID)
		s.Equal("2025", msg.PlanningPeriod)
	})

	s.Run("a snapshot for another period does not count", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusApproved)
		seedSnapshot(s.T(), s.store, builder.AllowedSnapshot("2024", "R-1"))

		err := s.cmds.Withdraw(s.ctx, "R-1")
		s.True(errs.Is(err, errs.ErrConflict))
	})

	s.Run("withdraw from draft is a conflict", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusDraft)
		seedSnapshot(s.T(), s.store, builder.AllowedSnapshot("2025", "R-1"))

		err := s.cmds.Withdraw(s.ctx, "R-1")
		s.True(errs.Is(err, errs.ErrConflict))
	})
}

func (s *EnrollmentCommandsTestSuite) TestCorrectRejectedWithdrawal() {
	s.Run("returns a rejected enrollment to approved and clears the rejection", func() {
		s.SetupTest()
		seedEnrollment(s.T(), s.store, builder.NewEnrollmentBuilder().
			WithStatus(enrollment.StatusWithdrawRejected).
			WithRejection("blocked", builder.FixedNow).
			BuildDomain())

		s.Require().NoError(s.cmds.CorrectRejectedWithdrawal(s.ctx, "R-1"))

		v, err := s.store.FindByExternalID(s.ctx, "R-1")
		s.Require().NoError(err)
		s.Equal("APPROVED", v.Status)
		s.Nil(v.RejectionReason)
		s.Nil(v.RejectedAt)
		s.Empty(s.store.Outbox())
	})

	s.Run("only rejected enrollments can be corrected", func() {
		s.SetupTest()
		s.givenEnrollment(enrollment.StatusApproved)

		err := s.cmds.CorrectRejectedWithdrawal(s.ctx, "R-1")
		s.True(errs.Is(err, errs.ErrConflict))
	})
}
