//go:build e2e

package withdraw_test

import (
	"net/http"
	"testing"
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/handler/dto/response"
	"enrollment-sync/tests/common/builder"
	"enrollment-sync/tests/common/dbtest"
	"enrollment-sync/tests/common/httptest"
	"enrollment-sync/tests/e2e"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	enrollmentsURL = "/api/enrollments"
	waitFor        = 10 * time.Second
	tick           = 50 * time.Millisecond
)

type WithdrawSuite struct {
	e2e.SharedSuite
}

func TestWithdrawSuite(t *testing.T) {
	suite.Run(t, new(WithdrawSuite))
}

func (s *WithdrawSuite) post(r *gin.Engine, path, token string, body any, want int) {
	t := s.T()
	w := httptest.PerformRequest(t, r, http.MethodPost, path, body, token)
	require.Equal(t, want, w.Code, "POST %s: %s", path, w.Body.String())
}

func (s *WithdrawSuite) eligibility(id string) response.EligibilityResponse {
	var body response.EligibilityResponse
	w := httptest.PerformRequest(s.T(), s.Enrollment.Router, http.MethodGet, enrollmentsURL+"/"+id+"/withdraw-eligibility", nil, "")
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
	return body
}

func (s *WithdrawSuite) enrollment(id string) response.EnrollmentResponse {
	var body response.EnrollmentResponse
	w := httptest.PerformRequest(s.T(), s.Enrollment.Router, http.MethodGet, enrollmentsURL+"/"+id, nil, "")
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
	return body
}

func (s *WithdrawSuite) resource(id string) response.ResourceResponse {
	var body response.ResourceResponse
	w := httptest.PerformRequest(s.T(), s.Authority.Router, http.MethodGet, "/api/resources/2025/"+id, nil, "")
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
	return body
}

func (s *WithdrawSuite) approve(id string) {
	req := builder.NewEnrollmentBuilder().WithExternalID(id).BuildCreateRequestDTO()
	s.post(s.Enrollment.Router, enrollmentsURL, "", req, http.StatusCreated)
	s.post(s.Enrollment.Router, enrollmentsURL+"/"+id+"/submit", "", nil, http.StatusOK)
	s.post(s.Enrollment.Router, enrollmentsURL+"/"+id+"/approve", "", nil, http.StatusOK)
}

func (s *WithdrawSuite) conditionURL(id string, c canonical.Condition, action string) string {
	return "/api/resources/2025/" + id + "/conditions/" + string(c) + "/" + action
}

// =============================================================================
// TestApprovalPropagation
// =============================================================================

func (s *WithdrawSuite) TestApprovalPropagation() {
	s.Run("Normal case: approval creates the canonical resource and an allowed snapshot", func() {
		t := s.T()
		s.approve("R-1")

		require.Eventually(t, func() bool { return s.eligibility("R-1").CanWithdraw }, waitFor, tick)

		got := s.eligibility("R-1")
		want := response.EligibilityResponse{
			ExternalID:         "R-1",
			PlanningPeriod:     "2025",
			CanWithdraw:        true,
			BlockingConditions: []string{},
		}
		if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(response.EligibilityResponse{}, "UpdatedAt")); diff != "" {
			t.Errorf("eligibility mismatch (-want +got):\n%s", diff)
		}

		res := s.resource("R-1")
		s.Equal(string(canonical.StatusActive), res.Status)
		s.Len(res.Capacity, len(canonical.Seasons))

		require.Eventually(t, func() bool {
			return dbtest.CountRows(t, s.Enrollment.DB, "outbox_records", "published_at IS NULL") == 0
		}, waitFor, tick)
		s.Equal(1, dbtest.CountRows(t, s.Enrollment.DB, "outbox_records", "topic = $1", s.Config.Topics.Approved))
		s.Equal(1, dbtest.CountRows(t, s.Authority.DB, "canonical_resources", "external_id = $1", "R-1"))
	})

	s.Run("Error case: withdrawing before any eligibility arrived is refused", func() {
		req := builder.NewEnrollmentBuilder().WithExternalID("R-2").BuildCreateRequestDTO()
		s.post(s.Enrollment.Router, enrollmentsURL, "", req, http.StatusCreated)

		w := httptest.PerformRequest(s.T(), s.Enrollment.Router, http.MethodPost, enrollmentsURL+"/R-2/withdraw", nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
		s.Equal("DRAFT", s.enrollment("R-2").Status)
	})
}

// =============================================================================
// TestWithdrawLifecycle
// =============================================================================

func (s *WithdrawSuite) TestWithdrawLifecycle() {
	s.Run("Normal case: blocked, unblocked, withdrawn", func() {
		t := s.T()
		s.approve("R-10")
		require.Eventually(t, func() bool { return s.eligibility("R-10").CanWithdraw }, waitFor, tick)

		s.post(s.Authority.Router, s.conditionURL("R-10", canonical.ConditionOfferSubmitted, "enable"), s.AdminToken, nil, http.StatusOK)
		s.post(s.Authority.Router, s.conditionURL("R-10", canonical.ConditionFRAPExists, "enable"), s.AdminToken, nil, http.StatusOK)

		require.Eventually(t, func() bool { return len(s.eligibility("R-10").BlockingConditions) == 2 }, waitFor, tick)
		e := s.eligibility("R-10")
		s.False(e.CanWithdraw)
		s.Equal([]string{"FRAP_EXISTS", "OFFER_SUBMITTED"}, e.BlockingConditions)
		require.NotNil(t, e.Reason)

		w := httptest.PerformRequest(t, s.Enrollment.Router, http.MethodPost, enrollmentsURL+"/R-10/withdraw", nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, *e.Reason)

		s.post(s.Authority.Router, s.conditionURL("R-10", canonical.ConditionOfferSubmitted, "disable"), s.AdminToken, nil, http.StatusOK)
		s.post(s.Authority.Router, s.conditionURL("R-10", canonical.ConditionFRAPExists, "disable"), s.AdminToken, nil, http.StatusOK)
		require.Eventually(t, func() bool { return s.eligibility("R-10").CanWithdraw }, waitFor, tick)

		s.post(s.Enrollment.Router, enrollmentsURL+"/R-10/withdraw", "", nil, http.StatusOK)
		require.Eventually(t, func() bool { return s.enrollment("R-10").Status == "WITHDRAWN" }, waitFor, tick)

		res := s.resource("R-10")
		s.Equal(string(canonical.StatusWithdrawn), res.Status)
		for season, v := range res.Capacity {
			s.Zero(v, "capacity for %s", season)
		}

		require.Eventually(t, func() bool {
			e := s.eligibility("R-10")
			return e.Reason != nil && *e.Reason == canonical.MsgWithdrawn
		}, waitFor, tick)
	})

	s.Run("Error case: condition codes are validated", func() {
		t := s.T()
		s.approve("R-11")
		require.Eventually(t, func() bool { return s.eligibility("R-11").CanWithdraw }, waitFor, tick)

		w := httptest.PerformRequest(t, s.Authority.Router, http.MethodPost, "/api/resources/2025/R-11/conditions/NOPE/enable", nil, s.AdminToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "unknown blocking condition")

		w = httptest.PerformRequest(t, s.Authority.Router, http.MethodPost, s.conditionURL("R-11", canonical.ConditionFRAPExists, "enable"), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "")
	})
}

// =============================================================================
// TestAdminRejections
// =============================================================================

func (s *WithdrawSuite) TestAdminRejections() {
	s.Run("Normal case: no rejections yet", func() {
		w := httptest.PerformRequest(s.T(), s.Enrollment.Router, http.MethodGet, "/api/admin/withdraw-rejections", nil, s.AdminToken)
		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`[]`, w.Body.String())
	})

	s.Run("Error case: correction requires a rejected withdrawal", func() {
		s.approve("R-20")
		w := httptest.PerformRequest(s.T(), s.Enrollment.Router, http.MethodPost, "/api/admin/enrollments/R-20/correct-withdrawal", nil, s.AdminToken)
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
	})
}
