//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/handler/api"
	resdto "enrollment-sync/internal/handler/dto/response"
	"enrollment-sync/internal/pkg/errs"
	"enrollment-sync/tests/common/builder"
	"enrollment-sync/tests/common/httptest"
	commandsmock "enrollment-sync/tests/mock/commands"
	queriesmock "enrollment-sync/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ResourceHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockResourceCommands
	mockQueries  *queriesmock.MockResourceQueries
}

func (s *ResourceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockResourceCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockResourceQueries(s.mockCtrl)
	h := api.NewResourceHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/resources/:period/:id", h.Get)
	s.router.POST("/resources/:period/:id/conditions/:code/enable", h.EnableCondition)
	s.router.POST("/resources/:period/:id/conditions/:code/disable", h.DisableCondition)
}

func (s *ResourceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestResourceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}

func (s *ResourceHandlerTestSuite) TestGet() {
	s.Run("success: active resource without conditions can withdraw", func() {
		view := builder.NewResourceBuilder().BuildView()
		s.mockQueries.EXPECT().Get(gomock.Any(), "2025", "R-1").Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/2025/R-1", nil, "")

		var body resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("R-1", body.ExternalID)
		s.Equal(string(canonical.StatusActive), body.Status)
		s.True(body.CanWithdraw)
		s.Nil(body.Reason)
		s.Len(body.Capacity, len(canonical.Seasons))
	})

	s.Run("success: blocked resource reports the composed reason", func() {
		view := builder.NewResourceBuilder().
			WithConditions(canonical.ConditionOfferSubmitted, canonical.ConditionFRAPExists).
			BuildView()
		s.mockQueries.EXPECT().Get(gomock.Any(), "2025", "R-1").Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/2025/R-1", nil, "")

		var body resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.CanWithdraw)
		s.Equal([]string{"FRAP_EXISTS", "OFFER_SUBMITTED"}, body.BlockingConditions)
		s.Require().NotNil(body.Reason)
		s.Equal(canonical.ComposeReason([]canonical.Condition{canonical.ConditionFRAPExists, canonical.ConditionOfferSubmitted}), *body.Reason)
	})

	s.Run("error: 404 for unknown resource", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), "2025", "R-9").Return(nil, notFound("resource 2025:R-9 not found")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/2025/R-9", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})
}

func (s *ResourceHandlerTestSuite) TestChangeCondition() {
	s.Run("enable success: returns the blocked resource", func() {
		s.mockCommands.EXPECT().EnableCondition(gomock.Any(), "2025", "R-1", "frap_exists").Return(nil).Times(1)
		view := builder.NewResourceBuilder().WithConditions(canonical.ConditionFRAPExists).BuildView()
		s.mockQueries.EXPECT().Get(gomock.Any(), "2025", "R-1").Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/resources/2025/R-1/conditions/frap_exists/enable", nil, "")

		var body resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal([]string{"FRAP_EXISTS"}, body.BlockingConditions)
		s.False(body.CanWithdraw)
	})

	s.Run("disable success: returns the unblocked resource", func() {
		s.mockCommands.EXPECT().DisableCondition(gomock.Any(), "2025", "R-1", "FRAP_EXISTS").Return(nil).Times(1)
		view := builder.NewResourceBuilder().BuildView()
		s.mockQueries.EXPECT().Get(gomock.Any(), "2025", "R-1").Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/resources/2025/R-1/conditions/FRAP_EXISTS/disable", nil, "")

		var body resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.BlockingConditions)
		s.True(body.CanWithdraw)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "unknown condition code",
				commandsError:  errs.Mark(errs.New(`unknown blocking condition "NOPE"`), errs.ErrValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "unknown blocking condition",
			},
			{
				name:           "unknown resource",
				commandsError:  notFound("resource 2025:R-1 not found"),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Enable condition failed",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().EnableCondition(gomock.Any(), "2025", "R-1", "NOPE").Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/resources/2025/R-1/conditions/NOPE/enable", nil, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
