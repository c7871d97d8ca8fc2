//go:build unit

package bootstrap_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"enrollment-sync/cmd/bootstrap"
	"enrollment-sync/cmd/bootstrap/components"
	resdto "enrollment-sync/internal/handler/dto/response"
	"enrollment-sync/internal/infra/messaging"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/tests/common/authtest"
	"enrollment-sync/tests/common/builder"
	"enrollment-sync/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

// FlowTestSuite runs both services in-process on the memory store and a
// shared memory broker.
type FlowTestSuite struct {
	suite.Suite
	cfg        config.Config
	broker     *messaging.MemoryBroker
	apps       []*fx.App
	enrollment *gin.Engine
	authority  *gin.Engine
	adminToken string
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowTestSuite))
}

func (s *FlowTestSuite) SetupTest() {
	s.cfg = config.NewTestConfig()
	s.cfg.Kafka.GroupID = ""
	s.broker = messaging.NewMemoryBroker()
	s.adminToken = authtest.NewJWTHelper(s.cfg.JWT).AdminToken(s.T())

	s.enrollment = s.start(bootstrap.Service{Name: "enrollment", GroupID: "enrollment-service"}, components.EnrollmentHandlerModule)
	s.authority = s.start(bootstrap.Service{Name: "authority", GroupID: "resource-authority"}, components.AuthorityHandlerModule)
}

func (s *FlowTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(s.apps) - 1; i >= 0; i-- {
		s.NoError(s.apps[i].Stop(ctx))
	}
	s.apps = nil
	s.NoError(s.broker.Close())
}

func (s *FlowTestSuite) start(svc bootstrap.Service, handlers fx.Option) *gin.Engine {
	var engine *gin.Engine
	app := fx.New(
		fx.Supply(svc, s.cfg),
		fx.Provide(
			func() messaging.Broker { return s.broker },
			func() messaging.Producer { return s.broker },
			func() *gin.Engine { return gin.New() },
		),
		bootstrap.LoggerModule,
		bootstrap.DBModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		bootstrap.WorkerModule,
		handlers,
		fx.Populate(&engine),
		fx.NopLogger,
	)
	s.Require().NoError(app.Err())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(app.Start(ctx))
	s.apps = append(s.apps, app)
	return engine
}

func (s *FlowTestSuite) eligibility(id string) resdto.EligibilityResponse {
	var body resdto.EligibilityResponse
	rec := httptest.PerformRequest(s.T(), s.enrollment, http.MethodGet, "/api/enrollments/"+id+"/withdraw-eligibility", nil, "")
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	return body
}

func (s *FlowTestSuite) enrollmentStatus(id string) string {
	var body resdto.EnrollmentResponse
	rec := httptest.PerformRequest(s.T(), s.enrollment, http.MethodGet, "/api/enrollments/"+id, nil, "")
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	return body.Status
}

func (s *FlowTestSuite) post(engine *gin.Engine, path string, body any, token string, status int) {
	rec := httptest.PerformRequest(s.T(), engine, http.MethodPost, path, body, token)
	httptest.AssertSuccessResponse(s.T(), rec, status, nil)
}

func (s *FlowTestSuite) approve(id string) {
	req := builder.NewEnrollmentBuilder().WithExternalID(id).BuildCreateRequestDTO()
	s.post(s.enrollment, "/api/enrollments", req, "", http.StatusCreated)
	s.post(s.enrollment, "/api/enrollments/"+id+"/submit", nil, "", http.StatusOK)
	s.post(s.enrollment, "/api/enrollments/"+id+"/approve", nil, "", http.StatusOK)
}

func (s *FlowTestSuite) TestWithdrawLifecycle() {
	const id = "R-100"

	s.Run("eligibility is pending until the authority answers", func() {
		req := builder.NewEnrollmentBuilder().WithExternalID(id).BuildCreateRequestDTO()
		s.post(s.enrollment, "/api/enrollments", req, "", http.StatusCreated)

		e := s.eligibility(id)
		s.False(e.CanWithdraw)
		s.Nil(e.UpdatedAt)

		s.post(s.enrollment, "/api/enrollments/"+id+"/submit", nil, "", http.StatusOK)
		s.post(s.enrollment, "/api/enrollments/"+id+"/approve", nil, "", http.StatusOK)
	})

	s.Run("approval creates the canonical resource and an allowed snapshot", func() {
		s.Eventually(func() bool { return s.eligibility(id).CanWithdraw }, 5*time.Second, 20*time.Millisecond)

		var res resdto.ResourceResponse
		rec := httptest.PerformRequest(s.T(), s.authority, http.MethodGet, "/api/resources/2025/"+id, nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("ACTIVE", res.Status)
		s.NotEmpty(res.Capacity)
	})

	s.Run("a blocking condition propagates and gates the withdrawal", func() {
		s.post(s.authority, "/api/resources/2025/"+id+"/conditions/FRAP_EXISTS/enable", nil, s.adminToken, http.StatusOK)

		s.Eventually(func() bool { return !s.eligibility(id).CanWithdraw }, 5*time.Second, 20*time.Millisecond)
		e := s.eligibility(id)
		s.Equal([]string{"FRAP_EXISTS"}, e.BlockingConditions)
		s.Require().NotNil(e.Reason)

		rec := httptest.PerformRequest(s.T(), s.enrollment, http.MethodPost, "/api/enrollments/"+id+"/withdraw", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, *e.Reason)
		s.Equal("APPROVED", s.enrollmentStatus(id))
	})

	s.Run("clearing the condition lets the withdrawal complete", func() {
		s.post(s.authority, "/api/resources/2025/"+id+"/conditions/FRAP_EXISTS/disable", nil, s.adminToken, http.StatusOK)
		s.Eventually(func() bool { return s.eligibility(id).CanWithdraw }, 5*time.Second, 20*time.Millisecond)

		s.post(s.enrollment, "/api/enrollments/"+id+"/withdraw", nil, "", http.StatusOK)
		s.Eventually(func() bool { return s.enrollmentStatus(id) == "WITHDRAWN" }, 5*time.Second, 20*time.Millisecond)

		var res resdto.ResourceResponse
		rec := httptest.PerformRequest(s.T(), s.authority, http.MethodGet, "/api/resources/2025/"+id, nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("WITHDRAWN", res.Status)
		s.False(res.CanWithdraw)

		s.Eventually(func() bool {
			e := s.eligibility(id)
			return e.Reason != nil && *e.Reason == "This resource has been withdrawn."
		}, 5*time.Second, 20*time.Millisecond)
	})
}

func (s *FlowTestSuite) TestAdminEndpointsRequireAdminRole() {
	s.approve("R-200")

	rec := httptest.PerformRequest(s.T(), s.authority, http.MethodPost, "/api/resources/2025/R-200/conditions/FRAP_EXISTS/enable", nil, "")
	httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")

	rec = httptest.PerformRequest(s.T(), s.enrollment, http.MethodGet, "/api/admin/withdraw-rejections", nil, "")
	httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")

	operator := authtest.NewJWTHelper(s.cfg.JWT).OperatorToken(s.T())
	rec = httptest.PerformRequest(s.T(), s.authority, http.MethodPost, "/api/resources/2025/R-200/conditions/FRAP_EXISTS/enable", nil, operator)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")

	rec = httptest.PerformRequest(s.T(), s.enrollment, http.MethodGet, "/api/admin/withdraw-rejections", nil, s.adminToken)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}
