package api

import (
	"net/http"

	reqdto "enrollment-sync/internal/handler/dto/request"
	resdto "enrollment-sync/internal/handler/dto/response"
	"enrollment-sync/internal/handler/httperr"
	"enrollment-sync/internal/usecase/commands"
	"enrollment-sync/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	cmds commands.EnrollmentCommands
	q    queries.EnrollmentQueries
}

func NewEnrollmentHandler(cmds commands.EnrollmentCommands, q queries.EnrollmentQueries) *EnrollmentHandler {
	return &EnrollmentHandler{cmds: cmds, q: q}
}

// @Summary Create enrollment
// @Description Create a draft enrollment for a resource
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body reqdto.CreateEnrollmentRequest true "Create enrollment request"
// @Success 201 {object} resdto.EnrollmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req reqdto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := h.cmds.Create(c.Request.Context(), in); err != nil {
		httperr.AbortWithUsecaseError(c, err, "Create enrollment failed")
		return
	}
	view, err := h.q.GetByExternalID(c.Request.Context(), in.ExternalID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load enrollment", nil)
		return
	}
	c.Header("Location", "/api/enrollments/"+view.ExternalID)
	c.JSON(http.StatusCreated, resdto.FromEnrollmentView(view))
}

// @Summary List enrollments
// @Description List all enrollments, most recently updated first
// @Tags enrollments
// @Produce json
// @Success 200 {array} resdto.EnrollmentResponse
// @Failure 500 {object} httperr.Response
// @Router /api/enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	items, err := h.q.ListAll(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEnrollmentList(items))
}

// @Summary Get enrollment
// @Tags enrollments
// @Produce json
// @Param id path string true "External ID"
// @Success 200 {object} resdto.EnrollmentResponse
// @Failure 404 {object} httperr.Response
// @Router /api/enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	view, err := h.q.GetByExternalID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err, "Failed to load enrollment")
		return
	}
	c.JSON(http.StatusOK, resdto.FromEnrollmentView(view))
}

// @Summary Submit enrollment
// @Tags enrollments
// @Produce json
// @Param id path string true "External ID"
// @Success 200 {object} resdto.EnrollmentResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/enrollments/{id}/submit [post]
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	respondAfter(c, h.q, h.cmds.Submit, "Submit failed")
}

// @Summary Approve enrollment
// @Description Approve a submitted enrollment and notify the resource authority
// @Tags enrollments
// @Produce json
// @Param id path string true "External ID"
// @Success 200 {object} resdto.EnrollmentResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/enrollments/{id}/approve [post]
func (h *EnrollmentHandler) Approve(c *gin.Context) {
	respondAfter(c, h.q, h.cmds.Approve, "Approve failed")
}

// @Summary Request withdrawal
// @Description Request withdrawal; allowed only when the cached eligibility says so
// @Tags enrollments
// @Produce json
// @Param id path string true "External ID"
// @Success 200 {object} resdto.EnrollmentResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/enrollments/{id}/withdraw [post]
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	respondAfter(c, h.q, h.cmds.Withdraw, "Withdraw failed")
}

// @Summary Withdraw eligibility
// @Description Cached withdraw eligibility as last reported by the resource authority
// @Tags enrollments
// @Produce json
// @Param id path string true "External ID"
// @Success 200 {object} resdto.EligibilityResponse
// @Failure 404 {object} httperr.Response
// @Router /api/enrollments/{id}/withdraw-eligibility [get]
func (h *EnrollmentHandler) GetEligibility(c *gin.Context) {
	view, err := h.q.GetEligibility(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err, "Failed to load eligibility")
		return
	}
	c.JSON(http.StatusOK, resdto.FromEligibilityView(view))
}
