package api

import (
	"context"
	"net/http"

	resdto "enrollment-sync/internal/handler/dto/response"
	"enrollment-sync/internal/handler/httperr"
	"enrollment-sync/internal/usecase/commands"
	"enrollment-sync/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	cmds commands.EnrollmentCommands
	q    queries.EnrollmentQueries
}

func NewAdminHandler(cmds commands.EnrollmentCommands, q queries.EnrollmentQueries) *AdminHandler {
	return &AdminHandler{cmds: cmds, q: q}
}

// @Summary List rejected withdrawals
// @Description Enrollments whose withdrawal the authority rejected, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.EnrollmentResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/withdraw-rejections [get]
func (h *AdminHandler) ListWithdrawRejections(c *gin.Context) {
	items, err := h.q.ListWithdrawRejected(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEnrollmentList(items))
}

// @Summary Correct rejected withdrawal
// @Description Move a rejected withdrawal back to approved and clear the rejection
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "External ID"
// @Success 200 {object} resdto.EnrollmentResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/admin/enrollments/{id}/correct-withdrawal [post]
func (h *AdminHandler) CorrectWithdrawal(c *gin.Context) {
	respondAfter(c, h.q, h.cmds.CorrectRejectedWithdrawal, "Correction failed")
}

// respondAfter runs a state change and answers with the updated enrollment.
func respondAfter(c *gin.Context, q queries.EnrollmentQueries, cmd func(ctx context.Context, externalID string) error, failMsg string) {
	id := c.Param("id")
	if err := cmd(c.Request.Context(), id); err != nil {
		httperr.AbortWithUsecaseError(c, err, failMsg)
		return
	}
	view, err := q.GetByExternalID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load enrollment", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEnrollmentView(view))
}
