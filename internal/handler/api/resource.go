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

type ResourceHandler struct {
	cmds commands.ResourceCommands
	q    queries.ResourceQueries
}

func NewResourceHandler(cmds commands.ResourceCommands, q queries.ResourceQueries) *ResourceHandler {
	return &ResourceHandler{cmds: cmds, q: q}
}

// @Summary Get canonical resource
// @Description Authoritative record with capacity, blocking conditions and current eligibility
// @Tags resources
// @Produce json
// @Param period path string true "Planning period"
// @Param id path string true "External ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{period}/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	view, err := h.q.Get(c.Request.Context(), c.Param("period"), c.Param("id"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err, "Failed to load resource")
		return
	}
	c.JSON(http.StatusOK, resdto.FromResourceView(view))
}

// @Summary Enable blocking condition
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param period path string true "Planning period"
// @Param id path string true "External ID"
// @Param code path string true "Condition code" Enums(FRAP_EXISTS, HEDGE_REGISTRATION_SUBMITTED, OFFER_SUBMITTED, ZRC_TRANSACTION_EXISTS)
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{period}/{id}/conditions/{code}/enable [post]
func (h *ResourceHandler) EnableCondition(c *gin.Context) {
	h.changeCondition(c, h.cmds.EnableCondition, "Enable condition failed")
}

// @Summary Disable blocking condition
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param period path string true "Planning period"
// @Param id path string true "External ID"
// @Param code path string true "Condition code"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{period}/{id}/conditions/{code}/disable [post]
func (h *ResourceHandler) DisableCondition(c *gin.Context) {
	h.changeCondition(c, h.cmds.DisableCondition, "Disable condition failed")
}

func (h *ResourceHandler) changeCondition(c *gin.Context, cmd func(ctx context.Context, period, id, code string) error, failMsg string) {
	period, id := c.Param("period"), c.Param("id")
	if err := cmd(c.Request.Context(), period, id, c.Param("code")); err != nil {
		httperr.AbortWithUsecaseError(c, err, failMsg)
		return
	}
	view, err := h.q.Get(c.Request.Context(), period, id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load resource", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResourceView(view))
}
