package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/internal/controller"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/service"
)

type AdminSessionController struct {
	historyService service.HistoryService
	sessionService service.SessionService
}

func NewAdminSessionController(historyService service.HistoryService, sessionService service.SessionService) *AdminSessionController {
	return &AdminSessionController{historyService: historyService, sessionService: sessionService}
}

// ListSessions godoc
// @Summary (Admin) Latest completed sessions
// @Description Up to 100 completed sessions, newest first.
// @Tags Admin - Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SessionSummaryDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/sessions [get]
func (c *AdminSessionController) ListSessions(ctx *gin.Context) {
	sessions, err := c.historyService.ListCompletedSessions(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve sessions")
		return
	}
	ctx.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary (Admin) Review of one session
// @Tags Admin - Sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.SessionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/sessions/{id} [get]
func (c *AdminSessionController) GetSession(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.historyService.GetSessionDetail(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve session details")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// DeleteSession godoc
// @Summary (Admin) Delete a session
// @Tags Admin - Sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.DeletedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/sessions/{id} [delete]
func (c *AdminSessionController) DeleteSession(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.sessionService.DeleteSession(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete session")
		return
	}
	ctx.JSON(http.StatusOK, dto.DeletedResponse{Success: true, Message: "Session deleted", DeletedID: id})
}
