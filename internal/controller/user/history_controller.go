package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/internal/controller"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/service"
)

type HistoryController struct {
	historyService service.HistoryService
	sessionService service.SessionService
}

func NewHistoryController(historyService service.HistoryService, sessionService service.SessionService) *HistoryController {
	return &HistoryController{historyService: historyService, sessionService: sessionService}
}

// GetHistory godoc
// @Summary (User) Completed sessions of a student
// @Description Newest first.
// @Tags User - History
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {array} dto.SessionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history/{email} [get]
func (c *HistoryController) GetHistory(ctx *gin.Context) {
	history, err := c.historyService.GetHistoryForEmail(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve history")
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// GetHistoryDetails godoc
// @Summary (User) Review of one session
// @Tags User - History
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.SessionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history/details/{id} [get]
func (c *HistoryController) GetHistoryDetails(ctx *gin.Context) {
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

// DeleteHistoryEntry godoc
// @Summary (User) Delete a history entry
// @Description Removes the session and every answer recorded for it.
// @Tags User - History
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.DeletedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history/{id} [delete]
func (c *HistoryController) DeleteHistoryEntry(ctx *gin.Context) {
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
