package user

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/internal/controller"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/service"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	catalogService service.CatalogService
	sessionService service.SessionService
	answerService  service.AnswerService
	scoringService service.ScoringService
}

func NewExamController(
	catalogService service.CatalogService,
	sessionService service.SessionService,
	answerService service.AnswerService,
	scoringService service.ScoringService,
) *ExamController {
	return &ExamController{
		catalogService: catalogService,
		sessionService: sessionService,
		answerService:  answerService,
		scoringService: scoringService,
	}
}

// GetActiveTests godoc
// @Summary (User) List active tests
// @Description Tests currently open to students.
// @Tags User - Exams
// @Produce json
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests [get]
func (c *ExamController) GetActiveTests(ctx *gin.Context) {
	tests, err := c.catalogService.ListActiveTests(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve tests")
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTest godoc
// @Summary (User) Get a test to take
// @Description Questions and answers in order. Correctness is never included.
// @Tags User - Exams
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} dto.PublicTestDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid test ID format"
// @Failure 404 {object} dto.ErrorResponse "Test not found or inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests/{id} [get]
func (c *ExamController) GetTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	test, err := c.catalogService.GetPublicTest(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve test")
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// StartSession godoc
// @Summary (User) Start an exam session
// @Description Opens a session on an active test and returns its session token.
// @Tags User - Sessions
// @Accept json
// @Produce json
// @Param session body dto.StartSessionRequest true "Student and test"
// @Success 201 {object} dto.StartSessionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Test not found or inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/start [post]
func (c *ExamController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartSession: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	resp, err := c.sessionService.StartSession(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to start session")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetSessionStatus godoc
// @Summary (User) Get session status
// @Tags User - Sessions
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} dto.SessionStatusDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{token} [get]
func (c *ExamController) GetSessionStatus(ctx *gin.Context) {
	status, err := c.sessionService.GetSessionStatus(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve session")
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// RecordAnswer godoc
// @Summary (User) Record an answer
// @Description Stores the chosen answer for a question, replacing any earlier choice.
// @Tags User - Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session token"
// @Param answer body dto.RecordAnswerRequest true "Question and chosen answer"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or answer"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{token}/answers [post]
func (c *ExamController) RecordAnswer(ctx *gin.Context) {
	var req dto.RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("RecordAnswer: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	if err := c.answerService.RecordAnswer(ctx.Request.Context(), ctx.Param("token"), req); err != nil {
		controller.RespondError(ctx, err, "Failed to record answer")
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// CompleteSession godoc
// @Summary (User) Finish an exam session
// @Description Scores the session once and returns the per-question review. The body is optional.
// @Tags User - Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session token"
// @Param finish body dto.FinishSessionRequest false "Client-observed elapsed time"
// @Success 200 {object} dto.FinishSessionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{token}/complete [post]
func (c *ExamController) CompleteSession(ctx *gin.Context) {
	var req dto.FinishSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn().Err(err).Msg("CompleteSession: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	resp, err := c.scoringService.FinishSession(ctx.Request.Context(), ctx.Param("token"), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to complete session")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
