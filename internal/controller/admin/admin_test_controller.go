package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/internal/controller"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminTestController struct {
	adminTestService service.AdminTestService
	questionService  service.QuestionService
}

func NewAdminTestController(adminTestService service.AdminTestService, questionService service.QuestionService) *AdminTestController {
	return &AdminTestController{adminTestService: adminTestService, questionService: questionService}
}

// ListTests godoc
// @Summary (Admin) List all tests
// @Description Every test, active or not, with question and session counts.
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AdminTestSummaryDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests [get]
func (c *AdminTestController) ListTests(ctx *gin.Context) {
	tests, err := c.adminTestService.ListTests(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve tests")
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTest godoc
// @Summary (Admin) Get a test with correct answers
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {object} dto.AdminTestDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid test ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests/{id} [get]
func (c *AdminTestController) GetTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	test, err := c.adminTestService.GetTest(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve test")
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// CreateTest godoc
// @Summary (Admin) Create a test
// @Description Creates test metadata. Setting isActive deactivates every other test.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test body dto.TestUpsertDTO true "Test metadata"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.TestUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateTest: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}
	id, err := c.adminTestService.CreateTest(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create test")
		return
	}
	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Success: true, ID: id})
}

// UpdateTest godoc
// @Summary (Admin) Update a test
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Param test body dto.TestUpsertDTO true "Test metadata"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests/{id} [put]
func (c *AdminTestController) UpdateTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.TestUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdateTest: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}
	if err := c.adminTestService.UpdateTest(ctx.Request.Context(), id, req); err != nil {
		controller.RespondError(ctx, err, "Failed to update test")
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// DeleteTest godoc
// @Summary (Admin) Delete a test
// @Description Also removes its questions, answers and sessions.
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {object} dto.DeletedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid test ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests/{id} [delete]
func (c *AdminTestController) DeleteTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.adminTestService.DeleteTest(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete test")
		return
	}
	ctx.JSON(http.StatusOK, dto.DeletedResponse{Success: true, Message: "Test deleted", DeletedID: id})
}

// ActivateTest godoc
// @Summary (Admin) Make a test the active one
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid test ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests/{id}/activate [post]
func (c *AdminTestController) ActivateTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.adminTestService.ActivateTest(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to activate test")
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// AddQuestion godoc
// @Summary (Admin) Add a question to a test
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Param question body dto.QuestionUpsertDTO true "Question"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or duplicate order"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests/{id}/questions [post]
func (c *AdminTestController) AddQuestion(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}
	id, err := c.questionService.AddQuestion(ctx.Request.Context(), testID, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to add question")
		return
	}
	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Success: true, ID: id})
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param question body dto.QuestionUpsertDTO true "Question"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or duplicate order"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{id} [put]
func (c *AdminTestController) UpdateQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}
	if err := c.questionService.UpdateQuestion(ctx.Request.Context(), id, req); err != nil {
		controller.RespondError(ctx, err, "Failed to update question")
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question and its answers
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.DeletedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid question ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{id} [delete]
func (c *AdminTestController) DeleteQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.questionService.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete question")
		return
	}
	ctx.JSON(http.StatusOK, dto.DeletedResponse{Success: true, Message: "Question deleted", DeletedID: id})
}

// AddAnswer godoc
// @Summary (Admin) Add an answer to a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param answer body dto.AnswerUpsertDTO true "Answer"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or duplicate order"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{id}/answers [post]
func (c *AdminTestController) AddAnswer(ctx *gin.Context) {
	questionID, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AnswerUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}
	id, err := c.questionService.AddAnswer(ctx.Request.Context(), questionID, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to add answer")
		return
	}
	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Success: true, ID: id})
}

// UpdateAnswer godoc
// @Summary (Admin) Update an answer
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Param answer body dto.AnswerUpsertDTO true "Answer"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or duplicate order"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/answers/{id} [put]
func (c *AdminTestController) UpdateAnswer(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AnswerUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}
	if err := c.questionService.UpdateAnswer(ctx.Request.Context(), id, req); err != nil {
		controller.RespondError(ctx, err, "Failed to update answer")
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// DeleteAnswer godoc
// @Summary (Admin) Delete an answer
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Success 200 {object} dto.DeletedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid answer ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/answers/{id} [delete]
func (c *AdminTestController) DeleteAnswer(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.questionService.DeleteAnswer(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete answer")
		return
	}
	ctx.JSON(http.StatusOK, dto.DeletedResponse{Success: true, Message: "Answer deleted", DeletedID: id})
}
