package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/internal/controller"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/service"
)

type AdminAuthController struct {
	authService service.AdminAuthService
}

func NewAdminAuthController(authService service.AdminAuthService) *AdminAuthController {
	return &AdminAuthController{authService: authService}
}

// Login godoc
// @Summary (Admin) Log in
// @Description Returns a bearer token for the other admin routes.
// @Tags Admin - Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Admin credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/login [post]
func (c *AdminAuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Username and password are required")
		return
	}
	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to log in")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
