// Package controller holds helpers shared by the user and admin HTTP
// controllers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/service"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error body for err. Store failures get the generic
// fallback message so internals never reach the client.
func RespondError(ctx *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(fallback)
		ctx.JSON(status, dto.ErrorResponse{Error: fallback})
		return
	}
	ctx.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

// BadRequest rejects a request whose body or path could not be parsed.
func BadRequest(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

// ParseID reads a positive numeric path parameter.
func ParseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(ctx, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}
