package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/internal/auth"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/rs/zerolog/log"
)

const adminClaimsKey = "admin_claims"

// AdminAuth requires a valid "Authorization: Bearer <jwt>" header.
func AdminAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing bearer token"})
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(raw))
		if err != nil {
			log.Warn().Err(err).Str("request_id", GetRequestID(c)).Msg("Rejected admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		c.Set(adminClaimsKey, claims)
		c.Next()
	}
}

// AdminClaims returns the claims stored by AdminAuth.
func AdminClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(adminClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
