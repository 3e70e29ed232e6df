package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/oliver-zyn/productivity-hub/internal/errors"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

const (
	UserIDContextKey = "userID"

	// CalendarTokenHeader carries the calendar provider's access token,
	// obtained by the client from its identity provider.
	CalendarTokenHeader = "X-Calendar-Token"
)

// Auth resolves the bearer token to the workspace owner. Every route behind
// it reads and writes that user's workspace only.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, apiErr := bearerToken(c.GetHeader("Authorization"))
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		userID, apiErr := authService.ParseToken(token)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(UserIDContextKey)
}

// CalendarToken returns the provider token sent with the request. A
// "Bearer " prefix is accepted and stripped.
func CalendarToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader(CalendarTokenHeader))
	if token, apiErr := bearerToken(raw); apiErr == nil {
		return token
	}
	return raw
}

func bearerToken(header string) (string, *apperrors.APIError) {
	if header == "" {
		return "", apperrors.Unauthorized("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
		return "", apperrors.Unauthorized("invalid authorization format")
	}
	return strings.TrimSpace(token), nil
}

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
			"details": apiErr.Details,
		},
	})
}
