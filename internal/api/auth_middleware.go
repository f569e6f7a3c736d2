package api

import (
	"net/http"
	"strings"

	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token (or the session cookie) and
// injects the user id into the context.
func AuthRequired(v *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(constants.ContextUserID, claims.Subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader(constants.HeaderAuthorization); strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, constants.BearerPrefix))
	}
	token, err := c.Cookie(constants.CookieSessionName)
	if err != nil {
		return ""
	}
	return token
}

func userID(c *gin.Context) string {
	return c.GetString(constants.ContextUserID)
}
