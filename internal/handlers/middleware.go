package handlers

import (
	"errors"
	"net/http"
	"strings"

	"agri_market/internal/auth"
	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// TokenValidator resolves a bearer token into claims.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

func AuthRequired(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "missing bearer token"})
			return
		}

		claims, err := validator.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			message := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: message})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

func actor(c *gin.Context) services.Actor {
	value, _ := c.Get(ctxUserID)
	userID, _ := value.(uint)
	return services.Actor{UserID: userID, Role: c.GetString(ctxRole)}
}
