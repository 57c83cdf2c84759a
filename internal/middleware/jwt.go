package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eduhub/examcore/internal/model"
	"github.com/eduhub/examcore/internal/response"
	"github.com/eduhub/examcore/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyPrincipal is the Gin context key for the verified caller.
	ContextKeyPrincipal = "principal"
)

// Authenticator turns a bearer token into a principal.
type Authenticator interface {
	Authenticate(token string) (model.Principal, error)
}

// RequireAuth validates the bearer token and stores the principal in the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		p, err := auth.Authenticate(tokenStr)
		if err != nil {
			code := response.ErrTokenInvalid
			if errors.Is(err, service.ErrTokenExpired) {
				code = response.ErrTokenExpired
			}
			response.AbortFail(c, http.StatusUnauthorized, code)
			return
		}

		c.Set(ContextKeyPrincipal, p)
		c.Next()
	}
}

// GetPrincipal retrieves the verified caller from the Gin context.
func GetPrincipal(c *gin.Context) (model.Principal, bool) {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return model.Principal{}, false
	}
	p, ok := val.(model.Principal)
	return p, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
