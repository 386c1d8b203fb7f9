package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-auth-service/internal/application"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth-service/pkg/response"
)

const (
	CtxAccountKey   = "account"
	CtxAccountIDKey = "accountID"
)

// Authenticator resolves a bearer token to a live account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.Account, error)
}

// BearerAuth reads "Authorization: Bearer <token>", verifies it and injects
// the account into the context.
func BearerAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		a, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status, msg := http.StatusUnauthorized, "invalid access token"
			if errors.Is(err, application.ErrInternal) {
				status, msg = http.StatusInternalServerError, "authentication unavailable"
			}
			response.Error[any](c, status, msg, nil)
			c.Abort()
			return
		}
		c.Set(CtxAccountKey, a)
		c.Set(CtxAccountIDKey, a.ID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
