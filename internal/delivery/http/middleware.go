package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-fulfillment/internal/auth"
	"shop-fulfillment/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	identityKey     = "identity"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func authenticate(v auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok || v == nil {
			newErrorResponse(c, http.StatusUnauthorized, service.KindAuth, service.ErrUnauthenticated.Error())
			return
		}
		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			handleError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func identity(c *gin.Context) auth.Identity {
	id, _ := c.Get(identityKey)
	ident, _ := id.(auth.Identity)
	return ident
}
