package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey   = "claims"
	IdentityKey = "identity"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// bearer extracts the raw token from the Authorization header. Websocket
// clients cannot set headers, so an access_token query parameter is
// accepted on upgrade requests only.
func bearer(c *gin.Context) (string, string) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			if tok := c.Query("access_token"); tok != "" {
				return tok, ""
			}
		}
		return "", "missing Authorization header"
	}
	scheme, tok, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", "invalid Authorization header"
	}
	return strings.TrimSpace(tok), ""
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier.
// The verified claims and the caller's identity (the sub claim) are stored on the context.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearer(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(IdentityKey, sub)
		c.Next()
	}
}

// Identity returns the authenticated caller's identity, or "".
func Identity(c *gin.Context) string {
	return c.GetString(IdentityKey)
}

// Claims returns the verified token claims, or nil.
func Claims(c *gin.Context) map[string]interface{} {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	cm, _ := v.(map[string]interface{})
	return cm
}

// rateKey prefers the authenticated identity and falls back to the client IP.
func rateKey(c *gin.Context) string {
	if id := Identity(c); id != "" {
		return "sub:" + id
	}
	if cm := Claims(c); cm != nil {
		if sub, ok := cm["sub"].(string); ok && sub != "" {
			return "sub:" + sub
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
