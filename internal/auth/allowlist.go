// Package auth gates the API behind a fixed list of e-mail identities.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Header carries the caller identity, set by the upstream identity proxy.
	Header = "X-User-Email"
	// IdentityKey is the gin context key holding the authenticated e-mail.
	IdentityKey = "user_email"
)

// AllowList holds the permitted identities. Matching ignores case and
// surrounding spaces.
type AllowList struct {
	emails map[string]struct{}
}

// NewAllowList builds an allow-list from emails.
func NewAllowList(emails []string) *AllowList {
	a := &AllowList{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if e = normalize(e); e != "" {
			a.emails[e] = struct{}{}
		}
	}
	return a
}

// Authenticate returns the normalized identity when email is allowed.
func (a *AllowList) Authenticate(email string) (string, bool) {
	email = normalize(email)
	if email == "" {
		return "", false
	}
	_, ok := a.emails[email]
	if !ok {
		return "", false
	}
	return email, true
}

// Middleware rejects requests whose identity header is missing (401) or not
// allowed (403).
func (a *AllowList) Middleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		presented := c.GetHeader(Header)
		if strings.TrimSpace(presented) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
			return
		}

		identity, ok := a.Authenticate(presented)
		if !ok {
			logger.Warn("identity rejected", zap.String("email", presented), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
