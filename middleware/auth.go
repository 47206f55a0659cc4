package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/outagedesk/outage-server/utils"
)

const (
	CtxUser     = "user"
	CtxJob      = "jobObj"
	TokenCookie = "access_token"
)

// AuthJWT accepts "Authorization: Bearer <token>" or the access_token
// session cookie, validates it and puts the claims in the context.
func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := bearerToken(c.GetHeader("Authorization"))
		if rawToken == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				rawToken = cookie
			}
		}
		if rawToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}

		claims, err := utils.VerifyToken(secret, rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(CtxUser, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// CurrentUser returns the subject set by AuthJWT, or "".
func CurrentUser(c *gin.Context) string {
	v, ok := c.Get(CtxUser)
	if !ok {
		return ""
	}
	if claims, ok := v.(*utils.JWTClaims); ok {
		return claims.Subject
	}
	return ""
}
