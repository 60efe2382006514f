package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const ctxUserID = "user_id"

// authMiddleware verifies a bearer token issued by the hosted auth service
// and resolves its subject against the profiles table. Tokens are only
// verified here, never issued; account management stays external.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := s.userFromToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		if _, err := s.profiles.GetProfile(c.Request.Context(), userID); err != nil {
			s.fail(c, http.StatusUnauthorized, "unknown account", err)
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// optionalUser extracts the authenticated user if a valid token is present,
// without failing the request when it is absent.
func (s *Server) optionalUser(c *gin.Context) (string, bool) {
	return s.userFromToken(c)
}

func (s *Server) userFromToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}
