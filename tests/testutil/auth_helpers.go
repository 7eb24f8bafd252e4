package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/middleware"
)

// MockValidatedClaims builds the claims EnsureValidToken would store for a
// token with the given subject and scopes.
func MockValidatedClaims(subject, issuer string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{Scope: strings.Join(scopes, " ")},
	}
}

// SetMockAuthContext marks c as authenticated, skipping token validation
func SetMockAuthContext(c *gin.Context, userID string, issuer string, scopes []string) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextClaims, MockValidatedClaims(userID, issuer, scopes))
}

// MockAuth is SetMockAuthContext as a gin middleware
func MockAuth(userID string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, "https://test.auth0.com/", scopes)
		c.Next()
	}
}
