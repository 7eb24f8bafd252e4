package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/config"
	"github.com/kendall-kelly/jobshop-api/utils"
	"github.com/sirupsen/logrus"
)

const (
	// ScopeExportReports is required to push report exports to the archive
	ScopeExportReports = "export:reports"

	// Gin context keys set once a token has been validated
	ContextUserID = "user_id"
	ContextClaims = "validated_claims"

	jwksCacheTTL = 5 * time.Minute
	clockSkew    = time.Minute
)

// CustomClaims holds the space-separated scope claim issued by Auth0
type CustomClaims struct {
	Scope string `json:"scope"`
}

// Validate satisfies validator.CustomClaims; scopes are checked per route
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// HasScope reports whether expectedScope is one of the granted scopes
func (c CustomClaims) HasScope(expectedScope string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == expectedScope {
			return true
		}
	}
	return false
}

// EnsureValidToken validates the bearer token against the Auth0 tenant named
// in cfg. Requests without a token get MISSING_TOKEN, anything that fails
// validation gets INVALID_TOKEN; both are 401 and stop the chain.
func EnsureValidToken(cfg *config.Config, log logrus.FieldLogger) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL)
	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(clockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	return func(c *gin.Context) {
		var rejected error
		checker := jwtmiddleware.New(
			jwtValidator.ValidateToken,
			jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				rejected = err
			}),
		)

		authorized := false
		checker.CheckJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				rejected = errors.New("validated claims missing from request context")
				return
			}
			c.Set(ContextUserID, claims.RegisteredClaims.Subject)
			c.Set(ContextClaims, claims)
			c.Request = r
			authorized = true
		})).ServeHTTP(c.Writer, c.Request)

		if authorized {
			c.Next()
			return
		}

		log.WithError(rejected).WithField("path", c.Request.URL.Path).Warn("Encountered error while validating JWT")
		if errors.Is(rejected, jwtmiddleware.ErrJWTMissing) {
			utils.RespondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Authorization bearer token required")
		} else {
			utils.RespondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Failed to validate JWT.")
		}
		c.Abort()
	}, nil
}

// GetUserID returns the token subject stored by EnsureValidToken
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}
	return userIDStr, nil
}

// GetClaims returns the validated token claims stored by EnsureValidToken
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(ContextClaims)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}
	return validatedClaims, nil
}

// RequireScope rejects callers whose token lacks scope. It must run after
// EnsureValidToken.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "MISSING_CLAIMS", "Could not retrieve token claims")
			c.Abort()
			return
		}

		custom, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !custom.HasScope(scope) {
			utils.RespondError(c, http.StatusForbidden, "INSUFFICIENT_SCOPE", "Insufficient permissions to access this resource", "requires "+scope)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthError is returned when auth data is missing from the request context
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
