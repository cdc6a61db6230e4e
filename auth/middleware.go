package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/safespace/safespace-api/middleware/jwtware"
)

// tokenValidatorAdapter bridges the TokenService to the middleware's
// validator interface.
type tokenValidatorAdapter struct {
	svc TokenService
}

func (a tokenValidatorAdapter) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := a.svc.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ProtectedRoute builds the middleware that guards authenticated endpoints.
// Validated claims end up in the request locals under the configured
// context key.
func ProtectedRoute(cfg Config, svc TokenService, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = DefaultAuthErrorHandler
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		TokenValidator: tokenValidatorAdapter{svc: svc},
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
	})
}

// DefaultAuthErrorHandler answers every failed token check with a uniform
// 401 so callers cannot tell a missing token from a bad one.
func DefaultAuthErrorHandler(c router.Context, err error) error {
	message := "you are not logged in, please log in to get access"

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		message = "your session has expired, please log in again"
	}

	return c.JSON(http.StatusUnauthorized, map[string]any{
		"status":  "fail",
		"message": message,
	})
}
