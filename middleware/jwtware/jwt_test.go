package jwtware_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"

	"github.com/safespace/safespace-api/middleware/jwtware"
)

type stubClaims struct {
	subject string
}

func (s stubClaims) Subject() string { return s.subject }
func (s stubClaims) UserID() string  { return s.subject }

type stubValidator struct {
	claims jwtware.AuthClaims
	err    error
	seen   string
}

func (s *stubValidator) Validate(raw string) (jwtware.AuthClaims, error) {
	s.seen = raw
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newMiddleware(validator jwtware.TokenValidator, overrides ...func(*jwtware.Config)) router.MiddlewareFunc {
	cfg := jwtware.Config{
		SigningKey: jwtware.SigningKey{
			Key:    []byte("test-secret"),
			JWTAlg: "HS256",
		},
		TokenValidator: validator,
		ErrorHandler: func(c router.Context, err error) error {
			return err
		},
	}

	for _, override := range overrides {
		override(&cfg)
	}

	return jwtware.New(cfg)
}

func TestJWTWare_BasicHeaderExtraction(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{subject: "12345"}}
	middleware := newMiddleware(validator)
	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	// valid token
	ctx := router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("Bearer some.valid.token")
	ctx.On("Locals", "user", mock.Anything).Return(nil)

	err := handler(ctx)
	if err != nil {
		t.Fatalf("unexpected error for valid token: %v", err)
	}
	if !ctx.NextCalled {
		t.Errorf("expected NextCalled to be true, but got false")
	}
	if validator.seen != "some.valid.token" {
		t.Errorf("validator saw %q, expected the raw token", validator.seen)
	}

	// missing token
	ctx = router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("")

	err = handler(ctx)
	if err == nil {
		t.Fatal("expected error for missing token, got nil")
	}
	if !strings.Contains(err.Error(), jwtware.ErrJWTMissingOrMalformed.Error()) {
		t.Errorf("expected missing token error, got: %v", err)
	}

	// header without the scheme
	ctx = router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("some.valid.token")

	err = handler(ctx)
	if err == nil {
		t.Fatal("expected error for schemeless header, got nil")
	}
}

func TestJWTWare_ValidatorRejection(t *testing.T) {
	validationErr := errors.New("token is malformed")
	validator := &stubValidator{err: validationErr}
	middleware := newMiddleware(validator)
	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	ctx := router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("Bearer bad.token.value")

	err := handler(ctx)
	if !errors.Is(err, validationErr) {
		t.Fatalf("expected validator error to pass through, got: %v", err)
	}
	if ctx.NextCalled {
		t.Error("handler must not run after a failed validation")
	}
}

func TestJWTWare_ClaimsStoredInLocals(t *testing.T) {
	claims := stubClaims{subject: "user-42"}
	validator := &stubValidator{claims: claims}
	middleware := newMiddleware(validator)
	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	ctx := router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("Bearer some.valid.token")

	var stored any
	ctx.On("Locals", "user", mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1)
	}).Return(nil)

	if err := handler(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := stored.(jwtware.AuthClaims)
	if !ok {
		t.Fatalf("locals value is %T, expected AuthClaims", stored)
	}
	if got.UserID() != "user-42" {
		t.Errorf("stored claims for %q, expected user-42", got.UserID())
	}
}

func TestJWTWare_Filter(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{subject: "12345"}}
	middleware := newMiddleware(validator, func(cfg *jwtware.Config) {
		cfg.Filter = func(router.Context) bool { return true }
	})
	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	// filtered requests skip extraction and validation entirely
	ctx := router.NewMockContext()
	if err := handler(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.NextCalled {
		t.Error("filtered request should continue down the chain")
	}
	if validator.seen != "" {
		t.Error("validator must not run for filtered requests")
	}
}

func TestJWTWare_CookieExtraction(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{subject: "12345"}}
	middleware := newMiddleware(validator, func(cfg *jwtware.Config) {
		cfg.TokenLookup = "header:Authorization,cookie:jwt"
	})
	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	ctx := router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("")
	ctx.On("Cookies", "jwt").Return("cookie.token.value")
	ctx.On("Locals", "user", mock.Anything).Return(nil)

	if err := handler(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validator.seen != "cookie.token.value" {
		t.Errorf("validator saw %q, expected the cookie value", validator.seen)
	}
}

func TestGetExtractors(t *testing.T) {
	extractors := jwtware.GetExtractors("header:Authorization,cookie:jwt,query:token,param:token")
	if len(extractors) != 4 {
		t.Fatalf("expected 4 extractors, got %d", len(extractors))
	}

	extractors = jwtware.GetExtractors("")
	if len(extractors) != 0 {
		t.Fatalf("expected no extractors for empty lookup, got %d", len(extractors))
	}
}
