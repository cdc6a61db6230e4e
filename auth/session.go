package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// Session is the decoded view of a validated token.
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetAudience() []string
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetData() map[string]any
}

var _ Session = &SessionObject{}

type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s aud=%v iss=%s iat=%s",
		s.UserID,
		s.Audience,
		s.Issuer,
		issuedAt,
	)
}

// GetRouterSession recovers the session the token middleware stashed in the
// request locals. The middleware stores validated AuthClaims; a raw
// *jwt.Token is accepted for externally validated tokens.
func GetRouterSession(c router.Context, key string) (*SessionObject, error) {
	local := c.Locals(key)
	if local == nil {
		return nil, errors.New("unable to find session", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	switch v := local.(type) {
	case AuthClaims:
		return sessionFromAuthClaims(v)
	case *jwt.Token:
		return sessionFromClaims(v.Claims)
	default:
		return nil, errors.New("unable to decode session", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}
}

func sessionFromClaims(claims jwt.Claims) (*SessionObject, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, errors.New("unable to parse session data", errors.CategoryAuth)
	}

	aud, err := claims.GetAudience()
	if err != nil {
		return nil, errors.New("unable to parse session data", errors.CategoryAuth)
	}

	iss, err := claims.GetIssuer()
	if err != nil {
		return nil, errors.New("unable to parse session data", errors.CategoryAuth)
	}

	eat, err := claims.GetExpirationTime()
	if err != nil || eat == nil {
		return nil, errors.New("unable to parse session data", errors.CategoryAuth)
	}

	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, errors.New("unable to parse session data", errors.CategoryAuth)
	}

	data := map[string]any{}
	if mc, ok := claims.(jwt.MapClaims); ok {
		if verified, ok := mc["verified"].(bool); ok {
			data["verified"] = verified
		}
	}

	return &SessionObject{
		UserID:         sub,
		Audience:       aud,
		Issuer:         iss,
		Data:           data,
		IssuedAt:       &iat.Time,
		ExpirationDate: &eat.Time,
	}, nil
}

// sessionFromAuthClaims creates a SessionObject from validated claims
func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, errors.New("unable to parse session data", errors.CategoryAuth)
	}

	data := make(map[string]any)

	var audience []string
	var issuer string
	if jwtClaims, ok := claims.(*JWTClaims); ok {
		data["verified"] = jwtClaims.Verified
		issuer = jwtClaims.RegisteredClaims.Issuer
		for _, aud := range jwtClaims.RegisteredClaims.Audience {
			audience = append(audience, aud)
		}
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Audience:       audience,
		Issuer:         issuer,
		Data:           data,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
