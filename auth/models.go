package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account record. PasswordHash and the lockout bookkeeping
// never serialize to JSON.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	EmailVerified bool       `bun:"is_email_verified" json:"is_email_verified"`
	LoginAttempts int        `bun:"login_attempts" json:"-"`
	LockUntil     *time.Time `bun:"lock_until,nullzero" json:"-"`
	LoggedInAt    *time.Time `bun:"loggedin_at,nullzero" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Locked reports whether the account is inside an active lockout window.
func (u *User) Locked() bool {
	return u.LockUntil != nil && time.Now().Before(*u.LockUntil)
}

// NormalizeEmail lowercases and trims an email so the unique index on
// users.email catches case variants of the same address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TokenPurpose discriminates out-of-band token flows
type TokenPurpose = string

const (
	// PurposeEmailVerification tokens confirm address ownership
	PurposeEmailVerification TokenPurpose = "email-verification"
	// PurposePasswordReset tokens authorize a password change
	PurposePasswordReset TokenPurpose = "password-reset"
)

// Token is a single-use out-of-band credential. Only the SHA-256 digest of
// the raw value is stored; the raw value travels to the user by email and
// is never persisted.
type Token struct {
	bun.BaseModel `bun:"table:tokens,alias:tkn"`
	ID            uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TokenHash     string       `bun:"token_hash,notnull,unique" json:"-"`
	UserID        uuid.UUID    `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Purpose       TokenPurpose `bun:"purpose,notnull" json:"purpose,omitempty"`
	ExpiresAt     time.Time    `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the token TTL has elapsed.
func (t *Token) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
