package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced in structured error payloads.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeAccountLocked   = "ACCOUNT_LOCKED"
	TextCodeEmailTaken      = "EMAIL_TAKEN"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeTokenNotFound   = "TOKEN_NOT_FOUND"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodeUserNotFound    = "USER_NOT_FOUND"
	TextCodeDeliveryFailure = "EMAIL_DELIVERY_FAILED"
)

// ErrInvalidCredentials is the generic login failure. The same value is
// returned for unknown emails and wrong passwords so callers cannot probe
// which accounts exist.
var ErrInvalidCredentials = goerrors.New("incorrect email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrAccountLocked is returned while the lockout window is open, even when
// the presented password is correct.
var ErrAccountLocked = goerrors.New("account temporarily locked due to too many failed login attempts", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeAccountLocked)

// ErrEmailTaken rejects duplicate registrations.
var ErrEmailTaken = goerrors.New("user already exists with this email", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrTokenInvalid covers out-of-band tokens that are unknown, expired, or
// already consumed; the three cases are deliberately indistinguishable.
var ErrTokenInvalid = goerrors.New("token is invalid or has expired", goerrors.CategoryValidation).
	WithTextCode(TextCodeTokenNotFound)

// ErrTokenExpired is the session token expiry sentinel.
var ErrTokenExpired = goerrors.New("authentication token has expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is the session token parse/signature sentinel.
var ErrTokenMalformed = goerrors.New("authentication token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrUserMissing is returned when a consumed token points at a user that no
// longer exists.
var ErrUserMissing = goerrors.New("user no longer exists", goerrors.CategoryValidation).
	WithTextCode(TextCodeUserNotFound)

// ErrDeliveryFailure wraps mail transport errors on the forgot-password
// flow, where a silent failure would strand the user.
var ErrDeliveryFailure = goerrors.New("there was an error sending the email, try again later", goerrors.CategoryOperation).
	WithTextCode(TextCodeDeliveryFailure)
