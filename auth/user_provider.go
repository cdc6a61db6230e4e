package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// UserTracker is a store we can use to retrieve users and record login
// outcomes
type UserTracker interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	TrackFailedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider handles users
type UserProvider struct {
	store  UserTracker
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserTracker) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Lock state is checked before the password so a locked account
// answers the same to right and wrong passwords, and a failed attempt is
// only charged when a real password comparison failed.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			// burn a comparison so unknown emails cost the same as
			// known ones
			_ = ComparePasswordAndHash(password, EnumerationGuardHash())
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user.Locked() {
		return nil, ErrAccountLocked
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := u.store.TrackFailedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrInvalidCredentials
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login: %s", err)
	}

	return NewIdentity(user), nil
}

// FindIdentityByIdentifier loads an identity without charging the lockout
// accounting, used by session refresh paths. The identifier may be a user
// ID or an email address.
func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	var user *User
	var err error

	if _, perr := uuid.Parse(identifier); perr == nil {
		user, err = u.store.GetByID(ctx, identifier)
	} else {
		user, err = u.store.GetByEmail(ctx, identifier)
	}

	if err != nil {
		return nil, err
	}

	return NewIdentity(user), nil
}

// NewIdentity adapts a user record into the identity the token service
// consumes.
func NewIdentity(user *User) Identity {
	return authIdentity{
		id:       user.ID.String(),
		email:    user.Email,
		name:     user.Name,
		verified: user.EmailVerified,
	}
}

type authIdentity struct {
	id       string
	email    string
	name     string
	verified bool
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Name() string {
	return a.name
}

func (a authIdentity) Verified() bool {
	return a.verified
}

var _ Identity = authIdentity{}
var _ IdentityProvider = UserProvider{}
