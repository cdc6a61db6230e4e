package auth

import (
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// SessionCookieName is the cookie the login endpoints mirror the bearer
// token into, for browser clients that cannot hold an Authorization header.
var SessionCookieName = "jwt"

// RegisterAuthRoutes mounts the account endpoints on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post("/auth/register", controller.RegisterPost).SetName("auth.register")
	app.Post("/auth/login", controller.LoginPost).SetName("auth.login")
	app.Post("/auth/logout", controller.LogoutPost).SetName("auth.logout")
	app.Post("/auth/forgot-password", controller.ForgotPasswordPost).SetName("auth.forgot")
	app.Post("/auth/reset-password/:token", controller.ResetPasswordPost).SetName("auth.reset")
	app.Get("/auth/verify-email/:token", controller.VerifyEmailGet).SetName("auth.verify")

	if controller.Protected != nil {
		app.Get("/auth/me", controller.MeGet, controller.Protected).SetName("auth.me")
	}
}

type AuthController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Auther     *Auther
	Tokens     *TokenStore
	Mailer     Mailer
	ContextKey string
	Secure     bool
	Protected  router.MiddlewareFunc
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		ContextKey: "user",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenStore in auth controller...")
	}

	if c.Mailer == nil {
		panic("Missing Mailer in auth controller...")
	}

	return c
}

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithRepositoryManager(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthenticator(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithTokenStore(tokens *TokenStore) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func WithMailer(mailer Mailer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Mailer = mailer
		return c
	}
}

func WithProtectedMiddleware(mw router.MiddlewareFunc) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Protected = mw
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterPayload is the sign up body
type RegisterPayload struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: %s", err)
		return a.fail(ctx, http.StatusBadRequest, "could not parse request body")
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, http.StatusBadRequest, err.Error())
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	var res *RegisterUserResponse
	msg := RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
		OnResponse: func(resp *RegisterUserResponse) {
			res = resp
		},
	}

	handler := NewRegisterUserHandler(a.Repo, a.Tokens, a.Mailer).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		return a.respondError(ctx, err)
	}

	token, err := a.Auther.TokenForIdentity(NewIdentity(res.User))
	if err != nil {
		return a.respondError(ctx, err)
	}

	a.setSessionCookie(ctx, token)

	return ctx.JSON(http.StatusCreated, map[string]any{
		"status": "success",
		"token":  token,
		"data":   map[string]any{"user": res.User},
	})
}

// LoginPayload is the credential body
type LoginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return a.fail(ctx, http.StatusBadRequest, "could not parse request body")
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, http.StatusBadRequest, err.Error())
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(ctx, err)
	}

	a.setSessionCookie(ctx, token)

	return ctx.JSON(http.StatusOK, map[string]any{
		"status": "success",
		"token":  token,
	})
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	// overwrite with a short-lived sentinel rather than a raw delete, so
	// stale caches converge on the logged out value
	ctx.Cookie(&router.Cookie{
		Name:     SessionCookieName,
		Value:    "loggedout",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
		Secure:   a.Secure,
		SameSite: "Lax",
	})

	return ctx.JSON(http.StatusOK, map[string]any{
		"status": "success",
	})
}

// ForgotPasswordPayload carries the account email
type ForgotPasswordPayload struct {
	Email string `json:"email" form:"email"`
}

// Validate will run validation rules
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ForgotPasswordPost(ctx router.Context) error {
	payload := new(ForgotPasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("forgot password parse payload: %s", err)
		return a.fail(ctx, http.StatusBadRequest, "could not parse request body")
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, http.StatusBadRequest, err.Error())
	}

	msg := InitializePasswordResetMessage{
		Email: payload.Email,
	}

	handler := NewInitializePasswordResetHandler(a.Repo, a.Tokens, a.Mailer).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"message": "password reset link sent to email",
	})
}

// ResetPasswordPayload carries the replacement password
type ResetPasswordPayload struct {
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) ResetPasswordPost(ctx router.Context) error {
	payload := new(ResetPasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("reset password parse payload: %s", err)
		return a.fail(ctx, http.StatusBadRequest, "could not parse request body")
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, http.StatusBadRequest, err.Error())
	}

	var res *FinalizePasswordResetResponse
	msg := FinalizePasswordResetMessage{
		Token:    ctx.Param("token", ""),
		Password: payload.Password,
		OnResponse: func(resp *FinalizePasswordResetResponse) {
			res = resp
		},
	}

	handler := NewFinalizePasswordResetHandler(a.Repo, a.Tokens)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		return a.respondError(ctx, err)
	}

	token, err := a.Auther.TokenForIdentity(NewIdentity(res.User))
	if err != nil {
		return a.respondError(ctx, err)
	}

	a.setSessionCookie(ctx, token)

	return ctx.JSON(http.StatusOK, map[string]any{
		"status": "success",
		"token":  token,
	})
}

func (a *AuthController) VerifyEmailGet(ctx router.Context) error {
	msg := VerifyEmailMessage{
		Token: ctx.Param("token", ""),
	}

	handler := NewVerifyEmailHandler(a.Repo, a.Tokens)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"message": "email verified",
	})
}

func (a *AuthController) MeGet(ctx router.Context) error {
	session, err := GetRouterSession(ctx, a.ContextKey)
	if err != nil {
		return a.respondError(ctx, err)
	}

	user, err := a.Repo.Users().GetByID(ctx.Context(), session.GetUserID())
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"status": "success",
		"data":   map[string]any{"user": user},
	})
}

func (a *AuthController) setSessionCookie(ctx router.Context, token string) {
	ctx.Cookie(&router.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(a.Auther.tokenExpiration) * time.Hour),
		HTTPOnly: true,
		Secure:   a.Secure,
		SameSite: "Lax",
	})
}

func (a *AuthController) fail(ctx router.Context, status int, message string) error {
	return ctx.JSON(status, map[string]any{
		"status":  "fail",
		"message": message,
	})
}

// respondError maps domain errors onto the HTTP surface. Unexpected errors
// are logged in full and leave as a generic 500.
func (a *AuthController) respondError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		a.Logger.Error("unhandled error: %s", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"message": "something went wrong",
		})
	}

	status := statusFromCategory(richErr.Category)
	envelope := "fail"
	message := richErr.Message

	if status >= 500 {
		a.Logger.Error("internal error: %s", richErr)
		envelope = "error"
	}

	body := map[string]any{
		"status":  envelope,
		"message": message,
	}

	if richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	return ctx.JSON(status, body)
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryRateLimit:
		return http.StatusLocked
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryOperation, goerrors.CategoryInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
