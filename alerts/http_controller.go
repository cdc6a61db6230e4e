package alerts

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/safespace/safespace-api/auth"
)

// Logger is the minimal logging surface the package needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// HTTPController serves the emergency alert endpoints. Every route assumes
// the token middleware already ran.
type HTTPController struct {
	repo       Alerts
	logger     Logger
	contextKey string
}

type ControllerOption func(*HTTPController)

func WithLogger(l Logger) ControllerOption {
	return func(c *HTTPController) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithContextKey(key string) ControllerOption {
	return func(c *HTTPController) {
		if key != "" {
			c.contextKey = key
		}
	}
}

func NewHTTPController(repo Alerts, opts ...ControllerOption) *HTTPController {
	c := &HTTPController{
		repo:       repo,
		logger:     nopLogger{},
		contextKey: "user",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RegisterRoutes mounts the alert endpoints; the protected middleware is
// applied per route.
func RegisterRoutes[T any](app router.Router[T], c *HTTPController, protected router.MiddlewareFunc) {
	app.Post("/alerts", c.Create, protected).SetName("alerts.create")
	app.Get("/alerts", c.List, protected).SetName("alerts.list")
	app.Patch("/alerts/:id/resolve", c.Resolve, protected).SetName("alerts.resolve")
}

// CreatePayload is the alert submission body
type CreatePayload struct {
	Type      string   `json:"type" form:"type"`
	Message   string   `json:"message" form:"message"`
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
	Address   string   `json:"address" form:"address"`
}

// Validate will run validation rules
func (p CreatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required, validation.In(
			TypeSOS, TypeUnsafeArea, TypeHarassment, TypeMedical, TypeOther,
		)),
		validation.Field(&p.Message, validation.Length(0, 500)),
	)
}

func (c *HTTPController) Create(ctx router.Context) error {
	userID, err := c.currentUserID(ctx)
	if err != nil {
		return c.unauthorized(ctx)
	}

	payload := new(CreatePayload)
	if err := ctx.Bind(payload); err != nil {
		c.logger.Error("alert create parse payload: %s", err)
		return c.fail(ctx, http.StatusBadRequest, "could not parse request body")
	}

	if err := payload.Validate(); err != nil {
		return c.fail(ctx, http.StatusBadRequest, err.Error())
	}

	record := &Alert{
		UserID:    userID,
		Type:      payload.Type,
		Message:   payload.Message,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Address:   payload.Address,
		Status:    StatusActive,
	}

	created, err := c.repo.Create(ctx.Context(), record)
	if err != nil {
		c.logger.Error("alert create: %s", err)
		return c.internal(ctx)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"status": "success",
		"data":   map[string]any{"alert": created},
	})
}

func (c *HTTPController) List(ctx router.Context) error {
	userID, err := c.currentUserID(ctx)
	if err != nil {
		return c.unauthorized(ctx)
	}

	records, err := c.repo.ListByUser(ctx.Context(), userID)
	if err != nil {
		c.logger.Error("alert list: %s", err)
		return c.internal(ctx)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"results": len(records),
		"data":    map[string]any{"alerts": records},
	})
}

// ResolvePayload optionally overrides the closing status
type ResolvePayload struct {
	Status string `json:"status" form:"status"`
}

// Validate will run validation rules
func (p ResolvePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Status, validation.In(StatusResolved, StatusCancelled)),
	)
}

func (c *HTTPController) Resolve(ctx router.Context) error {
	userID, err := c.currentUserID(ctx)
	if err != nil {
		return c.unauthorized(ctx)
	}

	alertID, err := uuid.Parse(ctx.Param("id", ""))
	if err != nil {
		return c.fail(ctx, http.StatusBadRequest, "invalid alert id")
	}

	payload := new(ResolvePayload)
	if err := ctx.Bind(payload); err == nil {
		if err := payload.Validate(); err != nil {
			return c.fail(ctx, http.StatusBadRequest, err.Error())
		}
	}

	status := payload.Status
	if status == "" {
		status = StatusResolved
	}

	record, err := c.repo.Resolve(ctx.Context(), alertID, userID, status)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return c.fail(ctx, http.StatusNotFound, "no active alert with that id")
		}
		c.logger.Error("alert resolve: %s", err)
		return c.internal(ctx)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"status": "success",
		"data":   map[string]any{"alert": record},
	})
}

func (c *HTTPController) currentUserID(ctx router.Context) (uuid.UUID, error) {
	session, err := auth.GetRouterSession(ctx, c.contextKey)
	if err != nil {
		return uuid.Nil, err
	}
	return session.GetUserUUID()
}

func (c *HTTPController) fail(ctx router.Context, status int, message string) error {
	return ctx.JSON(status, map[string]any{
		"status":  "fail",
		"message": message,
	})
}

func (c *HTTPController) unauthorized(ctx router.Context) error {
	return ctx.JSON(http.StatusUnauthorized, map[string]any{
		"status":  "fail",
		"message": "you are not logged in, please log in to get access",
	})
}

func (c *HTTPController) internal(ctx router.Context) error {
	return ctx.JSON(http.StatusInternalServerError, map[string]any{
		"status":  "error",
		"message": "something went wrong",
	})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
