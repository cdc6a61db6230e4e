package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/safespace/safespace-api/alerts"
	"github.com/safespace/safespace-api/auth"
	"github.com/safespace/safespace-api/config"
	"github.com/safespace/safespace-api/mailer"
	"github.com/safespace/safespace-api/repository"
	"github.com/safespace/safespace-api/resources"
)

type App struct {
	config *gconfig.Container[*config.AppConfig]
	bunDB  *bun.DB
	repo   auth.RepositoryManager
	auther *auth.Auther
	tokens *auth.TokenStore
	mailer auth.Mailer
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *config.AppConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("app"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.AppConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().Debug {
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithMailer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	app.srv.Serve(app.Config().GetServer().GetAddr())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.Config().GetDatabase().GetDSN())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	app.bunDB = bun.NewDB(sqldb, sqlitedialect.New())

	if err := repository.InitSchema(ctx, app.bunDB); err != nil {
		return err
	}

	app.repo = auth.NewRepositoryManager(app.bunDB)

	return app.repo.Validate()
}

// WithMailer wires SMTP delivery; without a configured host we fall back
// to an in-memory recorder so dev flows still complete.
func WithMailer(_ context.Context, app *App) error {
	mcfg := app.Config().GetMailer()

	if mcfg.Host == "" {
		app.GetLogger("mailer").Warn("no SMTP host configured, using in-memory recorder")
		app.mailer = &mailer.Recorder{}
		return nil
	}

	m, err := mailer.New(mailer.Config{
		Host:        mcfg.Host,
		Port:        mcfg.Port,
		Username:    mcfg.Username,
		Password:    mcfg.Password,
		From:        mcfg.From,
		TemplateDir: mcfg.TemplateDir,
		BaseURL:     app.Config().GetServer().GetBaseURL(),
	})
	if err != nil {
		return err
	}

	app.mailer = m

	return nil
}

func WithAuth(_ context.Context, app *App) error {
	provider := auth.NewUserProvider(app.repo.Users()).
		WithLogger(app.GetLogger("auth:provider"))

	app.auther = auth.NewAuthenticator(provider, app.Config().GetAuth()).
		WithLogger(app.GetLogger("auth"))

	app.tokens = auth.NewTokenStore(app.repo.Tokens()).
		WithLogger(app.GetLogger("auth:tokens"))

	return nil
}

func WithHTTPServer(_ context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: app.Config().Debug,
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	protected := auth.ProtectedRoute(
		app.Config().GetAuth(),
		app.auther.TokenService(),
		auth.DefaultAuthErrorHandler,
	)

	api := srv.Router().Group("/api/v1")

	auth.RegisterAuthRoutes(api,
		auth.WithRepositoryManager(app.repo),
		auth.WithAuthenticator(app.auther),
		auth.WithTokenStore(app.tokens),
		auth.WithMailer(app.mailer),
		auth.WithProtectedMiddleware(protected),
		auth.WithControllerLogger(app.GetLogger("auth:ctrl")),
		auth.WithDebug(app.Config().Debug),
	)

	alertsCtrl := alerts.NewHTTPController(
		alerts.NewAlertsRepository(app.bunDB),
		alerts.WithLogger(app.GetLogger("alerts")),
		alerts.WithContextKey(app.Config().GetAuth().GetContextKey()),
	)
	alerts.RegisterRoutes(api, alertsCtrl, protected)

	resources.RegisterRoutes(api, resources.NewHTTPController())

	srv.Router().Get("/healthz", func(ctx router.Context) error {
		if err := app.bunDB.PingContext(ctx.Context()); err != nil {
			return ctx.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "error",
			})
		}
		return ctx.JSON(http.StatusOK, map[string]any{
			"status": "ok",
		})
	}).SetName("health")

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
