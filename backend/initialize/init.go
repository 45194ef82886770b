package initialize

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"feedback-board/backend/app/controllers"
	"feedback-board/backend/app/db"
	jwtutil "feedback-board/backend/app/jwt"
	"feedback-board/backend/app/middleware"
	"feedback-board/backend/app/repo"
	"feedback-board/backend/app/services"
	"feedback-board/backend/app/session"
	"feedback-board/backend/app/views"
	"feedback-board/backend/config"
	"feedback-board/backend/global"
	"feedback-board/backend/router"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type App struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Router   http.Handler
	Users    *services.UserService
	Feedback *services.FeedbackService
	Sessions *session.Manager
	Views    *views.Renderer
}

// Build connects to the configured database, migrates it and wires the
// application on top.
func Build(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	global.Config = cfg
	if cfg.DevSecret() {
		logger.Warn().Msg("session.secret is not set, using the development secret")
	}

	gdb, err := db.Connect(cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate: %w", err), closeDB(gdb))
	}

	app, err := Wire(cfg, gdb, logger)
	if err != nil {
		return nil, errors.Join(err, closeDB(gdb))
	}
	return app, nil
}

// Wire assembles repositories, services, controllers and the router over an
// already migrated database.
func Wire(cfg *config.Config, gdb *gorm.DB, logger zerolog.Logger) (*App, error) {
	renderer, err := views.New(cfg.Templates.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	userSvc := services.NewUserService(repo.NewUserRepository(gdb))
	feedbackSvc := services.NewFeedbackService(repo.NewFeedbackRepository(gdb))

	signer := &jwtutil.Signer{
		Secret: []byte(cfg.Session.Secret),
		Issuer: cfg.Session.Issuer,
		TTL:    cfg.Session.TTL,
	}
	sessions := &session.Manager{
		Signer:     signer,
		CookieName: cfg.Session.Cookie,
		Secure:     cfg.Session.Secure,
		Logger:     logger,
	}

	x := &controllers.Responder{Views: renderer}
	guard := &middleware.Guard{Feedback: feedbackSvc.Get, Deny: x.Error}
	h := router.NewRouter(router.Controllers{
		HTTP:     controllers.NewHTTPController(pinger(gdb)),
		Auth:     controllers.NewAuthController(x, userSvc, sessions),
		Users:    controllers.NewUserController(x, userSvc, sessions),
		Feedback: controllers.NewFeedbackController(x, feedbackSvc),
	}, guard, sessions)

	return &App{
		Cfg:      cfg,
		DB:       gdb,
		Router:   h,
		Users:    userSvc,
		Feedback: feedbackSvc,
		Sessions: sessions,
		Views:    renderer,
	}, nil
}

func (a *App) Close() error { return closeDB(a.DB) }

func pinger(gdb *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func closeDB(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
