package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/auth"
	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/resumes"
	"freshhire-backend/internal/search"
	"freshhire-backend/internal/session"
	sharedauth "freshhire-backend/internal/shared/auth"
	"freshhire-backend/internal/shared/config"
	"freshhire-backend/internal/shared/server"
	"freshhire-backend/internal/shared/server/middleware"
	"freshhire-backend/internal/shared/storage/db"
	"freshhire-backend/internal/shared/storage/object"
	localstore "freshhire-backend/internal/shared/storage/object/local"
	s3store "freshhire-backend/internal/shared/storage/object/s3"
	"freshhire-backend/internal/shared/telemetry"
	"freshhire-backend/internal/users"
	"freshhire-backend/internal/wizard"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	JobsRepo     jobs.Repo
	UsersRepo    users.Repo
	SessionsRepo auth.SessionRepo
	ResumesRepo  resumes.Repo

	JobsService    *jobs.Service
	UsersService   *users.Service
	AuthService    *auth.Service
	ResumesService *resumes.Service
	Drafts         *wizard.Registry
	Importer       *jobs.Importer

	GoogleAuth *auth.GoogleService
}

// Build connects storage, wires services and handlers, and builds the router.
// DATABASE_URL=memory keeps every repository in process.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	if err := buildServices(app); err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	var publicObjects object.ObjectStore
	if cfg.ObjectStoreType != "s3" {
		publicObjects = store
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Authenticator: app.AuthService,
		PublicObjects: publicObjects,
		RateLimiter:   middleware.NewRateLimiter(nil),
		Handlers: []server.RouteRegistrar{
			auth.NewHandler(app.AuthService),
			app.GoogleAuth,
			users.NewHandler(app.UsersService),
			jobs.NewHandler(app.JobsService, search.FromQuery),
			wizard.NewHandler(app.Drafts, app.JobsService),
			resumes.NewHandler(app.ResumesService),
		},
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.UsesMemoryStore() {
		telemetry.Info("bootstrap.memory_store", map[string]any{"env": cfg.Env})
		return nil, nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.ResumeBucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.ResumeBucket, cfg.PublicBaseURL), nil
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.SessionsRepo = &auth.PGSessionRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.JobsRepo = jobs.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
		app.SessionsRepo = auth.NewMemorySessionRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	signer, err := sharedauth.NewSigner(app.Config.JWTSecret, app.Config.TokenTTL)
	if err != nil {
		return err
	}

	src := session.ContextSource{}
	app.UsersService = users.NewService(app.UsersRepo)
	app.AuthService = auth.NewService(app.UsersService, app.SessionsRepo, signer)
	app.JobsService = &jobs.Service{
		Repo:    app.JobsRepo,
		Store:   app.Store,
		Session: src,
	}
	app.ResumesService = resumes.NewService(app.ResumesRepo, src)
	app.Drafts = wizard.NewRegistry(app.JobsService, src, app.Config.DraftTTL)
	app.Importer = jobs.NewImporter(app.JobsRepo)
	app.GoogleAuth = auth.NewGoogleService(
		app.AuthService,
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)
	return nil
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
}
