package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	appControllers "github.com/sesi/membership/internal/app/controllers"
	appMigrations "github.com/sesi/membership/internal/app/migrations"
	appRepos "github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/app/repositories/memory"
	appRoutes "github.com/sesi/membership/internal/app/routes"
	appServices "github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/config"
	"github.com/sesi/membership/internal/db"
	appMiddleware "github.com/sesi/membership/internal/middleware"
	pkgAuth "github.com/sesi/membership/internal/pkg/auth"
	"github.com/sesi/membership/internal/pkg/certificate"
	"github.com/sesi/membership/internal/pkg/email"
	"github.com/sesi/membership/internal/pkg/filestorage"
	"github.com/sesi/membership/internal/pkg/logger"
	"github.com/sesi/membership/internal/pkg/metrics"
	"github.com/sesi/membership/internal/pkg/notify"
	"github.com/sesi/membership/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config *config.Config
	Logger zerolog.Logger

	Repos    *appRepos.Repositories
	Storage  filestorage.Storage
	Queue    notify.Queue
	Worker   *notify.Worker
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	JWTService         *pkgAuth.JWTService
	AuthService        appServices.AuthService
	ApplicationService appServices.ApplicationService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware

	checks  map[string]appControllers.HealthCheck
	closers []func() error
}

// Close releases the stores and queue in reverse order of opening
func (d *Dependencies) Close() error {
	var errs error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = errors.Join(errs, d.closers[i]())
	}
	d.closers = nil
	return errs
}

func (d *Dependencies) onClose(fn func() error) {
	d.closers = append(d.closers, fn)
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// RunMigrations applies pending schema migrations. It is a no-op for the
// in-memory driver.
func RunMigrations(cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		lgr.Info().Str("driver", cfg.Database.Driver).Msg("Skipping migrations")
		return nil
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr).Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupStores opens the configured persistence backend
func SetupStores(ctx context.Context, deps *Dependencies) error {
	cfg, lgr := deps.Config, deps.Logger

	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory stores; data is lost on restart")
		deps.Repos = memory.NewRepositories()
		return nil
	}

	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return err
	}
	lgr.Info().Msg("Database connection successfully established.")

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.checks["database"] = database.Health
	deps.onClose(func() error {
		database.Close()
		return nil
	})
	return nil
}

// SetupStorage opens the local or S3 file store
func SetupStorage(ctx context.Context, deps *Dependencies) error {
	cfg := deps.Config.Storage

	switch cfg.Backend {
	case config.StorageS3:
		s3, err := filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			UseSSL:       cfg.S3UseSSL,
			PublicPrefix: cfg.PublicPrefix,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		deps.Storage = s3
		deps.checks["storage"] = s3.Ping
	default:
		local, err := filestorage.NewLocalStorage(cfg.Root, cfg.PublicPrefix)
		if err != nil {
			return fmt.Errorf("failed to initialize file storage: %w", err)
		}
		deps.Storage = local
	}

	deps.Logger.Info().Str("backend", cfg.Backend).Msg("File storage initialized")
	return nil
}

// SetupNotifications builds the queue and the worker that drains it through SMTP
func SetupNotifications(ctx context.Context, deps *Dependencies) error {
	cfg := deps.Config

	switch cfg.Notifications.Queue {
	case config.QueueRedis:
		client, err := notify.NewRedisClient(ctx, notify.RedisConfig{URL: cfg.Notifications.RedisURL})
		if err != nil {
			return fmt.Errorf("failed to connect notification queue: %w", err)
		}
		q := notify.NewRedisQueue(client, cfg.Notifications.QueueKey, 0)
		deps.Queue = q
		deps.checks["queue"] = q.Health
	default:
		deps.Queue = notify.NewMemoryQueue(cfg.Notifications.Buffer)
	}
	deps.onClose(deps.Queue.Close)

	mailer := email.NewSMTPMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, deps.Logger)
	if !mailer.Configured() {
		deps.Logger.Warn().Msg("SMTP is not configured; notifications will only be logged")
	}

	deps.Worker = notify.NewWorker(deps.Queue, mailer, notify.WorkerConfig{
		Concurrency: cfg.Notifications.Workers,
		MaxAttempts: cfg.Notifications.MaxAttempts,
	}, deps.Logger, deps.Metrics)
	return nil
}

// BuildDependencies opens every store and wires services, controllers and middleware.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: lgr,
		checks: make(map[string]appControllers.HealthCheck),
	}

	if cfg.Metrics.Enabled {
		deps.Registry = metrics.NewRegistry()
		deps.Metrics = metrics.New(deps.Registry)
	}

	for _, step := range []func(context.Context, *Dependencies) error{
		SetupStores,
		SetupStorage,
		SetupNotifications,
	} {
		if err := step(ctx, deps); err != nil {
			_ = deps.Close()
			return nil, err
		}
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	templates := email.Templates{
		SiteURL:    cfg.Notifications.SiteURL,
		AdminEmail: cfg.Notifications.AdminEmail,
	}
	dispatcher := notify.NewDispatcher(deps.Queue, lgr, deps.Metrics)

	deps.AuthService = appServices.NewAuthService(deps.Repos.Users, deps.JWTService, lgr)
	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos,
		deps.Storage,
		certificate.NewPDFRenderer(cfg.Notifications.SiteURL),
		dispatcher,
		templates,
		cfg.Server.PublicBaseURL,
		deps.Metrics,
		lgr,
	)

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService, lgr),
		Application: appControllers.NewApplicationController(deps.ApplicationService, lgr),
		Member:      appControllers.NewMemberController(appServices.NewMemberService(deps.Repos.Members, lgr)),
		Content:     appControllers.NewContentController(appServices.NewContentService(deps.Repos.News, deps.Repos.Events, lgr)),
		Site: appControllers.NewSiteController(
			appServices.NewReferenceService(deps.Repos.Reference),
			appServices.NewSEOService(deps.Repos.SEO),
			appServices.NewStatsService(deps.Repos),
		),
		Upload:  appControllers.NewUploadController(appServices.NewUploadService(deps.Storage, lgr)),
		Society: appControllers.NewSocietyController(appServices.NewSocietyService(deps.Repos.Committee, deps.Repos.Publications, lgr)),
		Gallery: appControllers.NewGalleryController(appServices.NewGalleryService(deps.Repos.Gallery, deps.Storage, lgr)),
		Contact: appControllers.NewContactController(appServices.NewContactService(deps.Repos.Contact, dispatcher, templates, lgr)),
		Health:  appControllers.NewHealthController(deps.checks),
	}

	return deps, nil
}

// Seed loads reference data and the bootstrap admin
func Seed(ctx context.Context, deps *Dependencies) error {
	return seed.Run(ctx, deps.Repos, deps.AuthService,
		deps.Config.Seed.AdminEmail, deps.Config.Seed.AdminPassword, deps.Logger)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(deps *Dependencies) (*gin.Engine, error) {
	cfg, lgr := deps.Config, deps.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(deps.Metrics),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
		appMiddleware.LimitBody(int64(cfg.Server.MaxUploadMB)<<20),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}

	if deps.Registry != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler(deps.Registry)))
	}

	setupStaticFileServing(router, cfg.Storage.PublicPrefix, deps.Storage, lgr)
	return router, nil
}

// setupStaticFileServing exposes stored files under their public paths
func setupStaticFileServing(router *gin.Engine, prefix string, storage filestorage.Storage, lgr zerolog.Logger) {
	if local, ok := storage.(*filestorage.LocalStorage); ok {
		router.Static(prefix, local.BasePath())
		lgr.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
		return
	}

	router.GET(prefix+"/*filepath", func(c *gin.Context) {
		rc, err := storage.Open(c.Request.Context(), c.Request.URL.Path)
		if errors.Is(err, filestorage.ErrNotFound) || errors.Is(err, filestorage.ErrInvalidPath) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		if err != nil {
			appMiddleware.HandleAPIError(c, err)
			return
		}
		defer rc.Close()

		if ct := mime.TypeByExtension(path.Ext(c.Request.URL.Path)); ct != "" {
			c.Header("Content-Type", ct)
		}
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			lgr.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Error streaming stored file")
		}
	})
	lgr.Info().Str("prefix", prefix).Msg("Stored files proxied from object storage")
}
