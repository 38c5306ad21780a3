package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/WyattC-ctrl/StudyBuddy/internal/config"
	"github.com/WyattC-ctrl/StudyBuddy/internal/jobs/cleanup"
	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
	redrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/redis"
	catalogsvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/catalog"
	matchessvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/matches"
	meetingsvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/meetings"
	profilesvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/profiles"
	suggestionssvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/suggestions"
	swipesvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/swipes"
	userssvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	if pool != nil && cfg.Postgres.Migrate {
		if err := pgrepo.Migrate(ctx, pool); err != nil {
			log.Warn("migrations failed, continuing in degraded mode", zap.Error(err))
		}
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	suggestionCache := redrepo.NewSuggestionCache(redisClient, cfg.Suggestions.CacheTTL)

	userRepo := pgrepo.NewUserRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	suggestionRepo := pgrepo.NewSuggestionRepo(pool)
	catalogRepo := pgrepo.NewCatalogRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	meetingRepo := pgrepo.NewMeetingRepo(pool)

	userService := userssvc.NewService(userRepo)
	catalogService := catalogsvc.NewService(catalogRepo)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:        pool,
		SwipeStore:  swipeRepo,
		MatchStore:  matchRepo,
		Identities:  userRepo,
		Invalidator: suggestionCache,
		Logger:      log,
	})
	matchService := matchessvc.NewService(matchRepo, userRepo)
	suggestionService := suggestionssvc.NewService(
		suggestionRepo,
		userRepo,
		suggestionCache,
		log,
		cfg.Suggestions.DefaultLimit,
	)
	profileService := profilesvc.NewService(profilesvc.Dependencies{
		Pool:       pool,
		Profiles:   profileRepo,
		Catalog:    catalogRepo,
		Identities: userRepo,
	})
	meetingService := meetingsvc.NewService(meetingRepo, userRepo)

	cleanupJob := cleanup.New(meetingRepo, cfg.Cleanup.MeetingRetention, log)
	cleanupJob.Start(ctx, cfg.Cleanup.Interval)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		UserService:       userService,
		SwipeService:      swipeService,
		MatchService:      matchService,
		SuggestionService: suggestionService,
		ProfileService:    profileService,
		CatalogService:    catalogService,
		MeetingService:    meetingService,
		Logger:            log,
		Config:            cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
