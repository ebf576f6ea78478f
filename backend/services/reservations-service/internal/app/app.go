package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "evcharge/backend/libs/db"
	libredis "evcharge/backend/libs/redis"

	"evcharge/backend/services/reservations-service/internal/auth"
	"evcharge/backend/services/reservations-service/internal/cache"
	appconfig "evcharge/backend/services/reservations-service/internal/config"
	httpserver "evcharge/backend/services/reservations-service/internal/http"
	"evcharge/backend/services/reservations-service/internal/http/handlers"
	"evcharge/backend/services/reservations-service/internal/http/middleware"
	"evcharge/backend/services/reservations-service/internal/repository"
	"evcharge/backend/services/reservations-service/internal/service"
)

// App wires reservations-service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgres(cfg.Database.DSN, libdb.PoolOptions{})
	if err != nil {
		return nil, err
	}

	reservationRepo := repository.NewReservationRepository(sqlDB)
	if err := reservationRepo.EnsureSchema(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	// Redis is optional: without it availability is recomputed per request.
	var redisClient *redis.Client
	var slotCache service.SlotCache
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		slotCache = cache.NewSlotsCache(redisClient, cfg.SlotTTL())
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	identity, err := service.NewIdentityService(tokens, cfg.Admin.Email, cfg.Admin.Password, logger)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		sqlDB.Close()
		return nil, err
	}

	reservations := service.NewReservationsService(reservationRepo, slotCache, service.RealClock{}, logger, service.Params{
		Window:       cfg.Window(),
		Granularity:  cfg.Schedule.GranularityMinutes,
		SessionCount: cfg.Schedule.SessionCount,
		SeedDemoData: cfg.Seed.Demo,
	})

	routes := httpserver.Routes{
		Health: handlers.NewHealthHandler(),

		UserLogin:             handlers.NewUserLoginHandler(identity),
		VerifyPlate:           handlers.NewVerifyPlateHandler(reservations),
		UserSessions:          handlers.NewAvailabilityHandler(reservations),
		UserReservationsList:  handlers.NewUserReservationsListHandler(reservations),
		UserReservationCreate: handlers.NewUserReservationCreateHandler(reservations),

		AdminLogin:             handlers.NewAdminLoginHandler(identity),
		AdminSessions:          handlers.NewAdminSessionsHandler(reservations),
		AdminReservationCreate: handlers.NewAdminReservationCreateHandler(reservations),
		AdminReservationDelete: handlers.NewAdminReservationDeleteHandler(reservations),
	}

	guards := httpserver.Guards{
		CORS:  middleware.CORS,
		User:  auth.RequireRole(tokens, auth.RoleUser),
		Admin: auth.RequireRole(tokens, auth.RoleAdmin),
	}

	router := httpserver.NewRouter(routes, guards)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
