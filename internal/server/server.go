package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/config"
	"abk-storefront/internal/database"
	"abk-storefront/internal/logger"
	custommiddleware "abk-storefront/internal/middleware"
	"abk-storefront/internal/repository"
	"abk-storefront/internal/service"
	"abk-storefront/internal/session"
	"abk-storefront/internal/storage"
	"abk-storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.DB
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers into one router.
// redisClient may be nil when neither client storage nor rate limiting use Redis.
func NewServer(cfg *config.Config, log *zap.Logger, db *database.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: log,
		db:     db,
		redis:  redisClient,
	}

	// Create router
	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(log))
	router.Use(custommiddleware.LoggingMiddleware(log))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(custommiddleware.ClientIdentity(cfg.Server.SecureCookies, log))
	if cfg.RateLimit.Enabled {
		if redisClient == nil {
			return nil, fmt.Errorf("rate limiting needs a redis client")
		}
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         cfg.Storage.Prefix + ":ratelimit",
		}, log))
	}

	router.Get("/health", s.health)

	// Initialize repositories
	sqlDB := db.DB()
	userRepo := repository.NewUserRepository(sqlDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)

	source, err := catalogSource(cfg.Catalog, productRepo, categoryRepo)
	if err != nil {
		return nil, err
	}

	store, err := clientStore(cfg.Storage, redisClient)
	if err != nil {
		return nil, err
	}

	tracker := session.NewTracker()
	tracker.OnChange(logger.SessionListener(log))

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, service.TokenSettings{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL(),
		RefreshTTL: cfg.JWT.RefreshTTL(),
	})
	catalogService := service.NewCatalogService(source, catalog.NewEngine(language.Make(cfg.Catalog.Locale)), log)
	adminService := service.NewAdminService(productRepo, categoryRepo, log)
	shopperService := service.NewShopperService(store, catalogService, tracker, log)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, log)

	// Register routes
	transport.NewUserHandler(userService, shopperService, log).RegisterRoutes(router, authMiddleware)
	transport.NewProductHandler(catalogService, log).RegisterRoutes(router)
	transport.NewCartHandler(shopperService, log).RegisterRoutes(router)
	transport.NewFavoritesHandler(shopperService, log).RegisterRoutes(router)
	transport.NewPreferencesHandler(shopperService, log).RegisterRoutes(router)
	transport.NewAdminHandler(adminService, log).RegisterRoutes(router, authMiddleware)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

func catalogSource(cfg config.CatalogConfig, products repository.ProductRepository, categories repository.CategoryRepository) (catalog.Source, error) {
	if cfg.Source == config.CatalogFixture {
		source, err := catalog.NewFixtureSource()
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog fixtures: %w", err)
		}
		return source, nil
	}
	return repository.NewCatalogSource(products, categories), nil
}

func clientStore(cfg config.StorageConfig, redisClient *redis.Client) (storage.Store, error) {
	if cfg.Driver == config.StorageMemory {
		return storage.NewMemoryStore(), nil
	}
	if redisClient == nil {
		return nil, fmt.Errorf("storage driver %q needs a redis client", cfg.Driver)
	}
	return storage.NewRedisStore(redisClient, cfg.Prefix, cfg.TTL), nil
}

// health reports database and redis reachability. A down database answers 503.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	db := s.db.Health(r.Context())

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "up"
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			redisStatus = "down"
		}
	}

	status, code := "ok", http.StatusOK
	switch {
	case db["status"] != "up":
		status, code = "unavailable", http.StatusServiceUnavailable
	case redisStatus == "down":
		status = "degraded"
	}

	custommiddleware.RespondWithJSON(w, code, map[string]interface{}{
		"status":   status,
		"database": db,
		"redis":    redisStatus,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

// NewRedisClient connects to Redis and verifies it answers a ping
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr(), err)
	}

	log.Info("Connected to Redis", zap.String("addr", cfg.Addr()))
	return client, nil
}
