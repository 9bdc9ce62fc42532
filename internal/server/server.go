package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dominik-store/internal/cache"
	"dominik-store/internal/catalog"
	"dominik-store/internal/config"
	"dominik-store/internal/database"
	"dominik-store/internal/metrics"
	custommiddleware "dominik-store/internal/middleware"
	"dominik-store/internal/repository"
	"dominik-store/internal/service"
	"dominik-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires the catalog API. redisClient may be nil, in which case the
// server runs without the page cache and without rate limiting.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client, m *metrics.Metrics) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(m),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes(m *metrics.Metrics) http.Handler {
	cfg := s.config
	logger := s.logger

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))
	router.Use(custommiddleware.IdentifyCaller(cfg.JWT.Secret, logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.MetricsMiddleware(m))

	router.Get("/health", s.health)
	router.Handle("/metrics", m.Handler())

	// Initialize repositories
	db := s.db.DB()
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, m, logger)
	if cfg.Cache.Enabled && s.redis != nil {
		catalogService = service.NewCachedCatalogService(catalogService, cache.NewRedisCache(s.redis, cfg.Cache.TTL), m, logger)
	}
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, m, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, catalog.Options{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		MaxFeedLimit:    cfg.Catalog.MaxFeedLimit,
	}, logger)
	wishlistHandler := transport.NewWishlistHandler(wishlistService, logger)

	// Register routes
	router.Group(func(r chi.Router) {
		if s.redis != nil && cfg.RateLimit.Requests > 0 {
			r.Use(custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "ratelimit:api",
			}, logger))
		}
		productHandler.RegisterRoutes(r)
		wishlistHandler.RegisterRoutes(r, custommiddleware.RequireCaller(logger))
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}

	dbHealth := s.db.Health(r.Context())
	body["database"] = dbHealth
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}

	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			// the API keeps serving without redis
			body["redis"] = "down"
		} else {
			body["redis"] = "up"
		}
	} else {
		body["redis"] = "disabled"
	}

	custommiddleware.RespondWithJSON(w, status, body)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
