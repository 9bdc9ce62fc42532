// Command seed loads the demo catalog into the products table.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"dominik-store/internal/cache"
	"dominik-store/internal/config"
	"dominik-store/internal/database"
	"dominik-store/internal/domain"
	"dominik-store/internal/logger"
	"dominik-store/internal/repository"

	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

//go:embed products.json
var demoProducts []byte

func main() {
	configPath := flag.String("config", ".env", "path to the env file")
	migrationsDir := flag.String("migrations", "migrations", "directory holding goose migrations")
	file := flag.String("file", "", "JSON array of products to load instead of the demo catalog")
	reset := flag.Bool("reset", false, "roll back and re-apply all migrations before seeding")
	flag.Parse()

	cfg := config.Load(*configPath)

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := run(cfg, log, *migrationsDir, *file, *reset); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, migrationsDir, file string, reset bool) error {
	ctx := context.Background()

	products, err := loadProducts(file)
	if err != nil {
		return err
	}

	dbService, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer dbService.Close()

	if reset {
		log.Info("Resetting schema")
		if err := database.ResetMigrations(ctx, dbService.DB(), migrationsDir); err != nil {
			return err
		}
	}
	if err := database.RunMigrations(ctx, dbService.DB(), migrationsDir, log); err != nil {
		return err
	}

	repo := repository.NewProductRepository(dbService.DB())
	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("failed to seed %q: %w", products[i].Name, err)
		}
		log.Debug("Seeded product", zap.String("product_id", products[i].ID.String()), zap.String("name", products[i].Name))
	}
	log.Info("Catalog seeded", zap.Int("products", len(products)))

	invalidateCache(ctx, cfg, log)
	return nil
}

func loadProducts(file string) ([]domain.Product, error) {
	data := demoProducts
	if file != "" {
		var err error
		if data, err = os.ReadFile(file); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}

	now := time.Now().UTC()
	for i := range products {
		// keep file order as newest-first
		created := now.Add(-time.Duration(i) * time.Minute)
		products[i].CreatedAt = &created
	}
	return products, nil
}

// invalidateCache drops cached listings so the API serves the new rows at once
func invalidateCache(ctx context.Context, cfg *config.Config, log *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	pageCache := cache.NewRedisCache(client, cfg.Cache.TTL)
	if err := pageCache.Ping(ctx); err != nil {
		log.Warn("Redis unavailable, cached listings expire on their own", zap.Error(err))
		return
	}

	n, err := pageCache.DeletePrefix(ctx, "catalog:products:")
	if err != nil {
		log.Warn("Failed to invalidate cached listings", zap.Error(err))
		return
	}
	log.Info("Cached listings invalidated", zap.Int("keys", n))
}
