package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/carriers"
	"route-optimizer-service/internal/adapters/distance"
	"route-optimizer-service/internal/adapters/optimization"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/metrics"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const (
	distanceCacheTTL = 30 * 24 * time.Hour
	geocodeCacheTTL  = 180 * 24 * time.Hour
)

// caches groups the optional lookup caches chosen at startup.
type caches struct {
	distance ports.DistanceCache
	geocode  ports.GeocodeCache
	roster   ports.CarrierRoster
	closers  []func() error
}

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	metrics.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := openCaches(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		for _, closeFn := range c.closers {
			_ = closeFn()
		}
	}()

	greedy := services.NewGreedyPlanner(cfg.AverageSpeedKph)

	matrix, geocoder, err := buildDistanceProviders(cfg, c)
	if err != nil {
		log.Fatal(err)
	}

	strategies := optimization.Strategies(cfg.Providers, optimization.Deps{
		Matrix:        matrix,
		Fallback:      greedy,
		Timeout:       cfg.OptimizerTimeout,
		RatePerSecond: cfg.ProviderRatePerSecond,
		SpeedKph:      cfg.AverageSpeedKph,
	})
	orchestrator := services.NewOrchestrator(greedy, strategies...)
	log.Printf("route strategy selected=%s", orchestrator.Select().Name())

	roster := c.roster
	if cfg.CarrierRosterPath != "" {
		roster = carriers.NewYAMLRoster(cfg.CarrierRosterPath)
	}
	if roster != nil {
		// An unseeded carriers table would silently suggest nothing.
		if list, err := roster.ListCarriers(ctx); err != nil || len(list) == 0 {
			log.Printf("carrier roster unavailable or empty (err=%v); using built-in roster", err)
			roster = nil
		}
	}
	if roster == nil {
		roster = carriers.DefaultRoster()
	}

	router := api.NewRouter(api.Deps{
		Planner:  orchestrator,
		Geocoder: geocoder,
		Scorer:   &services.CarrierScorer{Roster: roster},
		Timeout:  cfg.OptimizerTimeout,
	})

	// Write timeout leaves room for a full optimizer timeout plus encoding.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.OptimizerTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// openCaches picks Redis for distances when configured, and Postgres or
// SQLite for the remaining caches and the carrier roster.
func openCaches(ctx context.Context, cfg config.Config) (*caches, error) {
	c := &caches{}

	var sqlDB *sql.DB
	switch {
	case cfg.DatabaseURL != "":
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			return nil, err
		}
		sqlDB = conn
		c.distance = cache.NewSQLDistanceCache(conn, distanceCacheTTL)
		c.geocode = cache.NewSQLGeocodeCache(conn)
		c.roster = repositories.NewSQLCarrierRepository(conn, repositories.Postgres)
	case cfg.DBPath != "":
		conn, err := db.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitSQLiteSchema(ctx, conn); err != nil {
			return nil, err
		}
		sqlDB = conn
		c.distance = cache.NewSQLiteDistanceCache(conn, distanceCacheTTL)
		c.geocode = cache.NewSQLiteGeocodeCache(conn)
		c.roster = repositories.NewSQLCarrierRepository(conn, repositories.SQLite)
	}
	if sqlDB != nil {
		c.closers = append(c.closers, sqlDB.Close)
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		c.closers = append(c.closers, rdb.Close)
		c.distance = cache.NewRedisDistanceCache(rdb, distanceCacheTTL)
		if c.geocode == nil {
			c.geocode = cache.NewRedisGeocodeCache(rdb, geocodeCacheTTL)
		}
	}

	return c, nil
}

// buildDistanceProviders returns the matrix backend (Google preferred over
// ORS) and the geocoder (ORS only). Either may be nil.
func buildDistanceProviders(cfg config.Config, c *caches) (ports.MatrixProvider, ports.Geocoder, error) {
	var (
		matrix   ports.MatrixProvider
		geocoder ports.Geocoder
	)

	if key := cfg.Providers.ORSKey; key != "" {
		ors, err := distance.NewORSDistanceProvider(key, distance.ORSOptions{
			BaseURL:       cfg.Providers.ORSBaseURL,
			Country:       cfg.Providers.ORSCountry,
			Timeout:       cfg.OptimizerTimeout,
			RatePerSecond: cfg.ProviderRatePerSecond,
			DistanceCache: c.distance,
			GeocodeCache:  c.geocode,
		})
		if err != nil {
			return nil, nil, err
		}
		matrix, geocoder = ors, ors
	}

	if key := cfg.Providers.GoogleMapsKey; key != "" {
		google, err := distance.NewGoogleMatrixProvider(key, distance.GoogleOptions{
			BaseURL:       cfg.Providers.GoogleBaseURL,
			Timeout:       cfg.OptimizerTimeout,
			RatePerSecond: cfg.ProviderRatePerSecond,
			DistanceCache: c.distance,
		})
		if err != nil {
			return nil, nil, err
		}
		matrix = google
	}

	return matrix, geocoder, nil
}
