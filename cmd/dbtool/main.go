package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"route-optimizer-service/internal/adapters/carriers"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres schema and seeds the carrier roster, either
// from a JSON file or from the built-in reference list.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	seedPath := flag.String("seed", config.Get("CARRIER_SEED_PATH", ""), "JSON carrier roster to load")
	flag.Parse()

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, *seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	repo := repositories.NewSQLCarrierRepository(conn, repositories.Postgres)

	log.Println("Seeding carriers...")
	if seedPath != "" {
		if err := repo.SeedCarriersFromJSON(ctx, seedPath); err != nil {
			return err
		}
	} else {
		roster, _ := carriers.DefaultRoster().ListCarriers(ctx)
		if err := repo.SeedCarriers(ctx, roster); err != nil {
			return err
		}
	}
	log.Println("Seeding complete.")

	return nil
}
