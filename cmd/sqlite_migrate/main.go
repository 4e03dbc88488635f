package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/akulkarni/oddsedge/internal/storage/sqlite"
)

func main() {
	godotenv.Load()

	store, err := sqlite.Open(os.Getenv("SQLITE_PATH"))
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("SQLite schema migrated at %s", store.Path())
}
