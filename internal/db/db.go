package db

import (
	"database/sql"
	"fmt"
	"log"

	"sweetshop-bot/internal/config"

	_ "github.com/lib/pq"
)

// schema is applied at startup; the orders table is append-only and has no
// migrations beyond its creation, so CREATE TABLE IF NOT EXISTS is enough.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	product_name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
)`

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
}

func newDatabaseWithDriver(cfg *config.Config, driverName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// NewDatabase opens a PostgreSQL connection and verifies it with a ping.
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	return newDatabaseWithDriver(cfg, "postgres")
}

// EnsureSchema creates the orders table if it does not exist yet.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure orders table: %w", err)
	}
	return nil
}

// InitDB connects, ensures the schema and dies on any failure. Order
// persistence being unreachable is a startup-fatal condition.
func InitDB(cfg *config.Config) *sql.DB {
	db, err := NewDatabase(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		log.Fatalf("database schema: %v", err)
	}

	log.Println("Database connection established")
	return db
}
