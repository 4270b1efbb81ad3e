package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"workload/internal/adapters/out/postgres/orderrepo"
	"workload/internal/adapters/out/postgres/staffrepo"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds the connection settings of the durable store.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the connection string for the configured database.
func (c Config) DSN() string {
	return c.dsn(c.Name)
}

func (c Config) dsn(name string) string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, name, sslMode)
}

// EnsureDatabase creates the configured database when it does not exist yet.
// It connects to the maintenance database "postgres" to do so.
func EnsureDatabase(ctx context.Context, cfg Config) error {
	db, err := sql.Open("postgres", cfg.dsn("postgres"))
	if err != nil {
		return fmt.Errorf("open maintenance connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	var exists bool
	err = db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database %q: %w", cfg.Name, err)
	}
	if exists {
		return nil
	}

	if _, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(cfg.Name)); err != nil {
		return fmt.Errorf("create database %q: %w", cfg.Name, err)
	}

	slog.Info("database created", "component", "postgres", "database", cfg.Name)
	return nil
}

// Open connects GORM to the configured database. Driver errors are translated so that
// unique violations surface as gorm.ErrDuplicatedKey.
func Open(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database %q: %w", cfg.Name, err)
	}
	return db, nil
}

// Migrate creates or updates the tables of every repository.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&staffrepo.StaffDTO{},
		&staffrepo.StaffSkillGroupDTO{},
	)
}
