package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"workload/internal/adapters/out/postgres"
	"workload/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// DefaultSkillGroupsFile is the catalog read when SKILL_GROUPS_FILE is not set.
const DefaultSkillGroupsFile = "configs/skill_groups.yaml"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr    string
	RedisChannel string

	SkillGroupsFile  string
	MaxUnitsPerStaff int

	BacklogCheckSchedule string
	BacklogStaleAfter    time.Duration

	LogLevel  string
	LogFormat string
}

// LoadConfig reads the environment after loading envFile into it. A missing envFile is
// not an error; variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		HTTPPort:             envOr("HTTP_PORT", "8080"),
		DBHost:               os.Getenv("DB_HOST"),
		DBPort:               envOr("DB_PORT", "5432"),
		DBUser:               os.Getenv("DB_USER"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBName:               envOr("DB_NAME", "workload"),
		DBSslMode:            envOr("DB_SSLMODE", "disable"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisChannel:         os.Getenv("REDIS_CHANNEL"),
		SkillGroupsFile:      envOr("SKILL_GROUPS_FILE", DefaultSkillGroupsFile),
		BacklogCheckSchedule: os.Getenv("BACKLOG_CHECK_SCHEDULE"),
		LogLevel:             envOr("LOG_LEVEL", "info"),
		LogFormat:            envOr("LOG_FORMAT", "text"),
	}

	var problems []error
	if v := os.Getenv("DISPATCH_MAX_UNITS_PER_STAFF"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems,
				errs.NewValueIsInvalidErrorWithCause("DISPATCH_MAX_UNITS_PER_STAFF", err))
		}
		cfg.MaxUnitsPerStaff = n
	}
	if v := os.Getenv("BACKLOG_STALE_AFTER"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("BACKLOG_STALE_AFTER", err))
		}
		cfg.BacklogStaleAfter = d
	}
	if len(problems) > 0 {
		return Config{}, errors.Join(problems...)
	}

	return cfg, cfg.Validate()
}

// Validate checks the values LoadConfig cannot check while parsing.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	} else if port, err := strconv.Atoi(c.HTTPPort); err != nil || port <= 0 || port > 65535 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("HTTP_PORT", c.HTTPPort, 1, 65535))
	}
	if c.MaxUnitsPerStaff < 0 {
		problems = append(problems,
			errs.NewValueIsOutOfRangeError("DISPATCH_MAX_UNITS_PER_STAFF", c.MaxUnitsPerStaff, 0, "unbounded"))
	}
	if c.BacklogStaleAfter < 0 {
		problems = append(problems,
			errs.NewValueIsOutOfRangeError("BACKLOG_STALE_AFTER", c.BacklogStaleAfter, 0, "unbounded"))
	}
	if c.UsePostgres() && c.DBName == "" {
		problems = append(problems, errs.NewValueIsRequiredError("DB_NAME"))
	}
	if !isOneOf(c.LogLevel, "debug", "info", "warn", "error") {
		problems = append(problems, errs.NewValueIsInvalidError("LOG_LEVEL"))
	}
	if !isOneOf(c.LogFormat, "text", "json") {
		problems = append(problems, errs.NewValueIsInvalidError("LOG_FORMAT"))
	}
	return errors.Join(problems...)
}

// UsePostgres reports whether a database is configured. Without one the service keeps
// its durable copy in memory.
func (c Config) UsePostgres() bool {
	return c.DBHost != ""
}

// PostgresConfig returns the database settings.
func (c Config) PostgresConfig() postgres.Config {
	return postgres.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func isOneOf(value string, options ...string) bool {
	for _, o := range options {
		if strings.EqualFold(value, o) {
			return true
		}
	}
	return false
}
