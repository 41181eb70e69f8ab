// Package config loads the API server configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds every setting the API server needs.
type Config struct {
	Port int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	SessionTTL time.Duration
	BcryptCost int

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// RequiredVars lists the variables that have no usable default.
var RequiredVars = []string{"DATABASE_URL"}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	if err := ValidateEnv(RequiredVars); err != nil {
		return nil, err
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		DatabaseURL:        GetEnvOrDefault("DATABASE_URL", ""),
		RedisAddr:          GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      GetEnvOrDefault("REDIS_PASSWORD", ""),
		MongoURI:           GetEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      GetEnvOrDefault("MONGO_DATABASE", "user_profiles_db"),
		MongoCollection:    GetEnvOrDefault("MONGO_COLLECTION", "profiles"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogLevel:           GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          GetEnvOrDefault("LOG_FORMAT", "json"),
	}

	var err error
	cfg.Port, err = getEnvInt("PORT", 8080)
	collect(err)
	cfg.RedisDB, err = getEnvInt("REDIS_DB", 0)
	collect(err)
	cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", 10)
	collect(err)
	cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", time.Hour)
	collect(err)
	cfg.ReadTimeout, err = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	collect(err)
	cfg.WriteTimeout, err = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	collect(err)
	cfg.IdleTimeout, err = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	collect(err)
	cfg.ShutdownTimeout, err = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	collect(err)

	collect(cfg.validate())

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: out of range: %d", c.Port))
	}
	if c.SessionTTL < time.Second {
		errs = append(errs, fmt.Errorf("SESSION_TTL: must be at least 1s, got %s", c.SessionTTL))
	}
	// bcrypt accepts 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST: out of range: %d", c.BcryptCost))
	}
	return errors.Join(errs...)
}
