package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it.
//
// Recognized variables:
//
//	HTTP_ADDR            bind address (e.g. ":8080")
//	DATABASE_URL         PostgreSQL DSN
//	JWT_SECRET           JWT HMAC secret key
//	ACCESS_EXPIRES_MIN   access token validity, minutes
//	REFRESH_EXPIRES_DAYS refresh token validity, days
//	BCRYPT_COST          bcrypt work factor
//	REDIS_ADDR           redis endpoint for the login throttle (empty = off)
//	LOGIN_MAX_ATTEMPTS   throttle: attempts allowed per window
//	LOGIN_WINDOW_SEC     throttle: window length, seconds
func parseEnv(config *Config) error {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}

	if v, ok := os.LookupEnv("ACCESS_EXPIRES_MIN"); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ACCESS_EXPIRES_MIN: %w", err)
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}
	if v, ok := os.LookupEnv("REFRESH_EXPIRES_DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REFRESH_EXPIRES_DAYS: %w", err)
		}
		config.RefreshTokenValidityDuration = time.Duration(days) * 24 * time.Hour
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		config.BcryptCost = cost
	}
	if v, ok := os.LookupEnv("LOGIN_MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: %w", err)
		}
		config.LoginMaxAttempts = n
	}
	if v, ok := os.LookupEnv("LOGIN_WINDOW_SEC"); ok {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LOGIN_WINDOW_SEC: %w", err)
		}
		config.LoginWindow = time.Duration(sec) * time.Second
	}

	return nil
}
