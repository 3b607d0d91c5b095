package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads .env and then .env.<APP_ENV> from the working
// directory. Missing files are not an error. Variables already set in the
// process win over .env; .env.<APP_ENV> overrides both.
func LoadEnvFiles() error {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	envFile := ".env." + appEnv
	if err := godotenv.Overload(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		return nil
	}
	slog.Debug("Loaded environment file", "file", envFile)
	return nil
}
