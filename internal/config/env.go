package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles reads .env and .env.local from the working directory.
// Variables already set in the process environment are kept.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", logfields.File(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.File(name))
	}
}
