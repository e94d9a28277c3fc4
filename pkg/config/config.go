// Package config loads the optional .env file before any package that reads
// environment variables in its init initializes. Importing it is enough.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// Missing .env is fine, the process environment is used as is.
	_ = godotenv.Load()
}

// Getenv returns the value of key, or fallback when unset or empty.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
