package main

import (
	"os"

	"bookstore-graphql/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; deployed environments set variables directly
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system environment variables", nil)
	}

	if getEnv("APP_ENV", "development") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := Serve(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
