package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/bruecksen/publications/internal/config"
	"github.com/bruecksen/publications/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
