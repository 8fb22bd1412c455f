package main

import (
	"log"

	"github.com/joho/godotenv"

	"outlierlab/internal/config"
	"outlierlab/internal/labserver"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := labserver.Run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
