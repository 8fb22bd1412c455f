package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"outlierlab/internal/config"
	"outlierlab/internal/labserver"
)

func main() {
	port := flag.String("port", "", "listen port (overrides PORT)")
	storePath := flag.String("store", "", "sqlite path for saved datasets (overrides DATASET_DB_PATH)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}

	if err := labserver.Run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
