package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"setu/internal/cache"
	"setu/internal/config"
	"setu/internal/db"
	"setu/internal/handlers"
	"setu/internal/router"
	"setu/internal/verification"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db.Init(cfg.DatabaseURL)
	cache.Init(cfg.RedisURL)

	pipe, err := verification.NewPipeline(cfg, db.DB)
	if err != nil {
		log.Fatal("failed to build verification pipeline: ", err)
	}
	defer verification.LocalOCR().Close()

	handlers.Init(cfg, pipe)

	addr := ":" + cfg.Port
	fmt.Println("Setu server listening on", addr)
	if err := http.ListenAndServe(addr, router.RegisterRouter()); err != nil {
		log.Fatal(err)
	}
}
