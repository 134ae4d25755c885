package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"agri_market/internal/auth"
	"agri_market/internal/config"
	"agri_market/internal/database"
	"agri_market/internal/migrations"
	"agri_market/internal/repository"
	"agri_market/internal/services"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed demo tokens")
	flag.Parse()

	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db, *reset); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	repos := repository.New(db)
	result, err := migrations.SeedSampleData(context.Background(), repos, services.NewCatalogService(repos, nil))
	if err != nil {
		log.Fatal("Failed to seed sample data:", err)
	}

	validator := auth.NewTokenValidator(cfg.JWTSecret)
	fmt.Println("Demo accounts (password: " + migrations.DefaultPassword + "):")
	for _, user := range result.Users {
		token, err := validator.Sign(user.ID, user.Role, *tokenTTL)
		if err != nil {
			log.Printf("Warning: failed to sign token for %s: %v", user.Username, err)
			continue
		}
		fmt.Printf("  %-10s %-9s %s\n", user.Username, user.Role, token)
	}

	fmt.Println("Database initialization completed successfully!")
}
