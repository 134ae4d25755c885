package main

import (
	"log"
	"time"

	"agri_market/internal/auth"
	"agri_market/internal/config"
	"agri_market/internal/database"
	"agri_market/internal/events"
	"agri_market/internal/handlers"
	"agri_market/internal/redis"
	"agri_market/internal/repository"
	"agri_market/internal/services"
	"agri_market/pkg/whatsapp"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Search results are cached in Redis when it is reachable
	var searchCache services.SearchCache
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, search cache disabled: %v", err)
	} else {
		defer redisClient.Close()
		searchCache = redisClient
	}

	// Domain events go to Kafka when brokers are configured
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	var sender services.MessageSender
	if cfg.WhatsAppAPIURL != "" {
		sender = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	notificationService := services.NewNotificationService(repos.Notifications, repos.Users, sender)
	dispatcher := services.NewDispatcher(publisher, notificationService, searchCache)

	apiHandler := handlers.NewAPIHandler(handlers.Services{
		Search:        services.NewSearchService(repos.Catalog, searchCache, time.Duration(cfg.SearchCacheTTL)*time.Second),
		Inventory:     services.NewInventoryService(repos, dispatcher, cfg.LowStockThreshold),
		Orders:        services.NewOrderService(repos, dispatcher),
		Rentals:       services.NewRentalService(repos, dispatcher),
		Reviews:       services.NewReviewService(repos, dispatcher),
		Profiles:      services.NewProfileService(repos, dispatcher),
		Catalog:       services.NewCatalogService(repos, dispatcher),
		Notifications: notificationService,
		Finance:       services.NewFinanceService(repos, dispatcher),
	}, cfg.DefaultSearchRadiusKm)

	// Setup routes
	router := handlers.NewRouter(apiHandler, auth.NewTokenValidator(cfg.JWTSecret))

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
