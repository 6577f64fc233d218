package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"valentino-backend/config"
	"valentino-backend/models"
	"valentino-backend/routes"
	"valentino-backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := db.AutoMigrate(
		&models.Appointment{},
		&models.NewsletterSubscriber{},
		&models.NewsletterDraft{},
		&models.NewsletterSend{},
		&models.Product{},
		&models.Order{},
		&models.WebhookEvent{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mailer := services.NewMailerFromEnv()
	payments := services.NewPaymentProviderFromEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(db, mailer, payments)
	printRoutes(r)
	log.Printf("Health check: http://localhost:%s/api/health", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
