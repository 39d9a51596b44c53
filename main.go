package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"invoice-api/pkg/api"
	"invoice-api/pkg/invoice"
	"invoice-api/pkg/models"
	"invoice-api/pkg/services/auth"
	"invoice-api/pkg/services/pdf"
	"invoice-api/pkg/services/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Set up database connection
	dbURL := os.Getenv("DATABASE_URL")
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database")
	}

	// Auto migrate the schema
	if err := db.AutoMigrate(&models.User{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	formatter, err := invoice.NewCurrencyFormatter(
		envOr("CURRENCY_LOCALE", "en-IN"),
		envOr("CURRENCY_CODE", "INR"),
	)
	if err != nil {
		log.Fatalf("Invalid currency configuration: %v", err)
	}

	server := api.NewServer(
		store.NewService(db),
		auth.NewService(db, secret),
		pdf.NewService(formatter),
	)

	// Set up Gin router
	r := gin.Default()
	server.Routes(r)

	// Start the server
	port := envOr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
