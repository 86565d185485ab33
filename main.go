package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/config"
	"github.com/repairup/repairup-app/database"
	"github.com/repairup/repairup-app/middlewares"
	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/router"
	"github.com/repairup/repairup-app/services"
	"github.com/repairup/repairup-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	utils.StartBlacklistCleanup()

	// Web push delivery (nil when VAPID keys are absent).
	push := services.NewPushService(db, 2)
	if push != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		push.Start(ctx)
	}

	dispatch := services.NewDispatchService(db)
	dispatch.Push = push

	// Re-dispatch pending bookings as technicians free up.
	monitor := services.NewAssignmentMonitor(db, dispatch)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(db, dispatch, push)

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Technician{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.Booking{},
		&models.Notification{},
		&models.EwasteRequest{},
		&models.Review{},
		&models.PushSubscription{},
		&models.TechnicianStatusLog{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
}
