package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/controllers"
	"github.com/repairup/repairup-app/middlewares"
	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/services"
)

func SetupRouter(db *gorm.DB, dispatch *services.DispatchService, push *services.PushService) *gin.Engine {
	r := gin.Default()

	// Uploaded e-waste images are served straight from disk.
	r.Static("/uploads", "public/uploads")

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	bookingCtrl := controllers.NewBookingController(db, dispatch)
	techCtrl := controllers.NewTechnicianController(db)
	notificationCtrl := controllers.NewNotificationController(db, push)
	serviceCtrl := controllers.NewServiceController(db)
	ewasteCtrl := controllers.NewEwasteController(db)
	geocodeCtrl := controllers.NewGeocodeController(services.NewGeocodeService())
	reviewCtrl := controllers.NewReviewController(db)
	pushCtrl := controllers.NewPushController(db, push)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Catalog is public and cheap to cache.
	catalogCache := cache.New(5*time.Minute, 10*time.Minute)
	catalog := r.Group("/")
	catalog.Use(middlewares.Cache(catalogCache, 5*time.Minute))
	{
		catalog.GET("/categories", serviceCtrl.GetAllCategories)
		catalog.GET("/services", serviceCtrl.GetAllServices)
		catalog.GET("/services/by-category", serviceCtrl.GetServicesByCategory)
	}

	// Chat assistant works without an account.
	r.POST("/chat/messages", controllers.SendChatMessage)
	r.GET("/chat/ws", controllers.ChatSocketHandler)

	// Location lookup for the booking form.
	r.GET("/geocode/search", geocodeCtrl.Search)
	r.GET("/geocode/reverse", geocodeCtrl.Reverse)

	r.GET("/technicians/:tech_id/reviews", reviewCtrl.GetTechnicianReviews)
	r.GET("/push/vapid-public-key", pushCtrl.GetVAPIDPublicKey)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)

	// BOOKINGS (customer)
	auth.POST("/bookings", bookingCtrl.CreateBooking)
	auth.GET("/bookings", bookingCtrl.GetMyBookings)
	auth.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	auth.PATCH("/bookings/:booking_id/cancel", bookingCtrl.CancelBooking)

	// REVIEWS (customer)
	auth.POST("/reviews", reviewCtrl.CreateReview)

	// NOTIFICATIONS (own)
	auth.GET("/notifications", notificationCtrl.GetMyNotifications)

	// E-WASTE (customer)
	auth.POST("/ewaste", ewasteCtrl.CreateRequest)
	auth.GET("/ewaste", ewasteCtrl.GetMyRequests)

	// PUSH SUBSCRIPTIONS
	auth.POST("/push/subscriptions", pushCtrl.Subscribe)
	auth.DELETE("/push/subscriptions", pushCtrl.Unsubscribe)

	// Live dashboard updates
	auth.GET("/dashboard/ws", controllers.DashboardSocketHandler)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	admin.Use(middlewares.RequireRole(models.RoleManager))

	admin.GET("/users", userCtrl.GetAllUsers)

	// BOOKINGS
	admin.GET("/bookings", bookingCtrl.GetAllBookings)
	admin.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	admin.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateBookingStatus)

	// TECHNICIANS
	admin.GET("/technicians", techCtrl.GetAllTechnicians)
	admin.POST("/technicians", techCtrl.CreateTechnician)
	admin.GET("/technicians/:tech_id", techCtrl.GetTechnicianByID)
	admin.PATCH("/technicians/:tech_id", techCtrl.UpdateTechnician)
	admin.PATCH("/technicians/:tech_id/status", techCtrl.UpdateTechnicianStatus)
	admin.DELETE("/technicians/:tech_id", techCtrl.DeleteTechnician)

	// CATALOG
	admin.POST("/categories", serviceCtrl.CreateCategory)
	admin.POST("/services", serviceCtrl.CreateService)
	admin.PATCH("/services/:service_id", serviceCtrl.UpdateService)
	admin.DELETE("/services/:service_id", serviceCtrl.DeleteService)

	// NOTIFICATIONS
	admin.GET("/notifications", notificationCtrl.GetAllNotifications)
	admin.POST("/notifications", notificationCtrl.CreateNotification)
	admin.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	admin.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// E-WASTE
	admin.GET("/ewaste", ewasteCtrl.GetAllRequests)
	admin.PATCH("/ewaste/:request_id/status", ewasteCtrl.UpdateRequestStatus)

	return r
}
