package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/config"
	"github.com/gradglobe/counsel-api/database"
	"github.com/gradglobe/counsel-api/handlers"
	admin_handlers "github.com/gradglobe/counsel-api/handlers/admin"
	application_handlers "github.com/gradglobe/counsel-api/handlers/application"
	auth_handlers "github.com/gradglobe/counsel-api/handlers/auth"
	counselor_handlers "github.com/gradglobe/counsel-api/handlers/counselor"
	course_handlers "github.com/gradglobe/counsel-api/handlers/course"
	favorite_handlers "github.com/gradglobe/counsel-api/handlers/favorite"
	notification_handlers "github.com/gradglobe/counsel-api/handlers/notification"
	seo_handlers "github.com/gradglobe/counsel-api/handlers/seo"
	tutorial_handlers "github.com/gradglobe/counsel-api/handlers/tutorial"
	university_handlers "github.com/gradglobe/counsel-api/handlers/university"
	"github.com/gradglobe/counsel-api/services"
	"github.com/gradglobe/counsel-api/utils/auth"
	"github.com/gradglobe/counsel-api/utils/cache"
	"github.com/gradglobe/counsel-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, getEnv *config.EnviornmentVariable) {
	if getEnv.AUTH_JWT_SECRET == "" {
		log.Fatal("AUTH_JWT_SECRET environment variable is not set")
	}

	// Token verification against the external identity provider
	verifier := auth.NewTokenVerifier(auth.VerifierConfig{
		Secret: getEnv.AUTH_JWT_SECRET,
		Issuer: getEnv.AUTH_ISSUER,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis cache for unread-count lookups; the API degrades to plain
	// DB counts when Redis is unreachable.
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Unread-count caching disabled.", err)
		}
	}

	// Media storage for catalog images (optional)
	var mediaService *services.MediaService
	if getEnv.SPACES_BUCKET != "" && getEnv.SPACES_KEY != "" {
		var err error
		mediaService, err = services.NewMediaService(services.MediaConfig{
			AccessKey: getEnv.SPACES_KEY,
			SecretKey: getEnv.SPACES_SECRET,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize media storage: %v. Image URLs pass through untouched.", err)
		}
	}

	// Services
	notificationService := services.NewNotificationService(db, redisCache)
	applicationService := services.NewApplicationService(db, notificationService)
	statsService := services.NewStatsService(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(verifier, db)

	// Handlers
	healthHandler := handlers.NewHealthHandler(store, getEnv.GO_ENV)
	authHandler := auth_handlers.NewAuthHandler(db)
	universityHandler := university_handlers.NewUniversityHandler(db, mediaService)
	courseHandler := course_handlers.NewCourseHandler(db)
	counselorHandler := counselor_handlers.NewCounselorHandler(db)
	tutorialHandler := tutorial_handlers.NewTutorialHandler(db)
	applicationHandler := application_handlers.NewApplicationHandler(applicationService)
	favoriteHandler := favorite_handlers.NewFavoriteHandler(db)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)
	adminStatsHandler := admin_handlers.NewStatsHandler(statsService)
	adminUserHandler := admin_handlers.NewUserHandler(db)
	adminApplicationHandler := admin_handlers.NewApplicationHandler(db, applicationService)
	adminBroadcastHandler := admin_handlers.NewBroadcastHandler(notificationService)
	seoHandler := seo_handlers.NewSEOHandler(db, getEnv.SITE_BASE_URL)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/health", healthHandler.Check)

	// SEO documents (public)
	app.Get("/robots.txt", seoHandler.Robots)

	api := app.Group("/api")
	api.Get("/sitemap.xml", seoHandler.Sitemap)

	// Auth routes (protected: token verified, local record resolved)
	authGroup := api.Group("/auth", authMiddleware.Required())
	authGroup.Get("/user", authHandler.GetCurrentUser)
	authGroup.Post("/create-user", authHandler.CreateUser)

	// Catalog routes
	universities := api.Group("/universities")
	universities.Get("/", universityHandler.ListUniversities)                                      // Public: List all universities
	universities.Post("/", authMiddleware.RequireAdmin(), universityHandler.CreateUniversity)      // Admin only: Create university

	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)                                  // Public: Filtered catalog list
	courses.Get("/:id", courseHandler.GetCourse)                                 // Public: Single course with university
	courses.Post("/", authMiddleware.RequireAdmin(), courseHandler.CreateCourse) // Admin only: Create course

	// Content routes
	api.Get("/counselors", counselorHandler.ListCounselors) // Public: Active counselors
	api.Get("/tutorials", tutorialHandler.ListTutorials)    // Public: Active tutorials, newest first

	// Application routes (protected)
	applications := api.Group("/applications", authMiddleware.Required())
	applications.Get("/", applicationHandler.ListApplications)
	applications.Post("/", applicationHandler.SubmitApplication)

	// Favorite routes (protected; persistent per-user store)
	favorites := api.Group("/favorites", authMiddleware.Required())
	favorites.Get("/", favoriteHandler.ListFavorites)
	favorites.Post("/", favoriteHandler.AddFavorite)
	favorites.Delete("/:courseId", favoriteHandler.RemoveFavorite)

	// Notification routes (protected)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.GetNotifications)
	notifications.Get("/unread-count", notificationHandler.GetUnreadCount)
	notifications.Patch("/:id/read", notificationHandler.MarkAsRead)
	notifications.Post("/read-all", notificationHandler.MarkAllAsRead)

	// Admin routes: token + fresh admin-flag check on every request
	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Get("/stats", adminStatsHandler.GetStats)
	admin.Get("/analytics", adminStatsHandler.GetAnalytics)
	admin.Get("/users", adminUserHandler.ListUsers)
	admin.Get("/applications", adminApplicationHandler.ListApplications)
	admin.Patch("/applications/:id/status", adminApplicationHandler.UpdateStatus)
	admin.Post("/notifications", adminBroadcastHandler.Broadcast)
}
