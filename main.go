package main

import (
	"log"
	"os"

	"stocksnap/config"
	"stocksnap/handlers"
	"stocksnap/middleware"
	"stocksnap/models"
	"stocksnap/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	cfg := config.MustLoad()

	if m := os.Getenv("GIN_MODE"); m != "" {
		gin.SetMode(m)
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to the database: ", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.User{}, &models.Stock{}); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}

	rdb, err := config.OpenRedis(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer rdb.Close()

	secret := []byte(cfg.JWTSecret)

	auth := &handlers.AuthHandler{
		DB:         db,
		Refresh:    storage.NewRedisRefreshStore(rdb),
		Secret:     secret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}
	users := &handlers.UserHandler{DB: db, UploadDir: cfg.UploadDir}
	stocks := &handlers.StockHandler{DB: db}

	router := gin.Default()

	// Public routes
	router.POST("/register", auth.Register)
	router.POST("/login", auth.Login)
	router.POST("/refresh", auth.RefreshToken)
	router.GET("/images/:filename", users.ServeImage)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.RequireAuth(secret))
	{
		protected.GET("/user", users.Profile)
		protected.PUT("/user", users.UploadImage)
		protected.DELETE("/user", users.DeleteImage)
		protected.GET("/stocks", stocks.List)
		protected.POST("/stocks", stocks.Create)
		protected.PUT("/stocks/:id", stocks.Update)
		protected.DELETE("/stocks/:id", stocks.Delete)
	}

	router.Run(":" + cfg.Port)
}
