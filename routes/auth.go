package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/auth"
	"github.com/shopyard/storefront-api/config"
	"github.com/shopyard/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers /api/auth/* endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	group := api.Group("/auth")
	{
		group.POST("/register", auth.RegisterHandler(db, cfg.JWTSecret, cfg.TokenTTL))
		group.POST("/login", auth.LoginHandler(db, cfg.JWTSecret, cfg.TokenTTL))
		group.GET("/me", middleware.Authenticate(db, cfg.JWTSecret), auth.MeHandler(db))
	}
}
