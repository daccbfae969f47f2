package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopyard/storefront-api/config"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up every route group
// under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	api := r.Group("/api")

	SetupAuthRoutes(api, db, cfg)
	SetupProductRoutes(api, db, rdb, cfg)
	SetupCategoryRoutes(api, db, cfg)
	SetupCartRoutes(api, db, cfg)
	SetupOrderRoutes(api, db, cfg)
	SetupUserRoutes(api, db, cfg)
}
