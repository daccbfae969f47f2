package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/config"
	userControllers "github.com/shopyard/storefront-api/controllers/user"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"gorm.io/gorm"
)

// SetupUserRoutes registers /api/users/* endpoints.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	group := api.Group("/users")
	group.Use(middleware.Authenticate(db, cfg.JWTSecret))

	adminOnly := middleware.Authorize(models.RoleAdmin)
	{
		group.GET("", adminOnly, userControllers.ListUsers(db))
		group.PUT("/profile", userControllers.UpdateProfile(db))
		group.GET("/:id", userControllers.GetUserByID(db))
		group.PUT("/:id", adminOnly, userControllers.UpdateUser(db))
		group.DELETE("/:id", adminOnly, userControllers.DeleteUser(db))
	}
}
