package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopyard/storefront-api/middleware"
	"github.com/shopyard/storefront-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name    *string         `json:"name"`
	Address *models.Address `json:"address"`
}

type AdminUpdateUserInput struct {
	Role   *models.Role          `json:"role"`
	Status *models.AccountStatus `json:"status"`
}

// GET /api/users (admin)
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "name", "email", "role", "status", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			logrus.WithError(err).Error("failed to list users")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// GET /api/users/:id — self or admin.
func GetUserByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := middleware.CurrentUser(c)
		id := c.Param("id")

		if !current.IsAdmin() && current.ID != id {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to access this resource"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /api/users/profile — partial self-update; email and role stay fixed.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := middleware.CurrentUser(c)

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		updates := make(map[string]any)
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Address != nil {
			updates["street"] = input.Address.Street
			updates["city"] = input.Address.City
			updates["state"] = input.Address.State
			updates["postal_code"] = input.Address.PostalCode
			updates["country"] = input.Address.Country
		}

		if len(updates) > 0 {
			if err := db.Model(&models.User{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
				logrus.WithError(err).Error("failed to update profile")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		}

		var user models.User
		if err := db.First(&user, "id = ?", current.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /api/users/:id (admin) — role and status changes.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		var input AdminUpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		if input.Role != nil {
			if *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
				return
			}
			user.Role = *input.Role
		}
		if input.Status != nil {
			if *input.Status != models.StatusActive && *input.Status != models.StatusInactive {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
				return
			}
			user.Status = *input.Status
		}

		if err := db.Save(&user).Error; err != nil {
			logrus.WithError(err).Error("failed to update user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// DELETE /api/users/:id (admin)
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			} else {
				logrus.WithError(err).Error("failed to fetch user")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			}
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.Where("user_id = ?", id).First(&cart).Error; err == nil {
				if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&cart).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			logrus.WithError(err).Error("failed to delete user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User removed"})
	}
}
