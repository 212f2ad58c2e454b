package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"peer-review-api/config"
	"peer-review-api/models"
)

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

// getCurrentUser loads the full user row for the session identity.
func getCurrentUser(c *gin.Context) (*models.User, bool) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := getDB().Where("user_id = ? AND delete_at IS NULL", uid).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}
