package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"peer-review-api/models"
	"peer-review-api/utils"
)

// GetUsers lists accounts for the admin console.
func GetUsers(c *gin.Context) {
	db := getDB()

	page, limit, offset := utils.ParsePagination(c, 50, 200)

	query := db.Model(&models.User{}).Where("delete_at IS NULL")
	if roleStr := c.Query("role_id"); roleStr != "" {
		if roleID, err := strconv.Atoi(roleStr); err == nil {
			query = query.Where("role_id = ?", roleID)
		}
	}

	var totalCount int64
	query.Count(&totalCount)

	var users []models.User
	if err := query.Preload("Role").
		Order("user_id ASC").Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"users":      users,
		"pagination": utils.PaginationMeta(page, limit, totalCount),
	})
}

type updateRoleReq struct {
	RoleID int `json:"role_id" binding:"required"`
}

// UpdateUserRole changes another user's role. Changing your own role is
// rejected, admin or not.
func UpdateUserRole(c *gin.Context) {
	db := getDB()

	adminID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || targetID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if targetID == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
		return
	}

	var req updateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch req.RoleID {
	case models.RoleUser, models.RoleReviewer, models.RoleAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var user models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", targetID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	now := time.Now()
	if err := db.Model(&models.User{}).
		Where("user_id = ?", targetID).
		Updates(map[string]interface{}{"role_id": req.RoleID, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	user.RoleID = req.RoleID
	user.UpdateAt = &now

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
