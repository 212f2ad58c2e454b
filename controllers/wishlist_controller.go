package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"peer-review-api/models"
)

type addWishlistReq struct {
	PublicationID int    `json:"publication_id" binding:"required"`
	SelectedType  string `json:"selected_type" binding:"required"`
}

// GetWishlist lists the caller's wishlist items.
func GetWishlist(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var items []models.WishlistItem
	if err := db.Preload("Publication").Preload("Publication.Genre").
		Where("user_id = ?", uid).
		Order("create_at DESC").
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// AddWishlistItem creates one (user, publication, selected_type) row. A
// duplicate triple is a 409.
func AddWishlistItem(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addWishlistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	selectedType := strings.ToUpper(strings.TrimSpace(req.SelectedType))
	switch selectedType {
	case models.PublicationTypeJournal, models.PublicationTypeArticle, models.PublicationTypeBook:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid selected type"})
		return
	}

	var publication models.Publication
	if err := db.First(&publication, "publication_id = ?", req.PublicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load publication"})
		return
	}

	// Pre-check for a friendly conflict message; the unique index still
	// backstops concurrent inserts.
	var existing models.WishlistItem
	if err := db.Where("user_id = ? AND publication_id = ? AND selected_type = ?",
		uid, req.PublicationID, selectedType).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Publication is already in your wishlist"})
		return
	}

	item := models.WishlistItem{
		UserID:        uid,
		PublicationID: req.PublicationID,
		SelectedType:  selectedType,
		CreateAt:      time.Now(),
	}

	if err := db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Publication is already in your wishlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add wishlist item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

// RemoveWishlistItem deletes one of the caller's wishlist rows.
func RemoveWishlistItem(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wishlist ID"})
		return
	}

	res := db.Where("wishlist_id = ? AND user_id = ?", id, uid).Delete(&models.WishlistItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove wishlist item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
