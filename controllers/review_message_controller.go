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
	"peer-review-api/services"
	"peer-review-api/utils"
)

type postMessageReq struct {
	Content string `json:"content" binding:"required"`
	Sender  string `json:"sender" binding:"required"` // REVIEWER|EDITOR|AUTHOR
}

// loadReviewForParticipant fetches the review and verifies the caller is one
// of its participants. Writes the error response itself on failure.
func loadReviewForParticipant(c *gin.Context) (*models.Review, services.ReviewRoles, bool) {
	db := getDB()

	user, ok := getCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, services.ReviewRoles{}, false
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return nil, services.ReviewRoles{}, false
	}

	var review models.Review
	if err := db.Preload("Manuscript").First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return nil, services.ReviewRoles{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review"})
		return nil, services.ReviewRoles{}, false
	}

	roles := services.ReviewRolesFor(user, &review)
	if !roles.Any() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, services.ReviewRoles{}, false
	}

	return &review, roles, true
}

// GetReviewMessages returns the message thread in insertion order.
func GetReviewMessages(c *gin.Context) {
	db := getDB()

	review, _, ok := loadReviewForParticipant(c)
	if !ok {
		return
	}

	var messages []models.ReviewMessage
	if err := db.Preload("Sender").
		Where("review_id = ?", review.ReviewID).
		Order("create_at ASC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// PostReviewMessage appends one message to the thread. The declared sender
// tag must match the caller's actual relationship to the review.
func PostReviewMessage(c *gin.Context) {
	db := getDB()

	review, roles, ok := loadReviewForParticipant(c)
	if !ok {
		return
	}

	uid, _ := getCurrentUserID(c)

	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sender := strings.ToUpper(strings.TrimSpace(req.Sender))
	switch sender {
	case models.SenderRoleReviewer, models.SenderRoleEditor, models.SenderRoleAuthor:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sender role"})
		return
	}

	if !roles.AllowsSenderTag(sender) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Sender role does not match your relationship to this review"})
		return
	}

	content := utils.SanitizeInput(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	message := models.ReviewMessage{
		ReviewID:   review.ReviewID,
		SenderID:   uid,
		SenderRole: sender,
		Content:    content,
		CreateAt:   time.Now(),
	}

	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message})
}
