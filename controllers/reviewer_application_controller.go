package controllers

import (
	"errors"
	"fmt"
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

type createApplicationReq struct {
	Expertise  string `json:"expertise" binding:"required"`
	Motivation string `json:"motivation" binding:"required"`
}

// CreateReviewerApplication files a request for the reviewer role and
// notifies every admin. Each admin gets an independent notification row and
// an independent email attempt.
func CreateReviewerApplication(c *gin.Context) {
	db := getDB()

	user, ok := getCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if user.RoleID != models.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account already has reviewer permissions"})
		return
	}

	var req createApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var open models.ReviewerApplication
	if err := db.Where("user_id = ? AND status = ?", user.UserID, models.ApplicationStatusPending).
		First(&open).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a pending application"})
		return
	}

	application := models.ReviewerApplication{
		UserID:     user.UserID,
		Expertise:  utils.SanitizeInput(req.Expertise),
		Motivation: utils.SanitizeInput(req.Motivation),
		Status:     models.ApplicationStatusPending,
		CreateAt:   time.Now(),
	}

	if err := db.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	var admins []models.User
	_ = db.Where("role_id = ? AND delete_at IS NULL", models.RoleAdmin).Find(&admins).Error

	relatedID := uint(application.ApplicationID)
	events := make([]services.NotificationEvent, 0, len(admins))
	for _, admin := range admins {
		events = append(events, services.NotificationEvent{
			UserID:        uint(admin.UserID),
			Title:         "New reviewer application",
			Message:       fmt.Sprintf("%s applied to become a reviewer (expertise: %s).", user.FullName(), application.Expertise),
			Type:          "info",
			RelatedID:     &relatedID,
			Email:         admin.Email,
			RecipientName: admin.FullName(),
		})
	}
	services.NewNotifier(db).NotifyAll(events)

	c.JSON(http.StatusCreated, gin.H{"success": true, "application": application})
}

// GetMyReviewerApplications lists the caller's applications.
func GetMyReviewerApplications(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var applications []models.ReviewerApplication
	if err := db.Where("user_id = ?", uid).
		Order("create_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "applications": applications})
}

// GetReviewerApplications lists applications for admins, newest first.
func GetReviewerApplications(c *gin.Context) {
	db := getDB()

	page, limit, offset := utils.ParsePagination(c, 20, 100)

	query := db.Model(&models.ReviewerApplication{})
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalCount int64
	query.Count(&totalCount)

	var applications []models.ReviewerApplication
	if err := query.Preload("User").
		Order("create_at DESC").Offset(offset).Limit(limit).
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": applications,
		"pagination":   utils.PaginationMeta(page, limit, totalCount),
	})
}

type decideApplicationReq struct {
	Decision string `json:"decision" binding:"required"` // approve|reject
	Comment  string `json:"comment"`
}

// DecideReviewerApplication approves or rejects an application. Approval
// promotes the applicant to the reviewer role; the applicant is notified
// either way.
func DecideReviewerApplication(c *gin.Context) {
	db := getDB()

	adminID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req decideApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	if decision != "approve" && decision != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be either 'approve' or 'reject'"})
		return
	}

	var application models.ReviewerApplication
	if err := db.Preload("User").First(&application, "application_id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load application"})
		return
	}

	if application.Status != models.ApplicationStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Application has already been decided"})
		return
	}

	target := models.ApplicationStatusApproved
	title := "Your reviewer application was approved"
	kind := "success"
	if decision == "reject" {
		target = models.ApplicationStatusRejected
		title = "Your reviewer application was rejected"
		kind = "warning"
	}

	now := time.Now()
	res := db.Model(&models.ReviewerApplication{}).
		Where("application_id = ? AND status = ?", applicationID, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":     target,
			"decided_by": adminID,
			"decided_at": now,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Application was decided by another request"})
		return
	}
	application.Status = target
	application.DecidedBy = &adminID
	application.DecidedAt = &now

	if target == models.ApplicationStatusApproved {
		if err := db.Model(&models.User{}).
			Where("user_id = ? AND role_id = ?", application.UserID, models.RoleUser).
			Updates(map[string]interface{}{"role_id": models.RoleReviewer, "update_at": now}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to promote applicant"})
			return
		}
	}

	body := fmt.Sprintf("Your application to become a reviewer has been %s.", strings.ToLower(target))
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		body += " " + comment
	}

	if application.User != nil {
		relatedID := uint(application.ApplicationID)
		services.NewNotifier(db).Notify(services.NotificationEvent{
			UserID:        uint(application.User.UserID),
			Title:         title,
			Message:       body,
			Type:          kind,
			RelatedID:     &relatedID,
			Email:         application.User.Email,
			RecipientName: application.User.FullName(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "application": application})
}
