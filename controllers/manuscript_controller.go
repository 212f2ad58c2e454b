package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"peer-review-api/models"
	"peer-review-api/services"
	"peer-review-api/utils"
)

var manuscriptFileTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".tex":  true,
}

const manuscriptMaxFileSize = int64(20 * 1024 * 1024) // 20MB

// SubmitManuscript accepts a multipart manuscript submission. The file part
// is optional for text-only submissions.
func SubmitManuscript(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	title := utils.SanitizeInput(c.PostForm("title"))
	abstract := utils.SanitizeInput(c.PostForm("abstract"))
	keywords := utils.SanitizeInput(c.PostForm("keywords"))

	if title == "" || abstract == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and abstract are required"})
		return
	}

	now := time.Now()
	manuscript := models.Manuscript{
		AuthorID:    uid,
		Title:       title,
		Abstract:    abstract,
		Keywords:    keywords,
		Status:      models.ManuscriptStatusSubmitted,
		SubmittedAt: &now,
		CreateAt:    now,
	}

	if file, err := c.FormFile("file"); err == nil {
		if file.Size > manuscriptMaxFileSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 20MB limit"})
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !manuscriptFileTypes[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
			return
		}

		uploadPath := os.Getenv("UPLOAD_PATH")
		if uploadPath == "" {
			uploadPath = "./uploads"
		}
		if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
			return
		}

		// Random stored name; the original name only lives in the row.
		storedName := uuid.NewString() + ext
		fullPath := filepath.Join(uploadPath, storedName)
		if err := c.SaveUploadedFile(file, fullPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		original := file.Filename
		manuscript.StoredPath = &fullPath
		manuscript.OriginalFilename = &original
	}

	if err := db.Create(&manuscript).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit manuscript"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "manuscript": manuscript})
}

// GetManuscripts lists the caller's manuscripts; admins see every one.
func GetManuscripts(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	page, limit, offset := utils.ParsePagination(c, 20, 100)

	query := db.Model(&models.Manuscript{})
	if roleID != models.RoleAdmin {
		query = query.Where("author_id = ?", uid)
	}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalCount int64
	query.Count(&totalCount)

	var manuscripts []models.Manuscript
	if err := query.Preload("Author").
		Order("create_at DESC").Offset(offset).Limit(limit).
		Find(&manuscripts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch manuscripts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"manuscripts": manuscripts,
		"pagination":  utils.PaginationMeta(page, limit, totalCount),
	})
}

// GetManuscript returns one manuscript to its author, an assigned reviewer
// or an admin.
func GetManuscript(c *gin.Context) {
	db := getDB()

	user, ok := getCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var manuscript models.Manuscript
	if err := db.Preload("Author").Preload("Reviews").
		First(&manuscript, "manuscript_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load manuscript"})
		return
	}

	allowed := manuscript.AuthorID == user.UserID || user.CanActAsEditor()
	if !allowed {
		for _, review := range manuscript.Reviews {
			if review.ReviewerID == user.UserID {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}

type assignReviewerReq struct {
	ReviewerID int `json:"reviewer_id" binding:"required"`
}

// AssignReviewer creates a PENDING review binding a reviewer to a manuscript
// and notifies the reviewer. Admin only (enforced in routing).
func AssignReviewer(c *gin.Context) {
	db := getDB()

	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req assignReviewerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var manuscript models.Manuscript
	if err := db.First(&manuscript, "manuscript_id = ?", manuscriptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load manuscript"})
		return
	}

	if manuscript.AuthorID == req.ReviewerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authors cannot review their own manuscript"})
		return
	}

	var reviewer models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", req.ReviewerID).First(&reviewer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}
	if reviewer.RoleID != models.RoleReviewer && reviewer.RoleID != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User does not have the reviewer role"})
		return
	}

	var existing models.Review
	if err := db.Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, req.ReviewerID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Reviewer is already assigned to this manuscript"})
		return
	}

	var round int64
	db.Model(&models.Review{}).Where("manuscript_id = ?", manuscriptID).Count(&round)

	now := time.Now()
	review := models.Review{
		ManuscriptID:  manuscriptID,
		ReviewerID:    req.ReviewerID,
		Status:        services.ReviewStatusPending,
		RevisionRound: int(round) + 1,
		CreateAt:      now,
	}

	if err := db.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review assignment"})
		return
	}

	// First assignment pulls the manuscript into review.
	if manuscript.Status == models.ManuscriptStatusSubmitted {
		db.Model(&models.Manuscript{}).
			Where("manuscript_id = ? AND status = ?", manuscriptID, models.ManuscriptStatusSubmitted).
			Updates(map[string]interface{}{"status": models.ManuscriptStatusUnderReview, "update_at": now})
	}

	relatedID := uint(review.ReviewID)
	services.NewNotifier(db).Notify(services.NotificationEvent{
		UserID:        uint(reviewer.UserID),
		Title:         "New review assignment",
		Message:       fmt.Sprintf("You have been asked to review \"%s\". Please accept or decline the assignment.", manuscript.Title),
		Type:          "info",
		RelatedID:     &relatedID,
		Email:         reviewer.Email,
		RecipientName: reviewer.FullName(),
	})

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

type manuscriptDecisionReq struct {
	Decision string `json:"decision" binding:"required"` // accept|reject
	Comment  string `json:"comment"`
}

// DecideManuscript records the editorial decision and notifies the author.
// Admin only (enforced in routing).
func DecideManuscript(c *gin.Context) {
	db := getDB()

	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req manuscriptDecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	if decision != "accept" && decision != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be either 'accept' or 'reject'"})
		return
	}

	var manuscript models.Manuscript
	if err := db.Preload("Author").First(&manuscript, "manuscript_id = ?", manuscriptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load manuscript"})
		return
	}

	if manuscript.Status != models.ManuscriptStatusUnderReview {
		c.JSON(http.StatusConflict, gin.H{"error": "Manuscript is not under review"})
		return
	}

	target := models.ManuscriptStatusAccepted
	title := "Your manuscript has been accepted"
	kind := "success"
	if decision == "reject" {
		target = models.ManuscriptStatusRejected
		title = "Your manuscript has been rejected"
		kind = "warning"
	}

	now := time.Now()
	res := db.Model(&models.Manuscript{}).
		Where("manuscript_id = ? AND status = ?", manuscriptID, models.ManuscriptStatusUnderReview).
		Updates(map[string]interface{}{"status": target, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update manuscript"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Manuscript was modified by another request, please reload"})
		return
	}
	manuscript.Status = target
	manuscript.UpdateAt = &now

	body := fmt.Sprintf("The editorial decision for \"%s\" is: %s.", manuscript.Title, strings.ToLower(target))
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		body += " " + comment
	}

	if manuscript.Author != nil {
		relatedID := uint(manuscript.ManuscriptID)
		services.NewNotifier(db).Notify(services.NotificationEvent{
			UserID:        uint(manuscript.Author.UserID),
			Title:         title,
			Message:       body,
			Type:          kind,
			RelatedID:     &relatedID,
			Email:         manuscript.Author.Email,
			RecipientName: manuscript.Author.FullName(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}
