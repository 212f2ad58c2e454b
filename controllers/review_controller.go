package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"peer-review-api/models"
	"peer-review-api/services"
	"peer-review-api/utils"
)

type respondReviewReq struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason"`
}

// GetMyReviews lists the review assignments of the authenticated reviewer.
func GetMyReviews(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit, offset := utils.ParsePagination(c, 20, 100)

	query := db.Model(&models.Review{}).Where("reviewer_id = ?", uid)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalCount int64
	query.Count(&totalCount)

	var reviews []models.Review
	if err := query.Preload("Manuscript").
		Order("create_at DESC").Offset(offset).Limit(limit).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"reviews":    reviews,
		"pagination": utils.PaginationMeta(page, limit, totalCount),
	})
}

// GetReview returns one review to any of its participants.
func GetReview(c *gin.Context) {
	db := getDB()

	user, ok := getCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var review models.Review
	if err := db.Preload("Manuscript").Preload("Reviewer").
		First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review"})
		return
	}

	roles := services.ReviewRolesFor(user, &review)
	if !roles.Any() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	// Confidential comments are reviewer/editor material.
	if !roles.IsReviewer && !roles.IsEditor {
		review.ConfidentialComments = nil
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review, "roles": roles})
}

// RespondToAssignment handles ACCEPT_ASSIGNMENT / DECLINE_ASSIGNMENT from the
// assigned reviewer and notifies the manuscript author.
func RespondToAssignment(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req respondReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lifecycle := services.NewReviewLifecycleService(db)
	review, err := lifecycle.Respond(reviewID, uid, req.Action, req.Reason)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	notifier := services.NewNotifier(db)
	relatedID := uint(review.ReviewID)
	if review.Manuscript != nil {
		var author models.User
		if err := db.First(&author, "user_id = ?", review.Manuscript.AuthorID).Error; err == nil {
			title := "Reviewer accepted your manuscript"
			kind := "success"
			body := fmt.Sprintf("A reviewer accepted the review assignment for \"%s\".", review.Manuscript.Title)
			if review.Status == services.ReviewStatusDeclined {
				title = "Reviewer declined your manuscript"
				kind = "warning"
				body = fmt.Sprintf("A reviewer declined the review assignment for \"%s\".", review.Manuscript.Title)
			}
			notifier.Notify(services.NotificationEvent{
				UserID:    uint(author.UserID),
				Title:     title,
				Message:   body,
				Type:      kind,
				RelatedID: &relatedID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// UpdateReview saves an in-progress draft of the evaluation fields. Draft
// saves emit no notifications.
func UpdateReview(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var input services.ReviewDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lifecycle := services.NewReviewLifecycleService(db)
	review, err := lifecycle.SaveDraft(reviewID, uid, input)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// SubmitReview finalizes the review, notifies the manuscript author and
// attempts a best-effort email.
func SubmitReview(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var input services.ReviewDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lifecycle := services.NewReviewLifecycleService(db)
	review, err := lifecycle.Submit(reviewID, uid, input)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	notifier := services.NewNotifier(db)
	relatedID := uint(review.ReviewID)
	if review.Manuscript != nil {
		var author models.User
		if err := db.First(&author, "user_id = ?", review.Manuscript.AuthorID).Error; err == nil {
			notifier.Notify(services.NotificationEvent{
				UserID:        uint(author.UserID),
				Title:         "Review submitted for your manuscript",
				Message:       fmt.Sprintf("A review has been submitted for \"%s\". You can read the public comments in your dashboard.", review.Manuscript.Title),
				Type:          "info",
				RelatedID:     &relatedID,
				Email:         author.Email,
				RecipientName: author.FullName(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// respondLifecycleError maps lifecycle service errors onto the HTTP error
// taxonomy.
func respondLifecycleError(c *gin.Context, err error) {
	var validation *services.ValidationError

	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
	case errors.Is(err, services.ErrNotAssignedReviewer):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the assigned reviewer may perform this action"})
	case errors.Is(err, services.ErrAlreadyResponded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review assignment has already been responded to"})
	case errors.Is(err, services.ErrNotEditable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review is not open for editing"})
	case errors.Is(err, services.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown review action"})
	case errors.Is(err, services.ErrTransitionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Review was modified by another request, please reload"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "missing_fields": validation.Fields})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
	}
}
