package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"peer-review-api/models"
)

// Review statuses. Status is the single source of truth for which actions
// are currently legal on a review.
const (
	ReviewStatusPending   = "PENDING"
	ReviewStatusAccepted  = "ACCEPTED"
	ReviewStatusDeclined  = "DECLINED"
	ReviewStatusInReview  = "IN_REVIEW"
	ReviewStatusSubmitted = "REVIEW_SUBMITTED"
)

// Assignment response actions accepted on PATCH /reviews/:id.
const (
	ActionAcceptAssignment  = "ACCEPT_ASSIGNMENT"
	ActionDeclineAssignment = "DECLINE_ASSIGNMENT"
)

// Internal action names for the two editing operations.
const (
	actionSaveDraft = "SAVE_DRAFT"
	actionSubmit    = "SUBMIT_REVIEW"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrNotAssignedReviewer = errors.New("only the assigned reviewer may perform this action")
	ErrAlreadyResponded    = errors.New("review assignment has already been responded to")
	ErrNotEditable         = errors.New("review is not open for editing")
	ErrUnknownAction       = errors.New("unknown review action")

	// ErrTransitionConflict means the status check passed on read but the
	// guarded update matched zero rows: a concurrent request changed the
	// review underneath us.
	ErrTransitionConflict = errors.New("review was modified by a concurrent request")
)

// ValidationError carries the names of required fields that were missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

type transition struct {
	from []string
	to   string
	// conflictErr is returned when the current status is outside from.
	conflictErr error
}

// transitions is the single authority for the review state machine.
// DECLINED and REVIEW_SUBMITTED appear in no from-list: both are terminal.
var transitions = map[string]transition{
	ActionAcceptAssignment:  {from: []string{ReviewStatusPending}, to: ReviewStatusAccepted, conflictErr: ErrAlreadyResponded},
	ActionDeclineAssignment: {from: []string{ReviewStatusPending}, to: ReviewStatusDeclined, conflictErr: ErrAlreadyResponded},
	actionSaveDraft:         {from: []string{ReviewStatusAccepted, ReviewStatusInReview}, to: ReviewStatusInReview, conflictErr: ErrNotEditable},
	actionSubmit:            {from: []string{ReviewStatusAccepted, ReviewStatusInReview}, to: ReviewStatusSubmitted, conflictErr: ErrNotEditable},
}

// ReviewDraftInput is a partial update of the evaluation fields. Nil fields
// are left untouched.
type ReviewDraftInput struct {
	Feedback             *string `json:"feedback"`
	ContentEvaluation    *string `json:"content_evaluation"`
	StyleEvaluation      *string `json:"style_evaluation"`
	Strengths            *string `json:"strengths"`
	Weaknesses           *string `json:"weaknesses"`
	Recommendation       *string `json:"recommendation"`
	ConfidentialComments *string `json:"confidential_comments"`
	PublicComments       *string `json:"public_comments"`
	OverallRating        *int    `json:"overall_rating"`
	ProgressPercentage   *int    `json:"progress_percentage"`
	TimeSpent            *int    `json:"time_spent"`
}

// ReviewLifecycleService owns the review status field and its transitions.
type ReviewLifecycleService struct {
	db *gorm.DB
}

func NewReviewLifecycleService(db *gorm.DB) *ReviewLifecycleService {
	return &ReviewLifecycleService{db: db}
}

// load fetches the review with its manuscript and checks that the caller is
// the assigned reviewer. Runs before any mutation so callers get precise
// 404/403 errors instead of a blanket conflict.
func (s *ReviewLifecycleService) load(reviewID, reviewerID int) (*models.Review, error) {
	var review models.Review
	if err := s.db.Preload("Manuscript").First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, ErrNotAssignedReviewer
	}
	return &review, nil
}

// apply persists a transition with a guarded update: the WHERE clause repeats
// the allow-list so two concurrent transitions cannot both win. Zero affected
// rows after a successful pre-read is reported as a conflict.
func (s *ReviewLifecycleService) apply(review *models.Review, action string, updates map[string]interface{}) error {
	tr, ok := transitions[action]
	if !ok {
		return ErrUnknownAction
	}

	current := review.Status
	allowed := false
	for _, from := range tr.from {
		if current == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return tr.conflictErr
	}

	now := time.Now()
	updates["status"] = tr.to
	updates["update_at"] = now

	res := s.db.Model(&models.Review{}).
		Where("review_id = ? AND status IN ?", review.ReviewID, tr.from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransitionConflict
	}

	review.Status = tr.to
	review.UpdateAt = &now
	return nil
}

// Respond handles ACCEPT_ASSIGNMENT / DECLINE_ASSIGNMENT. The optional
// free-text reason is stored in feedback.
func (s *ReviewLifecycleService) Respond(reviewID, reviewerID int, action, reason string) (*models.Review, error) {
	if action != ActionAcceptAssignment && action != ActionDeclineAssignment {
		return nil, ErrUnknownAction
	}

	review, err := s.load(reviewID, reviewerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	reason = strings.TrimSpace(reason)
	if reason != "" {
		updates["feedback"] = reason
		review.Feedback = &reason
	}

	if err := s.apply(review, action, updates); err != nil {
		return nil, err
	}
	return review, nil
}

// SaveDraft writes any subset of the evaluation fields and forces the status
// to IN_REVIEW. No notifications are emitted for draft saves.
func (s *ReviewLifecycleService) SaveDraft(reviewID, reviewerID int, input ReviewDraftInput) (*models.Review, error) {
	review, err := s.load(reviewID, reviewerID)
	if err != nil {
		return nil, err
	}

	updates := mergeDraft(review, input)
	if err := s.apply(review, actionSaveDraft, updates); err != nil {
		return nil, err
	}
	return review, nil
}

// Submit finalizes the review. The merged result must carry a non-empty
// recommendation, content evaluation and public comments; progress is forced
// to 100.
func (s *ReviewLifecycleService) Submit(reviewID, reviewerID int, input ReviewDraftInput) (*models.Review, error) {
	review, err := s.load(reviewID, reviewerID)
	if err != nil {
		return nil, err
	}

	updates := mergeDraft(review, input)

	var missing []string
	if isBlank(review.Recommendation) {
		missing = append(missing, "recommendation")
	}
	if isBlank(review.ContentEvaluation) {
		missing = append(missing, "content_evaluation")
	}
	if isBlank(review.PublicComments) {
		missing = append(missing, "public_comments")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	updates["progress_percentage"] = 100
	review.ProgressPercentage = 100

	if err := s.apply(review, actionSubmit, updates); err != nil {
		return nil, err
	}
	return review, nil
}

// mergeDraft copies the non-nil input fields onto the review and returns the
// matching column update map.
func mergeDraft(review *models.Review, input ReviewDraftInput) map[string]interface{} {
	updates := map[string]interface{}{}

	setString := func(column string, dst **string, src *string) {
		if src == nil {
			return
		}
		value := strings.TrimSpace(*src)
		updates[column] = value
		*dst = &value
	}
	setInt := func(column string, dst **int, src *int) {
		if src == nil {
			return
		}
		value := *src
		updates[column] = value
		*dst = &value
	}

	setString("feedback", &review.Feedback, input.Feedback)
	setString("content_evaluation", &review.ContentEvaluation, input.ContentEvaluation)
	setString("style_evaluation", &review.StyleEvaluation, input.StyleEvaluation)
	setString("strengths", &review.Strengths, input.Strengths)
	setString("weaknesses", &review.Weaknesses, input.Weaknesses)
	setString("recommendation", &review.Recommendation, input.Recommendation)
	setString("confidential_comments", &review.ConfidentialComments, input.ConfidentialComments)
	setString("public_comments", &review.PublicComments, input.PublicComments)
	setInt("overall_rating", &review.OverallRating, input.OverallRating)
	setInt("time_spent", &review.TimeSpent, input.TimeSpent)

	if input.ProgressPercentage != nil {
		value := *input.ProgressPercentage
		if value < 0 {
			value = 0
		}
		if value > 100 {
			value = 100
		}
		updates["progress_percentage"] = value
		review.ProgressPercentage = value
	}

	return updates
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
