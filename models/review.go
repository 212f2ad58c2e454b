package models

import "time"

// Participant roles a review message may be tagged with.
const (
	SenderRoleReviewer = "REVIEWER"
	SenderRoleEditor   = "EDITOR"
	SenderRoleAuthor   = "AUTHOR"
)

// Review holds one reviewer's assignment and evaluation for a manuscript.
// Rows are never deleted; declined and submitted reviews stay as the audit
// trail of the review round.
type Review struct {
	ReviewID             int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	ManuscriptID         int        `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID           int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	Status               string     `gorm:"column:status" json:"status"`
	Feedback             *string    `gorm:"column:feedback" json:"feedback,omitempty"`
	ContentEvaluation    *string    `gorm:"column:content_evaluation" json:"content_evaluation,omitempty"`
	StyleEvaluation      *string    `gorm:"column:style_evaluation" json:"style_evaluation,omitempty"`
	Strengths            *string    `gorm:"column:strengths" json:"strengths,omitempty"`
	Weaknesses           *string    `gorm:"column:weaknesses" json:"weaknesses,omitempty"`
	Recommendation       *string    `gorm:"column:recommendation" json:"recommendation,omitempty"`
	ConfidentialComments *string    `gorm:"column:confidential_comments" json:"confidential_comments,omitempty"`
	PublicComments       *string    `gorm:"column:public_comments" json:"public_comments,omitempty"`
	OverallRating        *int       `gorm:"column:overall_rating" json:"overall_rating,omitempty"`
	ProgressPercentage   int        `gorm:"column:progress_percentage" json:"progress_percentage"`
	TimeSpent            *int       `gorm:"column:time_spent" json:"time_spent,omitempty"`
	RevisionRound        int        `gorm:"column:revision_round" json:"revision_round"`
	CreateAt             time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt             *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	// Relations
	Manuscript *Manuscript `gorm:"foreignKey:ManuscriptID" json:"manuscript,omitempty"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewMessage is one entry in the threaded discussion attached to a review.
// SenderRole is the declared participant role and must match the sender's
// actual relationship to the review.
type ReviewMessage struct {
	MessageID  int       `gorm:"primaryKey;column:message_id" json:"message_id"`
	ReviewID   int       `gorm:"column:review_id" json:"review_id"`
	SenderID   int       `gorm:"column:sender_id" json:"sender_id"`
	SenderRole string    `gorm:"column:sender_role" json:"sender_role"`
	Content    string    `gorm:"column:content" json:"content"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender_user,omitempty"`
}

func (ReviewMessage) TableName() string {
	return "review_messages"
}
