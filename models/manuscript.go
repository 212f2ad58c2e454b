package models

import "time"

// Manuscript statuses.
const (
	ManuscriptStatusDraft       = "DRAFT"
	ManuscriptStatusSubmitted   = "SUBMITTED"
	ManuscriptStatusUnderReview = "UNDER_REVIEW"
	ManuscriptStatusAccepted    = "ACCEPTED"
	ManuscriptStatusRejected    = "REJECTED"
)

type Manuscript struct {
	ManuscriptID     int        `gorm:"primaryKey;column:manuscript_id" json:"manuscript_id"`
	AuthorID         int        `gorm:"column:author_id" json:"author_id"`
	Title            string     `gorm:"column:title" json:"title"`
	Abstract         string     `gorm:"column:abstract" json:"abstract"`
	Keywords         string     `gorm:"column:keywords" json:"keywords"`
	Status           string     `gorm:"column:status" json:"status"`
	StoredPath       *string    `gorm:"column:stored_path" json:"stored_path,omitempty"`
	OriginalFilename *string    `gorm:"column:original_filename" json:"original_filename,omitempty"`
	SubmittedAt      *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	// Relations
	Author  *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Reviews []Review `gorm:"foreignKey:ManuscriptID" json:"reviews,omitempty"`
}

func (Manuscript) TableName() string {
	return "manuscripts"
}
