package models

import "time"

// Reviewer application statuses.
const (
	ApplicationStatusPending  = "PENDING"
	ApplicationStatusApproved = "APPROVED"
	ApplicationStatusRejected = "REJECTED"
)

// ReviewerApplication is a user's request to be granted the reviewer role.
type ReviewerApplication struct {
	ApplicationID int        `gorm:"primaryKey;column:application_id" json:"application_id"`
	UserID        int        `gorm:"column:user_id" json:"user_id"`
	Expertise     string     `gorm:"column:expertise" json:"expertise"`
	Motivation    string     `gorm:"column:motivation" json:"motivation"`
	Status        string     `gorm:"column:status" json:"status"`
	DecidedBy     *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt     *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ReviewerApplication) TableName() string {
	return "reviewer_applications"
}
