package services

import (
	"peer-review-api/models"
)

// ReviewRoles is the computed relationship between a session user and one
// review. Editor capability is derived from the user record, see
// User.CanActAsEditor.
type ReviewRoles struct {
	IsReviewer bool `json:"is_reviewer"`
	IsAuthor   bool `json:"is_author"`
	IsEditor   bool `json:"is_editor"`
}

// ReviewRolesFor derives the role set from the entity foreign keys. The
// review must have its manuscript preloaded.
func ReviewRolesFor(user *models.User, review *models.Review) ReviewRoles {
	roles := ReviewRoles{
		IsReviewer: review.ReviewerID == user.UserID,
		IsEditor:   user.CanActAsEditor(),
	}
	if review.Manuscript != nil {
		roles.IsAuthor = review.Manuscript.AuthorID == user.UserID
	}
	return roles
}

// Any reports whether the user is a participant at all.
func (r ReviewRoles) Any() bool {
	return r.IsReviewer || r.IsAuthor || r.IsEditor
}

// AllowsSenderTag checks a declared message sender tag against the actual
// role set, so a reviewer cannot post as AUTHOR.
func (r ReviewRoles) AllowsSenderTag(tag string) bool {
	switch tag {
	case models.SenderRoleReviewer:
		return r.IsReviewer
	case models.SenderRoleAuthor:
		return r.IsAuthor
	case models.SenderRoleEditor:
		return r.IsEditor
	default:
		return false
	}
}
