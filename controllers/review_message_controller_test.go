package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peer-review-api/models"
	"peer-review-api/services"
)

func TestPostReviewMessageSenderTagMustMatchRole(t *testing.T) {
	db, router := setupRouter(t)

	author := createUser(t, db, "author@example.com", models.RoleUser)
	reviewer := createUser(t, db, "reviewer@example.com", models.RoleReviewer)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	outsider := createUser(t, db, "outsider@example.com", models.RoleUser)
	manuscript := createManuscript(t, db, author.UserID, models.ManuscriptStatusUnderReview)
	createReview(t, db, manuscript.ManuscriptID, reviewer.UserID, services.ReviewStatusInReview)

	post := func(user *models.User, sender string) int {
		w := doJSON(t, router, http.MethodPost, "/api/v1/reviews/1/messages", authToken(t, user),
			map[string]interface{}{"content": "hello", "sender": sender})
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, post(author, "AUTHOR"))
	assert.Equal(t, http.StatusCreated, post(reviewer, "REVIEWER"))
	assert.Equal(t, http.StatusCreated, post(admin, "EDITOR"))

	// A reviewer cannot post as AUTHOR, nor the author as REVIEWER.
	assert.Equal(t, http.StatusForbidden, post(reviewer, "AUTHOR"))
	assert.Equal(t, http.StatusForbidden, post(author, "REVIEWER"))
	assert.Equal(t, http.StatusForbidden, post(author, "EDITOR"))

	// Non-participants cannot post at all.
	assert.Equal(t, http.StatusForbidden, post(outsider, "AUTHOR"))

	assert.Equal(t, http.StatusBadRequest, post(author, "SOMETHING"))
}

func TestGetReviewMessagesInsertionOrder(t *testing.T) {
	db, router := setupRouter(t)

	author := createUser(t, db, "author@example.com", models.RoleUser)
	reviewer := createUser(t, db, "reviewer@example.com", models.RoleReviewer)
	manuscript := createManuscript(t, db, author.UserID, models.ManuscriptStatusUnderReview)
	review := createReview(t, db, manuscript.ManuscriptID, reviewer.UserID, services.ReviewStatusInReview)

	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"first", "second", "third"} {
		msg := models.ReviewMessage{
			ReviewID:   review.ReviewID,
			SenderID:   reviewer.UserID,
			SenderRole: models.SenderRoleReviewer,
			Content:    content,
			CreateAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&msg).Error)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/reviews/1/messages", authToken(t, author), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 3)
	for i, want := range []string{"first", "second", "third"} {
		msg := messages[i].(map[string]interface{})
		assert.Equal(t, want, msg["content"])
	}
}

func TestReviewMessagesGuards(t *testing.T) {
	db, router := setupRouter(t)

	author := createUser(t, db, "author@example.com", models.RoleUser)
	reviewer := createUser(t, db, "reviewer@example.com", models.RoleReviewer)
	outsider := createUser(t, db, "outsider@example.com", models.RoleUser)
	manuscript := createManuscript(t, db, author.UserID, models.ManuscriptStatusUnderReview)
	createReview(t, db, manuscript.ManuscriptID, reviewer.UserID, services.ReviewStatusInReview)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reviews/1/messages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/reviews/1/messages", authToken(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/reviews/42/messages", authToken(t, author), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
