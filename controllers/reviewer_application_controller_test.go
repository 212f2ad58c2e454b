package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peer-review-api/models"
)

func TestCreateReviewerApplicationNotifiesEveryAdmin(t *testing.T) {
	db, router := setupRouter(t)

	applicant := createUser(t, db, "applicant@example.com", models.RoleUser)
	adminA := createUser(t, db, "admin-a@example.com", models.RoleAdmin)
	adminB := createUser(t, db, "admin-b@example.com", models.RoleAdmin)

	w := doJSON(t, router, http.MethodPost, "/api/v1/reviewer-applications", authToken(t, applicant),
		map[string]interface{}{"expertise": "distributed systems", "motivation": "I review a lot"})
	require.Equal(t, http.StatusCreated, w.Code)

	// One independent notification row per admin.
	for _, admin := range []*models.User{adminA, adminB} {
		var count int64
		require.NoError(t, db.Model(&models.Notification{}).
			Where("user_id = ?", admin.UserID).Count(&count).Error)
		assert.EqualValues(t, 1, count, admin.Email)
	}

	var total int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestCreateReviewerApplicationGuards(t *testing.T) {
	db, router := setupRouter(t)

	applicant := createUser(t, db, "applicant@example.com", models.RoleUser)
	reviewer := createUser(t, db, "reviewer@example.com", models.RoleReviewer)

	apply := func(user *models.User) int {
		w := doJSON(t, router, http.MethodPost, "/api/v1/reviewer-applications", authToken(t, user),
			map[string]interface{}{"expertise": "x", "motivation": "y"})
		return w.Code
	}

	// Already holding reviewer permissions.
	assert.Equal(t, http.StatusBadRequest, apply(reviewer))

	assert.Equal(t, http.StatusCreated, apply(applicant))

	// A second application while one is pending is a conflict.
	assert.Equal(t, http.StatusConflict, apply(applicant))
}

func TestDecideReviewerApplicationApprovePromotes(t *testing.T) {
	db, router := setupRouter(t)

	applicant := createUser(t, db, "applicant@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)

	w := doJSON(t, router, http.MethodPost, "/api/v1/reviewer-applications", authToken(t, applicant),
		map[string]interface{}{"expertise": "x", "motivation": "y"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/reviewer-applications/1", authToken(t, admin),
		map[string]interface{}{"decision": "approve", "comment": "Welcome aboard."})
	require.Equal(t, http.StatusOK, w.Code)

	var application models.ReviewerApplication
	require.NoError(t, db.First(&application, "application_id = ?", 1).Error)
	assert.Equal(t, models.ApplicationStatusApproved, application.Status)
	require.NotNil(t, application.DecidedBy)
	assert.Equal(t, admin.UserID, *application.DecidedBy)
	assert.NotNil(t, application.DecidedAt)

	var promoted models.User
	require.NoError(t, db.First(&promoted, "user_id = ?", applicant.UserID).Error)
	assert.Equal(t, models.RoleReviewer, promoted.RoleID)

	// The applicant is told the outcome.
	var note models.Notification
	require.NoError(t, db.Where("user_id = ?", applicant.UserID).First(&note).Error)
	assert.Equal(t, "Your reviewer application was approved", note.Title)
}

func TestDecideReviewerApplicationReject(t *testing.T) {
	db, router := setupRouter(t)

	applicant := createUser(t, db, "applicant@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)

	w := doJSON(t, router, http.MethodPost, "/api/v1/reviewer-applications", authToken(t, applicant),
		map[string]interface{}{"expertise": "x", "motivation": "y"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/reviewer-applications/1", authToken(t, admin),
		map[string]interface{}{"decision": "reject"})
	require.Equal(t, http.StatusOK, w.Code)

	var stillUser models.User
	require.NoError(t, db.First(&stillUser, "user_id = ?", applicant.UserID).Error)
	assert.Equal(t, models.RoleUser, stillUser.RoleID)

	var note models.Notification
	require.NoError(t, db.Where("user_id = ?", applicant.UserID).First(&note).Error)
	assert.Contains(t, note.Message, "rejected")
}

func TestDecideReviewerApplicationOnlyOnce(t *testing.T) {
	db, router := setupRouter(t)

	applicant := createUser(t, db, "applicant@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)

	w := doJSON(t, router, http.MethodPost, "/api/v1/reviewer-applications", authToken(t, applicant),
		map[string]interface{}{"expertise": "x", "motivation": "y"})
	require.Equal(t, http.StatusCreated, w.Code)

	decide := func(decision string) int {
		w := doJSON(t, router, http.MethodPut, "/api/v1/admin/reviewer-applications/1", authToken(t, admin),
			map[string]interface{}{"decision": decision})
		return w.Code
	}

	require.Equal(t, http.StatusOK, decide("reject"))
	assert.Equal(t, http.StatusConflict, decide("approve"))

	assert.Equal(t, http.StatusBadRequest, decide("maybe"))
	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/reviewer-applications/999", authToken(t, admin),
		map[string]interface{}{"decision": "approve"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMyReviewerApplications(t *testing.T) {
	db, router := setupRouter(t)

	applicant := createUser(t, db, "applicant@example.com", models.RoleUser)
	other := createUser(t, db, "other@example.com", models.RoleUser)

	for _, user := range []*models.User{applicant, other} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/reviewer-applications", authToken(t, user),
			map[string]interface{}{"expertise": "x", "motivation": "y"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/reviewer-applications/mine", authToken(t, applicant), nil)
	require.Equal(t, http.StatusOK, w.Code)
	applications := decodeBody(t, w)["applications"].([]interface{})
	require.Len(t, applications, 1)
	assert.EqualValues(t, applicant.UserID, applications[0].(map[string]interface{})["user_id"])

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/admin/reviewer-applications?status=%s", "PENDING"),
		authToken(t, applicant), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
