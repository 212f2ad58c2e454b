package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"peer-review-api/models"
)

func seedNotification(t *testing.T, db *gorm.DB, userID uint, title string, read bool, at time.Time) *models.Notification {
	t.Helper()

	n := models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  "body of " + title,
		Type:     "info",
		IsRead:   read,
		CreateAt: at,
	}
	require.NoError(t, db.Create(&n).Error)
	return &n
}

func TestGetNotificationsScopedToOwnerNewestFirst(t *testing.T) {
	db, router := setupRouter(t)

	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	other := createUser(t, db, "other@example.com", models.RoleUser)

	base := time.Now().Add(-time.Hour)
	seedNotification(t, db, uint(owner.UserID), "older", true, base)
	seedNotification(t, db, uint(owner.UserID), "newer", false, base.Add(time.Minute))
	seedNotification(t, db, uint(other.UserID), "not yours", false, base)

	w := doJSON(t, router, http.MethodGet, "/api/v1/notifications", authToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	items := body["notifications"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].(map[string]interface{})["title"])
	assert.Equal(t, "older", items[1].(map[string]interface{})["title"])
	assert.EqualValues(t, 1, body["unread_count"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications?unreadOnly=1", authToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	items = body["notifications"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "newer", items[0].(map[string]interface{})["title"])
}

func TestNotificationCounter(t *testing.T) {
	db, router := setupRouter(t)

	user := createUser(t, db, "user@example.com", models.RoleUser)
	now := time.Now()
	seedNotification(t, db, uint(user.UserID), "a", false, now)
	seedNotification(t, db, uint(user.UserID), "b", false, now)
	seedNotification(t, db, uint(user.UserID), "c", true, now)

	w := doJSON(t, router, http.MethodGet, "/api/v1/notifications/count", authToken(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["unread"])
}

func TestMarkNotificationReadIsOwnerScoped(t *testing.T) {
	db, router := setupRouter(t)

	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	other := createUser(t, db, "other@example.com", models.RoleUser)
	n := seedNotification(t, db, uint(owner.UserID), "hello", false, time.Now())

	// Another user's attempt succeeds as a no-op and flips nothing.
	w := doJSON(t, router, http.MethodPatch, "/api/v1/notifications/1/read", authToken(t, other), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Notification
	require.NoError(t, db.First(&got, "notification_id = ?", n.NotificationID).Error)
	assert.False(t, got.IsRead)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/notifications/1/read", authToken(t, owner), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&got, "notification_id = ?", n.NotificationID).Error)
	assert.True(t, got.IsRead)

	// Idempotent on repeat.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/notifications/1/read", authToken(t, owner), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	db, router := setupRouter(t)

	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	other := createUser(t, db, "other@example.com", models.RoleUser)
	now := time.Now()
	seedNotification(t, db, uint(owner.UserID), "a", false, now)
	seedNotification(t, db, uint(owner.UserID), "b", false, now)
	seedNotification(t, db, uint(other.UserID), "c", false, now)

	w := doJSON(t, router, http.MethodPatch, "/api/v1/notifications/read-all", authToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var unreadOwner, unreadOther int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", owner.UserID, false).Count(&unreadOwner).Error)
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", other.UserID, false).Count(&unreadOther).Error)
	assert.EqualValues(t, 0, unreadOwner)
	assert.EqualValues(t, 1, unreadOther)
}
