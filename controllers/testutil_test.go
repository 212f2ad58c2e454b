package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"peer-review-api/config"
	"peer-review-api/middleware"
	"peer-review-api/models"
	"peer-review-api/routes"
)

const testJWTSecret = "test-secret"

// setupRouter builds a router against a fresh in-memory database.
func setupRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", testJWTSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Manuscript{},
		&models.Review{},
		&models.ReviewMessage{},
		&models.Notification{},
		&models.Genre{},
		&models.Publication{},
		&models.WishlistItem{},
		&models.ReviewerApplication{},
	))

	config.DB = db

	router := gin.New()
	routes.SetupRoutes(router)
	return db, router
}

func createUser(t *testing.T, db *gorm.DB, email string, roleID int) *models.User {
	t.Helper()

	now := time.Now()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "unused-hash",
		RoleID:    roleID,
		CreateAt:  &now,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func authToken(t *testing.T, user *models.User) string {
	t.Helper()

	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func strPtr(s string) *string { return &s }

func createManuscript(t *testing.T, db *gorm.DB, authorID int, status string) *models.Manuscript {
	t.Helper()

	now := time.Now()
	m := models.Manuscript{
		AuthorID:    authorID,
		Title:       "Adaptive Optics in Small Telescopes",
		Abstract:    "A survey of adaptive optics.",
		Keywords:    "optics, telescopes",
		Status:      status,
		SubmittedAt: &now,
		CreateAt:    now,
	}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

func createReview(t *testing.T, db *gorm.DB, manuscriptID, reviewerID int, status string) *models.Review {
	t.Helper()

	r := models.Review{
		ManuscriptID:  manuscriptID,
		ReviewerID:    reviewerID,
		Status:        status,
		RevisionRound: 1,
		CreateAt:      time.Now(),
	}
	require.NoError(t, db.Create(&r).Error)
	return &r
}
