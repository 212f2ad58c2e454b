package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"peer-review-api/models"
	"peer-review-api/utils"
)

// Sortable columns for the public catalog. Anything else falls back to the
// default ordering.
var repositorySortColumns = map[string]string{
	"published_at": "published_at",
	"title":        "title",
	"author":       "author_name",
	"created":      "create_at",
}

func repositoryQuery(c *gin.Context, db *gorm.DB) *gorm.DB {
	query := db.Model(&models.Publication{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(abstract) LIKE ? OR LOWER(keywords) LIKE ? OR LOWER(author_name) LIKE ?",
			term, term, term, term,
		)
	}

	if genre := strings.TrimSpace(c.Query("genre")); genre != "" {
		// Matches the publication's own genre slug or its parent's slug.
		query = query.
			Joins("JOIN genres g ON g.genre_id = publications.genre_id").
			Joins("LEFT JOIN genres pg ON pg.genre_id = g.parent_id").
			Where("g.slug = ? OR pg.slug = ?", genre, genre)
	}

	if pubType := strings.ToUpper(strings.TrimSpace(c.Query("type"))); pubType != "" {
		query = query.Where("publications.type = ?", pubType)
	}

	return query
}

func repositoryOrder(c *gin.Context) string {
	column, ok := repositorySortColumns[strings.TrimSpace(c.Query("sort_by"))]
	if !ok {
		column = "published_at"
	}

	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(c.Query("sort_order")), "asc") {
		direction = "ASC"
	}

	return "publications." + column + " " + direction
}

func listPublications(c *gin.Context, fixedType string) {
	db := getDB()

	page, limit, offset := utils.ParsePagination(c, 20, 100)

	query := repositoryQuery(c, db)
	if fixedType != "" {
		query = query.Where("publications.type = ?", fixedType)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publications"})
		return
	}

	var publications []models.Publication
	if err := query.Preload("Genre").Preload("Genre.Parent").
		Order(repositoryOrder(c)).
		Offset(offset).Limit(limit).
		Find(&publications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"publications": publications,
		"pagination":   utils.PaginationMeta(page, limit, totalCount),
	})
}

// GetRepository lists all publication types.
func GetRepository(c *gin.Context) {
	listPublications(c, "")
}

// GetRepositoryJournals lists journals only.
func GetRepositoryJournals(c *gin.Context) {
	listPublications(c, models.PublicationTypeJournal)
}

// GetRepositoryArticles lists articles only.
func GetRepositoryArticles(c *gin.Context) {
	listPublications(c, models.PublicationTypeArticle)
}

// GetRepositoryBooks lists books only.
func GetRepositoryBooks(c *gin.Context) {
	listPublications(c, models.PublicationTypeBook)
}

// GetPublication returns one catalog entry.
func GetPublication(c *gin.Context) {
	db := getDB()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid publication ID"})
		return
	}

	var publication models.Publication
	if err := db.Preload("Genre").Preload("Genre.Parent").
		First(&publication, "publication_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load publication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "publication": publication})
}

// GetGenres returns the two-level genre tree.
func GetGenres(c *gin.Context) {
	db := getDB()

	var genres []models.Genre
	if err := db.Preload("Children").
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&genres).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch genres"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "genres": genres})
}
