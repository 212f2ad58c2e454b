package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePagination reads page and limit query params with sane bounds.
func ParsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

// PaginationMeta builds the uniform pagination block returned by every
// listing endpoint.
func PaginationMeta(page, limit int, totalCount int64) gin.H {
	totalPages := (totalCount + int64(limit) - 1) / int64(limit)

	return gin.H{
		"current_page": page,
		"limit":        limit,
		"total_count":  totalCount,
		"total_pages":  totalPages,
		"has_next":     page < int(totalPages),
		"has_prev":     page > 1,
	}
}
