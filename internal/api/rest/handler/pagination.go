package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-poetry-web/internal/helpers"
)

// ParsePagination parses pagination parameters from context
func ParsePagination(c *gin.Context) *helpers.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(helpers.DefaultPageSize)))
	return helpers.NewPagination(page, pageSize)
}

// NewPaginationResponse creates a standardized pagination response
func NewPaginationResponse(data any, params *helpers.Pagination, total int64) gin.H {
	totalPages := (int(total) + params.PageSize - 1) / params.PageSize

	return gin.H{
		"data": data,
		"pagination": gin.H{
			"page":        params.Page,
			"page_size":   params.PageSize,
			"total":       total,
			"total_pages": totalPages,
		},
	}
}
