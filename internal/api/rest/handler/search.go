package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/palemoky/chinese-poetry-web/internal/errors"
	"github.com/palemoky/chinese-poetry-web/internal/logger"
	"github.com/palemoky/chinese-poetry-web/internal/search"
)

// SearchHandler handles poem search requests
type SearchHandler struct {
	engine *search.Engine
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engine *search.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// SearchPoems searches poems by keyword
// Query params: q (required), type=all|title|content|author|kind, lang, page, page_size
func (h *SearchHandler) SearchPoems(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, apierrors.InvalidRequest("query parameter q is required"))
		return
	}

	pagination := ParsePagination(c)
	result, err := h.engine.Search(search.SearchParams{
		Query:      query,
		SearchType: search.ParseSearchType(c.Query("type")),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		Lang:       parseLang(c),
	})
	if err != nil {
		logger.Error("Search failed", zap.String("query", query), zap.Error(err))
		respondError(c, apierrors.Internal("search failed"))
		return
	}

	data := make([]map[string]any, len(result.Poems))
	for i := range result.Poems {
		data[i] = formatPoem(&result.Poems[i])
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, int64(result.TotalCount)))
}
