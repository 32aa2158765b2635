package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/chinese"
	"github.com/palemoky/chinese-poetry-web/internal/database"
	apierrors "github.com/palemoky/chinese-poetry-web/internal/errors"
	"github.com/palemoky/chinese-poetry-web/internal/logger"
)

// PoemHandler handles poem-related requests
type PoemHandler struct {
	repo *database.Repository
}

// NewPoemHandler creates a new poem handler
func NewPoemHandler(repo *database.Repository) *PoemHandler {
	return &PoemHandler{repo: repo}
}

// ListPoems retrieves a paginated list of poems
// Supports ?lang=zh-Hans (default) or ?lang=zh-Hant
func (h *PoemHandler) ListPoems(c *gin.Context) {
	repo := h.repo.WithLang(parseLang(c))
	pagination := ParsePagination(c)

	poems, total, err := repo.ListPoems(pagination.PageSize, pagination.Offset())
	if err != nil {
		logger.Error("Failed to list poems", zap.Error(err))
		respondError(c, apierrors.Internal("failed to retrieve poems"))
		return
	}

	data := make([]map[string]any, len(poems))
	for i := range poems {
		data[i] = formatPoem(&poems[i])
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, int64(total)))
}

// GetPoem retrieves a single poem by uuid
// Supports ?lang=zh-Hans (default) or ?lang=zh-Hant
func (h *PoemHandler) GetPoem(c *gin.Context) {
	uuid := c.Param("uuid")
	if !chinese.IsUUID(uuid) {
		respondError(c, apierrors.InvalidID("uuid"))
		return
	}

	poem, err := h.repo.WithLang(parseLang(c)).GetPoemByUUID(uuid)
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, apierrors.NotFound("Poem"))
		return
	}
	if err != nil {
		logger.Error("Failed to get poem", zap.String("uuid", uuid), zap.Error(err))
		respondError(c, apierrors.ErrInternal)
		return
	}

	respondOK(c, formatPoem(poem))
}
