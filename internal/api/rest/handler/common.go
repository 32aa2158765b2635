package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-poetry-web/internal/database"
	apierrors "github.com/palemoky/chinese-poetry-web/internal/errors"
)

// parseLang reads the ?lang= variant, defaulting to simplified Chinese
func parseLang(c *gin.Context) database.Lang {
	return database.ParseLang(c.Query("lang"))
}

// respondError sends a JSON error response for the given API error.
func respondError(c *gin.Context, err *apierrors.APIError) {
	c.JSON(err.HTTPStatus, gin.H{"code": err.Code, "error": err.Message})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
