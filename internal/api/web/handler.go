// Package web serves the server-rendered poem pages.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/fetcher"
	"github.com/palemoky/chinese-poetry-web/internal/helpers"
	"github.com/palemoky/chinese-poetry-web/internal/logger"
	"github.com/palemoky/chinese-poetry-web/internal/page"
	"github.com/palemoky/chinese-poetry-web/internal/record"
)

// Options configures the page handlers
type Options struct {
	// BaseURL is the public origin encoded in QR codes. Empty uses the request host.
	BaseURL  string
	QRSize   int
	PageSize int
}

// Handler renders the poem and list pages
type Handler struct {
	loader   *fetcher.Loader
	composer *page.Composer
	opts     Options
}

func NewHandler(loader *fetcher.Loader, composer *page.Composer, opts Options) *Handler {
	if opts.PageSize < 1 {
		opts.PageSize = helpers.DefaultPageSize
	}
	return &Handler{loader: loader, composer: composer, opts: opts}
}

// Variables forwards every query-string parameter, first value only, as a
// string query variable.
func Variables(c *gin.Context) map[string]any {
	vars := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			vars[key] = values[0]
		}
	}
	return vars
}

// Poem renders /poem?uuid=…
func (h *Handler) Poem(c *gin.Context) {
	vars := Variables(c)
	res := h.loader.Load(c.Request.Context(), page.PoemQuery, vars)

	var resp record.PoemResponse
	h.decode(res, vars, &resp)

	view := h.composer.Poem(resp.Poem, res.Loading)

	qr, err := page.NewQRCode(h.pageURL(c), h.opts.QRSize)
	if err != nil {
		logger.Warn("Failed to render QR code", zap.Error(err))
	}
	view.QR = qr

	c.HTML(http.StatusOK, page.PoemTemplate, view)
}

// List renders the poem list at / and /poems
func (h *Handler) List(c *gin.Context) {
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.opts.PageSize)))
	pag := helpers.NewPagination(pageNum, pageSize)

	vars := map[string]any{"page": pag.Page, "pageSize": pag.PageSize}
	res := h.loader.Load(c.Request.Context(), page.PoemsQuery, vars)

	var list record.PoemList
	decoded := h.decode(res, vars, &list)

	var data *record.PoemList
	if decoded {
		data = &list
	}
	c.HTML(http.StatusOK, page.ListTemplate, h.composer.List(data, pag.Page, pag.PageSize, res.Loading))
}

// decode unmarshals a load result into dst. Failures are logged and leave
// dst untouched so the page renders without data.
func (h *Handler) decode(res fetcher.Result, vars map[string]any, dst any) bool {
	if res.Err != nil {
		logger.Warn("Page data unavailable", zap.Any("variables", vars), zap.Error(res.Err))
		return false
	}
	if res.Data == nil {
		return false
	}
	if err := json.Unmarshal(res.Data, dst); err != nil {
		logger.Warn("Failed to decode page data", zap.Any("variables", vars), zap.Error(err))
		return false
	}
	return true
}

// pageURL returns the absolute URL of the current page
func (h *Handler) pageURL(c *gin.Context) string {
	base := h.opts.BaseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return strings.TrimRight(base, "/") + c.Request.URL.RequestURI()
}
