// Package api wires the HTTP surface: pages, REST endpoints and GraphQL.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/api/middleware"
	"github.com/palemoky/chinese-poetry-web/internal/api/rest/handler"
	"github.com/palemoky/chinese-poetry-web/internal/api/web"
	"github.com/palemoky/chinese-poetry-web/internal/config"
	"github.com/palemoky/chinese-poetry-web/internal/database"
	"github.com/palemoky/chinese-poetry-web/internal/fetcher"
	"github.com/palemoky/chinese-poetry-web/internal/graph"
	"github.com/palemoky/chinese-poetry-web/internal/logger"
	"github.com/palemoky/chinese-poetry-web/internal/page"
	"github.com/palemoky/chinese-poetry-web/internal/search"
)

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, db *database.DB, repo *database.Repository) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(middleware.CORS())

	// Rate limiting middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(rateLimiter.Middleware())
	}

	// GraphQL
	executor := graph.NewExecutor(graph.NewResolver(repo))
	gqlHandler := graph.Handler(executor)
	router.POST("/graphql", gqlHandler)
	router.GET("/graphql", gqlHandler)
	if cfg.GraphQL.Playground {
		router.GET("/playground", graph.PlaygroundHandler("/graphql"))
	}

	// Pages
	var transport fetcher.Transport = fetcher.NewLocalTransport(executor)
	if cfg.GraphQL.Endpoint != "" {
		logger.Info("Pages fetch from remote GraphQL endpoint", zap.String("endpoint", cfg.GraphQL.Endpoint))
		transport = fetcher.NewHTTPTransport(cfg.GraphQL.Endpoint, &http.Client{Timeout: cfg.Fetch.Timeout})
	}
	loader := fetcher.NewLoader(transport, fetcher.Options{
		Timeout:    cfg.Fetch.Timeout,
		RenderWait: cfg.Fetch.RenderWait,
		CacheTTL:   cfg.Fetch.CacheTTL,
	})
	composer := page.NewComposer(page.Options{
		SiteTitle:       cfg.Page.SiteTitle,
		DedicatedCards:  cfg.Page.DedicatedCards,
		ParagraphBlocks: cfg.Page.ParagraphBlocks,
	})
	pages := web.NewHandler(loader, composer, web.Options{
		BaseURL:  cfg.Server.BaseURL,
		QRSize:   cfg.Page.QRSize,
		PageSize: cfg.Page.PageSize,
	})

	router.SetHTMLTemplate(page.Template())
	router.GET("/", pages.List)
	router.GET("/poems", pages.List)
	router.GET("/poem", pages.Poem)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", handler.HealthHandler(db))

		// Statistics
		v1.GET("/stats", handler.StatsHandler(repo))

		// Poem routes
		poemHandler := handler.NewPoemHandler(repo)
		v1.GET("/poems", poemHandler.ListPoems)
		v1.GET("/poems/:uuid", poemHandler.GetPoem)

		// Search
		searchHandler := handler.NewSearchHandler(search.NewEngine(db))
		v1.GET("/search", searchHandler.SearchPoems)
	}

	return router
}
