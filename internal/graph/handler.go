package graph

import (
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/ast"
)

// NewServer serves exec over HTTP. Queries are accepted as a JSON POST body
// or as GET query parameters; requests that fail validation are answered
// with 422.
func NewServer(exec *Executor) *handler.Server {
	srv := handler.New(exec)
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.SetQueryCache(lru.New[*ast.QueryDocument](queryCacheSize))
	srv.SetRecoverFunc(recoverFunc)
	srv.Use(extension.Introspection{})
	return srv
}

// Handler wraps NewServer for gin
func Handler(exec *Executor) gin.HandlerFunc {
	return gin.WrapH(NewServer(exec))
}

// PlaygroundHandler serves the GraphQL Playground pointed at endpoint
func PlaygroundHandler(endpoint string) gin.HandlerFunc {
	return gin.WrapH(playground.Handler("古诗文 GraphQL", endpoint))
}
