package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-poetry-web/internal/graph"
	"github.com/palemoky/chinese-poetry-web/internal/page"
	"github.com/palemoky/chinese-poetry-web/internal/record"
	"github.com/palemoky/chinese-poetry-web/internal/testutil"
)

func setupExecutor(t *testing.T) *graph.Executor {
	t.Helper()
	_, repo := testutil.SetupTestDB(t)
	testutil.SeedJingYeSi(t, repo)
	return graph.NewExecutor(graph.NewResolver(repo))
}

func TestTransports(t *testing.T) {
	exec := setupExecutor(t)

	router := testutil.SetupTestGin()
	router.POST("/graphql", graph.Handler(exec))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	transports := map[string]Transport{
		"local": NewLocalTransport(exec),
		"http":  NewHTTPTransport(server.URL+"/graphql", server.Client()),
	}

	for name, transport := range transports {
		t.Run(name, func(t *testing.T) {
			data, err := transport.Do(context.Background(), page.PoemQuery, map[string]any{"uuid": testutil.JingYeSiUUID})
			require.NoError(t, err)

			var resp record.PoemResponse
			require.NoError(t, json.Unmarshal(data, &resp))
			require.NotNil(t, resp.Poem)
			assert.Equal(t, "静夜思", resp.Poem.Title)
			assert.Len(t, resp.Poem.GetAnnotations(), 3)
			assert.Equal(t, "701–762", resp.Poem.Author.Lifespan())

			data, err = transport.Do(context.Background(), page.PoemQuery, map[string]any{"uuid": "missing"})
			require.NoError(t, err)
			assert.JSONEq(t, `{"poem":null}`, string(data))

			_, err = transport.Do(context.Background(), page.PoemQuery, nil)
			assert.Error(t, err, "a missing required variable must fail")
		})
	}
}

func TestHTTPTransportUnreachable(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	_, err := NewHTTPTransport(url, nil).Do(context.Background(), page.PoemQuery, nil)
	assert.Error(t, err)
}

func TestHTTPTransportResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"poem":{"title":"` + strings.Repeat("长", 1024) + `"}}}`))
	}))
	t.Cleanup(server.Close)

	transport := NewHTTPTransport(server.URL, server.Client())
	transport.SetMaxResponseSize(256)

	_, err := transport.Do(context.Background(), page.PoemQuery, map[string]any{"uuid": testutil.JingYeSiUUID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 256 bytes")

	transport.SetMaxResponseSize(DefaultMaxResponseSize)
	data, err := transport.Do(context.Background(), page.PoemQuery, map[string]any{"uuid": testutil.JingYeSiUUID})
	require.NoError(t, err)
	assert.Contains(t, string(data), "长")
}
