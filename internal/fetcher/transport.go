// Package fetcher runs page queries and derives the loading state pages
// render with.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/graph"
	"github.com/palemoky/chinese-poetry-web/internal/logger"
)

// Transport executes a query and returns the data member of the response
type Transport interface {
	Do(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// LocalTransport executes queries in-process
type LocalTransport struct {
	exec *graph.Executor
}

func NewLocalTransport(exec *graph.Executor) *LocalTransport {
	return &LocalTransport{exec: exec}
}

// Do implements Transport
func (t *LocalTransport) Do(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	resp := t.exec.Execute(ctx, graph.Request{Query: query, Variables: variables})
	if resp.Data == nil {
		return nil, fmt.Errorf("query rejected: %w", resp.Errors)
	}
	if len(resp.Errors) > 0 {
		logger.Warn("Query returned partial data", zap.Error(resp.Errors))
	}
	return resp.Data, nil
}

// DefaultMaxResponseSize caps the body read from a remote endpoint
const DefaultMaxResponseSize int64 = 8 << 20

// HTTPTransport posts queries to a remote GraphQL endpoint
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	maxBody  int64
}

// NewHTTPTransport creates a transport for endpoint. A nil client uses http.DefaultClient.
func NewHTTPTransport(endpoint string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{endpoint: endpoint, client: client, maxBody: DefaultMaxResponseSize}
}

// SetMaxResponseSize changes the response body cap. Non-positive values are ignored.
func (t *HTTPTransport) SetMaxResponseSize(n int64) {
	if n > 0 {
		t.maxBody = n
	}
}

type remoteResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r *remoteResponse) err() error {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Do implements Transport
func (t *HTTPTransport) Do(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graph.Request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", t.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(raw)) > t.maxBody {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", t.endpoint, t.maxBody)
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unexpected response (HTTP %d): %w", resp.StatusCode, err)
	}
	if len(out.Data) == 0 || string(out.Data) == "null" {
		if len(out.Errors) > 0 {
			return nil, fmt.Errorf("query failed (HTTP %d): %w", resp.StatusCode, out.err())
		}
		return nil, fmt.Errorf("query returned no data (HTTP %d)", resp.StatusCode)
	}
	if len(out.Errors) > 0 {
		logger.Warn("Query returned partial data", zap.String("endpoint", t.endpoint), zap.Error(out.err()))
	}
	return out.Data, nil
}
