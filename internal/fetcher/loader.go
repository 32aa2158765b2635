package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/palemoky/chinese-poetry-web/internal/logger"
)

// Options controls how long a fetch may take and how long its result is kept
type Options struct {
	// Timeout bounds a single fetch, including the part that runs after the
	// page was rendered.
	Timeout time.Duration
	// RenderWait is how long a page waits before rendering in the loading
	// state. Zero waits for the fetch to finish.
	RenderWait time.Duration
	// CacheTTL is how long successful results are served from memory. Zero
	// fetches every view fresh; a result that arrives after a loading render
	// is still held for the one view that follows.
	CacheTTL time.Duration
}

// handoffTTL bounds how long an unclaimed background result is held when
// caching is off.
const handoffTTL = time.Minute

// Result is the outcome of a Load. Data is nil while Loading or after a failure.
type Result struct {
	Data    json.RawMessage
	Loading bool
	Err     error
}

// Loader fronts a Transport with a result cache and request coalescing
type Loader struct {
	transport Transport
	opts      Options
	cache     *cache.Cache
	group     singleflight.Group
	log       *zap.Logger
}

func NewLoader(transport Transport, opts Options) *Loader {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		opts.CacheTTL = 0
		ttl = handoffTTL
	}
	return &Loader{
		transport: transport,
		opts:      opts,
		cache:     cache.New(ttl, 2*ttl),
		log:       logger.With(zap.String("component", "fetcher")),
	}
}

// Load returns the cached result for (query, variables) or starts a fetch.
// A fetch that outlives the render wait keeps running in the background and
// fills the cache for the next view.
func (l *Loader) Load(ctx context.Context, query string, variables map[string]any) Result {
	key, err := cacheKey(query, variables)
	if err != nil {
		return Result{Err: err}
	}

	if v, ok := l.cache.Get(key); ok {
		if l.opts.CacheTTL == 0 {
			l.cache.Delete(key)
		}
		return Result{Data: v.(json.RawMessage)}
	}

	ch := l.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if l.opts.Timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, l.opts.Timeout)
			defer cancel()
		}

		start := time.Now()
		data, err := l.transport.Do(fetchCtx, query, variables)
		if err != nil {
			l.log.Warn("Fetch failed",
				zap.Any("variables", variables),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return nil, err
		}
		if l.opts.CacheTTL > 0 {
			l.cache.SetDefault(key, data)
		}
		l.log.Debug("Fetch completed", zap.Any("variables", variables), zap.Duration("elapsed", time.Since(start)))
		return data, nil
	})

	var wait <-chan time.Time
	if l.opts.RenderWait > 0 {
		timer := time.NewTimer(l.opts.RenderWait)
		defer timer.Stop()
		wait = timer.C
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return Result{Err: res.Err}
		}
		return Result{Data: res.Val.(json.RawMessage)}
	case <-wait:
		l.handOff(key, ch)
		return Result{Loading: true}
	case <-ctx.Done():
		l.handOff(key, ch)
		return Result{Loading: true, Err: ctx.Err()}
	}
}

// handOff keeps the result of a fetch nobody waited for, so the view that
// follows a loading render can use it. With a positive TTL the fetch already
// fills the cache.
func (l *Loader) handOff(key string, ch <-chan singleflight.Result) {
	if l.opts.CacheTTL > 0 {
		return
	}
	go func() {
		res := <-ch
		if res.Err == nil {
			l.cache.SetDefault(key, res.Val)
		}
	}()
}

// Cached reports whether a result for (query, variables) is in the cache
func (l *Loader) Cached(query string, variables map[string]any) bool {
	key, err := cacheKey(query, variables)
	if err != nil {
		return false
	}
	_, ok := l.cache.Get(key)
	return ok
}

// cacheKey identifies a fetch. Map keys are marshalled in sorted order, so
// equal variable sets produce equal keys.
func cacheKey(query string, variables map[string]any) (string, error) {
	vars, err := json.Marshal(variables)
	if err != nil {
		return "", fmt.Errorf("failed to encode variables: %w", err)
	}
	return query + "\x00" + string(vars), nil
}
