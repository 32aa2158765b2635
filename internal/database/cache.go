package database

import (
	"sync"
)

// CachedRepository wraps Repository with an author ID cache for the import pipeline
type CachedRepository struct {
	*Repository

	authorCache   map[string]int64
	authorCacheMu sync.RWMutex
}

// NewCachedRepository creates a new cached repository
func NewCachedRepository(repo *Repository) *CachedRepository {
	return &CachedRepository{
		Repository:  repo,
		authorCache: make(map[string]int64),
	}
}

// GetOrCreateAuthor gets or creates an author with caching by name
func (r *CachedRepository) GetOrCreateAuthor(author *Author) (int64, error) {
	r.authorCacheMu.RLock()
	if id, ok := r.authorCache[author.Name]; ok {
		r.authorCacheMu.RUnlock()
		return id, nil
	}
	r.authorCacheMu.RUnlock()

	id, err := r.Repository.GetOrCreateAuthor(author)
	if err != nil {
		return 0, err
	}

	r.authorCacheMu.Lock()
	r.authorCache[author.Name] = id
	r.authorCacheMu.Unlock()

	return id, nil
}

// CachedAuthors returns the number of cached author IDs
func (r *CachedRepository) CachedAuthors() int {
	r.authorCacheMu.RLock()
	defer r.authorCacheMu.RUnlock()
	return len(r.authorCache)
}
