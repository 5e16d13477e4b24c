package media

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"certprep/internal/cache"
	"certprep/internal/domain"
	"certprep/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source reports where a resolution came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceBackend  Source = "backend"
	SourceFallback Source = "fallback"
)

// Resolution is the outcome of resolving a media token. It always
// carries a usable URL.
type Resolution struct {
	URL    string
	Source Source
}

const (
	defaultCacheTTL      = 1 * time.Hour
	defaultLocalBasePath = "/static/images"
)

// Resolver maps (folder, token) pairs to display URLs. Resolution never
// fails: a cache hit is served first, then the blob backend, and when
// both are unavailable a deterministic local path is returned so
// downstream rendering is never blocked.
type Resolver struct {
	storage  domain.BlobStorage
	cache    domain.Cache
	ttl      time.Duration
	basePath string
	group    singleflight.Group

	mu      sync.Mutex
	written map[string]struct{}
}

// NewResolver creates a Resolver. A non-positive ttl falls back to one
// hour; an empty basePath falls back to /static/images.
func NewResolver(storage domain.BlobStorage, cacheClient domain.Cache, ttl time.Duration, basePath string) *Resolver {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if basePath == "" {
		basePath = defaultLocalBasePath
	}
	return &Resolver{
		storage:  storage,
		cache:    cacheClient,
		ttl:      ttl,
		basePath: strings.TrimSuffix(basePath, "/"),
		written:  make(map[string]struct{}),
	}
}

// Resolve returns a display URL for the given folder and token.
// Concurrent resolutions of the same key are collapsed into a single
// backend call.
func (r *Resolver) Resolve(ctx context.Context, folder, token string) Resolution {
	// A container without a storage folder has no blobs to resolve
	// against; serve the local path without touching cache or backend.
	if folder == "" {
		return Resolution{URL: r.FallbackURL(folder, token), Source: SourceFallback}
	}

	key := cache.GenerateCacheKey("media", "url", folder+"/"+token)

	cached, err := r.cache.Get(ctx, key)
	if err == nil {
		return Resolution{URL: cached, Source: SourceCache}
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Media cache lookup failed, continuing to backend",
			zap.String("key", key), zap.Error(err))
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		url, resolveErr := r.storage.ResolveURL(ctx, folder, token)
		if resolveErr != nil {
			return nil, resolveErr
		}
		if setErr := r.cache.Set(ctx, key, url, r.ttl); setErr != nil {
			logger.Get().Warn("Failed to cache resolved media URL",
				zap.String("key", key), zap.Error(setErr))
		} else {
			r.mu.Lock()
			r.written[key] = struct{}{}
			r.mu.Unlock()
		}
		return url, nil
	})
	if err != nil {
		var resolveErr *domain.ResolveError
		if errors.As(err, &resolveErr) {
			logger.Get().Debug("Blob resolution failed, using local fallback",
				zap.String("reason", string(resolveErr.Reason)),
				zap.String("folder", folder),
				zap.String("token", token))
		} else {
			logger.Get().Warn("Blob resolution failed, using local fallback",
				zap.String("folder", folder),
				zap.String("token", token),
				zap.Error(err))
		}
		return Resolution{URL: r.FallbackURL(folder, token), Source: SourceFallback}
	}

	return Resolution{URL: v.(string), Source: SourceBackend}
}

// ClearCache deletes every cache key this resolver instance has
// written. It is called after an import rewrites a container's media so
// stale URLs do not outlive their blobs.
func (r *Resolver) ClearCache(ctx context.Context) error {
	r.mu.Lock()
	keys := make([]string, 0, len(r.written))
	for key := range r.written {
		keys = append(keys, key)
	}
	r.written = make(map[string]struct{})
	r.mu.Unlock()

	var firstErr error
	for _, key := range keys {
		if err := r.cache.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to delete cache key %s: %w", key, err)
		}
	}
	return firstErr
}

var (
	folderUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
	folderDashRuns    = regexp.MustCompile(`-+`)
)

// SanitizeFolder turns an arbitrary container title into a safe folder
// path segment: lowercase, spaces to dashes, anything else unsafe to
// dashes, runs collapsed.
func SanitizeFolder(name string) string {
	safe := strings.ToLower(name)
	safe = strings.ReplaceAll(safe, " ", "-")
	safe = folderUnsafeChars.ReplaceAllString(safe, "-")
	safe = folderDashRuns.ReplaceAllString(safe, "-")
	return strings.Trim(safe, "-")
}

// FallbackURL builds the deterministic local path used when the blob
// backend cannot serve a token. The token is kept verbatim: legacy
// names keep their extension, hash tokens get none.
func (r *Resolver) FallbackURL(folder, token string) string {
	return r.basePath + "/" + SanitizeFolder(folder) + "/" + token
}
