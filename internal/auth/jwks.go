package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// JWKSFetcher resolves verification keys from a JWKS endpoint. The key set is
// cached and refreshed in the background by jwk.Cache.
type JWKSFetcher struct {
	cache *jwk.Cache
	url   string
}

// NewJWKSFetcher registers url with a background-refreshing cache. The cache
// lives until ctx is cancelled.
func NewJWKSFetcher(ctx context.Context, url string, minRefresh time.Duration) (*JWKSFetcher, error) {
	cache := jwk.NewCache(ctx)
	if err := cache.Register(url, jwk.WithMinRefreshInterval(minRefresh)); err != nil {
		return nil, fmt.Errorf("failed to register JWKS url: %w", err)
	}
	return &JWKSFetcher{cache: cache, url: url}, nil
}

// FetchPublicKey implements KeyFetcher. An unknown kid forces one refresh
// before giving up, to pick up rotated keys.
func (f *JWKSFetcher) FetchPublicKey(ctx context.Context, kid string) (interface{}, error) {
	set, err := f.cache.Get(ctx, f.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		set, err = f.cache.Refresh(ctx, f.url)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
		}
		if key, ok = set.LookupKeyID(kid); !ok {
			return nil, fmt.Errorf("%w: kid %q", ErrUnexpectedKey, kid)
		}
	}

	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("failed to export key %q: %w", kid, err)
	}
	return raw, nil
}
