package upvotes

import (
	"log/slog"
	"sync"
	"time"

	"SkillLog/internal/core/toggles"
)

// DefaultCacheTTL is used when NewViewerCache is given a non-positive TTL.
const DefaultCacheTTL = 10 * time.Minute

// ViewerCache keeps each viewer's upvoted items in memory so feeds can mark
// viewer.upvoted without a query per page. Entries are written through on
// every SetUpvote and expire after ttl.
//
// Loads from the database are stamped: a set read before a concurrent
// Record or Invalidate for the same viewer is not stored.
type ViewerCache struct {
	upvoted map[string]map[string]struct{} // viewer -> itemKey
	expiry  map[string]time.Time           // viewer -> expiry time
	touched map[string]uint64              // viewer -> stamp of the last change
	now     func() time.Time
	logger  *slog.Logger
	ttl     time.Duration
	seq     uint64
	mark    uint64 // seq at the previous Sweep
	floor   uint64 // touched entries at or below floor are gone
	mu      sync.RWMutex
}

// NewViewerCache creates a cache with the given TTL
func NewViewerCache(ttl time.Duration, logger *slog.Logger) *ViewerCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ViewerCache{
		upvoted: make(map[string]map[string]struct{}),
		expiry:  make(map[string]time.Time),
		touched: make(map[string]uint64),
		now:     time.Now,
		ttl:     ttl,
		logger:  logger,
	}
}

// TTL returns how long a loaded viewer set stays valid.
func (c *ViewerCache) TTL() time.Duration {
	return c.ttl
}

// Stamp returns the token to pass to SetForViewer for a load that starts now.
func (c *ViewerCache) Stamp() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}

// touch must be called with mu held.
func (c *ViewerCache) touch(viewerID string) {
	c.seq++
	c.touched[viewerID] = c.seq
}

func itemKey(itemType toggles.ItemType, id string) string {
	return string(itemType) + ":" + id
}

// cached reports whether the viewer's upvotes are cached and not expired
func (c *ViewerCache) cached(viewerID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expiry, exists := c.expiry[viewerID]
	return exists && c.now().Before(expiry)
}

// Lookup reports which of ids the viewer has upvoted. ok is false when the
// viewer is not cached or the entry expired.
func (c *ViewerCache) Lookup(viewerID string, itemType toggles.ItemType, ids []string) (map[string]bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expiry, exists := c.expiry[viewerID]
	if !exists || !c.now().Before(expiry) {
		return nil, false
	}

	set := c.upvoted[viewerID]
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, on := set[itemKey(itemType, id)]; on {
			out[id] = true
		}
	}
	return out, true
}

// SetForViewer replaces all cached upvotes for a viewer with a set loaded
// after stamp was taken. It reports false and stores nothing when the viewer
// changed since then.
func (c *ViewerCache) SetForViewer(viewerID string, stamp uint64, upvotes []Upvote) bool {
	set := make(map[string]struct{}, len(upvotes))
	for _, u := range upvotes {
		set[itemKey(u.ItemType, u.ItemID)] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if stamp < c.floor || c.touched[viewerID] > stamp {
		c.logger.Debug("upvote cache load discarded", "viewer", viewerID)
		return false
	}

	c.upvoted[viewerID] = set
	c.expiry[viewerID] = c.now().Add(c.ttl)

	c.logger.Debug("upvote cache updated",
		"viewer", viewerID,
		"upvote_count", len(set),
		"expires_at", c.expiry[viewerID])
	return true
}

// Record applies one upvote change. Viewers that are not cached are left
// alone so a later Lookup still loads the full set, but a load already in
// flight for them is discarded.
func (c *ViewerCache) Record(viewerID string, itemType toggles.ItemType, id string, upvoted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touch(viewerID)
	set, ok := c.upvoted[viewerID]
	if !ok {
		return
	}
	if upvoted {
		set[itemKey(itemType, id)] = struct{}{}
	} else {
		delete(set, itemKey(itemType, id))
	}

	// Active viewers keep their entry fresh
	c.expiry[viewerID] = c.now().Add(c.ttl)
}

// Invalidate removes all cached upvotes for a viewer
func (c *ViewerCache) Invalidate(viewerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touch(viewerID)
	delete(c.upvoted, viewerID)
	delete(c.expiry, viewerID)

	c.logger.Debug("upvote cache invalidated", "viewer", viewerID)
}

// Sweep drops expired viewers and returns how many were removed. Change
// stamps older than the previous sweep are dropped too; loads stamped before
// that point are then refused by SetForViewer.
func (c *ViewerCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for viewer, expiry := range c.expiry {
		if !now.Before(expiry) {
			delete(c.upvoted, viewer)
			delete(c.expiry, viewer)
			removed++
		}
	}

	for viewer, stamp := range c.touched {
		if stamp <= c.mark {
			delete(c.touched, viewer)
		}
	}
	c.floor = c.mark
	c.mark = c.seq
	return removed
}
