// ABOUTME: Channel cache holds per-channel result sets for the three feed kinds
// ABOUTME: Updates are atomic per channel and optionally mirrored to a snapshot store

package channelcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/samber/lo"
	"subfeed-api/core/domain"
	"subfeed-api/core/interfaces"
)

const (
	keyPrefix     = "subscriptions:"
	mirrorTimeout = 5 * time.Second
)

// ChannelCache is a keyed store of per-channel cached result sets.
// It never expires entries on its own; staleness is the caller's concern.
type ChannelCache struct {
	mu      sync.Mutex
	entries map[string]domain.ChannelCacheEntry

	// mirrors serializes snapshot writes per channel
	mirrors map[string]*sync.Mutex

	store  interfaces.Cache
	logger interfaces.Logger
}

// New creates an empty channel cache. When deps.Cache is set, every update
// is mirrored to it as a JSON snapshot so a later process can Warm from it.
func New(deps interfaces.Dependencies) *ChannelCache {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &ChannelCache{
		entries: make(map[string]domain.ChannelCacheEntry),
		mirrors: make(map[string]*sync.Mutex),
		store:   deps.Cache,
		logger:  logger,
	}
}

// Get returns a copy of the entry for channelID, if any
func (c *ChannelCache) Get(channelID string) (domain.ChannelCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[channelID]
	if !ok {
		return domain.ChannelCacheEntry{}, false
	}
	return entry.Clone(), true
}

// Update applies a partial update to channelID, creating the entry with all
// kinds absent if it does not exist yet.
func (c *ChannelCache) Update(channelID string, update domain.CacheUpdate) {
	c.mu.Lock()
	c.entries[channelID] = c.entries[channelID].Apply(update).Clone()
	c.mu.Unlock()

	c.mirror(channelID)
}

// Clear drops every entry for every channel
func (c *ChannelCache) Clear() {
	c.mu.Lock()
	ids := lo.Keys(c.entries)
	c.entries = make(map[string]domain.ChannelCacheEntry)
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	for _, id := range ids {
		lock := c.mirrorLock(id)
		lock.Lock()
		err := c.store.Delete(ctx, keyPrefix+id)
		lock.Unlock()
		if err != nil {
			c.logger.Warn("Failed to delete cache snapshot", map[string]interface{}{
				"channel_id": id,
				"error":      err.Error(),
			})
		}
	}
}

// Len returns the number of channels with an entry
func (c *ChannelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// AllPresent reports whether every channel has the given kind cached.
// An empty channel list is never considered cached.
func (c *ChannelCache) AllPresent(channels []domain.Channel, kind domain.FeedKind) bool {
	if len(channels) == 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return lo.EveryBy(channels, func(ch domain.Channel) bool {
		entry, ok := c.entries[ch.ID]
		if !ok {
			return false
		}
		_, present := entry.ForKind(kind)
		return present
	})
}

// Collect concatenates the cached entries of kind for channels in order.
// Channels without a cached value contribute nothing.
func (c *ChannelCache) Collect(channels []domain.Channel, kind domain.FeedKind) []domain.FeedEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return lo.FlatMap(channels, func(ch domain.Channel, _ int) []domain.FeedEntry {
		entries, _ := c.entries[ch.ID].ForKind(kind)
		return entries
	})
}

// Warm loads mirrored snapshots for channelIDs into memory. Channels that
// already have an in-memory entry are left alone. Returns how many were loaded.
func (c *ChannelCache) Warm(ctx context.Context, channelIDs []string) int {
	if c.store == nil {
		return 0
	}

	loaded := 0
	for _, id := range lo.Uniq(channelIDs) {
		data, err := c.store.Get(ctx, keyPrefix+id)
		if err != nil || data == nil {
			continue
		}

		var entry domain.ChannelCacheEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			c.logger.Warn("Discarding unreadable cache snapshot", map[string]interface{}{
				"channel_id": id,
				"error":      err.Error(),
			})
			continue
		}

		c.mu.Lock()
		if _, exists := c.entries[id]; !exists {
			c.entries[id] = entry
			loaded++
		}
		c.mu.Unlock()
	}

	c.logger.Debug("Warmed channel cache", map[string]interface{}{
		"requested": len(channelIDs),
		"loaded":    loaded,
	})
	return loaded
}

func (c *ChannelCache) mirrorLock(channelID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.mirrors[channelID]
	if !ok {
		lock = &sync.Mutex{}
		c.mirrors[channelID] = lock
	}
	return lock
}

// mirror writes the channel's current entry to the store. The entry is read
// while holding the channel's mirror lock, so the last write always carries
// every update applied before it.
func (c *ChannelCache) mirror(channelID string) {
	if c.store == nil {
		return
	}

	lock := c.mirrorLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	entry, ok := c.entries[channelID]
	c.mu.Unlock()
	if !ok {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("Failed to encode cache snapshot", map[string]interface{}{
			"channel_id": channelID,
			"error":      err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := c.store.Set(ctx, keyPrefix+channelID, data, 0); err != nil {
		c.logger.Warn("Failed to mirror cache snapshot", map[string]interface{}{
			"channel_id": channelID,
			"error":      err.Error(),
		})
	}
}
