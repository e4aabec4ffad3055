package handlers

import (
	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
)

// handleInvalidateImageCache drops the named entries and acknowledges with
// the subset of keys the cache actually held. Unknown keys are ignored, so
// repeated invalidations are harmless.
func handleInvalidateImageCache(client *hub.Client, m *protocol.InvalidateImageCache) {
	processed := imgCache.Invalidate(m.Keys)
	sendEvent(client, protocol.ImageCacheInvalidated{Keys: processed})
}

func handleGetCacheStats(client *hub.Client) {
	stats := imgCache.Stats()
	sendEvent(client, protocol.CacheStats{
		Entries:  stats.Entries,
		SizeMB:   stats.SizeMB,
		HitRatio: stats.HitRatio,
		Expired:  stats.Expired,
	})
}
