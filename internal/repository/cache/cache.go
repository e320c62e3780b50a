package cache

import (
	"context"

	"github.com/Taichi-iskw/yt-live/internal/model"
)

// Repository defines operations for the per-channel live stream cache
type Repository interface {
	// Get retrieves the cache entry of a channel; CodeNotFound when absent
	Get(ctx context.Context, channelID string) (*model.CacheEntry, error)

	// Set replaces the cached video list of a channel
	Set(ctx context.Context, channelID string, videos []*model.Video) error
}
