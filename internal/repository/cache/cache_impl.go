package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
	"github.com/Taichi-iskw/yt-live/internal/repository/common"
)

// repository implements Repository on the live_cache table
type repository struct {
	pool common.Pool
	now  func() time.Time
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return NewRepositoryWithClock(pool, time.Now)
}

// NewRepositoryWithClock creates a Repository with a custom clock (for testing)
func NewRepositoryWithClock(pool common.Pool, now func() time.Time) Repository {
	return &repository{
		pool: pool,
		now:  now,
	}
}

// Get retrieves the cache entry of a channel
func (r *repository) Get(ctx context.Context, channelID string) (*model.CacheEntry, error) {
	sql := "SELECT channel_id, videos, updated_at FROM live_cache WHERE channel_id = $1"
	row := r.pool.QueryRow(ctx, sql, channelID)

	var (
		entry model.CacheEntry
		raw   []byte
	)
	if err := row.Scan(&entry.ChannelID, &raw, &entry.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "cache entry not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get cache entry")
	}

	// SQL NULL and JSON null both leave Videos nil
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entry.Videos); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to decode cached videos")
		}
	}

	return &entry, nil
}

// Set replaces the cached video list of a channel.
// A nil slice stores SQL NULL, an empty slice stores an empty list.
func (r *repository) Set(ctx context.Context, channelID string, videos []*model.Video) error {
	if channelID == "" {
		return apperrors.New(apperrors.CodeInvalidArg, "channel ID is required")
	}

	var raw []byte
	if videos != nil {
		data, err := json.Marshal(videos)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode videos")
		}
		raw = data
	}

	sql := `INSERT INTO live_cache (channel_id, videos, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (channel_id) DO UPDATE SET videos = EXCLUDED.videos, updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, sql, channelID, raw, r.now().UTC())
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to store cache entry")
	}
	return nil
}
