package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
)

const largeListNoticeDuration = 10 * time.Second

// State is the visible state of the live stream list
type State struct {
	Videos         []*model.Video  `json:"videos"`
	ErrorChannels  []model.Channel `json:"error_channels"`
	Loading        bool            `json:"loading"`
	AttemptedFetch bool            `json:"attempted_fetch"`
}

// Feed maintains the live stream list of the active profile
type Feed struct {
	settings Settings
	deps     Dependencies

	mu    sync.Mutex
	state State
}

// NewFeed creates a Feed
func NewFeed(settings Settings, deps Dependencies) *Feed {
	deps.setDefaults()
	return &Feed{
		settings: settings,
		deps:     deps,
		state: State{
			Videos:        []*model.Video{},
			ErrorChannels: []model.Channel{},
		},
	}
}

// State returns a snapshot of the visible state
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Feed) snapshot() State {
	s := f.state
	s.Videos = append([]*model.Video{}, f.state.Videos...)
	s.ErrorChannels = append([]model.Channel{}, f.state.ErrorChannels...)
	return s
}

// Load serves the list from the cache when every subscribed channel has a
// cached list, and refreshes it otherwise. It is also the entry point on a
// profile change: the previous profile's list is cleared before anything
// else happens.
func (f *Feed) Load(ctx context.Context, profile *model.Profile) State {
	f.mu.Lock()
	f.state.Videos = []*model.Video{}
	f.state.Loading = true
	f.mu.Unlock()

	if cached, ok := f.cachedVideos(ctx, profile.Subscriptions); ok {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.state.Videos = processVideoList(cached)
		f.state.Loading = false
		f.deps.Logger.Debug("served live streams from cache",
			slog.String("profile", profile.ID),
			slog.Int("videos", len(f.state.Videos)),
		)
		return f.snapshot()
	}

	if !f.settings.FetchSubscriptionsAutomatically {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.state.Videos = []*model.Video{}
		f.state.AttemptedFetch = false
		f.state.Loading = false
		return f.snapshot()
	}

	return f.Refresh(ctx, profile)
}

// cachedVideos returns the cached lists of all channels, or false when any
// channel has no usable cache entry
func (f *Feed) cachedVideos(ctx context.Context, channels []model.Channel) ([]*model.Video, bool) {
	var entries []*model.CacheEntry
	for _, channel := range channels {
		entry, err := f.deps.Cache.Get(ctx, channel.ID)
		if err != nil {
			if !apperrors.IsNotFound(err) {
				f.deps.Logger.Warn("live cache lookup failed",
					slog.String("channel", channel.ID),
					slog.Any("error", err),
				)
			}
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 || len(entries) < len(channels) {
		return nil, false
	}

	var videos []*model.Video
	for _, entry := range entries {
		if entry.Videos == nil {
			return nil, false
		}
		videos = append(videos, entry.Videos...)
	}
	return videos, true
}

// Refresh fetches every subscribed channel concurrently, writes each result
// to the cache and publishes the merged list. Per-channel failures never
// fail the cycle.
func (f *Feed) Refresh(ctx context.Context, profile *model.Profile) State {
	channels := profile.Subscriptions
	if len(channels) == 0 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.state.Videos = []*model.Video{}
		f.state.Loading = false
		return f.snapshot()
	}

	useRSS := f.settings.UseRSSFeeds
	if len(channels) >= LargeSubscriptionThreshold && !useRSS {
		f.deps.Notifier.Notify(Notification{
			Message:  "This profile has a large number of subscriptions. Forcing RSS to avoid rate limiting",
			Duration: largeListNoticeDuration,
		})
		useRSS = true
	}

	f.mu.Lock()
	f.state.Loading = true
	f.state.AttemptedFetch = true
	f.state.ErrorChannels = []model.Channel{}
	f.mu.Unlock()

	f.deps.Progress.SetVisible(true)
	f.deps.Progress.SetPercentage(0)

	r := &resolver{
		deps:     &f.deps,
		settings: f.settings,
		markGone: f.markGone,
	}
	strategy := initialStrategy(f.settings, useRSS)

	f.deps.Logger.Info("refreshing live streams",
		slog.String("profile", profile.ID),
		slog.Int("channels", len(channels)),
		slog.String("strategy", strategy.String()),
	)

	var (
		g         errgroup.Group
		completed int
		merged    []*model.Video
	)
	for _, channel := range channels {
		g.Go(func() error {
			videos := r.fetch(ctx, channel, strategy)

			if err := f.deps.Cache.Set(ctx, channel.ID, videos); err != nil {
				f.deps.Logger.Warn("failed to update live cache",
					slog.String("channel", channel.ID),
					slog.Any("error", err),
				)
			}

			f.mu.Lock()
			defer f.mu.Unlock()
			completed++
			merged = append(merged, videos...)
			f.deps.Progress.SetPercentage(float64(completed) / float64(len(channels)) * 100)
			return nil
		})
	}
	_ = g.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Videos = processVideoList(merged)
	f.state.Loading = false
	f.deps.Progress.SetVisible(false)

	f.deps.Logger.Debug("live streams refreshed",
		slog.String("profile", profile.ID),
		slog.Int("videos", len(f.state.Videos)),
		slog.Int("error_channels", len(f.state.ErrorChannels)),
	)
	return f.snapshot()
}

func (f *Feed) markGone(channel model.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.ErrorChannels = append(f.state.ErrorChannels, channel)
}
