package live

import (
	"context"
	"log/slog"
	"time"

	"github.com/Taichi-iskw/yt-live/internal/model"
	"github.com/Taichi-iskw/yt-live/internal/service/feed"
)

// Backend preference values
const (
	BackendLocal     = "local"
	BackendInvidious = "invidious"
)

// LargeSubscriptionThreshold is the subscription count from which RSS is
// forced for a refresh cycle
const LargeSubscriptionThreshold = 125

// Settings are the fetch preferences read for every cycle
type Settings struct {
	Backend                         string
	BackendFallback                 bool
	UseRSSFeeds                     bool
	Desktop                         bool
	FetchSubscriptionsAutomatically bool
	InvidiousInstance               string
}

// LocalBackend fetches streams directly from YouTube.
// A CodeNotFound error means the channel does not exist.
type LocalBackend interface {
	ChannelLiveStreams(ctx context.Context, channelID string) ([]*model.Video, error)
}

// RemoteBackend fetches streams from an Invidious instance
type RemoteBackend interface {
	ChannelStreams(ctx context.Context, channelID string) ([]*model.Video, error)
}

// FeedFetcher performs RSS feed requests
type FeedFetcher interface {
	Get(ctx context.Context, url string) (*feed.Response, error)
	Head(ctx context.Context, url string) (int, error)
}

// FeedParser converts a feed document into videos of channelID
type FeedParser func(data []byte, channelID string) ([]*model.Video, error)

// CacheStore persists the per-channel video lists
type CacheStore interface {
	Get(ctx context.Context, channelID string) (*model.CacheEntry, error)
	Set(ctx context.Context, channelID string, videos []*model.Video) error
}

// ProgressReporter displays the progress of a refresh cycle
type ProgressReporter interface {
	SetVisible(visible bool)
	SetPercentage(percentage float64)
}

// Notification is a short message shown to the user
type Notification struct {
	Message  string
	Duration time.Duration
	// CopyText is offered for copying when set
	CopyText string
}

// Notifier shows notifications
type Notifier interface {
	Notify(n Notification)
}

// Dependencies are the collaborators of a Feed
type Dependencies struct {
	Local     LocalBackend
	Remote    RemoteBackend
	Fetcher   FeedFetcher
	ParseFeed FeedParser
	Cache     CacheStore
	Progress  ProgressReporter
	Notifier  Notifier
	Logger    *slog.Logger
}

func (d *Dependencies) setDefaults() {
	if d.ParseFeed == nil {
		d.ParseFeed = feed.ParseYouTubeFeed
	}
	if d.Progress == nil {
		d.Progress = nopProgress{}
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
}

type nopProgress struct{}

func (nopProgress) SetVisible(bool)        {}
func (nopProgress) SetPercentage(float64) {}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
