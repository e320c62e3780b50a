package live

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Taichi-iskw/yt-live/internal/config"
	"github.com/Taichi-iskw/yt-live/internal/repository/cache"
	"github.com/Taichi-iskw/yt-live/internal/repository/profile"
	"github.com/Taichi-iskw/yt-live/internal/service/feed"
	"github.com/Taichi-iskw/yt-live/internal/service/invidious"
	liveSvc "github.com/Taichi-iskw/yt-live/internal/service/live"
	"github.com/Taichi-iskw/yt-live/internal/service/local"
)

// ServiceFactory creates sessions backed by the configured database and backends
type ServiceFactory struct {
	// Stderr receives logs, progress and notifications
	Stderr io.Writer
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(stderr io.Writer) *ServiceFactory {
	return &ServiceFactory{Stderr: stderr}
}

// CreateSession loads the configuration and wires a Feed with all dependencies
func (f *ServiceFactory) CreateSession(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := ApplyOptions(cfg, opts); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger := config.SetupLogger(f.Stderr, level)

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	remote := invidious.NewClient(cfg.CurrentInvidiousInstance,
		invidious.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		invidious.WithRequestsPerSecond(cfg.InvidiousRequestsPerSecond),
	)

	feedService := liveSvc.NewFeed(SettingsFromConfig(cfg), liveSvc.Dependencies{
		Local:     local.NewService(),
		Remote:    remote,
		Fetcher:   feed.NewFetcher(cfg.HTTPTimeout),
		ParseFeed: feed.ParseYouTubeFeed,
		Cache:     cache.NewRepository(dbPool),
		Progress:  NewProgressPrinter(f.Stderr),
		Notifier:  NewNotificationPrinter(f.Stderr),
		Logger:    logger,
	})

	logger.Debug("live session ready",
		slog.String("backend", cfg.BackendPreference),
		slog.Bool("rss", cfg.UseRSSFeeds),
		slog.String("instance", cfg.CurrentInvidiousInstance),
	)

	return &Session{
		Feed:          feedService,
		Profiles:      profile.NewRepository(dbPool),
		ActiveProfile: cfg.ActiveProfile,
		Close:         dbPool.Close,
	}, nil
}

// ApplyOptions applies command line overrides to cfg and revalidates it
func ApplyOptions(cfg *config.Config, opts Options) error {
	if opts.Backend != "" {
		cfg.BackendPreference = opts.Backend
	}
	if opts.ForceRSS {
		cfg.UseRSSFeeds = true
	}
	return cfg.Validate()
}

// SettingsFromConfig extracts the fetch preferences of the live feed
func SettingsFromConfig(cfg *config.Config) liveSvc.Settings {
	return liveSvc.Settings{
		Backend:                         cfg.BackendPreference,
		BackendFallback:                 cfg.BackendFallback,
		UseRSSFeeds:                     cfg.UseRSSFeeds,
		Desktop:                         cfg.Desktop,
		FetchSubscriptionsAutomatically: cfg.FetchSubscriptionsAutomatically,
		InvidiousInstance:               cfg.CurrentInvidiousInstance,
	}
}
