package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
)

const (
	localFeedURL   = "https://www.youtube.com/feeds/videos.xml?playlist_id=%s"
	channelFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

	errorNoticeDuration    = 10 * time.Second
	fallbackNoticeDuration = 3 * time.Second
)

// responseTexter is implemented by errors carrying a raw server response
type responseTexter interface {
	ResponseText() string
}

// resolver fetches the streams of one channel, escalating through the
// strategies on failure
type resolver struct {
	deps     *Dependencies
	settings Settings
	// markGone records a channel confirmed not to exist
	markGone func(channel model.Channel)
}

// fetch never fails: an exhausted chain yields an empty list
func (r *resolver) fetch(ctx context.Context, channel model.Channel, strategy Strategy) []*model.Video {
	attempt := 0
	for {
		videos, err := r.run(ctx, channel, strategy)
		if err == nil {
			return videos
		}

		r.reportFailure(channel, strategy, attempt, err)

		next := nextOnFailure(strategy, attempt, r.settings.BackendFallback, r.settings.Desktop)
		if next == StrategyGiveUp {
			return []*model.Video{}
		}
		if next.IsLocal() != strategy.IsLocal() {
			r.notifyFallback(next)
		}

		strategy = next
		attempt++
	}
}

func (r *resolver) run(ctx context.Context, channel model.Channel, strategy Strategy) ([]*model.Video, error) {
	switch strategy {
	case StrategyLocalAPI:
		return r.localAPI(ctx, channel)
	case StrategyLocalRSS:
		return r.localRSS(ctx, channel)
	case StrategyRemoteAPI:
		return r.remoteAPI(ctx, channel)
	case StrategyRemoteRSS:
		return r.remoteRSS(ctx, channel)
	default:
		return nil, apperrors.New(apperrors.CodeInternal, fmt.Sprintf("unknown strategy %d", strategy))
	}
}

func (r *resolver) localAPI(ctx context.Context, channel model.Channel) ([]*model.Video, error) {
	videos, err := r.deps.Local.ChannelLiveStreams(ctx, channel.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			r.markGone(channel)
			return []*model.Video{}, nil
		}
		return nil, err
	}
	if videos == nil {
		videos = []*model.Video{}
	}
	return videos, nil
}

func (r *resolver) localRSS(ctx context.Context, channel model.Channel) ([]*model.Video, error) {
	resp, err := r.deps.Fetcher.Get(ctx, fmt.Sprintf(localFeedURL, playlistID(channel.ID)))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		// the playlist is also missing for channels without live streams,
		// only the channel feed tells whether the channel is gone
		status, err := r.deps.Fetcher.Head(ctx, fmt.Sprintf(channelFeedURL, channel.ID))
		if err != nil {
			return nil, err
		}
		if status == http.StatusNotFound {
			r.markGone(channel)
		}
		return []*model.Video{}, nil
	}

	return r.parseFeed(resp.StatusCode, resp.Body, channel)
}

func (r *resolver) remoteAPI(ctx context.Context, channel model.Channel) ([]*model.Video, error) {
	entries, err := r.deps.Remote.ChannelStreams(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.Video, 0, len(entries))
	for _, entry := range entries {
		if entry != nil && entry.Type == model.VideoTypeVideo {
			videos = append(videos, entry)
		}
	}
	return videos, nil
}

func (r *resolver) remoteRSS(ctx context.Context, channel model.Channel) ([]*model.Video, error) {
	url := fmt.Sprintf("%s/feed/playlist/%s", r.settings.InvidiousInstance, playlistID(channel.ID))
	resp, err := r.deps.Fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusInternalServerError {
		return []*model.Video{}, nil
	}

	return r.parseFeed(resp.StatusCode, resp.Body, channel)
}

func (r *resolver) parseFeed(status int, body []byte, channel model.Channel) ([]*model.Video, error) {
	if status < 200 || status >= 300 {
		return nil, apperrors.New(apperrors.CodeExternal, fmt.Sprintf("feed returned status %d", status))
	}

	videos, err := r.deps.ParseFeed(body, channel.ID)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []*model.Video{}
	}
	return videos, nil
}

func (r *resolver) reportFailure(channel model.Channel, strategy Strategy, attempt int, err error) {
	r.deps.Logger.Error("live stream fetch failed",
		slog.String("channel", channel.ID),
		slog.String("strategy", strategy.String()),
		slog.Int("attempt", attempt),
		slog.Any("error", err),
	)

	prefix := "Local API Error (Click to copy)"
	text := err.Error()
	if !strategy.IsLocal() {
		prefix = "Invidious API Error (Click to copy)"
		var rt responseTexter
		if strategy == StrategyRemoteAPI && errors.As(err, &rt) {
			text = rt.ResponseText()
		}
	}

	r.deps.Notifier.Notify(Notification{
		Message:  prefix + ": " + text,
		Duration: errorNoticeDuration,
		CopyText: text,
	})
}

func (r *resolver) notifyFallback(next Strategy) {
	message := "Falling back to Invidious API"
	if next.IsLocal() {
		message = "Falling back to the local API"
	}
	r.deps.Notifier.Notify(Notification{Message: message, Duration: fallbackNoticeDuration})
}
