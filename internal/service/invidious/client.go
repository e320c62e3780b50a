package invidious

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
)

const userAgent = "yt-live/1.0"

// maxErrorBody bounds how much of an error response is kept for diagnostics
const maxErrorBody = 4096

// Client queries the API of an Invidious instance
type Client interface {
	// ChannelStreams returns every entry of the channel's streams listing
	ChannelStreams(ctx context.Context, channelID string) ([]*model.Video, error)
}

// ResponseError is returned when the instance answers with a non-2xx status
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invidious returned %d: %s", e.StatusCode, e.Body)
}

// ResponseText returns the raw response body for diagnostics
func (e *ResponseError) ResponseText() string {
	return e.Body
}

// Option configures a client
type Option func(*client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// WithRequestsPerSecond paces outgoing requests; rps <= 0 disables pacing
func WithRequestsPerSecond(rps float64) Option {
	return func(c *client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type client struct {
	instance string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a client for the instance base URL (e.g. https://yewtu.be)
func NewClient(instance string, opts ...Option) Client {
	c := &client{
		instance: strings.TrimSuffix(instance, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiVideo mirrors the fields of an Invidious channel video entry we use
type apiVideo struct {
	Type              string `json:"type"`
	Title             string `json:"title"`
	VideoID           string `json:"videoId"`
	Author            string `json:"author"`
	AuthorID          string `json:"authorId"`
	LengthSeconds     int    `json:"lengthSeconds"`
	Published         int64  `json:"published"`
	PremiereTimestamp int64  `json:"premiereTimestamp"`
	ViewCount         int64  `json:"viewCount"`
	LiveNow           bool   `json:"liveNow"`
	IsUpcoming        bool   `json:"isUpcoming"`
}

type channelVideosResponse struct {
	Videos       []apiVideo `json:"videos"`
	Continuation string     `json:"continuation"`
}

// ChannelStreams calls /api/v1/channels/{id}/streams
func (c *client) ChannelStreams(ctx context.Context, channelID string) ([]*model.Video, error) {
	if channelID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "channel ID is required")
	}

	endpoint := fmt.Sprintf("%s/api/v1/channels/%s/streams", c.instance, url.PathEscape(channelID))

	var resp channelVideosResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	videos := make([]*model.Video, 0, len(resp.Videos))
	for _, v := range resp.Videos {
		videos = append(videos, &model.Video{
			ID:            v.VideoID,
			ChannelID:     v.AuthorID,
			Author:        v.Author,
			Title:         v.Title,
			URL:           "https://www.youtube.com/watch?v=" + v.VideoID,
			Type:          v.Type,
			LiveNow:       v.LiveNow,
			IsUpcoming:    v.IsUpcoming,
			Published:     v.Published,
			PremiereAt:    v.PremiereTimestamp,
			LengthSeconds: v.LengthSeconds,
			ViewCount:     v.ViewCount,
		})
	}

	AddPublishedDates(videos)
	return videos, nil
}

func (c *client) getJSON(ctx context.Context, endpoint string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.Wrap(err, apperrors.CodeExternal, "invidious request cancelled")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "failed to build invidious request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeExternal, "invidious request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperrors.Wrap(&ResponseError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}, apperrors.CodeExternal, "invidious API error")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeExternal, "failed to decode invidious response")
	}
	return nil
}

// AddPublishedDates sets PublishedDate from the premiere time of upcoming
// streams, or from the published timestamp otherwise
func AddPublishedDates(videos []*model.Video) {
	for _, video := range videos {
		ts := video.Published
		if video.IsUpcoming && video.PremiereAt > 0 {
			ts = video.PremiereAt
		}
		if ts > 0 {
			video.PublishedDate = time.Unix(ts, 0).UTC()
		}
	}
}
