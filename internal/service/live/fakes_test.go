package live

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
	"github.com/Taichi-iskw/yt-live/internal/service/feed"
)

// fakeLocal mocks LocalBackend
type fakeLocal struct {
	mu    sync.Mutex
	calls []string
	fn    func(channelID string) ([]*model.Video, error)
}

func (f *fakeLocal) ChannelLiveStreams(ctx context.Context, channelID string) ([]*model.Video, error) {
	f.mu.Lock()
	f.calls = append(f.calls, channelID)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(channelID)
	}
	return []*model.Video{}, nil
}

func (f *fakeLocal) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeRemote mocks RemoteBackend
type fakeRemote struct {
	mu    sync.Mutex
	calls []string
	fn    func(channelID string) ([]*model.Video, error)
}

func (f *fakeRemote) ChannelStreams(ctx context.Context, channelID string) ([]*model.Video, error) {
	f.mu.Lock()
	f.calls = append(f.calls, channelID)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(channelID)
	}
	return []*model.Video{}, nil
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeFetcher mocks FeedFetcher, answering from per-URL tables
type fakeFetcher struct {
	mu        sync.Mutex
	gets      []string
	heads     []string
	responses map[string]*feed.Response
	getErr    error
	headCodes map[string]int
	headErr   error
}

func (f *fakeFetcher) Get(ctx context.Context, url string) (*feed.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, url)
	if f.getErr != nil {
		return nil, f.getErr
	}
	if resp, ok := f.responses[url]; ok {
		return resp, nil
	}
	return &feed.Response{StatusCode: 200, Body: []byte("feed")}, nil
}

func (f *fakeFetcher) Head(ctx context.Context, url string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heads = append(f.heads, url)
	if f.headErr != nil {
		return 0, f.headErr
	}
	if code, ok := f.headCodes[url]; ok {
		return code, nil
	}
	return 200, nil
}

func (f *fakeFetcher) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gets)
}

// fakeCache is an in-memory CacheStore
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*model.CacheEntry
	writes  map[string][][]*model.Video
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: map[string]*model.CacheEntry{},
		writes:  map[string][][]*model.Video{},
	}
}

func (c *fakeCache) Get(ctx context.Context, channelID string) (*model.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[channelID]
	if !ok {
		return nil, notFound(channelID)
	}
	return entry, nil
}

func (c *fakeCache) Set(ctx context.Context, channelID string, videos []*model.Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes[channelID] = append(c.writes[channelID], videos)
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[channelID] = &model.CacheEntry{ChannelID: channelID, Videos: videos}
	return nil
}

func (c *fakeCache) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.writes {
		n += len(w)
	}
	return n
}

// recordingProgress records every progress update
type recordingProgress struct {
	mu          sync.Mutex
	visible     []bool
	percentages []float64
}

func (p *recordingProgress) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = append(p.visible, visible)
}

func (p *recordingProgress) SetPercentage(percentage float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.percentages = append(p.percentages, percentage)
}

// recordingNotifier records every notification
type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (n *recordingNotifier) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notes))
	for _, note := range n.notes {
		out = append(out, note.Message)
	}
	return out
}

// harness bundles the fakes behind a Feed
type harness struct {
	local    *fakeLocal
	remote   *fakeRemote
	fetcher  *fakeFetcher
	cache    *fakeCache
	progress *recordingProgress
	notifier *recordingNotifier
	parse    FeedParser
}

func newHarness() *harness {
	return &harness{
		local:    &fakeLocal{},
		remote:   &fakeRemote{},
		fetcher:  &fakeFetcher{responses: map[string]*feed.Response{}, headCodes: map[string]int{}},
		cache:    newFakeCache(),
		progress: &recordingProgress{},
		notifier: &recordingNotifier{},
		parse: func(data []byte, channelID string) ([]*model.Video, error) {
			return []*model.Video{video(channelID+"-rss", channelID)}, nil
		},
	}
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		Local:     h.local,
		Remote:    h.remote,
		Fetcher:   h.fetcher,
		ParseFeed: h.parse,
		Cache:     h.cache,
		Progress:  h.progress,
		Notifier:  h.notifier,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (h *harness) feed(settings Settings) *Feed {
	return NewFeed(settings, h.deps())
}

func localSettings() Settings {
	return Settings{
		Backend:                         BackendLocal,
		BackendFallback:                 true,
		Desktop:                         true,
		FetchSubscriptionsAutomatically: true,
		InvidiousInstance:               "https://inv.example",
	}
}

func video(id, channelID string) *model.Video {
	return &model.Video{ID: id, ChannelID: channelID, Type: model.VideoTypeVideo}
}

func profileWith(n int) *model.Profile {
	p := &model.Profile{ID: "p1", Name: "Test"}
	for i := 0; i < n; i++ {
		p.Subscriptions = append(p.Subscriptions, model.Channel{ID: fmt.Sprintf("UC%03d", i)})
	}
	return p
}

func notFound(channelID string) error {
	return apperrors.New(apperrors.CodeNotFound, "no cache entry for "+channelID)
}
