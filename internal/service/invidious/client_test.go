package invidious

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
)

const streamsJSON = `{
  "videos": [
    {"type": "video", "title": "Live now", "videoId": "live1", "author": "Chan", "authorId": "UCabc", "lengthSeconds": 0, "published": 1760000000, "viewCount": 12, "liveNow": true, "isUpcoming": false},
    {"type": "video", "title": "Soon", "videoId": "soon1", "author": "Chan", "authorId": "UCabc", "published": 1750000000, "premiereTimestamp": 1760500000, "isUpcoming": true},
    {"type": "shortVideo", "title": "Short", "videoId": "short1", "author": "Chan", "authorId": "UCabc", "published": 1759000000}
  ],
  "continuation": "abc"
}`

func TestClient_ChannelStreams(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(streamsJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	videos, err := client.ChannelStreams(context.Background(), "UCabc")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/channels/UCabc/streams", gotPath)
	assert.Equal(t, userAgent, gotUA)
	require.Len(t, videos, 3, "type filtering is left to the caller")

	assert.Equal(t, &model.Video{
		ID:            "live1",
		ChannelID:     "UCabc",
		Author:        "Chan",
		Title:         "Live now",
		URL:           "https://www.youtube.com/watch?v=live1",
		Type:          "video",
		LiveNow:       true,
		Published:     1760000000,
		PublishedDate: time.Unix(1760000000, 0).UTC(),
		ViewCount:     12,
	}, videos[0])

	assert.Equal(t, time.Unix(1760500000, 0).UTC(), videos[1].PublishedDate, "upcoming streams sort by premiere time")
	assert.Equal(t, "shortVideo", videos[2].Type)
}

func TestClient_ChannelStreams_Errors(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		wantResponse string
	}{
		{
			name: "server error keeps response body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": "Could not extract streams"}`))
			},
			wantResponse: `{"error": "Could not extract streams"}`,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("slow down\n"))
			},
			wantResponse: "slow down",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>maintenance</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			videos, err := NewClient(server.URL).ChannelStreams(context.Background(), "UCabc")
			require.Error(t, err)
			assert.Nil(t, videos)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeExternal))

			var respErr *ResponseError
			if tt.wantResponse == "" {
				assert.False(t, errors.As(err, &respErr))
				return
			}
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, tt.wantResponse, respErr.ResponseText())
		})
	}
}

func TestClient_ChannelStreams_EmptyID(t *testing.T) {
	_, err := NewClient("https://invidious.example").ChannelStreams(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArg))
}

func TestClient_RequestPacing(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"videos": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRequestsPerSecond(0.001))

	_, err := client.ChannelStreams(context.Background(), "UCabc")
	require.NoError(t, err, "first request uses the initial burst")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.ChannelStreams(ctx, "UCabc")
	require.Error(t, err, "second request would exceed the deadline while waiting for a token")
	assert.Equal(t, int32(1), calls.Load())
}
