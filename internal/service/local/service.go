package local

import (
	"context"

	"github.com/Taichi-iskw/yt-live/internal/model"
	"github.com/Taichi-iskw/yt-live/internal/service/common"
)

// Service scrapes a channel's live streams directly from YouTube
type Service interface {
	// ChannelLiveStreams returns the entries of the channel's streams tab.
	// A CodeNotFound error means the channel or its streams tab does not exist.
	ChannelLiveStreams(ctx context.Context, channelID string) ([]*model.Video, error)
}

// service implements Service on top of yt-dlp
type service struct {
	cmdRunner common.CmdRunner
	binary    string
}

// NewService creates a new Service using the yt-dlp found on PATH
func NewService() Service {
	return NewServiceWithCmdRunner(common.NewCmdRunner())
}

// NewServiceWithCmdRunner creates a new Service with custom CmdRunner (for testing)
func NewServiceWithCmdRunner(cmdRunner common.CmdRunner) Service {
	return &service{
		cmdRunner: cmdRunner,
		binary:    "yt-dlp",
	}
}

// ytDlpStreamInfo represents one --flat-playlist JSON line of a streams tab
type ytDlpStreamInfo struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	ChannelID        string  `json:"channel_id"`
	Channel          string  `json:"channel"`
	LiveStatus       string  `json:"live_status"`
	ReleaseTimestamp int64   `json:"release_timestamp"`
	Timestamp        int64   `json:"timestamp"`
	Duration         float64 `json:"duration"`
	ViewCount        int64   `json:"view_count"`
}
