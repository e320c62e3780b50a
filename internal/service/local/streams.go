package local

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
	"github.com/Taichi-iskw/yt-live/internal/service/common"
)

// yt-dlp messages meaning the channel or its streams tab is gone
var absentMarkers = []string{
	"does not have a streams tab",
	"this channel does not exist",
	"this account has been terminated",
	"http error 404",
}

// ChannelLiveStreams fetches the streams tab of a channel using yt-dlp
func (s *service) ChannelLiveStreams(ctx context.Context, channelID string) ([]*model.Video, error) {
	if channelID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "channel ID is required")
	}

	args := []string{
		"--dump-json",
		"--flat-playlist",
		"https://www.youtube.com/channel/" + channelID + "/streams",
	}

	output, err := s.cmdRunner.Run(ctx, s.binary, args...)
	if err != nil {
		if isAbsent(err) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "channel has no streams tab")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "failed to fetch live streams with yt-dlp")
	}

	videos := []*model.Video{}
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}

		var info ytDlpStreamInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to parse yt-dlp output")
		}

		videos = append(videos, toVideo(channelID, info))
	}

	addPublishedDates(videos)
	return videos, nil
}

func toVideo(channelID string, info ytDlpStreamInfo) *model.Video {
	url := info.URL
	if url == "" || !strings.HasPrefix(url, "http") {
		url = "https://www.youtube.com/watch?v=" + info.ID
	}

	return &model.Video{
		ID: info.ID,
		// the requested channel wins over whatever the flat entry reports
		ChannelID:     channelID,
		Author:        info.Channel,
		Title:         info.Title,
		URL:           url,
		Type:          model.VideoTypeVideo,
		LiveNow:       info.LiveStatus == "is_live",
		IsUpcoming:    info.LiveStatus == "is_upcoming",
		Published:     firstNonZero(info.ReleaseTimestamp, info.Timestamp),
		PremiereAt:    upcomingStart(info),
		LengthSeconds: int(info.Duration),
		ViewCount:     info.ViewCount,
	}
}

// addPublishedDates derives PublishedDate from the yt-dlp timestamps
func addPublishedDates(videos []*model.Video) {
	for _, video := range videos {
		if ts := firstNonZero(video.PremiereAt, video.Published); ts > 0 {
			video.PublishedDate = time.Unix(ts, 0).UTC()
		}
	}
}

func upcomingStart(info ytDlpStreamInfo) int64 {
	if info.LiveStatus != "is_upcoming" {
		return 0
	}
	return info.ReleaseTimestamp
}

func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func isAbsent(err error) bool {
	var cmdErr *common.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	stderr := strings.ToLower(cmdErr.Stderr)
	for _, marker := range absentMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
