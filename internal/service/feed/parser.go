package feed

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
)

// ParseYouTubeFeed converts a YouTube Atom feed (channel or playlist) into
// videos attributed to channelID
func ParseYouTubeFeed(data []byte, channelID string) ([]*model.Video, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "failed to parse feed")
	}

	videos := make([]*model.Video, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		videoID := extensionValue(item.Extensions, "yt", "videoId")
		if videoID == "" {
			videoID = strings.TrimPrefix(item.GUID, "yt:video:")
		}
		if videoID == "" {
			continue
		}

		video := &model.Video{
			ID:        videoID,
			ChannelID: channelID,
			Title:     item.Title,
			URL:       item.Link,
			Type:      model.VideoTypeVideo,
			ViewCount: viewCount(item.Extensions),
		}
		if video.URL == "" {
			video.URL = "https://www.youtube.com/watch?v=" + videoID
		}
		if len(item.Authors) > 0 {
			video.Author = item.Authors[0].Name
		} else if parsed.Author != nil {
			video.Author = parsed.Author.Name
		}
		if item.PublishedParsed != nil {
			video.PublishedDate = item.PublishedParsed.UTC()
			video.Published = item.PublishedParsed.Unix()
		}

		videos = append(videos, video)
	}

	return videos, nil
}

func extensionValue(exts ext.Extensions, prefix, name string) string {
	values := exts[prefix][name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}

// viewCount reads media:group/media:community/media:statistics@views
func viewCount(exts ext.Extensions) int64 {
	groups := exts["media"]["group"]
	if len(groups) == 0 {
		return 0
	}
	for _, community := range groups[0].Children["community"] {
		for _, stats := range community.Children["statistics"] {
			if n, err := strconv.ParseInt(stats.Attrs["views"], 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
