package live

import (
	"sort"

	"github.com/Taichi-iskw/yt-live/internal/model"
)

// processVideoList removes duplicates and orders the list for display:
// live streams first, then newest first
func processVideoList(videos []*model.Video) []*model.Video {
	seen := make(map[string]struct{}, len(videos))
	result := make([]*model.Video, 0, len(videos))
	for _, video := range videos {
		if video == nil {
			continue
		}
		if _, ok := seen[video.ID]; ok {
			continue
		}
		seen[video.ID] = struct{}{}
		result = append(result, video)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].LiveNow != result[j].LiveNow {
			return result[i].LiveNow
		}
		return result[i].PublishedDate.After(result[j].PublishedDate)
	})

	return result
}
