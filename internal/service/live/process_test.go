package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Taichi-iskw/yt-live/internal/model"
)

func TestProcessVideoList(t *testing.T) {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	old := &model.Video{ID: "old", PublishedDate: base}
	recent := &model.Video{ID: "recent", PublishedDate: base.Add(time.Hour)}
	live := &model.Video{ID: "live", LiveNow: true, PublishedDate: base.Add(-time.Hour)}
	dupe := &model.Video{ID: "recent", Title: "duplicate", PublishedDate: base.Add(2 * time.Hour)}

	result := processVideoList([]*model.Video{old, nil, recent, live, dupe})

	ids := make([]string, 0, len(result))
	for _, v := range result {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"live", "recent", "old"}, ids)
	assert.Same(t, recent, result[1], "first occurrence wins")
}

func TestProcessVideoList_Empty(t *testing.T) {
	result := processVideoList(nil)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
