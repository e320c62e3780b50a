package model

import "time"

// Channel represents a subscribed YouTube channel
type Channel struct {
	ID   string `json:"id" db:"channel_id"`
	Name string `json:"name,omitempty" db:"name"`
	URL  string `json:"url,omitempty" db:"url"`
}

// Profile groups a set of channel subscriptions
type Profile struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Subscriptions []Channel `json:"subscriptions"`
}

// Video represents a live or upcoming stream of a channel
type Video struct {
	ID            string    `json:"video_id"`
	ChannelID     string    `json:"author_id"`
	Author        string    `json:"author,omitempty"`
	Title         string    `json:"title"`
	URL           string    `json:"url,omitempty"`
	Type          string    `json:"type"`
	LiveNow       bool      `json:"live_now"`
	IsUpcoming    bool      `json:"is_upcoming"`
	Published     int64     `json:"published,omitempty"`   // unix seconds as reported by the backend
	PremiereAt    int64     `json:"premiere_at,omitempty"` // unix seconds, upcoming streams only
	PublishedDate time.Time `json:"published_date"`        // normalized date used for sorting
	LengthSeconds int       `json:"length_seconds,omitempty"`
	ViewCount     int64     `json:"view_count,omitempty"`
}

// CacheEntry is the cached live stream list of one channel.
// A nil Videos slice means the entry exists but holds no list yet.
type CacheEntry struct {
	ChannelID string    `json:"channel_id" db:"channel_id"`
	Videos    []*Video  `json:"videos" db:"videos"`
	Timestamp time.Time `json:"timestamp" db:"updated_at"`
}

// VideoTypeVideo is the entry type Invidious uses for regular videos and streams
const VideoTypeVideo = "video"
