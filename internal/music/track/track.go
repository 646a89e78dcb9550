// Package track defines the playable track entity shared by the queue,
// player, extractor and storage layers.
package track

import (
	"fmt"
	"strings"
	"time"
)

const maxDisplayTitle = 60

// Source platform tags.
const (
	SourceYouTube    = "youtube"
	SourceSoundCloud = "soundcloud"
	SourceUnknown    = "unknown"
)

// Track represents a single audio track. The JSON form is the persisted
// representation; StreamURL is ephemeral (it expires) and is never stored.
type Track struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Duration      int       `json:"duration"` // seconds, <= 0 means live/unknown
	Thumbnail     string    `json:"thumbnail,omitempty"`
	WebpageURL    string    `json:"webpage_url,omitempty"`
	Source        string    `json:"source"`
	RequesterID   string    `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	StreamURL     string    `json:"-"`
	AddedAt       time.Time `json:"-"`
}

// New creates a track with normalized defaults.
func New(url string) *Track {
	t := &Track{URL: url}
	t.normalize()
	return t
}

func (t *Track) normalize() {
	if t.Title == "" {
		t.Title = "Unknown Title"
	}
	if t.Source == "" {
		t.Source = SourceUnknown
	}
	if t.RequesterName == "" {
		t.RequesterName = "Unknown"
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	if t.AddedAt.IsZero() {
		t.AddedAt = time.Now()
	}
}

// IsLive reports whether the track has no known finite duration.
func (t *Track) IsLive() bool {
	return t.Duration <= 0
}

// DurationString formats the duration as H:MM:SS or M:SS, or "Live".
func (t *Track) DurationString() string {
	if t.Duration <= 0 {
		return "Live"
	}
	h := t.Duration / 3600
	m := (t.Duration % 3600) / 60
	s := t.Duration % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DisplayTitle returns the title truncated for embeds.
func (t *Track) DisplayTitle() string {
	r := []rune(t.Title)
	if len(r) > maxDisplayTitle {
		return string(r[:maxDisplayTitle-3]) + "..."
	}
	return t.Title
}

// Restored returns a copy suitable for use after loading from storage:
// the stream URL is absent and must be refreshed before playback.
func (t *Track) Restored() *Track {
	c := *t
	c.StreamURL = ""
	c.normalize()
	return &c
}

// SourceFromExtractor maps a yt-dlp extractor name to a source tag.
func SourceFromExtractor(extractor string) string {
	e := strings.ToLower(extractor)
	switch {
	case strings.Contains(e, "youtube"):
		return SourceYouTube
	case strings.Contains(e, "soundcloud"):
		return SourceSoundCloud
	case e != "":
		return e
	default:
		return SourceUnknown
	}
}
