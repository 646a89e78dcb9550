package track

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	tr := New("https://example.com/x")

	assert.Equal(t, "Unknown Title", tr.Title)
	assert.Equal(t, SourceUnknown, tr.Source)
	assert.Equal(t, "Unknown", tr.RequesterName)
	assert.False(t, tr.AddedAt.IsZero())
}

func TestNormalizeClampsNegativeDuration(t *testing.T) {
	tr := &Track{URL: "u", Duration: -30}
	tr.normalize()
	assert.Equal(t, 0, tr.Duration)
	assert.True(t, tr.IsLive())
}

func TestSerializationOmitsStreamURL(t *testing.T) {
	tr := &Track{
		URL:           "https://youtube.com/watch?v=abc",
		Title:         "Test Song",
		Duration:      245,
		Thumbnail:     "https://img.example.com/t.jpg",
		WebpageURL:    "https://youtube.com/watch?v=abc",
		Source:        SourceYouTube,
		RequesterID:   "123456789",
		RequesterName: "tester",
		StreamURL:     "https://cdn.example.com/ephemeral",
	}

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ephemeral")

	var back Track
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Empty(t, back.StreamURL)
	assert.Equal(t, tr.URL, back.URL)
	assert.Equal(t, tr.Title, back.Title)
	assert.Equal(t, tr.Duration, back.Duration)
	assert.Equal(t, tr.Thumbnail, back.Thumbnail)
	assert.Equal(t, tr.WebpageURL, back.WebpageURL)
	assert.Equal(t, tr.Source, back.Source)
	assert.Equal(t, tr.RequesterID, back.RequesterID)
	assert.Equal(t, tr.RequesterName, back.RequesterName)
}

func TestRestoredStripsStreamURL(t *testing.T) {
	tr := &Track{URL: "u", Title: "x", StreamURL: "s"}
	r := tr.Restored()

	assert.Empty(t, r.StreamURL)
	assert.Equal(t, "s", tr.StreamURL)
	assert.Equal(t, "x", r.Title)
}

func TestDurationString(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "Live"},
		{-1, "Live"},
		{59, "0:59"},
		{65, "1:05"},
		{245, "4:05"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, c := range cases {
		tr := &Track{Duration: c.seconds}
		assert.Equal(t, c.want, tr.DurationString())
	}
}

func TestDisplayTitleTruncates(t *testing.T) {
	short := &Track{Title: "hello"}
	assert.Equal(t, "hello", short.DisplayTitle())

	long := &Track{Title: strings.Repeat("a", 100)}
	got := long.DisplayTitle()
	assert.Len(t, got, 60)
	assert.True(t, strings.HasSuffix(got, "..."))

	wide := &Track{Title: strings.Repeat("日", 100)}
	got = wide.DisplayTitle()
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 60, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSourceFromExtractor(t *testing.T) {
	assert.Equal(t, SourceYouTube, SourceFromExtractor("YoutubeTab"))
	assert.Equal(t, SourceYouTube, SourceFromExtractor("youtube"))
	assert.Equal(t, SourceSoundCloud, SourceFromExtractor("soundcloud:sets"))
	assert.Equal(t, "bandcamp", SourceFromExtractor("Bandcamp"))
	assert.Equal(t, SourceUnknown, SourceFromExtractor(""))
}
