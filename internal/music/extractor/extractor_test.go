package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senkoslav/discord-bot/internal/music/track"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://youtube.com/watch?v=abc"))
	assert.True(t, IsURL("  http://example.com/x  "))
	assert.False(t, IsURL("never gonna give you up"))
	assert.False(t, IsURL("https://has spaces.com"))
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsYouTubeURL("https://youtu.be/abc"))
	assert.False(t, IsYouTubeURL("https://soundcloud.com/artist/song"))
}

func TestIsSoundCloudURL(t *testing.T) {
	assert.True(t, IsSoundCloudURL("https://soundcloud.com/artist/song"))
	assert.False(t, IsSoundCloudURL("https://youtube.com/watch?v=abc"))
}

const singleVideoJSON = `{
	"id": "dQw4w9WgXcQ",
	"extractor": "youtube",
	"title": "Test Video",
	"duration": 212.5,
	"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hq720.jpg",
	"url": "https://cdn.example.com/stream",
	"original_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
}`

const playlistJSON = `{
	"_type": "playlist",
	"extractor": "youtube:tab",
	"title": "My Playlist",
	"entries": [
		{"extractor": "youtube", "title": "First", "duration": 100, "webpage_url": "https://youtube.com/watch?v=a"},
		null,
		{"extractor": "youtube", "title": "Second", "duration": 200, "webpage_url": "https://youtube.com/watch?v=b"}
	]
}`

func decode(t *testing.T, data string) *ytdlpInfo {
	t.Helper()
	var info ytdlpInfo
	require.NoError(t, json.Unmarshal([]byte(data), &info))
	return &info
}

func TestSingleVideoConversion(t *testing.T) {
	info := decode(t, singleVideoJSON)
	require.False(t, info.isCollection())

	tracks := tracksFromInfo(info, "42", "tester")
	require.Len(t, tracks, 1)

	tk := tracks[0]
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", tk.URL)
	assert.Equal(t, "Test Video", tk.Title)
	assert.Equal(t, 212, tk.Duration)
	assert.Equal(t, track.SourceYouTube, tk.Source)
	assert.Equal(t, "https://cdn.example.com/stream", tk.StreamURL)
	assert.Equal(t, "42", tk.RequesterID)
	assert.Equal(t, "tester", tk.RequesterName)
}

func TestPlaylistConversionSkipsNullEntries(t *testing.T) {
	info := decode(t, playlistJSON)
	require.True(t, info.isCollection())

	tracks := tracksFromInfo(info, "42", "tester")
	require.Len(t, tracks, 2)
	assert.Equal(t, "First", tracks[0].Title)
	assert.Equal(t, "Second", tracks[1].Title)
}

func TestConversionDefaultsMissingFields(t *testing.T) {
	info := decode(t, `{"extractor": "soundcloud", "url": "https://cdn.example.com/s", "duration": -3}`)

	tracks := tracksFromInfo(info, "1", "u")
	require.Len(t, tracks, 1)

	tk := tracks[0]
	assert.Equal(t, "Unknown Title", tk.Title)
	assert.Equal(t, 0, tk.Duration)
	assert.Equal(t, track.SourceSoundCloud, tk.Source)
	// Falls back to the stream URL when no webpage URL is present.
	assert.Equal(t, "https://cdn.example.com/s", tk.URL)
}

func TestStreamURLPrefersTopLevelOverFormats(t *testing.T) {
	info := decode(t, `{"url": "direct", "formats": [{"url": "fmt0"}, {"url": "fmt1"}]}`)
	assert.Equal(t, "direct", info.streamURL())

	info = decode(t, `{"formats": [{"url": "fmt0"}, {"url": "fmt1"}]}`)
	assert.Equal(t, "fmt0", info.streamURL())

	info = decode(t, `{}`)
	assert.Empty(t, info.streamURL())
}

func TestTracksFromInfoNil(t *testing.T) {
	assert.Empty(t, tracksFromInfo(nil, "1", "u"))
}

func TestEntriesImplyCollection(t *testing.T) {
	// Some extractors omit _type but still return entries.
	info := decode(t, `{"entries": [{"title": "x"}]}`)
	assert.True(t, info.isCollection())
}
