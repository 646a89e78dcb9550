// Package extractor resolves URLs and search queries to playable tracks by
// shelling out to the yt-dlp binary, with a direct YouTube client fallback
// for stream-URL refresh.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	youtube "github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	"github.com/Senkoslav/discord-bot/internal/music/track"
)

const (
	defaultBinary  = "yt-dlp"
	extractTimeout = 30 * time.Second
)

var (
	urlRegex        = regexp.MustCompile(`^https?://\S+$`)
	youtubeRegex    = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)
	soundcloudRegex = regexp.MustCompile(`^(https?://)?(www\.)?soundcloud\.com/.+`)
)

// Extractor shells out to yt-dlp. Extraction is blocking I/O and always runs
// out-of-process; callers bound it with the passed context.
type Extractor struct {
	binary      string
	cookiesPath string
	yt          *youtube.Client
	log         zerolog.Logger
}

// New creates an extractor. cookiesPath may be empty.
func New(cookiesPath string, log zerolog.Logger) *Extractor {
	return &Extractor{
		binary:      defaultBinary,
		cookiesPath: cookiesPath,
		yt:          &youtube.Client{},
		log:         log.With().Str("component", "extractor").Logger(),
	}
}

// IsURL reports whether the query looks like a URL rather than search text.
func IsURL(query string) bool { return urlRegex.MatchString(strings.TrimSpace(query)) }

// IsYouTubeURL reports whether the URL points at YouTube.
func IsYouTubeURL(url string) bool { return youtubeRegex.MatchString(strings.TrimSpace(url)) }

// IsSoundCloudURL reports whether the URL points at SoundCloud.
func IsSoundCloudURL(url string) bool { return soundcloudRegex.MatchString(strings.TrimSpace(url)) }

// Extract resolves a URL or search query into tracks. Non-URL queries search
// YouTube. Returns an empty slice on total failure; this boundary never
// reports an error to the caller.
func (e *Extractor) Extract(ctx context.Context, query, requesterID, requesterName string) []*track.Track {
	query = strings.TrimSpace(query)
	if !IsURL(query) {
		query = "ytsearch1:" + query
	}

	info, err := e.extractInfo(ctx, query)
	if err != nil {
		e.log.Warn().Err(err).Str("query", query).Msg("extraction failed")
		return nil
	}
	return tracksFromInfo(info, requesterID, requesterName)
}

// Search returns up to limit tracks for a free-text query from the given
// source ("youtube" or "soundcloud").
func (e *Extractor) Search(ctx context.Context, query, requesterID, requesterName string, limit int, source string) []*track.Track {
	if limit < 1 {
		limit = 1
	}
	prefix := "ytsearch"
	if source == track.SourceSoundCloud {
		prefix = "scsearch"
	}
	search := fmt.Sprintf("%s%d:%s", prefix, limit, strings.TrimSpace(query))

	info, err := e.extractInfo(ctx, search)
	if err != nil {
		e.log.Warn().Err(err).Str("query", search).Msg("search failed")
		return nil
	}
	return tracksFromInfo(info, requesterID, requesterName)
}

// StreamURL refreshes the ephemeral direct-stream URL of a track. A non-nil
// error means the track could not be refreshed and should be treated as
// unplayable.
func (e *Extractor) StreamURL(ctx context.Context, t *track.Track) (string, error) {
	if t.Source == track.SourceYouTube {
		if url, err := e.youtubeStreamURL(ctx, t); err == nil {
			return url, nil
		} else {
			e.log.Debug().Err(err).Str("title", t.Title).Msg("youtube client refresh failed, falling back to yt-dlp")
		}
	}

	source := t.WebpageURL
	if source == "" {
		source = t.URL
	}

	info, err := e.extractInfo(ctx, source)
	if err != nil {
		return "", fmt.Errorf("refresh stream url: %w", err)
	}

	if url := info.streamURL(); url != "" {
		return url, nil
	}
	for _, entry := range info.Entries {
		if url := entry.streamURL(); url != "" {
			return url, nil
		}
	}
	return "", errors.New("no stream url in extraction result")
}

// youtubeStreamURL is the cheap path: resolve the stream through the YouTube
// client without spawning a process.
func (e *Extractor) youtubeStreamURL(ctx context.Context, t *track.Track) (string, error) {
	source := t.WebpageURL
	if source == "" {
		source = t.URL
	}
	videoID, err := youtube.ExtractVideoID(source)
	if err != nil {
		return "", err
	}

	video, err := e.yt.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", err
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return "", errors.New("no audio formats")
	}
	formats.Sort()

	return e.yt.GetStreamURLContext(ctx, video, &formats[0])
}

// ytdlpInfo is the shape of a yt-dlp -J dump. A playlist or search result
// carries Entries; a single video carries its fields at the top level. The
// two variants never mix.
type ytdlpInfo struct {
	ID          string       `json:"id"`
	Type        string       `json:"_type"`
	Extractor   string       `json:"extractor"`
	Title       string       `json:"title"`
	Duration    float64      `json:"duration"`
	Thumbnail   string       `json:"thumbnail"`
	URL         string       `json:"url"` // direct stream URL for a resolved video
	OriginalURL string       `json:"original_url"`
	WebpageURL  string       `json:"webpage_url"`
	Formats     []ytdlpFmt   `json:"formats"`
	Entries     []*ytdlpInfo `json:"entries"`
}

type ytdlpFmt struct {
	URL string `json:"url"`
}

func (i *ytdlpInfo) isCollection() bool {
	return i.Type == "playlist" || len(i.Entries) > 0
}

func (i *ytdlpInfo) streamURL() string {
	if url := strings.TrimSpace(i.URL); url != "" {
		return url
	}
	if len(i.Formats) > 0 {
		return strings.TrimSpace(i.Formats[0].URL)
	}
	return ""
}

func (e *Extractor) extractInfo(ctx context.Context, query string) (*ytdlpInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	args := []string{
		"-J",
		"-f", "bestaudio/best",
		"--no-warnings",
		"--ignore-errors",
		"--default-search", "ytsearch",
		"--no-check-certificates",
	}
	if e.cookiesPath != "" {
		args = append(args, "--cookies", e.cookiesPath)
	}
	args = append(args, query)

	out, err := exec.CommandContext(ctx, e.binary, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("yt-dlp json: %w", err)
	}
	return &info, nil
}

// tracksFromInfo converts a yt-dlp result into tracks at the boundary; no
// raw extraction data travels further into the player.
func tracksFromInfo(info *ytdlpInfo, requesterID, requesterName string) []*track.Track {
	if info == nil {
		return nil
	}
	if info.isCollection() {
		tracks := make([]*track.Track, 0, len(info.Entries))
		for _, entry := range info.Entries {
			if entry == nil {
				continue
			}
			tracks = append(tracks, trackFromInfo(entry, requesterID, requesterName))
		}
		return tracks
	}
	return []*track.Track{trackFromInfo(info, requesterID, requesterName)}
}

func trackFromInfo(info *ytdlpInfo, requesterID, requesterName string) *track.Track {
	url := info.OriginalURL
	if url == "" {
		url = info.WebpageURL
	}
	if url == "" {
		url = info.URL
	}

	t := &track.Track{
		URL:           url,
		Title:         info.Title,
		Duration:      int(info.Duration),
		Thumbnail:     info.Thumbnail,
		WebpageURL:    info.WebpageURL,
		StreamURL:     info.streamURL(),
		Source:        track.SourceFromExtractor(info.Extractor),
		RequesterID:   requesterID,
		RequesterName: requesterName,
		AddedAt:       time.Now(),
	}
	if t.Title == "" {
		t.Title = "Unknown Title"
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	return t
}
