package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/music/queue"
	"github.com/Senkoslav/discord-bot/internal/music/track"
)

// Embed colors.
const (
	ColorPrimary = 0x7289DA
	ColorSuccess = 0x43B581
	ColorError   = 0xF04747
	ColorInfo    = 0x5865F2
)

func ErrorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Error",
		Description: message,
		Color:       ColorError,
	}
}

func SuccessEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Success",
		Description: message,
		Color:       ColorSuccess,
	}
}

func InfoEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: message,
		Color:       ColorInfo,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sourceEmoji(source string) string {
	switch source {
	case track.SourceYouTube:
		return "🔴"
	case track.SourceSoundCloud:
		return "🟠"
	default:
		return "🎵"
	}
}

func trackLink(t *track.Track) string {
	url := t.WebpageURL
	if url == "" {
		url = t.URL
	}
	return fmt.Sprintf("[%s](%s)", t.DisplayTitle(), url)
}

// TrackEmbed renders a single track. position is the 1-based queue position
// to show, or 0 to omit it.
func TrackEmbed(t *track.Track, title string, position int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: "**" + trackLink(t) + "**",
		Color:       ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: t.DurationString(), Inline: true},
			{Name: "Source", Value: sourceEmoji(t.Source) + " " + titleCase(t.Source), Inline: true},
		},
	}
	if position > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Position", Value: fmt.Sprintf("#%d", position), Inline: true,
		})
	}
	if t.RequesterName != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Requested by " + t.RequesterName}
	}
	if t.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Thumbnail}
	}
	return embed
}

const queuePageSize = 10

// QueueEmbed renders one page of the queue. page is 0-based and clamped.
func QueueEmbed(current *track.Track, upcoming []*track.Track, size, totalSeconds int, loop queue.LoopMode, page int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Music Queue",
		Color: ColorInfo,
	}

	if size == 0 {
		embed.Description = "The queue is empty. Use `/play` to add tracks!"
		return embed
	}

	if current != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🎵 Now Playing",
			Value: fmt.Sprintf("**%s** [%s]", trackLink(current), current.DurationString()),
		})
	}

	totalPages := (len(upcoming) + queuePageSize - 1) / queuePageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}

	start := page * queuePageSize
	end := start + queuePageSize
	if end > len(upcoming) {
		end = len(upcoming)
	}

	if start < end {
		var lines []string
		for i, t := range upcoming[start:end] {
			lines = append(lines, fmt.Sprintf("`%d.` %s [%s]", start+i+1, trackLink(t), t.DurationString()))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("📋 Up Next (%d tracks)", len(upcoming)),
			Value: strings.Join(lines, "\n"),
		})
	}

	loopEmoji := map[queue.LoopMode]string{
		queue.LoopOff: "➡️",
		queue.LoopOne: "🔂",
		queue.LoopAll: "🔁",
	}[loop]

	var durStr string
	hours := totalSeconds / 3600
	minutes := totalSeconds % 3600 / 60
	if hours > 0 {
		durStr = fmt.Sprintf("%dh %dm", hours, minutes)
	} else {
		durStr = fmt.Sprintf("%dm %ds", minutes, totalSeconds%60)
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d/%d • %d tracks • %s • Loop: %s", page+1, totalPages, size, durStr, loopEmoji),
	}
	return embed
}

// SearchEmbed renders numbered search results.
func SearchEmbed(tracks []*track.Track, query string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🔍 Search Results for: " + query,
		Color: ColorInfo,
	}
	if len(tracks) == 0 {
		embed.Description = "No results found. Try a different search query."
		return embed
	}
	var lines []string
	for i, t := range tracks {
		lines = append(lines, fmt.Sprintf("`%d.` **%s** [%s]", i+1, t.DisplayTitle(), t.DurationString()))
	}
	embed.Description = strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Pick a track with the buttons below"}
	return embed
}
