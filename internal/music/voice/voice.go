// Package voice streams audio into Discord voice connections: ffmpeg decodes
// the source URL to raw PCM, gopus encodes 20ms opus frames, and the frames
// are pushed onto the discordgo voice connection.
package voice

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"layeh.com/gopus"

	"github.com/Senkoslav/discord-bot/internal/music/player"
)

const (
	channels      = 2
	sampleRate    = 48000
	frameSize     = 960 // 20ms at 48kHz
	frameDuration = 20 * time.Millisecond
)

// Transport opens voice connections through a discordgo session.
type Transport struct {
	dg  *discordgo.Session
	log zerolog.Logger
}

// NewTransport wraps a session as a player.Transport.
func NewTransport(dg *discordgo.Session, log zerolog.Logger) *Transport {
	return &Transport{dg: dg, log: log.With().Str("component", "voice").Logger()}
}

// Connect joins a voice channel. Joining another channel of a guild that
// already has a connection moves it. One automatic retry on failure.
func (t *Transport) Connect(ctx context.Context, guildID, channelID string) (player.Connection, error) {
	vc, err := t.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		t.log.Warn().Err(err).Str("channel_id", channelID).Msg("voice join failed, retrying once")
		vc, err = t.dg.ChannelVoiceJoin(guildID, channelID, false, true)
		if err != nil {
			return nil, fmt.Errorf("voice join: %w", err)
		}
	}
	return &Conn{vc: vc, log: t.log}, nil
}

// Conn is one live voice connection with at most one active stream.
type Conn struct {
	vc  *discordgo.VoiceConnection
	log zerolog.Logger

	mu       sync.Mutex
	volume   float64
	paused   bool
	stop     chan struct{} // per-stream; closed to halt the pump
	stopOnce *sync.Once
}

// ChannelID returns the connected channel id.
func (c *Conn) ChannelID() string {
	return c.vc.ChannelID
}

// Play starts streaming the given audio URL at the given offset and volume.
// Any in-flight stream is halted first. onComplete fires exactly once, from
// the pump goroutine, when the stream finishes or errors.
func (c *Conn) Play(streamURL string, seekSeconds float64, volume float64, onComplete func(error)) error {
	c.Stop()

	ffmpeg := exec.Command("ffmpeg",
		"-ss", fmt.Sprintf("%.3f", seekSeconds),
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", streamURL,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-vn",
		"-loglevel", "warning",
		"pipe:1",
	)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := ffmpeg.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	stop := make(chan struct{})

	c.mu.Lock()
	c.volume = volume
	c.paused = false
	c.stop = stop
	c.stopOnce = &sync.Once{}
	c.mu.Unlock()

	if err := c.vc.Speaking(true); err != nil {
		c.log.Warn().Err(err).Msg("failed to set speaking state")
	}

	go func() {
		err := c.pump(reader, stop)
		ffmpeg.Process.Kill()
		ffmpeg.Wait()
		onComplete(err)
	}()

	return nil
}

// pump reads PCM frames, rescales them by the current volume, encodes opus
// and pushes frames until the source drains or the stream is stopped.
func (c *Conn) pump(stream io.ReadCloser, stop <-chan struct{}) error {
	defer stream.Close()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("opus encoder: %w", err)
	}

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if c.isPaused() {
			select {
			case <-stop:
				return nil
			case <-time.After(frameDuration):
			}
			continue
		}

		if _, err := io.ReadFull(stream, pcmBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil // source drained
			}
			return fmt.Errorf("pcm read: %w", err)
		}

		vol := c.currentVolume()
		for i := range intBuf {
			sample := int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
			intBuf[i] = scaleSample(sample, vol)
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("opus encode: %w", err)
		}

		select {
		case <-stop:
			return nil
		case c.vc.OpusSend <- opus:
		}
	}
}

func scaleSample(s int16, vol float64) int16 {
	v := float64(s) * vol
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func (c *Conn) currentVolume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Conn) isPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetVolume rescales the in-flight stream live; the next frame is encoded at
// the new volume.
func (c *Conn) SetVolume(volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = volume
}

// Pause suspends frame output without tearing the stream down.
func (c *Conn) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil || c.paused {
		return false
	}
	c.paused = true
	return true
}

// Resume continues a paused stream.
func (c *Conn) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return false
	}
	c.paused = false
	return true
}

// Stop halts the active stream, if any. Non-blocking and idempotent; the
// pump's completion callback still fires.
func (c *Conn) Stop() {
	c.mu.Lock()
	stop, once := c.stop, c.stopOnce
	c.mu.Unlock()
	if stop != nil && once != nil {
		once.Do(func() { close(stop) })
	}
}

// Disconnect halts streaming and closes the voice connection.
func (c *Conn) Disconnect() error {
	c.Stop()
	if err := c.vc.Speaking(false); err != nil {
		c.log.Debug().Err(err).Msg("failed to clear speaking state")
	}
	return c.vc.Disconnect()
}
