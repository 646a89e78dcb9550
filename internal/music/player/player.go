// Package player implements the guild-scoped music player: it owns the queue,
// drives the voice connection lifecycle, decides what to play next and
// persists playback state through a storage collaborator.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Senkoslav/discord-bot/internal/music/queue"
	"github.com/Senkoslav/discord-bot/internal/music/track"
	"github.com/Senkoslav/discord-bot/internal/storagetypes"
)

const (
	watchdogInterval   = 30 * time.Second
	minIdleTimeout     = 60 * time.Second
	defaultIdleTimeout = 300 * time.Second

	// trackEnd channel depth; completions beyond this only block the
	// transport pump briefly, never the player itself.
	endEventBuffer = 4
)

// Options configures a Player.
type Options struct {
	GuildID       string
	MaxQueueSize  int
	VolumePercent int // initial volume, 0-200
	IdleTimeout   time.Duration
	Extractor     Extractor
	Store         Store
	Transport     Transport
	Logger        zerolog.Logger
}

type endEvent struct {
	seq uint64
	err error
}

// Player is the per-guild playback state machine. All entry points serialize
// on an internal mutex; end-of-track completions fired by the transport are
// marshalled through a channel onto a player-owned goroutine before they
// touch any state.
type Player struct {
	guildID     string
	extractor   Extractor
	store       Store
	transport   Transport
	log         zerolog.Logger
	idleTimeout time.Duration

	mu             sync.Mutex
	queue          *queue.Queue
	conn           Connection
	volume         float64 // 0.0-2.0 multiplier
	playing        bool
	paused         bool
	streamSeq      uint64
	posOffset      int // seconds into the current track at stream start
	startedAt      time.Time
	lastActivity   time.Time
	watchdogCancel context.CancelFunc

	onTrackStart func(*track.Track)
	onTrackEnd   func(*track.Track)
	onQueueEnd   func()

	trackEnd  chan endEvent
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a player for a guild and starts its completion loop.
func New(opts Options) *Player {
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	if idle < minIdleTimeout {
		idle = minIdleTimeout
	}
	p := &Player{
		guildID:     opts.GuildID,
		extractor:   opts.Extractor,
		store:       opts.Store,
		transport:   opts.Transport,
		log:         opts.Logger.With().Str("component", "player").Str("guild_id", opts.GuildID).Logger(),
		idleTimeout: idle,
		queue:       queue.New(opts.MaxQueueSize),
		volume:      clampVolume(opts.VolumePercent),
		trackEnd:    make(chan endEvent, endEventBuffer),
		done:        make(chan struct{}),
	}
	go p.completionLoop()
	return p
}

func clampVolume(percent int) float64 {
	if percent < 0 {
		percent = 0
	}
	if percent > 200 {
		percent = 200
	}
	return float64(percent) / 100
}

// GuildID returns the owning guild id.
func (p *Player) GuildID() string { return p.guildID }

// Observers. Each event has at most one registered listener. Callbacks run
// with the player's lock held and must not call back into the player.

// OnTrackStart registers the track-start listener.
func (p *Player) OnTrackStart(fn func(*track.Track)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTrackStart = fn
}

// OnTrackEnd registers the track-end listener.
func (p *Player) OnTrackEnd(fn func(*track.Track)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTrackEnd = fn
}

// OnQueueEnd registers the queue-exhausted listener.
func (p *Player) OnQueueEnd(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onQueueEnd = fn
}

// IsConnected reports whether a voice connection is present.
func (p *Player) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// IsPlaying reports whether audio is actively streaming (not paused).
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && !p.paused
}

// IsPaused reports whether playback is paused.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Current returns the track at the queue cursor.
func (p *Player) Current() *track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Current()
}

// Position returns the playback position in whole seconds.
func (p *Player) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() int {
	if p.playing && !p.paused {
		return p.posOffset + int(time.Since(p.startedAt).Seconds())
	}
	return p.posOffset
}

// Volume returns the volume as an integer percent, 0-200.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.volume * 100)
}

// SetVolume clamps to 0-200 and rescales any in-flight stream live.
func (p *Player) SetVolume(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(percent)
	if p.conn != nil {
		p.conn.SetVolume(p.volume)
	}
	p.saveStateLocked()
}

// Loop returns the queue loop mode.
func (p *Player) Loop() queue.LoopMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Loop()
}

// SetLoop sets the queue loop mode and persists.
func (p *Player) SetLoop(mode queue.LoopMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.SetLoop(mode)
	p.saveStateLocked()
}

// Connect joins the given voice channel. Idempotent when already connected to
// it; moves when connected elsewhere. On failure the player state is left
// exactly as it was.
func (p *Player) Connect(ctx context.Context, channelID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && p.conn.ChannelID() == channelID {
		return true
	}

	conn, err := p.transport.Connect(ctx, p.guildID, channelID)
	if err != nil {
		p.log.Error().Err(err).Str("channel_id", channelID).Msg("voice connect failed")
		return false
	}

	p.conn = conn
	p.lastActivity = time.Now()
	p.startWatchdogLocked()
	p.log.Info().Str("channel_id", channelID).Msg("connected to voice channel")
	return true
}

// Disconnect stops the watchdog, force-closes the connection and persists the
// queue state. Idempotent; close errors are logged, never returned.
func (p *Player) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnectLocked()
}

func (p *Player) disconnectLocked() {
	p.stopWatchdogLocked()
	p.stopStreamLocked()

	if p.conn != nil {
		if err := p.conn.Disconnect(); err != nil {
			p.log.Warn().Err(err).Msg("error disconnecting from voice")
		}
		p.conn = nil
	}
	p.playing = false
	p.paused = false
	p.saveStateLocked()
}

// Close shuts the player down for good: disconnects and stops the completion
// loop. The player must not be used afterwards.
func (p *Player) Close() {
	p.Disconnect()
	p.closeOnce.Do(func() { close(p.done) })
}

// Play starts or resumes playback. A supplied track is spliced in right after
// the current position, never replacing the queue. Returns false when not
// connected.
func (p *Player) Play(ctx context.Context, t *track.Track) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return false
	}

	if t != nil {
		p.queue.Insert(p.queue.CurrentIndex(), t)
		p.saveStateLocked()
	}

	if p.paused {
		p.conn.Resume()
		p.paused = false
		p.startedAt = time.Now()
		p.lastActivity = time.Now()
		return true
	}

	return p.playCurrentLocked(ctx, 0)
}

// playCurrentLocked is the continuation algorithm: refresh the current
// track's stream URL and start it. Tracks whose refresh fails are treated as
// unplayable and skipped; the loop is bounded so repeated failures drain the
// queue instead of retrying one track forever.
func (p *Player) playCurrentLocked(ctx context.Context, seekSeconds int) bool {
	for attempts := 0; attempts <= p.queue.Size(); attempts++ {
		t := p.queue.Current()
		if t == nil {
			p.queueEndedLocked()
			return false
		}
		if p.conn == nil {
			return false
		}

		url, err := p.extractor.StreamURL(ctx, t)
		if err != nil {
			p.log.Warn().Err(err).Str("title", t.Title).Msg("stream refresh failed, skipping track")
			if p.queue.Next() == nil {
				p.queueEndedLocked()
				return false
			}
			seekSeconds = 0
			continue
		}

		if p.startStreamLocked(t, url, seekSeconds) {
			return true
		}

		p.log.Warn().Str("title", t.Title).Msg("stream start failed, skipping track")
		if p.queue.Next() == nil {
			p.queueEndedLocked()
			return false
		}
		seekSeconds = 0
	}

	p.queueEndedLocked()
	return false
}

// startStreamLocked supersedes any in-flight stream and starts a new one at
// the given offset. Completions of the old stream carry a stale sequence
// number and are discarded.
func (p *Player) startStreamLocked(t *track.Track, streamURL string, seekSeconds int) bool {
	p.streamSeq++
	seq := p.streamSeq
	p.conn.Stop()

	err := p.conn.Play(streamURL, float64(seekSeconds), p.volume, func(err error) {
		p.deliverTrackEnd(seq, err)
	})
	if err != nil {
		p.log.Error().Err(err).Str("title", t.Title).Msg("transport play failed")
		return false
	}

	p.playing = true
	p.paused = false
	p.posOffset = seekSeconds
	p.startedAt = time.Now()
	p.lastActivity = time.Now()

	p.log.Info().Str("title", t.Title).Str("source", t.Source).Msg("now playing")
	if p.onTrackStart != nil {
		p.onTrackStart(t)
	}
	return true
}

func (p *Player) queueEndedLocked() {
	p.playing = false
	p.paused = false
	if p.onQueueEnd != nil {
		p.onQueueEnd()
	}
	p.saveStateLocked()
}

// deliverTrackEnd hands a completion from the transport goroutine to the
// player's own loop. This is the single cross-goroutine entry point.
func (p *Player) deliverTrackEnd(seq uint64, err error) {
	select {
	case p.trackEnd <- endEvent{seq: seq, err: err}:
	case <-p.done:
	}
}

func (p *Player) completionLoop() {
	for {
		select {
		case <-p.done:
			return
		case ev := <-p.trackEnd:
			p.handleTrackEnd(ev)
		}
	}
}

// handleTrackEnd runs the end-of-track callback: notify the observer, advance
// the queue and continue playback, or mark the queue ended.
func (p *Player) handleTrackEnd(ev endEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ev.seq != p.streamSeq {
		// A stream superseded by skip/seek/stop; its completion is stale.
		return
	}
	if ev.err != nil {
		p.log.Error().Err(ev.err).Msg("stream ended with error")
	}

	p.advanceLocked(context.Background())
}

// advanceLocked is the single advance-and-play routine shared by natural
// completion and explicit skip.
func (p *Player) advanceLocked(ctx context.Context) {
	if prev := p.queue.Current(); prev != nil && p.playing && p.onTrackEnd != nil {
		p.onTrackEnd(prev)
	}

	if p.queue.Next() == nil {
		p.stopStreamLocked()
		p.queueEndedLocked()
		return
	}
	p.playCurrentLocked(ctx, 0)
}

// Skip advances to the next track and returns the resulting current track,
// or nil when the queue is exhausted.
func (p *Player) Skip(ctx context.Context) *track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advanceLocked(ctx)
	if !p.playing {
		return nil
	}
	return p.queue.Current()
}

// Previous moves back one track and plays it. Returns the resulting track or
// nil when there is no previous track.
func (p *Player) Previous(ctx context.Context) *track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.queue.Previous()
	if t == nil {
		return nil
	}
	if p.conn != nil {
		p.playCurrentLocked(ctx, 0)
	}
	p.saveStateLocked()
	return p.queue.Current()
}

// Jump seeks the cursor to an absolute queue index and plays it. Out-of-range
// indexes return nil without mutation.
func (p *Player) Jump(ctx context.Context, index int) *track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.queue.Jump(index)
	if t == nil {
		return nil
	}
	if p.conn != nil {
		p.playCurrentLocked(ctx, 0)
	}
	p.saveStateLocked()
	return p.queue.Current()
}

// Pause pauses an actively streaming track. No-op returning false otherwise.
func (p *Player) Pause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || !p.playing || p.paused {
		return false
	}
	if !p.conn.Pause() {
		return false
	}
	p.posOffset = p.positionLocked()
	p.paused = true
	return true
}

// Resume resumes paused playback. No-op returning false otherwise.
func (p *Player) Resume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || !p.paused {
		return false
	}
	if !p.conn.Resume() {
		return false
	}
	p.paused = false
	p.startedAt = time.Now()
	p.lastActivity = time.Now()
	return true
}

// Stop halts the stream, clears the whole queue and persists the now-empty
// state.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopStreamLocked()
	p.queue.Clear()
	p.playing = false
	p.paused = false
	p.posOffset = 0
	p.saveStateLocked()
}

// stopStreamLocked halts any in-flight audio and invalidates its completion.
func (p *Player) stopStreamLocked() {
	p.streamSeq++
	if p.conn != nil {
		p.conn.Stop()
	}
}

// Seek restarts the current stream at the given offset. Rejects negative
// offsets and offsets at or past a known duration. This is a restart-based
// seek: it re-pays the stream-open latency.
func (p *Player) Seek(ctx context.Context, seconds int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.queue.Current()
	if t == nil || p.conn == nil {
		return false
	}
	if seconds < 0 || (t.Duration > 0 && seconds >= t.Duration) {
		return false
	}

	url, err := p.extractor.StreamURL(ctx, t)
	if err != nil {
		p.log.Warn().Err(err).Str("title", t.Title).Msg("stream refresh failed on seek")
		return false
	}
	return p.startStreamLocked(t, url, seconds)
}

// Queue mutation entry points. Each persists a best-effort snapshot.

// AddTrack appends a track; returns false when the queue is full.
func (p *Player) AddTrack(t *track.Track) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	ok := p.queue.Add(t)
	if ok {
		p.saveStateLocked()
	}
	return ok
}

// AddTracks appends as many tracks as fit and returns the accepted count.
func (p *Player) AddTracks(tracks []*track.Track) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.queue.AddMany(tracks)
	if n > 0 {
		p.saveStateLocked()
	}
	return n
}

// RemoveTrack removes the track at index, or nil for invalid indexes.
func (p *Player) RemoveTrack(index int) *track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.queue.Remove(index)
	if t != nil {
		p.saveStateLocked()
	}
	return t
}

// MoveTrack relocates a track within the queue.
func (p *Player) MoveTrack(from, to int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	ok := p.queue.Move(from, to)
	if ok {
		p.saveStateLocked()
	}
	return ok
}

// ClearUpcoming drops everything after the current track.
func (p *Player) ClearUpcoming() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.queue.ClearUpcoming()
	if n > 0 {
		p.saveStateLocked()
	}
	return n
}

// Shuffle permutes the upcoming tracks.
func (p *Player) Shuffle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.Shuffle()
	p.saveStateLocked()
}

// Tracks returns a copy of the queue contents.
func (p *Player) Tracks() []*track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Tracks()
}

// Upcoming returns a copy of the tracks after the cursor.
func (p *Player) Upcoming() []*track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Upcoming()
}

// History returns the recently played tracks.
func (p *Player) History() []*track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.History()
}

// QueueInfo returns a snapshot of queue size, cursor and total duration for
// display.
func (p *Player) QueueInfo() (size, currentIndex, totalSeconds int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Size(), p.queue.CurrentIndex(), p.queue.TotalDuration()
}

// Persistence.

// saveStateLocked snapshots under the lock and writes asynchronously.
// Last-writer-wins is acceptable for queue snapshots.
func (p *Player) saveStateLocked() {
	if p.store == nil {
		return
	}
	st := p.queue.GetState()
	snap := storagetypes.QueueSnapshot{
		Tracks:       st.Tracks,
		CurrentIndex: st.CurrentIndex,
		LoopMode:     string(st.LoopMode),
		Volume:       int(p.volume * 100),
	}
	go func() {
		if err := p.store.SaveQueue(p.guildID, snap); err != nil {
			p.log.Warn().Err(err).Msg("failed to save queue state")
		}
	}()
}

// RestoreState loads the persisted queue once at startup. Restored tracks
// carry no stream URL; the first playback re-resolves it.
func (p *Player) RestoreState() bool {
	if p.store == nil {
		return false
	}
	snap, err := p.store.LoadQueue(p.guildID)
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to load queue state")
		return false
	}
	if snap == nil {
		return false
	}

	tracks := make([]*track.Track, 0, len(snap.Tracks))
	for _, t := range snap.Tracks {
		tracks = append(tracks, t.Restored())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.RestoreState(tracks, snap.CurrentIndex, queue.ParseLoopMode(snap.LoopMode))
	p.volume = clampVolume(snap.Volume)
	p.log.Info().Int("tracks", len(tracks)).Msg("restored queue state")
	return true
}

// ClearStoredState wipes the guild's persisted queue, e.g. on guild removal.
func (p *Player) ClearStoredState() {
	if p.store == nil {
		return
	}
	if err := p.store.ClearGuildQueue(p.guildID); err != nil {
		p.log.Warn().Err(err).Msg("failed to clear stored queue")
	}
}

// Inactivity watchdog. Exactly one instance is alive per connected player;
// reconnecting restarts it.

func (p *Player) startWatchdogLocked() {
	p.stopWatchdogLocked()
	ctx, cancel := context.WithCancel(context.Background())
	p.watchdogCancel = cancel
	go p.watchdog(ctx)
}

func (p *Player) stopWatchdogLocked() {
	if p.watchdogCancel != nil {
		p.watchdogCancel()
		p.watchdogCancel = nil
	}
}

func (p *Player) watchdog(ctx context.Context) {
	ticker := time.NewTicker(watchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.conn == nil {
				p.mu.Unlock()
				return
			}
			if p.playing && !p.paused {
				p.lastActivity = time.Now()
				p.mu.Unlock()
				continue
			}
			idle := time.Since(p.lastActivity)
			if idle < p.idleTimeout {
				p.mu.Unlock()
				continue
			}
			p.log.Info().Dur("idle", idle).Msg("disconnecting due to inactivity")
			p.disconnectLocked()
			p.mu.Unlock()
			return
		}
	}
}
