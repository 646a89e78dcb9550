package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senkoslav/discord-bot/internal/music/track"
	"github.com/Senkoslav/discord-bot/internal/storagetypes"
)

// --- fakes ---

type fakeExtractor struct {
	mu    sync.Mutex
	fail  map[string]bool // track URLs whose refresh fails
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, query, requesterID, requesterName string) []*track.Track {
	return nil
}

func (f *fakeExtractor) StreamURL(ctx context.Context, t *track.Track) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[t.URL] {
		return "", errors.New("refresh failed")
	}
	return "stream://" + t.URL, nil
}

type fakeStore struct {
	mu      sync.Mutex
	saved   []storagetypes.QueueSnapshot
	load    *storagetypes.QueueSnapshot
	cleared []string
}

func (f *fakeStore) SaveQueue(guildID string, snap storagetypes.QueueSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeStore) LoadQueue(guildID string) (*storagetypes.QueueSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load, nil
}

func (f *fakeStore) ClearGuildQueue(guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, guildID)
	return nil
}

func (f *fakeStore) lastSaved() *storagetypes.QueueSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	snap := f.saved[len(f.saved)-1]
	return &snap
}

type fakeTransport struct {
	mu       sync.Mutex
	connects int
	failNext bool
	conn     *fakeConn
}

func (f *fakeTransport) Connect(ctx context.Context, guildID, channelID string) (Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.failNext {
		return nil, errors.New("voice gateway unreachable")
	}
	f.conn = &fakeConn{channelID: channelID}
	return f.conn, nil
}

type playCall struct {
	streamURL  string
	seek       float64
	volume     float64
	onComplete func(error)
}

type fakeConn struct {
	mu        sync.Mutex
	channelID string
	plays     []playCall
	stops     int
	volume    float64
	playErr   error
}

func (f *fakeConn) ChannelID() string { f.mu.Lock(); defer f.mu.Unlock(); return f.channelID }

func (f *fakeConn) Play(streamURL string, seekSeconds, volume float64, onComplete func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.plays = append(f.plays, playCall{streamURL, seekSeconds, volume, onComplete})
	return nil
}

func (f *fakeConn) Pause() bool           { return true }
func (f *fakeConn) Resume() bool          { return true }
func (f *fakeConn) SetVolume(vol float64) { f.mu.Lock(); f.volume = vol; f.mu.Unlock() }
func (f *fakeConn) Stop()                 { f.mu.Lock(); f.stops++; f.mu.Unlock() }
func (f *fakeConn) Disconnect() error     { return nil }

func (f *fakeConn) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays)
}

func (f *fakeConn) play(i int) playCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays[i]
}

// --- helpers ---

func newTestPlayer(t *testing.T) (*Player, *fakeExtractor, *fakeStore, *fakeTransport) {
	t.Helper()
	ext := &fakeExtractor{fail: make(map[string]bool)}
	store := &fakeStore{}
	transport := &fakeTransport{}
	p := New(Options{
		GuildID:       "guild-1",
		VolumePercent: 100,
		Extractor:     ext,
		Store:         store,
		Transport:     transport,
		Logger:        zerolog.Nop(),
	})
	t.Cleanup(p.Close)
	return p, ext, store, transport
}

func connected(t *testing.T, p *Player) {
	t.Helper()
	require.True(t, p.Connect(context.Background(), "vc-1"))
}

func tr(title string) *track.Track {
	return &track.Track{URL: title, Title: title, Duration: 180, Source: track.SourceYouTube}
}

// --- tests ---

func TestPlayNotConnected(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)

	assert.False(t, p.Play(context.Background(), tr("A")))
	size, _, _ := p.QueueInfo()
	assert.Equal(t, 0, size)
}

func TestConnectIdempotentSameChannel(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)
	require.True(t, p.Connect(context.Background(), "vc-1"))

	assert.Equal(t, 1, transport.connects)
	assert.True(t, p.IsConnected())
}

func TestConnectFailureLeavesStateUnchanged(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	transport.failNext = true

	assert.False(t, p.Connect(context.Background(), "vc-1"))
	assert.False(t, p.IsConnected())
}

func TestPlayStartsCurrentTrack(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	require.True(t, p.AddTrack(tr("A")))
	require.True(t, p.Play(context.Background(), nil))

	assert.True(t, p.IsPlaying())
	require.Equal(t, 1, transport.conn.playCount())
	assert.Equal(t, "stream://A", transport.conn.play(0).streamURL)
	assert.Equal(t, 1.0, transport.conn.play(0).volume)
}

func TestPlaySplicesAfterCurrent(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	connected(t, p)

	p.AddTrack(tr("A"))
	p.AddTrack(tr("B"))
	require.True(t, p.Play(context.Background(), nil))

	require.True(t, p.Play(context.Background(), tr("X")))

	got := p.Tracks()
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "X", got[1].Title)
	assert.Equal(t, "B", got[2].Title)
}

func TestPauseResumeComplementaryStates(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	connected(t, p)

	// Nothing streaming yet.
	assert.False(t, p.Pause())
	assert.False(t, p.Resume())

	p.AddTrack(tr("A"))
	require.True(t, p.Play(context.Background(), nil))

	assert.True(t, p.Pause())
	assert.False(t, p.Pause())
	assert.True(t, p.IsPaused())
	assert.False(t, p.IsPlaying())

	assert.True(t, p.Resume())
	assert.False(t, p.Resume())
	assert.True(t, p.IsPlaying())
}

func TestPlayResumesWhenPaused(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	p.AddTrack(tr("A"))
	require.True(t, p.Play(context.Background(), nil))
	require.True(t, p.Pause())

	require.True(t, p.Play(context.Background(), nil))
	assert.True(t, p.IsPlaying())
	// Resumed in place, no second stream started.
	assert.Equal(t, 1, transport.conn.playCount())
}

func TestSkipAdvancesAndPlays(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	p.AddTrack(tr("A"))
	p.AddTrack(tr("B"))
	require.True(t, p.Play(context.Background(), nil))

	next := p.Skip(context.Background())
	require.NotNil(t, next)
	assert.Equal(t, "B", next.Title)
	assert.Equal(t, 2, transport.conn.playCount())

	// Queue exhausted.
	assert.Nil(t, p.Skip(context.Background()))
	assert.False(t, p.IsPlaying())
}

func TestNaturalCompletionAdvances(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	p.AddTrack(tr("A"))
	p.AddTrack(tr("B"))
	require.True(t, p.Play(context.Background(), nil))

	transport.conn.play(0).onComplete(nil)

	require.Eventually(t, func() bool {
		cur := p.Current()
		return cur != nil && cur.Title == "B" && transport.conn.playCount() == 2
	}, time.Second, 5*time.Millisecond)
	assert.True(t, p.IsPlaying())
}

func TestStaleCompletionIgnored(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	p.AddTrack(tr("A"))
	p.AddTrack(tr("B"))
	p.AddTrack(tr("C"))
	require.True(t, p.Play(context.Background(), nil))

	first := transport.conn.play(0)
	require.NotNil(t, p.Skip(context.Background())) // now on B

	// Completion of the superseded stream for A must not advance again.
	first.onComplete(nil)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "B", p.Current().Title)
	assert.Equal(t, 2, transport.conn.playCount())
}

func TestQueueEndFiresObserverAndStops(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	var mu sync.Mutex
	var ended []string
	queueEnded := false
	p.OnTrackEnd(func(tk *track.Track) {
		mu.Lock()
		ended = append(ended, tk.Title)
		mu.Unlock()
	})
	p.OnQueueEnd(func() {
		mu.Lock()
		queueEnded = true
		mu.Unlock()
	})

	p.AddTrack(tr("A"))
	require.True(t, p.Play(context.Background(), nil))

	transport.conn.play(0).onComplete(nil)

	require.Eventually(t, func() bool {
		return !p.IsPlaying()
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"A"}, ended)
	assert.True(t, queueEnded)
}

func TestRefreshFailuresDrainQueue(t *testing.T) {
	p, ext, _, _ := newTestPlayer(t)
	connected(t, p)

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("bad%d", i)
		ext.fail[name] = true
		p.AddTrack(tr(name))
	}

	assert.False(t, p.Play(context.Background(), nil))
	assert.False(t, p.IsPlaying())
}

func TestRefreshFailureSkipsToPlayableTrack(t *testing.T) {
	p, ext, _, transport := newTestPlayer(t)
	connected(t, p)

	ext.fail["bad"] = true
	p.AddTrack(tr("bad"))
	p.AddTrack(tr("good"))

	require.True(t, p.Play(context.Background(), nil))
	assert.Equal(t, "good", p.Current().Title)
	assert.Equal(t, "stream://good", transport.conn.play(0).streamURL)
}

func TestSeekBounds(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	p.AddTrack(tr("A")) // 180s
	require.True(t, p.Play(context.Background(), nil))

	assert.False(t, p.Seek(context.Background(), -5))
	assert.False(t, p.Seek(context.Background(), 180))
	assert.False(t, p.Seek(context.Background(), 500))
	assert.Equal(t, 1, transport.conn.playCount())

	require.True(t, p.Seek(context.Background(), 60))
	require.Equal(t, 2, transport.conn.playCount())
	assert.Equal(t, 60.0, transport.conn.play(1).seek)
	assert.Equal(t, 60, p.Position())
}

func TestSeekOnLiveTrackAllowsAnyPositiveOffset(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	connected(t, p)

	live := &track.Track{URL: "L", Title: "L", Duration: 0}
	p.AddTrack(live)
	require.True(t, p.Play(context.Background(), nil))

	assert.True(t, p.Seek(context.Background(), 9999))
}

func TestVolumeClampAndLiveRescale(t *testing.T) {
	p, _, _, transport := newTestPlayer(t)
	connected(t, p)

	p.SetVolume(300)
	assert.Equal(t, 200, p.Volume())
	assert.Equal(t, 2.0, transport.conn.volume)

	p.SetVolume(-10)
	assert.Equal(t, 0, p.Volume())
}

func TestStopClearsQueueAndPersists(t *testing.T) {
	p, _, store, _ := newTestPlayer(t)
	connected(t, p)

	p.AddTrack(tr("A"))
	p.AddTrack(tr("B"))
	require.True(t, p.Play(context.Background(), nil))

	p.Stop()

	size, _, _ := p.QueueInfo()
	assert.Equal(t, 0, size)
	assert.False(t, p.IsPlaying())

	require.Eventually(t, func() bool {
		snap := store.lastSaved()
		return snap != nil && len(snap.Tracks) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestQueueMutationsPersist(t *testing.T) {
	p, _, store, _ := newTestPlayer(t)

	p.AddTrack(tr("A"))
	p.AddTrack(tr("B"))

	require.Eventually(t, func() bool {
		snap := store.lastSaved()
		return snap != nil && len(snap.Tracks) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRestoreState(t *testing.T) {
	ext := &fakeExtractor{fail: make(map[string]bool)}
	store := &fakeStore{load: &storagetypes.QueueSnapshot{
		Tracks: []*track.Track{
			{URL: "A", Title: "A", Duration: 100, StreamURL: "stale://A"},
			{URL: "B", Title: "B", Duration: 200},
		},
		CurrentIndex: 1,
		LoopMode:     "all",
		Volume:       150,
	}}
	p := New(Options{
		GuildID:   "guild-1",
		Extractor: ext,
		Store:     store,
		Transport: &fakeTransport{},
		Logger:    zerolog.Nop(),
	})
	defer p.Close()

	require.True(t, p.RestoreState())

	tracks := p.Tracks()
	require.Len(t, tracks, 2)
	assert.Empty(t, tracks[0].StreamURL)
	assert.Equal(t, "B", p.Current().Title)
	assert.Equal(t, 150, p.Volume())
	assert.Equal(t, "all", string(p.Loop()))
}

func TestRestoreStateEmptyStore(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	assert.False(t, p.RestoreState())
}

func TestDisconnectIdempotent(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	connected(t, p)

	p.Disconnect()
	p.Disconnect()

	assert.False(t, p.IsConnected())
	assert.False(t, p.IsPlaying())
}
