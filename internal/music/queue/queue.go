// Package queue implements the guild-scoped playback queue: an ordered track
// list with a current-position cursor, loop mode, shuffle and a bounded
// history of recently played tracks.
//
// A Queue is not safe for concurrent use. The owning player serializes all
// access behind its own lock.
package queue

import (
	"math/rand"

	"github.com/Senkoslav/discord-bot/internal/music/track"
)

// LoopMode controls what happens when the current track finishes.
type LoopMode string

const (
	LoopOff LoopMode = "off"
	LoopOne LoopMode = "one" // repeat current track
	LoopAll LoopMode = "all" // repeat entire queue
)

// ParseLoopMode maps a stored string to a LoopMode, defaulting to off.
func ParseLoopMode(s string) LoopMode {
	switch LoopMode(s) {
	case LoopOne:
		return LoopOne
	case LoopAll:
		return LoopAll
	default:
		return LoopOff
	}
}

const (
	// DefaultMaxSize bounds the queue when no explicit capacity is given.
	DefaultMaxSize = 500

	historyLimit = 50
)

// Queue is an ordered, capacity-bounded track list with a playback cursor.
// The cursor is index-based rather than a track reference: the same track may
// be queued twice, and state round-trips through plain serialized data.
type Queue struct {
	tracks  []*track.Track
	current int
	loop    LoopMode
	maxSize int
	history []*track.Track
}

// State is a full snapshot of the queue for persistence.
type State struct {
	Tracks       []*track.Track
	CurrentIndex int
	LoopMode     LoopMode
}

// New creates an empty queue. maxSize <= 0 selects DefaultMaxSize.
func New(maxSize int) *Queue {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Queue{maxSize: maxSize}
}

// Size returns the number of tracks in the queue.
func (q *Queue) Size() int { return len(q.tracks) }

// IsEmpty reports whether the queue has no tracks.
func (q *Queue) IsEmpty() bool { return len(q.tracks) == 0 }

// Current returns the track at the cursor, or nil when the queue is empty.
func (q *Queue) Current() *track.Track {
	if q.current >= 0 && q.current < len(q.tracks) {
		return q.tracks[q.current]
	}
	return nil
}

// CurrentIndex returns the cursor position. Meaningless when the queue is empty.
func (q *Queue) CurrentIndex() int { return q.current }

// Loop returns the loop mode.
func (q *Queue) Loop() LoopMode { return q.loop }

// SetLoop sets the loop mode.
func (q *Queue) SetLoop(mode LoopMode) { q.loop = mode }

// Tracks returns a copy of the track list.
func (q *Queue) Tracks() []*track.Track {
	out := make([]*track.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Upcoming returns a copy of the tracks strictly after the cursor.
func (q *Queue) Upcoming() []*track.Track {
	if q.current+1 >= len(q.tracks) {
		return nil
	}
	out := make([]*track.Track, len(q.tracks)-q.current-1)
	copy(out, q.tracks[q.current+1:])
	return out
}

// History returns a copy of the recently played tracks, oldest first.
func (q *Queue) History() []*track.Track {
	out := make([]*track.Track, len(q.history))
	copy(out, q.history)
	return out
}

// TotalDuration returns the summed duration of all tracks in seconds.
func (q *Queue) TotalDuration() int {
	var total int
	for _, t := range q.tracks {
		total += t.Duration
	}
	return total
}

// Add appends a track at the tail. Returns false without mutation when the
// queue is at capacity.
func (q *Queue) Add(t *track.Track) bool {
	if len(q.tracks) >= q.maxSize {
		return false
	}
	q.tracks = append(q.tracks, t)
	return true
}

// AddMany appends as many tracks as fit, taking a prefix of the input.
// Returns the number actually accepted; a full queue is not an error.
func (q *Queue) AddMany(tracks []*track.Track) int {
	available := q.maxSize - len(q.tracks)
	if available <= 0 {
		return 0
	}
	if len(tracks) > available {
		tracks = tracks[:available]
	}
	q.tracks = append(q.tracks, tracks...)
	return len(tracks)
}

// Insert places a track at index, clamped so it never lands at or before the
// cursor. Returns false when the queue is at capacity.
func (q *Queue) Insert(index int, t *track.Track) bool {
	if len(q.tracks) >= q.maxSize {
		return false
	}
	if index > len(q.tracks) {
		index = len(q.tracks)
	}
	if index < q.current+1 {
		index = q.current + 1
	}
	if index > len(q.tracks) {
		index = len(q.tracks)
	}
	q.tracks = append(q.tracks, nil)
	copy(q.tracks[index+1:], q.tracks[index:])
	q.tracks[index] = t
	return true
}

// Remove deletes the track at index, re-homing the cursor so it keeps
// pointing at the same logical track. Invalid indexes return nil without
// mutation.
func (q *Queue) Remove(index int) *track.Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	t := q.tracks[index]
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)

	if index < q.current {
		q.current--
	} else if index == q.current && q.current >= len(q.tracks) {
		q.current = len(q.tracks) - 1
		if q.current < 0 {
			q.current = 0
		}
	}
	return t
}

// Clear empties the queue and resets the cursor.
func (q *Queue) Clear() {
	q.tracks = nil
	q.current = 0
}

// ClearUpcoming drops everything strictly after the cursor and returns how
// many tracks were removed. The current track and history are untouched.
func (q *Queue) ClearUpcoming() int {
	if q.current+1 >= len(q.tracks) {
		return 0
	}
	removed := len(q.tracks) - q.current - 1
	q.tracks = q.tracks[:q.current+1]
	return removed
}

// Next advances the cursor according to the loop mode and returns the new
// current track. When the queue is exhausted it returns nil and leaves the
// cursor unchanged; the caller decides how to react.
func (q *Queue) Next() *track.Track {
	if q.IsEmpty() {
		return nil
	}

	if cur := q.Current(); cur != nil {
		q.history = append(q.history, cur)
		if len(q.history) > historyLimit {
			q.history = q.history[1:]
		}
	}

	if q.loop == LoopOne {
		return q.Current()
	}

	if q.current+1 < len(q.tracks) {
		q.current++
		return q.Current()
	}

	if q.loop == LoopAll {
		q.current = 0
		return q.Current()
	}

	return nil
}

// Previous moves the cursor back one track, wrapping to the last index under
// LoopAll. Returns nil when there is nowhere to go.
func (q *Queue) Previous() *track.Track {
	if q.current > 0 {
		q.current--
		return q.Current()
	}
	if q.loop == LoopAll && len(q.tracks) > 0 {
		q.current = len(q.tracks) - 1
		return q.Current()
	}
	return nil
}

// Jump moves the cursor to an absolute index. Out-of-range indexes return nil
// without mutation.
func (q *Queue) Jump(index int) *track.Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.current = index
	return q.Current()
}

// Shuffle permutes the tracks strictly after the cursor in place. The current
// track and everything before it is untouched.
func (q *Queue) Shuffle() {
	if q.current+1 >= len(q.tracks) {
		return
	}
	upcoming := q.tracks[q.current+1:]
	if len(upcoming) < 2 {
		return
	}
	rand.Shuffle(len(upcoming), func(i, j int) {
		upcoming[i], upcoming[j] = upcoming[j], upcoming[i]
	})
}

// Move relocates one track, adjusting the cursor so it keeps pointing at the
// same logical track. Returns false for out-of-range indexes.
func (q *Queue) Move(from, to int) bool {
	if from < 0 || from >= len(q.tracks) || to < 0 || to >= len(q.tracks) {
		return false
	}
	t := q.tracks[from]
	q.tracks = append(q.tracks[:from], q.tracks[from+1:]...)
	q.tracks = append(q.tracks[:to], append([]*track.Track{t}, q.tracks[to:]...)...)

	switch {
	case from == q.current:
		q.current = to
	case from < q.current && q.current <= to:
		q.current--
	case to <= q.current && q.current < from:
		q.current++
	}
	return true
}

// GetState snapshots the queue for persistence.
func (q *Queue) GetState() State {
	return State{
		Tracks:       q.Tracks(),
		CurrentIndex: q.current,
		LoopMode:     q.loop,
	}
}

// RestoreState replaces the queue contents wholesale, clamping the cursor
// into bounds for the given track count.
func (q *Queue) RestoreState(tracks []*track.Track, currentIndex int, loop LoopMode) {
	if len(tracks) > q.maxSize {
		tracks = tracks[:q.maxSize]
	}
	q.tracks = tracks
	q.loop = loop

	max := len(tracks) - 1
	if max < 0 {
		max = 0
	}
	if currentIndex < 0 {
		currentIndex = 0
	}
	if currentIndex > max {
		currentIndex = max
	}
	q.current = currentIndex
}
