package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senkoslav/discord-bot/internal/music/track"
)

func makeTrack(title string, duration int) *track.Track {
	return &track.Track{
		URL:      "https://example.com/" + title,
		Title:    title,
		Duration: duration,
		Source:   track.SourceYouTube,
	}
}

func makeQueue(t *testing.T, titles ...string) *Queue {
	t.Helper()
	q := New(0)
	for _, title := range titles {
		require.True(t, q.Add(makeTrack(title, 100)))
	}
	return q
}

func titles(tracks []*track.Track) []string {
	out := make([]string, len(tracks))
	for i, tr := range tracks {
		out[i] = tr.Title
	}
	return out
}

func TestAddRespectsCapacity(t *testing.T) {
	q := New(2)
	assert.True(t, q.Add(makeTrack("a", 10)))
	assert.True(t, q.Add(makeTrack("b", 10)))
	assert.False(t, q.Add(makeTrack("c", 10)))
	assert.Equal(t, 2, q.Size())
}

func TestAddManyAcceptsPrefixOnNearFullQueue(t *testing.T) {
	q := New(3)
	require.True(t, q.Add(makeTrack("a", 10)))

	batch := []*track.Track{makeTrack("b", 10), makeTrack("c", 10), makeTrack("d", 10)}
	added := q.AddMany(batch)

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"a", "b", "c"}, titles(q.Tracks()))

	assert.Equal(t, 0, q.AddMany(batch))
}

func TestNextLoopOff(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")

	next := q.Next()
	require.NotNil(t, next)
	assert.Equal(t, "B", next.Title)

	next = q.Next()
	require.NotNil(t, next)
	assert.Equal(t, "C", next.Title)

	// Exhausted: nil, cursor stays on C.
	assert.Nil(t, q.Next())
	assert.Equal(t, 2, q.CurrentIndex())
	assert.Equal(t, "C", q.Current().Title)
}

func TestNextLoopOneNeverAdvances(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.SetLoop(LoopOne)

	for i := 0; i < 5; i++ {
		next := q.Next()
		require.NotNil(t, next)
		assert.Equal(t, "A", next.Title)
		assert.Equal(t, 0, q.CurrentIndex())
	}
}

func TestNextLoopAllWrapsToStart(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.SetLoop(LoopAll)

	var seen []string
	for i := 0; i < 4; i++ {
		next := q.Next()
		require.NotNil(t, next)
		seen = append(seen, next.Title)
	}
	assert.Equal(t, []string{"B", "C", "A", "B"}, seen)
}

func TestNextRecordsHistory(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.Next()
	q.Next()

	assert.Equal(t, []string{"A", "B"}, titles(q.History()))
}

func TestHistoryBounded(t *testing.T) {
	q := New(200)
	q.SetLoop(LoopAll)
	for i := 0; i < 60; i++ {
		require.True(t, q.Add(makeTrack(fmt.Sprintf("t%d", i), 10)))
	}
	for i := 0; i < 120; i++ {
		require.NotNil(t, q.Next())
	}
	assert.Len(t, q.History(), historyLimit)
}

func TestPrevious(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.Next()
	q.Next()

	prev := q.Previous()
	require.NotNil(t, prev)
	assert.Equal(t, "B", prev.Title)

	q.Previous()
	assert.Nil(t, q.Previous())
	assert.Equal(t, 0, q.CurrentIndex())
}

func TestPreviousWrapsUnderLoopAll(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.SetLoop(LoopAll)

	prev := q.Previous()
	require.NotNil(t, prev)
	assert.Equal(t, "C", prev.Title)
	assert.Equal(t, 2, q.CurrentIndex())
}

func TestJump(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")

	got := q.Jump(2)
	require.NotNil(t, got)
	assert.Equal(t, "C", got.Title)

	assert.Nil(t, q.Jump(3))
	assert.Nil(t, q.Jump(-1))
	assert.Equal(t, 2, q.CurrentIndex())
}

func TestInsertNeverLandsBeforeCursor(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.Next() // cursor on B

	require.True(t, q.Insert(0, makeTrack("X", 10)))
	assert.Equal(t, []string{"A", "B", "X", "C"}, titles(q.Tracks()))
	assert.Equal(t, "B", q.Current().Title)
}

func TestInsertIntoEmptyQueue(t *testing.T) {
	q := New(0)
	require.True(t, q.Insert(5, makeTrack("A", 10)))
	assert.Equal(t, "A", q.Current().Title)
}

func TestRemoveBeforeCursorReHomesIt(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.Next() // cursor on B (index 1)

	removed := q.Remove(0)
	require.NotNil(t, removed)
	assert.Equal(t, "A", removed.Title)
	assert.Equal(t, 0, q.CurrentIndex())
	assert.Equal(t, []string{"B", "C"}, titles(q.Tracks()))
	assert.Equal(t, "B", q.Current().Title)
}

func TestRemoveLastTrackAtCursor(t *testing.T) {
	q := makeQueue(t, "A", "B")
	q.Next() // cursor on B

	removed := q.Remove(1)
	require.NotNil(t, removed)
	assert.Equal(t, 0, q.CurrentIndex())
	assert.Equal(t, "A", q.Current().Title)
}

func TestRemoveInvalidIndex(t *testing.T) {
	q := makeQueue(t, "A")
	assert.Nil(t, q.Remove(-1))
	assert.Nil(t, q.Remove(1))
	assert.Equal(t, 1, q.Size())
}

func TestCursorAlwaysInBounds(t *testing.T) {
	q := New(10)
	ops := []func(){
		func() { q.Add(makeTrack("a", 1)) },
		func() { q.Add(makeTrack("b", 1)) },
		func() { q.Next() },
		func() { q.Insert(0, makeTrack("c", 1)) },
		func() { q.Remove(0) },
		func() { q.Remove(0) },
		func() { q.Add(makeTrack("d", 1)) },
		func() { q.Next() },
		func() { q.Remove(q.Size() - 1) },
	}
	for _, op := range ops {
		op()
		if q.Size() > 0 {
			assert.GreaterOrEqual(t, q.CurrentIndex(), 0)
			assert.Less(t, q.CurrentIndex(), q.Size())
		}
	}
}

func TestShuffleKeepsPlayedPrefix(t *testing.T) {
	q := New(0)
	for i := 0; i < 20; i++ {
		require.True(t, q.Add(makeTrack(fmt.Sprintf("t%d", i), 10)))
	}
	q.Next()
	q.Next() // cursor at index 2

	before := titles(q.Tracks())
	q.Shuffle()
	after := titles(q.Tracks())

	assert.Equal(t, before[:3], after[:3])
	assert.ElementsMatch(t, before[3:], after[3:])
}

func TestShuffleEmptyAndClearedQueue(t *testing.T) {
	q := New(0)
	assert.NotPanics(t, func() { q.Shuffle() })

	q = makeQueue(t, "A", "B", "C")
	q.Clear()
	assert.NotPanics(t, func() { q.Shuffle() })
	assert.Equal(t, 0, q.Size())

	// single track, nothing upcoming
	require.True(t, q.Add(makeTrack("A", 10)))
	assert.NotPanics(t, func() { q.Shuffle() })
	assert.Equal(t, []string{"A"}, titles(q.Tracks()))
}

func TestClearUpcoming(t *testing.T) {
	q := makeQueue(t, "A", "B", "C", "D")
	q.Next() // cursor on B

	assert.Equal(t, 2, q.ClearUpcoming())
	assert.Equal(t, []string{"A", "B"}, titles(q.Tracks()))
	assert.Equal(t, "B", q.Current().Title)
	assert.Equal(t, 0, q.ClearUpcoming())
}

func TestMoveAdjustsCursor(t *testing.T) {
	t.Run("moving the current track follows it", func(t *testing.T) {
		q := makeQueue(t, "A", "B", "C")
		q.Next() // cursor on B
		require.True(t, q.Move(1, 2))
		assert.Equal(t, "B", q.Current().Title)
		assert.Equal(t, 2, q.CurrentIndex())
	})

	t.Run("moving a track across the cursor shifts it", func(t *testing.T) {
		q := makeQueue(t, "A", "B", "C")
		q.Next() // cursor on B
		require.True(t, q.Move(0, 2))
		assert.Equal(t, "B", q.Current().Title)
		assert.Equal(t, 0, q.CurrentIndex())
	})

	t.Run("out of range", func(t *testing.T) {
		q := makeQueue(t, "A", "B")
		assert.False(t, q.Move(0, 5))
		assert.False(t, q.Move(-1, 0))
	})
}

func TestStateRoundTrip(t *testing.T) {
	q := makeQueue(t, "A", "B", "C")
	q.SetLoop(LoopAll)
	q.Next()

	state := q.GetState()

	restored := New(0)
	restored.RestoreState(state.Tracks, state.CurrentIndex, state.LoopMode)

	assert.Equal(t, titles(q.Tracks()), titles(restored.Tracks()))
	assert.Equal(t, q.CurrentIndex(), restored.CurrentIndex())
	assert.Equal(t, q.Loop(), restored.Loop())
}

func TestRestoreStateClampsCursor(t *testing.T) {
	q := New(0)
	q.RestoreState([]*track.Track{makeTrack("A", 10)}, 7, LoopOff)
	assert.Equal(t, 0, q.CurrentIndex())

	q.RestoreState(nil, 3, LoopOff)
	assert.Equal(t, 0, q.CurrentIndex())
	assert.True(t, q.IsEmpty())
}

func TestParseLoopMode(t *testing.T) {
	assert.Equal(t, LoopOne, ParseLoopMode("one"))
	assert.Equal(t, LoopAll, ParseLoopMode("all"))
	assert.Equal(t, LoopOff, ParseLoopMode("off"))
	assert.Equal(t, LoopOff, ParseLoopMode("bogus"))
}

func TestTotalDuration(t *testing.T) {
	q := New(0)
	q.Add(makeTrack("a", 180))
	q.Add(makeTrack("b", 200))
	assert.Equal(t, 380, q.TotalDuration())
}
