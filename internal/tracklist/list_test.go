package tracklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDefaultsToDisabled(t *testing.T) {
	l := New()
	l.Add(Entry{ID: "1", Label: "English"})
	l.Add(Entry{ID: "2", Mode: ModeHidden})
	l.Add(Entry{ID: "1", Label: "duplicate"})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, ModeDisabled, entries[0].Mode)
	assert.Equal(t, "English", entries[0].Label)
	assert.Equal(t, ModeHidden, entries[1].Mode)
	assert.Equal(t, []string{"1", "2"}, l.IDs())
}

func TestSetModeReportsChange(t *testing.T) {
	l := New()
	l.Add(Entry{ID: "1"})

	assert.True(t, l.SetMode("1", ModeShowing))
	assert.False(t, l.SetMode("1", ModeShowing))
	assert.False(t, l.SetMode("missing", ModeShowing))

	id, ok := l.Showing()
	require.True(t, ok)
	assert.Equal(t, "1", id)

	l.SetMode("1", ModeDisabled)
	_, ok = l.Showing()
	assert.False(t, ok)
}

func TestDispatchChange(t *testing.T) {
	l := New()
	calls := 0
	l.OnChange(func() { calls++ })
	l.OnChange(func() { calls += 10 })

	l.DispatchChange()
	assert.Equal(t, 11, calls)
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := New()
	l.Add(Entry{ID: "1"})
	entries := l.Entries()
	entries[0].Mode = ModeShowing

	_, ok := l.Showing()
	assert.False(t, ok)
}
