package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_ProducesValidULIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[ID]bool)
	for range 100 {
		id := New()
		require.False(t, id.IsZero())

		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)

		require.False(t, seen[id], "duplicate id generated")
		seen[id] = true
	}
}

func TestNewAt_EmbedsTimestamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)

	require.WithinDuration(t, at, id.Time(), time.Millisecond)
}

func TestParse_RejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "   ", "not-a-ulid", "0123456789"} {
		_, err := Parse(s)
		require.ErrorIs(t, err, ErrInvalid)
	}
}

func TestIDs_SortByTime(t *testing.T) {
	t.Parallel()

	earlier := NewAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	later := NewAt(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	require.Less(t, earlier.String(), later.String())
}
