package polls

import (
	"database/sql"
	"testing"
	"time"

	"github.com/autowp/gopolls/schema"
	"github.com/stretchr/testify/require"
)

func question(publishAt time.Time, endAt *time.Time) *Question {
	row := schema.QuestionRow{
		ID:        1,
		Text:      "Question",
		PublishAt: publishAt,
	}

	if endAt != nil {
		row.EndAt = sql.NullTime{Time: *endAt, Valid: true}
	}

	return &Question{QuestionRow: row}
}

func TestIsPublished(t *testing.T) {
	t.Parallel()

	now := time.Now()

	require.True(t, question(now.Add(-time.Hour), nil).IsPublished(now))
	require.True(t, question(now, nil).IsPublished(now))
	require.False(t, question(now.Add(time.Hour), nil).IsPublished(now))
}

func TestWasPublishedRecently(t *testing.T) {
	t.Parallel()

	now := time.Now()

	require.True(t, question(now.Add(-time.Hour), nil).WasPublishedRecently(now))
	require.False(t, question(now.Add(-48*time.Hour), nil).WasPublishedRecently(now))

	// both window boundaries are inclusive
	require.True(t, question(now.Add(-RecentlyPublishedWindow), nil).WasPublishedRecently(now))
	require.True(t, question(now, nil).WasPublishedRecently(now))

	// a future-dated question is not "recent"
	require.False(t, question(now.Add(time.Minute), nil).WasPublishedRecently(now))
}

func TestCanVoteWithoutEndDateEqualsIsPublished(t *testing.T) {
	t.Parallel()

	now := time.Now()

	for _, offset := range []time.Duration{-48 * time.Hour, -time.Hour, 0, time.Hour, 48 * time.Hour} {
		q := question(now.Add(offset), nil)

		require.Equal(t, q.IsPublished(now), q.CanVote(now))
	}
}

func TestCanVoteBeforePublication(t *testing.T) {
	t.Parallel()

	now := time.Now()
	end := now.Add(48 * time.Hour)

	require.False(t, question(now.Add(time.Hour), nil).CanVote(now))
	require.False(t, question(now.Add(time.Hour), &end).CanVote(now))
}

func TestCanVoteWindowIsInclusive(t *testing.T) {
	t.Parallel()

	now := time.Now()

	publishAt := now.Add(-24 * time.Hour)
	endAt := now.Add(24 * time.Hour)

	require.True(t, question(publishAt, &endAt).CanVote(now))
	require.True(t, question(now, &endAt).CanVote(now))
	require.True(t, question(publishAt, &now).CanVote(now))
}

func TestCanVoteAfterEndDate(t *testing.T) {
	t.Parallel()

	now := time.Now()

	publishAt := now.Add(-48 * time.Hour)
	endAt := now.Add(-24 * time.Hour)

	require.False(t, question(publishAt, &endAt).CanVote(now))
}
