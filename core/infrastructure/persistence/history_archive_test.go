package persistence

import (
	"context"
	"io"
	"testing"

	"github.com/konoui/mjimage-sub000/common/log"
	"github.com/konoui/mjimage-sub000/core/domain/entity"
	"github.com/konoui/mjimage-sub000/core/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory(matchID string, number int) *entity.RoundHistory {
	h := entity.NewRoundHistory(matchID, 0, number, number-1, 0)
	h.Scores = [4]int{25000, 25000, 25000, 25000}
	h.Wall = entity.WallSnapshot{
		Drawable:    []string{"1m", "2m", "3m"},
		Replacement: []string{"7z"},
		Dora:        []string{"5p"},
		UraDora:     []string{"6p"},
	}
	h.AddReplies(3, []entity.ReplyRecord{{Seat: 0, Action: "discard", Tile: "3m"}})
	return h
}

func TestHistoryArchiveRoundTrip(t *testing.T) {
	log.SetOutput(io.Discard)
	ctx := context.Background()
	a, err := NewHistoryArchive(1<<20, 0)
	require.NoError(t, err)
	defer a.Close()

	first := sampleHistory("match-1", 1)
	second := sampleHistory("match-1", 2)
	other := sampleHistory("match-2", 1)
	for _, h := range []*entity.RoundHistory{first, second, other} {
		require.NoError(t, a.SaveRoundHistory(ctx, h))
	}

	got, err := a.FindRoundHistory(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Wall, got.Wall)
	assert.Equal(t, first.Replies, got.Replies)

	list, err := a.FindRoundHistoriesByMatch(ctx, "match-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	_, err = a.FindRoundHistory(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrRoundHistoryNotFound)
}

func TestHistoryArchiveMatchRecord(t *testing.T) {
	ctx := context.Background()
	a, err := NewHistoryArchive(1<<20, 0)
	require.NoError(t, err)
	defer a.Close()

	rec := entity.NewMatchRecord(42)
	rec.AddRound("r1")
	rec.CompleteGame([4]int{30000, 20000, 25000, 25000})
	require.NoError(t, a.SaveMatchRecord(ctx, rec))

	got, err := a.FindMatchRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Rounds, got.Rounds)
	assert.Equal(t, rec.FinalResult.Points, got.FinalResult.Points)

	_, err = a.FindMatchRecord(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrMatchRecordNotFound)
}

func TestHistoryArchiveRejects(t *testing.T) {
	log.SetOutput(io.Discard)
	ctx := context.Background()
	a, err := NewHistoryArchive(16, 0)
	require.NoError(t, err)
	defer a.Close()

	err = a.SaveRoundHistory(ctx, sampleHistory("m", 1))
	assert.ErrorIs(t, err, repository.ErrArchiveRejected)

	err = a.SaveRoundHistory(ctx, &entity.RoundHistory{})
	assert.ErrorIs(t, err, repository.ErrInvalidRecord)
}
