package mahjong

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorFollowsController(t *testing.T) {
	var seats [4]Seat
	for s := range seats {
		seats[s] = NewEfficiencyAgent(s)
	}
	m := NewMirror()
	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), NewWall(rand.New(rand.NewSource(5)), true), NewSyncTransport(seats), WithObserver(m))
	_, err := c.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Err())
	for s := 0; s < 4; s++ {
		assert.Equal(t, c.Hand(s).String(), m.Hand(s).String(), "seat %d", s)
		assert.Equal(t, c.Hand(s).Reached(), m.Hand(s).Reached(), "seat %d", s)
	}
	assert.Equal(t, c.River().Entries(), m.River())
	assert.Equal(t, c.Wall().DoraIndicators(), m.DoraIndicators())
}

func TestMirrorIgnoresDuplicates(t *testing.T) {
	round := RoundInfo{ID: "r1"}
	var hands [4][]Tile
	hands[0] = MustParseTiles("123m456p789s1122z")
	for s := 1; s < 4; s++ {
		hands[s] = MustParseTiles("_____________")
	}
	m := NewMirror()
	assert.Nil(t, m.Hand(0))

	m.Observe(Event{ID: 1, Type: EventDistribute, Round: round, Hands: hands})
	draw := Event{ID: 2, Type: EventDraw, Round: round, Seat: 0, Tile: TileOf(East)}
	m.Observe(draw)
	m.Observe(draw)

	require.NoError(t, m.Err())
	assert.Equal(t, 2, m.Applied())
	assert.Equal(t, 14, m.Hand(0).Len())

	// 新的一局重新计数事件 id
	next := RoundInfo{ID: "r2"}
	m.Observe(Event{ID: 1, Type: EventDistribute, Round: next, Hands: hands})
	assert.Equal(t, 3, m.Applied())
	assert.Equal(t, 13, m.Hand(0).Len())
	assert.Empty(t, m.River())
}

func TestMirrorRedactedView(t *testing.T) {
	round := RoundInfo{ID: "r"}
	var hands [4][]Tile
	hands[0] = MustParseTiles("147m258p369s1234z")
	for s := 1; s < 4; s++ {
		hands[s] = MustParseTiles("_____________")
	}
	m := NewMirror()
	m.OnEvent(Event{ID: 1, Type: EventDistribute, Round: round, Hands: hands})
	m.OnEvent(Event{ID: 2, Type: EventDraw, Round: round, Seat: 1, Tile: UnknownTile()})
	m.OnEvent(Event{ID: 3, Type: EventDiscard, Round: round, Seat: 1, Tile: TileOf(Green)})

	pon := Pon{Called: TileOf(Green), Own: [2]Tile{TileOf(Green), TileOf(Green)}, From: RelativeKamicha}
	m.OnEvent(Event{ID: 4, Type: EventCall, Round: round, Seat: 2, Tile: TileOf(Green), Meld: pon})
	m.OnEvent(Event{ID: 5, Type: EventChoiceAfterCalled, Round: round, Seat: 2})

	require.NoError(t, m.Err())
	assert.Equal(t, 4, m.Applied())
	assert.Equal(t, 13, m.Hand(1).Unknown())
	h := m.Hand(2)
	assert.Equal(t, 11, h.Unknown())
	assert.Equal(t, 1, h.CallCount())

	river := m.River()
	require.Len(t, river, 1)
	assert.True(t, river[0].Called)
	assert.Equal(t, TileOf(Green), river[0].Tile)
}

func TestMirrorRecordsFirstError(t *testing.T) {
	m := NewMirror()
	m.Observe(Event{ID: 1, Type: EventDraw, Round: RoundInfo{ID: "r"}, Seat: 0, Tile: TileOf(East)})
	require.ErrorIs(t, m.Err(), ErrInvalidState)
}
