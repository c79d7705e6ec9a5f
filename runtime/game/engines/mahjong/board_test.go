package mahjong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRoundDealerKeeps(t *testing.T) {
	cur := NewRoundInfo(DefaultInitialPoints)
	cur.RiichiSticks = 2
	next := nextRound(cur, true)

	assert.NotEqual(t, cur.ID, next.ID)
	assert.Equal(t, cur.Dealer, next.Dealer)
	assert.Equal(t, cur.RoundNumber, next.RoundNumber)
	assert.Equal(t, 1, next.Honba)
	assert.Equal(t, 2, next.RiichiSticks)
}

func TestNextRoundRotatesDealerAndWind(t *testing.T) {
	cur := RoundInfo{ID: "r", RoundWind: WindEast, RoundNumber: 4, Dealer: 3, Honba: 2}
	next := nextRound(cur, false)

	assert.NotEqual(t, "r", next.ID)
	assert.Equal(t, 0, next.Dealer)
	assert.Equal(t, 1, next.RoundNumber)
	assert.Equal(t, WindSouth, next.RoundWind)
	assert.Equal(t, 0, next.Honba)

	mid := nextRound(RoundInfo{RoundWind: WindSouth, RoundNumber: 2, Dealer: 1}, false)
	assert.Equal(t, WindSouth, mid.RoundWind)
	assert.Equal(t, 3, mid.RoundNumber)
	assert.Equal(t, 2, mid.Dealer)
}

func TestSeatWinds(t *testing.T) {
	info := RoundInfo{Dealer: 2}
	assert.Equal(t, [4]Wind{WindWest, WindNorth, WindEast, WindSouth}, info.SeatWinds())
	assert.Equal(t, South, WindSouth.Tile())
	assert.Equal(t, WindEast, WindNorth.Next())
}

func TestNewRoundInfo(t *testing.T) {
	info := NewRoundInfo(30000)
	require.NotEmpty(t, info.ID)
	assert.Equal(t, [4]int{30000, 30000, 30000, 30000}, info.Scores)
	assert.Equal(t, WindEast, info.RoundWind)
	assert.Equal(t, 1, info.RoundNumber)
}

func TestTurnManagerPath(t *testing.T) {
	tm := NewTurnManager(3)
	require.NoError(t, tm.Enter(StateDrawn))
	require.NoError(t, tm.Enter(StateWaitingAfterDrawn))
	require.NoError(t, tm.Enter(StateDiscarded))
	assert.Equal(t, 0, tm.NextTurn())
	require.NoError(t, tm.Enter(StateDrawn))

	assert.Equal(t, []State{StateDistribute, StateDrawn, StateWaitingAfterDrawn, StateDiscarded, StateDrawn}, tm.Path())
	assert.Equal(t, 0, tm.GetCurrentPlayer())

	err := tm.Enter(StateRoned)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StateDrawn, tm.GetState())
}

func TestTurnManagerKanPath(t *testing.T) {
	tm := NewTurnManager(0)
	for _, s := range []State{StateDrawn, StateWaitingAfterDrawn, StateAnKaned, StateWaitingChankan, StateDrawn} {
		require.NoError(t, tm.Enter(s), s.String())
	}
	tm.SetTurn(2)
	assert.Equal(t, 2, tm.GetCurrentPlayer())
}

func TestStateClassification(t *testing.T) {
	for _, s := range []State{StateTsumo, StateRoned, StateDrawnGame} {
		assert.True(t, s.IsFinal(), s.String())
		assert.False(t, s.IsWaiting(), s.String())
	}
	for _, s := range []State{StateWaitingAfterDrawn, StateWaitingAfterDiscarded, StateWaitingDiscardEvent, StateWaitingChankan} {
		assert.True(t, s.IsWaiting(), s.String())
	}
	assert.Equal(t, "dai-kaned", StateDaiKaned.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestChoicesValidateAndDefault(t *testing.T) {
	pon := Pon{Called: TileOf(East), Own: [2]Tile{TileOf(East), TileOf(East)}, From: RelativeToimen}
	ch := &Choices{Pon: []Pon{pon}, CanPass: true}

	require.NoError(t, ch.Validate(Reply{Action: ActionPon, Meld: pon}))
	require.NoError(t, ch.Validate(Reply{Action: ActionPass}))
	require.ErrorIs(t, ch.Validate(Reply{Action: ActionRon}), ErrNoSuchChoice)
	require.ErrorIs(t, ch.Validate(Reply{Action: ActionChi}), ErrNoSuchChoice)
	assert.Equal(t, ActionPass, ch.Default(7, 2, Tile{}, false).Action)

	discards := &Choices{Discards: MustParseTiles("0m5m1z")}
	require.NoError(t, discards.Validate(Reply{Action: ActionDiscard, Tile: RedFive(SuitMan)}))
	require.ErrorIs(t, discards.Validate(Reply{Action: ActionDiscard, Tile: TileOf(Man1)}), ErrNoSuchChoice)

	r := discards.Default(9, 1, TileOf(Man5), true)
	assert.Equal(t, Reply{EventID: 9, Seat: 1, Action: ActionDiscard, Tile: TileOf(Man5)}, r)
	r = discards.Default(9, 1, Tile{}, false)
	assert.Equal(t, TileOf(East), r.Tile)
}

func TestActionNames(t *testing.T) {
	for a := ActionPass; a <= ActionAddedKan; a++ {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAction("riichi")
	require.ErrorIs(t, err, ErrNoSuchChoice)
}

func TestEventRedaction(t *testing.T) {
	hands := [4][]Tile{MustParseTiles("123m"), MustParseTiles("456p"), MustParseTiles("789s"), MustParseTiles("111z")}
	ev := Event{Type: EventDistribute, Hands: hands}
	seen := ev.redactFor(1)
	assert.Equal(t, hands[1], seen.Hands[1])
	assert.Equal(t, []Tile{UnknownTile(), UnknownTile(), UnknownTile()}, seen.Hands[0])
	assert.Equal(t, MustParseTiles("123m"), ev.Hands[0])

	draw := Event{Type: EventDraw, Seat: 2, Tile: TileOf(Red)}
	assert.Equal(t, TileOf(Red), draw.redactFor(2).Tile)
	assert.True(t, draw.redactFor(0).Tile.IsUnknown())

	discard := Event{Type: EventDiscard, Seat: 2, Tile: TileOf(Red)}
	assert.Equal(t, TileOf(Red), discard.redactFor(0).Tile)
}
