package mahjong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeldNotationRoundTrip(t *testing.T) {
	e := TileOf(East)
	p7 := TileOf(Pin7)
	cases := []struct {
		name string
		meld Meld
		want string
	}{
		{"chi", Chi{Called: TileOf(Man3), Own: [2]Tile{TileOf(Man5), TileOf(Man4)}}, "*345m"},
		{"pon kamicha", Pon{Called: e, Own: [2]Tile{e, e}, From: RelativeKamicha}, "*111z"},
		{"pon toimen", Pon{Called: e, Own: [2]Tile{e, e}, From: RelativeToimen}, "1*11z"},
		{"pon shimocha", Pon{Called: e, Own: [2]Tile{e, e}, From: RelativeShimocha}, "11*1z"},
		{"open kan toimen", OpenKan{Called: p7, Own: [3]Tile{p7, p7, p7}, From: RelativeToimen}, "7*777p"},
		{"open kan shimocha", OpenKan{Called: p7, Own: [3]Tile{p7, p7, p7}, From: RelativeShimocha}, "777*7p"},
		{"closed kan red", ClosedKan{Four: [4]Tile{RedFive(SuitMan), TileOf(Man5), TileOf(Man5), TileOf(Man5)}}, "0555m"},
		{"added kan toimen", AddedKan{Pon: Pon{Called: p7, Own: [2]Tile{p7, p7}, From: RelativeToimen}, Added: p7}, "7*7*77p"},
		{"added kan kamicha", AddedKan{Pon: Pon{Called: p7, Own: [2]Tile{p7, p7}, From: RelativeKamicha}, Added: p7}, "*7*777p"},
		{"added kan shimocha", AddedKan{Pon: Pon{Called: p7, Own: [2]Tile{p7, p7}, From: RelativeShimocha}, Added: p7}, "77*7*7p"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := FormatMeld(tc.meld)
			assert.Equal(t, tc.want, s)
			got, err := ParseMeld(s)
			require.NoError(t, err)
			assert.Equal(t, FormatMeld(tc.meld), FormatMeld(got))
			assert.Equal(t, MeldKind(tc.meld), MeldKind(got))
		})
	}
}

func TestParseMeldSource(t *testing.T) {
	m, err := ParseMeld("55*5s")
	require.NoError(t, err)
	pon, ok := m.(Pon)
	require.True(t, ok)
	assert.Equal(t, RelativeShimocha, pon.From)
	assert.Equal(t, 1, pon.From.Seat(0))
	assert.Equal(t, RelativeKamicha, RelativeOf(1, 0))
}

func TestParseMeldInvalid(t *testing.T) {
	_, err := ParseMeld("*124m")
	require.ErrorIs(t, err, ErrInconsistentMeld)

	_, err = ParseMeld("12m")
	require.ErrorIs(t, err, ErrNotation)

	_, err = ParseMeld("*1*23m")
	require.ErrorIs(t, err, ErrNotation)
}

func TestMeldPredicates(t *testing.T) {
	e := TileOf(East)
	closed := ClosedKan{Four: [4]Tile{e, e, e, e}}
	chi := Chi{Called: TileOf(So2), Own: [2]Tile{TileOf(So1), TileOf(So3)}}

	assert.True(t, IsKan(closed))
	assert.False(t, IsOpen(closed))
	assert.True(t, IsTripletLike(closed))
	assert.True(t, IsOpen(chi))
	assert.False(t, IsTripletLike(chi))
	assert.Equal(t, So1, MeldKind(chi))
}
