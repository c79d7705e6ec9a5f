package mahjong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiverFourWindsAbort(t *testing.T) {
	north := TileOf(North)
	cases := []struct {
		name  string
		build func(r *River)
		want  bool
	}{
		{"four seats same wind", func(r *River) {
			for s := 0; s < 4; s++ {
				r.Append(s, north, false)
			}
		}, true},
		{"only three", func(r *River) {
			for s := 0; s < 3; s++ {
				r.Append(s, north, false)
			}
		}, false},
		{"different kinds", func(r *River) {
			r.Append(0, north, false)
			r.Append(1, north, false)
			r.Append(2, TileOf(West), false)
			r.Append(3, north, false)
		}, false},
		{"same seat twice", func(r *River) {
			r.Append(0, north, false)
			r.Append(1, north, false)
			r.Append(1, north, false)
			r.Append(3, north, false)
		}, false},
		{"called in between", func(r *River) {
			r.Append(0, north, false)
			r.Append(1, north, false)
			_ = r.MarkLastCalled()
			r.Append(2, north, false)
			r.Append(3, north, false)
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRiver()
			tc.build(r)
			assert.Equal(t, tc.want, r.FourWindsAbort())
		})
	}
}

func TestRiverEntries(t *testing.T) {
	r := NewRiver()
	require.ErrorIs(t, r.MarkLastCalled(), ErrNoSuchChoice)
	_, ok := r.Last()
	assert.False(t, ok)

	r.Append(0, TileOf(Man1).With(MarkerTsumo), false)
	r.Append(1, RedFive(SuitPin), true)
	r.Append(0, TileOf(East), false)
	require.NoError(t, r.MarkLastCalled())

	assert.Equal(t, 3, r.Len())
	last, ok := r.Last()
	require.True(t, ok)
	assert.True(t, last.Called)
	assert.Len(t, r.Seat(0), 2)
	assert.True(t, r.Seat(1)[0].Reach)
	assert.Equal(t, TileOf(Man1), r.Entries()[0].Tile)
	assert.True(t, r.Entries()[1].Tile.IsRedFive())

	assert.True(t, r.Contains(1, Pin5))
	assert.False(t, r.Contains(0, Pin5))
}
