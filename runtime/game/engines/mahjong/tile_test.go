package mahjong

import (
	"io"
	"os"
	"testing"

	"github.com/konoui/mjimage-sub000/common/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestParseTiles(t *testing.T) {
	tiles, err := ParseTiles("123m*4p0s11z__")
	require.NoError(t, err)
	require.Len(t, tiles, 9)

	assert.Equal(t, Tile{Suit: SuitMan, Rank: 1}, tiles[0])
	assert.Equal(t, Man3, tiles[2].Type())
	assert.True(t, tiles[3].Has(MarkerCalled))
	assert.Equal(t, Pin4, tiles[3].Type())
	assert.True(t, tiles[4].IsRedFive())
	assert.Equal(t, So5, tiles[4].Type())
	assert.Equal(t, East, tiles[5].Type())
	assert.True(t, tiles[7].IsUnknown())
	assert.Equal(t, TileUnknown, tiles[8].Type())

	assert.Equal(t, "*4p", tiles[3].String())
	assert.Equal(t, "0s", tiles[4].String())
	assert.Equal(t, "_", tiles[7].String())
}

func TestParseTilesInvalid(t *testing.T) {
	for _, s := range []string{"1", "m", "8z", "0z", "1x", "*", "1_m"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseTiles(s)
			require.ErrorIs(t, err, ErrNotation)
		})
	}
}

func TestParseTileSingle(t *testing.T) {
	tile, err := ParseTile("t7z")
	require.NoError(t, err)
	assert.Equal(t, Red, tile.Type())
	assert.True(t, tile.Has(MarkerTsumo))

	_, err = ParseTile("12m")
	require.ErrorIs(t, err, ErrNotation)
}

func TestFormatTilesSorts(t *testing.T) {
	assert.Equal(t, "05m9p1z", FormatTiles(MustParseTiles("5m1z9p0m")))
	assert.Equal(t, "123m456p__", FormatTiles(MustParseTiles("_456p_321m")))
	assert.Equal(t, "", FormatTiles(nil))
}

func TestTileValidate(t *testing.T) {
	_, err := NewTile(SuitMan, 10)
	require.ErrorIs(t, err, ErrInvalidTile)
	_, err = NewTile(SuitPin, 4, MarkerRed)
	require.ErrorIs(t, err, ErrInvalidTile)
	_, err = NewTile(SuitHonor, 5, MarkerRed)
	require.ErrorIs(t, err, ErrInvalidTile)

	tile, err := NewTile(SuitSou, 5, MarkerRed, MarkerDora)
	require.NoError(t, err)
	assert.Equal(t, "d0s", tile.String())
	assert.Equal(t, RedFive(SuitSou), tile.Plain())
}

func TestTileKinds(t *testing.T) {
	red := RedFive(SuitMan)
	five := TileOf(Man5)
	assert.True(t, red.SameKind(five))
	assert.False(t, red.SameFace(five))
	assert.True(t, TileOf(Pin9).IsTerminal())
	assert.True(t, TileOf(Green).IsYaochu())
	assert.False(t, TileOf(So5).IsYaochu())
}

func TestDoraNext(t *testing.T) {
	cases := map[TileType]TileType{
		Man9:  Man1,
		Pin3:  Pin4,
		So8:   So9,
		North: East,
		East:  South,
		Red:   White,
		White: Green,
	}
	for indicator, want := range cases {
		assert.Equal(t, want, indicator.DoraNext(), indicator.String())
	}
}
