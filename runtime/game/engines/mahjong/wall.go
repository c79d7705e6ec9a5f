package mahjong

import (
	"fmt"
	"math/rand"
)

const (
	DeadWallSize     = 14
	ReplacementTiles = 4
	IndicatorTiles   = 5
	DrawableTiles    = TileLimit - DeadWallSize
	HandSize         = 13
)

// WallSnapshot 牌山完整状态，用于确定性回放
type WallSnapshot struct {
	Drawable    []Tile
	Replacement []Tile
	Dora        []Tile
	UraDora     []Tile
	Position    int // 已摸走的活牌数
	Replaced    int // 已摸走的岭上牌数
	Revealed    int // 已翻开的宝牌指示牌数
}

// Wall 活牌 + 王牌（4 张岭上牌、5 张宝牌指示牌、5 张里宝牌指示牌）
type Wall struct {
	drawable    []Tile
	replacement []Tile
	dora        []Tile
	uraDora     []Tile
	pos         int
	replaced    int
	revealed    int
}

// NewTileDeck 生成一副 136 张牌，redFives 时每种数牌有一张五为赤
func NewTileDeck(redFives bool) []Tile {
	deck := make([]Tile, 0, TileLimit)
	for tt := Man1; tt <= Red; tt++ {
		for i := 0; i < 4; i++ {
			t := TileOf(tt)
			if redFives && i == 0 && t.IsNumbered() && t.Rank == 5 {
				t = t.With(MarkerRed)
			}
			deck = append(deck, t)
		}
	}
	return deck
}

// NewWall 用显式随机源洗牌，同一种子得到同一牌山
func NewWall(rng *rand.Rand, redFives bool) *Wall {
	deck := NewTileDeck(redFives)
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	w, _ := wallFromDeck(deck)
	return w
}

func wallFromDeck(deck []Tile) (*Wall, error) {
	if len(deck) != TileLimit {
		return nil, fmt.Errorf("%w: %d tiles", ErrSnapshot, len(deck))
	}
	o := DrawableTiles
	w := &Wall{
		drawable:    append([]Tile(nil), deck[:o]...),
		replacement: append([]Tile(nil), deck[o:o+ReplacementTiles]...),
		dora:        append([]Tile(nil), deck[o+ReplacementTiles:o+ReplacementTiles+IndicatorTiles]...),
		uraDora:     append([]Tile(nil), deck[o+ReplacementTiles+IndicatorTiles:]...),
	}
	return w, nil
}

// RestoreWall 从快照恢复，校验总数与每种牌不超过四张
func RestoreWall(s WallSnapshot) (*Wall, error) {
	if len(s.Replacement) != ReplacementTiles || len(s.Dora) != IndicatorTiles || len(s.UraDora) != IndicatorTiles {
		return nil, fmt.Errorf("%w: dead wall layout %d/%d/%d", ErrSnapshot, len(s.Replacement), len(s.Dora), len(s.UraDora))
	}
	if len(s.Drawable) != DrawableTiles {
		return nil, fmt.Errorf("%w: %d drawable tiles", ErrSnapshot, len(s.Drawable))
	}
	var kinds [TileKinds]int
	for _, part := range [][]Tile{s.Drawable, s.Replacement, s.Dora, s.UraDora} {
		for _, t := range part {
			if err := t.Validate(); err != nil || t.IsUnknown() {
				return nil, fmt.Errorf("%w: tile %s", ErrSnapshot, t)
			}
			kinds[t.Type()]++
			if kinds[t.Type()] > 4 {
				return nil, fmt.Errorf("%w: more than four %s", ErrSnapshot, t)
			}
		}
	}
	if s.Replaced < 0 || s.Replaced > ReplacementTiles || s.Revealed < 0 || s.Revealed > IndicatorTiles ||
		s.Position < 0 || s.Position > DrawableTiles-s.Replaced {
		return nil, fmt.Errorf("%w: counters %d/%d/%d", ErrSnapshot, s.Position, s.Replaced, s.Revealed)
	}
	return &Wall{
		drawable:    append([]Tile(nil), s.Drawable...),
		replacement: append([]Tile(nil), s.Replacement...),
		dora:        append([]Tile(nil), s.Dora...),
		uraDora:     append([]Tile(nil), s.UraDora...),
		pos:         s.Position,
		replaced:    s.Replaced,
		revealed:    s.Revealed,
	}, nil
}

func (w *Wall) Snapshot() WallSnapshot {
	return WallSnapshot{
		Drawable:    append([]Tile(nil), w.drawable...),
		Replacement: append([]Tile(nil), w.replacement...),
		Dora:        append([]Tile(nil), w.dora...),
		UraDora:     append([]Tile(nil), w.uraDora...),
		Position:    w.pos,
		Replaced:    w.replaced,
		Revealed:    w.revealed,
	}
}

// Deal 配牌：13 轮，每轮从 start 座位起每人一张
func (w *Wall) Deal(start int) ([4][]Tile, error) {
	var hands [4][]Tile
	for r := 0; r < HandSize; r++ {
		for i := 0; i < 4; i++ {
			t, err := w.Draw()
			if err != nil {
				return hands, err
			}
			seat := (start + i) % 4
			hands[seat] = append(hands[seat], t)
		}
	}
	return hands, nil
}

// Remaining 剩余可摸活牌；每次岭上摸牌使海底前移一张
func (w *Wall) Remaining() int {
	return len(w.drawable) - w.replaced - w.pos
}

func (w *Wall) Draw() (Tile, error) {
	if w.Remaining() <= 0 {
		return Tile{}, ErrWallExhausted
	}
	t := w.drawable[w.pos]
	w.pos++
	return t, nil
}

// DrawReplacement 岭上摸牌
func (w *Wall) DrawReplacement() (Tile, error) {
	if w.replaced >= ReplacementTiles {
		return Tile{}, ErrNoReplacement
	}
	if w.Remaining() <= 0 {
		return Tile{}, ErrWallExhausted
	}
	t := w.replacement[w.replaced]
	w.replaced++
	return t, nil
}

// RevealDora 翻开下一张宝牌指示牌
func (w *Wall) RevealDora() (Tile, error) {
	if w.revealed >= IndicatorTiles {
		return Tile{}, ErrNoReplacement
	}
	t := w.dora[w.revealed]
	w.revealed++
	return t, nil
}

func (w *Wall) DoraIndicators() []Tile {
	return append([]Tile(nil), w.dora[:w.revealed]...)
}

// UraDoraIndicators 里宝牌与已翻开的表宝牌数量一致
func (w *Wall) UraDoraIndicators() []Tile {
	return append([]Tile(nil), w.uraDora[:w.revealed]...)
}

// KanCount 本局已开杠数（等于已用岭上牌数）
func (w *Wall) KanCount() int { return w.replaced }

func (w *Wall) ReplacementLeft() int { return ReplacementTiles - w.replaced }
