package mahjong

type Discard struct {
	Seat   int
	Tile   Tile
	Called bool
	Reach  bool // 立直宣言牌
}

// River 全场牌河，只追加；被鸣走的牌打上标记
type River struct {
	entries []Discard
}

func NewRiver() *River {
	return &River{entries: make([]Discard, 0, 80)}
}

func (r *River) Append(seat int, t Tile, reach bool) {
	r.entries = append(r.entries, Discard{Seat: seat, Tile: t.Plain(), Reach: reach})
}

// MarkLastCalled 最后一张被吃碰杠
func (r *River) MarkLastCalled() error {
	if len(r.entries) == 0 {
		return ErrNoSuchChoice
	}
	r.entries[len(r.entries)-1].Called = true
	return nil
}

func (r *River) Last() (Discard, bool) {
	if len(r.entries) == 0 {
		return Discard{}, false
	}
	return r.entries[len(r.entries)-1], true
}

func (r *River) Len() int { return len(r.entries) }

func (r *River) Entries() []Discard {
	return append([]Discard(nil), r.entries...)
}

// Seat 某座位自己打出的牌（含被鸣走的）
func (r *River) Seat(seat int) []Discard {
	var out []Discard
	for _, d := range r.entries {
		if d.Seat == seat {
			out = append(out, d)
		}
	}
	return out
}

// Contains 振听判定：seat 是否打出过该种牌
func (r *River) Contains(seat int, tt TileType) bool {
	for _, d := range r.entries {
		if d.Seat == seat && d.Tile.Type() == tt {
			return true
		}
	}
	return false
}

// FourWindsAbort 最近四张来自四个不同座位、均未被鸣且为同一种牌
func (r *River) FourWindsAbort() bool {
	n := len(r.entries)
	if n < 4 {
		return false
	}
	last := r.entries[n-4:]
	var seen [4]bool
	for _, d := range last {
		if d.Called || !d.Tile.SameKind(last[0].Tile) || seen[d.Seat] {
			return false
		}
		seen[d.Seat] = true
	}
	return true
}
