package mahjong

import (
	"fmt"
	"strings"
)

// Relative 相对座位：下家、对家、上家
type Relative int

const (
	RelativeSelf     Relative = iota
	RelativeShimocha          // 下家
	RelativeToimen            // 对家
	RelativeKamicha           // 上家
)

func RelativeOf(owner, from int) Relative {
	return Relative((from - owner + 4) % 4)
}

// Seat 还原为绝对座位
func (r Relative) Seat(owner int) int {
	return (owner + int(r)) % 4
}

func (r Relative) String() string {
	switch r {
	case RelativeShimocha:
		return "shimocha"
	case RelativeToimen:
		return "toimen"
	case RelativeKamicha:
		return "kamicha"
	default:
		return "self"
	}
}

// Meld 副露，只有下列五种实现：Chi、Pon、ClosedKan、OpenKan、AddedKan
type Meld interface {
	// Tiles 展示顺序，被鸣的牌带 MarkerCalled
	Tiles() []Tile
	isMeld()
}

// Chi 吃，只能吃上家
type Chi struct {
	Called Tile
	Own    [2]Tile
}

// Pon 碰
type Pon struct {
	Called Tile
	Own    [2]Tile
	From   Relative
}

// ClosedKan 暗杠
type ClosedKan struct {
	Four [4]Tile
}

// OpenKan 大明杠
type OpenKan struct {
	Called Tile
	Own    [3]Tile
	From   Relative
}

// AddedKan 加杠，由已有的碰升级
type AddedKan struct {
	Pon   Pon
	Added Tile
}

func (Chi) isMeld()       {}
func (Pon) isMeld()       {}
func (ClosedKan) isMeld() {}
func (OpenKan) isMeld()   {}
func (AddedKan) isMeld()  {}

func (m Chi) Tiles() []Tile {
	own := SortTiles(m.Own[:])
	return []Tile{m.Called.With(MarkerCalled), own[0], own[1]}
}

func (m Pon) Tiles() []Tile {
	c := m.Called.With(MarkerCalled)
	switch m.From {
	case RelativeKamicha:
		return []Tile{c, m.Own[0], m.Own[1]}
	case RelativeToimen:
		return []Tile{m.Own[0], c, m.Own[1]}
	default:
		return []Tile{m.Own[0], m.Own[1], c}
	}
}

func (m ClosedKan) Tiles() []Tile {
	return append([]Tile(nil), m.Four[:]...)
}

func (m OpenKan) Tiles() []Tile {
	c := m.Called.With(MarkerCalled)
	switch m.From {
	case RelativeKamicha:
		return []Tile{c, m.Own[0], m.Own[1], m.Own[2]}
	case RelativeToimen:
		return []Tile{m.Own[0], c, m.Own[1], m.Own[2]}
	default:
		return []Tile{m.Own[0], m.Own[1], m.Own[2], c}
	}
}

// Tiles 加的那张紧跟在被碰的牌之后，同样横置
func (m AddedKan) Tiles() []Tile {
	base := m.Pon.Tiles()
	out := make([]Tile, 0, 4)
	for _, t := range base {
		out = append(out, t)
		if t.Has(MarkerCalled) {
			out = append(out, m.Added.With(MarkerCalled))
		}
	}
	return out
}

// MeldKind 副露的代表牌种，顺子取最小的一张
func MeldKind(m Meld) TileType {
	switch v := m.(type) {
	case Chi:
		lo := v.Called.Type()
		for _, t := range v.Own {
			if t.Type() < lo {
				lo = t.Type()
			}
		}
		return lo
	case Pon:
		return v.Called.Type()
	case ClosedKan:
		return v.Four[0].Type()
	case OpenKan:
		return v.Called.Type()
	case AddedKan:
		return v.Pon.Called.Type()
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

func IsKan(m Meld) bool {
	switch m.(type) {
	case ClosedKan, OpenKan, AddedKan:
		return true
	case Chi, Pon:
		return false
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

// IsOpen 暗杠以外的副露都会破坏门前清
func IsOpen(m Meld) bool {
	switch m.(type) {
	case ClosedKan:
		return false
	case Chi, Pon, OpenKan, AddedKan:
		return true
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

// IsTripletLike 刻子或杠子
func IsTripletLike(m Meld) bool {
	switch m.(type) {
	case Chi:
		return false
	case Pon, ClosedKan, OpenKan, AddedKan:
		return true
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

// calledTile 从他家取得的那张，暗杠没有
func calledTile(m Meld) (Tile, bool) {
	switch v := m.(type) {
	case Chi:
		return v.Called, true
	case Pon:
		return v.Called, true
	case ClosedKan:
		return Tile{}, false
	case OpenKan:
		return v.Called, true
	case AddedKan:
		return v.Pon.Called, true
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

// ownTiles 鸣牌时需要从手里拿出的牌
func ownTiles(m Meld) []Tile {
	switch v := m.(type) {
	case Chi:
		return v.Own[:]
	case Pon:
		return v.Own[:]
	case ClosedKan:
		return v.Four[:]
	case OpenKan:
		return v.Own[:]
	case AddedKan:
		return []Tile{v.Added}
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

func validateMeld(m Meld) error {
	sameKind := func(tiles ...Tile) bool {
		for _, t := range tiles[1:] {
			if !t.SameKind(tiles[0]) {
				return false
			}
		}
		return !tiles[0].IsUnknown()
	}
	switch v := m.(type) {
	case Chi:
		if !isRun(v.Called, v.Own[0], v.Own[1]) {
			return fmt.Errorf("%w: chi %s%s%s", ErrInconsistentMeld, v.Called, v.Own[0], v.Own[1])
		}
	case Pon:
		if !sameKind(v.Called, v.Own[0], v.Own[1]) || v.From == RelativeSelf {
			return fmt.Errorf("%w: pon of %s", ErrInconsistentMeld, v.Called)
		}
	case ClosedKan:
		if !sameKind(v.Four[:]...) {
			return fmt.Errorf("%w: closed kan of %s", ErrInconsistentMeld, v.Four[0])
		}
	case OpenKan:
		if !sameKind(v.Called, v.Own[0], v.Own[1], v.Own[2]) || v.From == RelativeSelf {
			return fmt.Errorf("%w: open kan of %s", ErrInconsistentMeld, v.Called)
		}
	case AddedKan:
		if err := validateMeld(v.Pon); err != nil {
			return err
		}
		if !v.Added.SameKind(v.Pon.Called) {
			return fmt.Errorf("%w: added %s to pon of %s", ErrInconsistentMeld, v.Added, v.Pon.Called)
		}
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
	return nil
}

func isRun(a, b, c Tile) bool {
	if !a.IsNumbered() || a.Suit != b.Suit || a.Suit != c.Suit {
		return false
	}
	lo, hi := a.Rank, a.Rank
	for _, r := range []int{b.Rank, c.Rank} {
		lo = min(lo, r)
		hi = max(hi, r)
	}
	return hi-lo == 2 && a.Rank != b.Rank && a.Rank != c.Rank && b.Rank != c.Rank
}

// FormatMeld 副露按展示顺序输出，同花色连续的牌共用一个花色字母
func FormatMeld(m Meld) string {
	return formatRun(m.Tiles())
}

func formatRun(tiles []Tile) string {
	var b strings.Builder
	for i := 0; i < len(tiles); {
		t := tiles[i]
		if t.IsUnknown() {
			b.WriteString(t.String())
			i++
			continue
		}
		j := i
		for j < len(tiles) && !tiles[j].IsUnknown() && tiles[j].Suit == t.Suit {
			s := tiles[j].String()
			b.WriteString(s[:len(s)-1])
			j++
		}
		b.WriteByte(suitRunes[t.Suit])
		i = j
	}
	return b.String()
}

// ParseMeld 由展示顺序还原副露；横置牌的位置决定来源
func ParseMeld(s string) (Meld, error) {
	tiles, err := ParseTiles(s)
	if err != nil {
		return nil, err
	}
	var called []int
	plain := make([]Tile, len(tiles))
	for i, t := range tiles {
		if t.Has(MarkerCalled) {
			called = append(called, i)
		}
		plain[i] = t.Plain()
	}
	var m Meld
	switch {
	case len(tiles) == 3 && len(called) == 1 && plain[0].SameKind(plain[1]) && plain[1].SameKind(plain[2]):
		own := without(plain, called[0])
		from := [...]Relative{RelativeKamicha, RelativeToimen, RelativeShimocha}[called[0]]
		m = Pon{Called: plain[called[0]], Own: [2]Tile{own[0], own[1]}, From: from}
	case len(tiles) == 3 && len(called) == 1:
		own := without(plain, called[0])
		m = Chi{Called: plain[called[0]], Own: [2]Tile{own[0], own[1]}}
	case len(tiles) == 4 && len(called) == 0:
		m = ClosedKan{Four: [4]Tile{plain[0], plain[1], plain[2], plain[3]}}
	case len(tiles) == 4 && len(called) == 1:
		own := without(plain, called[0])
		from := [...]Relative{RelativeKamicha, RelativeToimen, RelativeToimen, RelativeShimocha}[called[0]]
		m = OpenKan{Called: plain[called[0]], Own: [3]Tile{own[0], own[1], own[2]}, From: from}
	case len(tiles) == 4 && len(called) == 2 && called[1] == called[0]+1:
		rest := without(without(plain, called[1]), called[0])
		from := [...]Relative{RelativeKamicha, RelativeToimen, RelativeShimocha}[called[0]]
		m = AddedKan{
			Pon:   Pon{Called: plain[called[0]], Own: [2]Tile{rest[0], rest[1]}, From: from},
			Added: plain[called[1]],
		}
	default:
		return nil, fmt.Errorf("%w: meld %q", ErrNotation, s)
	}
	if err := validateMeld(m); err != nil {
		return nil, err
	}
	return m, nil
}

func without(tiles []Tile, idx int) []Tile {
	out := make([]Tile, 0, len(tiles)-1)
	out = append(out, tiles[:idx]...)
	return append(out, tiles[idx+1:]...)
}
