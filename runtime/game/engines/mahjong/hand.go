package mahjong

import (
	"fmt"
	"strings"
)

// Hand 单个座位的手牌
//
// 数牌 counts[s][1..9] 为各点数张数，counts[s][0] 记录其中赤五的张数；
// 字牌使用 counts[SuitHonor][1..7]；未知牌只有一个计数器。
type Hand struct {
	counts  [3][10]int
	honors  [8]int
	unknown int
	melds   []Meld
	drawn   *Tile
	reached bool
}

func NewHand(tiles []Tile) (*Hand, error) {
	h := &Hand{}
	if err := h.Inc(tiles...); err != nil {
		return nil, err
	}
	return h, nil
}

// ParseHand 解析 "123m456p11z+5s,*123m" 形式：暗手、+摸牌、逗号分隔的副露
func ParseHand(s string) (*Hand, error) {
	parts := strings.Split(s, ",")
	concealed, drawn, hasDrawn := strings.Cut(parts[0], "+")
	tiles, err := ParseTiles(concealed)
	if err != nil {
		return nil, err
	}
	h, err := NewHand(tiles)
	if err != nil {
		return nil, err
	}
	for _, p := range parts[1:] {
		m, err := ParseMeld(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		h.melds = append(h.melds, m)
	}
	if hasDrawn {
		t, err := ParseTile(drawn)
		if err != nil {
			return nil, err
		}
		if err := h.Draw(t); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func MustParseHand(s string) *Hand {
	h, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *Hand) fail(op string, t Tile, err error) error {
	return &HandError{Op: op, Tile: t, Hand: h.String(), Err: err}
}

func (h *Hand) inc(t Tile) error {
	if err := t.Validate(); err != nil {
		return err
	}
	switch t.Suit {
	case SuitUnknown:
		h.unknown++
	case SuitHonor:
		if h.honors[t.Rank] >= 4 {
			return ErrTileOverflow
		}
		h.honors[t.Rank]++
	default:
		c := &h.counts[t.Suit]
		if c[t.Rank] >= 4 {
			return ErrTileOverflow
		}
		c[t.Rank]++
		if t.IsRedFive() {
			c[0]++
		}
	}
	return nil
}

func (h *Hand) dec(t Tile) error {
	if err := t.Validate(); err != nil {
		return err
	}
	switch t.Suit {
	case SuitUnknown:
		if h.unknown == 0 {
			return ErrTileUnderflow
		}
		h.unknown--
	case SuitHonor:
		if h.honors[t.Rank] == 0 {
			return ErrTileUnderflow
		}
		h.honors[t.Rank]--
	default:
		c := &h.counts[t.Suit]
		switch {
		case t.IsRedFive():
			if c[0] == 0 {
				return ErrTileUnderflow
			}
			c[0]--
		case t.Rank == 5 && c[5]-c[0] == 0:
			return ErrTileUnderflow
		case c[t.Rank] == 0:
			return ErrTileUnderflow
		}
		c[t.Rank]--
	}
	return nil
}

// Inc 批量加入，任何一张失败都会撤销本批次已加入的牌；错误里记录回滚后的手牌
func (h *Hand) Inc(tiles ...Tile) error {
	for i, t := range tiles {
		if err := h.inc(t); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = h.dec(tiles[j])
			}
			return h.fail("increment", t, err)
		}
	}
	return nil
}

// Dec 批量移除，失败时整批回滚
func (h *Hand) Dec(tiles ...Tile) error {
	for i, t := range tiles {
		if err := h.dec(t); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = h.inc(tiles[j])
			}
			return h.fail("decrement", t, err)
		}
	}
	return nil
}

// Draw 摸牌并记录为刚摸到的牌
func (h *Hand) Draw(t Tile) error {
	if err := h.Inc(t.Plain()); err != nil {
		return err
	}
	p := t.Plain()
	h.drawn = &p
	return nil
}

// Discard 打出一张并清空摸牌标记
func (h *Hand) Discard(t Tile) error {
	if err := h.Dec(t.Plain()); err != nil {
		return err
	}
	h.drawn = nil
	return nil
}

// Call 吃/碰/大明杠：移除自己出的牌并公开副露
func (h *Hand) Call(m Meld) error {
	switch m.(type) {
	case Chi, Pon, OpenKan:
	case ClosedKan, AddedKan:
		return h.Kan(m)
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
	called, _ := calledTile(m)
	if err := validateMeld(m); err != nil {
		return h.fail("call", called, err)
	}
	if err := h.Dec(ownTiles(m)...); err != nil {
		return err
	}
	h.melds = append(h.melds, m)
	h.drawn = nil
	return nil
}

// Kan 暗杠移除四张；加杠把已有的碰升级
func (h *Hand) Kan(m Meld) error {
	if err := validateMeld(m); err != nil {
		return h.fail("kan", ownTiles(m)[0], err)
	}
	switch v := m.(type) {
	case ClosedKan:
		if err := h.Dec(v.Four[:]...); err != nil {
			return err
		}
		h.melds = append(h.melds, v)
	case AddedKan:
		idx := -1
		for i, x := range h.melds {
			if p, ok := x.(Pon); ok && p.Called.SameKind(v.Added) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return h.fail("kan", v.Added, ErrInconsistentMeld)
		}
		if err := h.Dec(v.Added); err != nil {
			return err
		}
		v.Pon = h.melds[idx].(Pon)
		h.melds[idx] = v
	case OpenKan:
		return h.Call(v)
	case Chi, Pon:
		return h.fail("kan", ownTiles(m)[0], ErrInconsistentMeld)
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
	h.drawn = nil
	return nil
}

// Reach 立直：必须门前清（暗杠除外）且尚未立直
func (h *Hand) Reach() error {
	if h.reached {
		return h.fail("reach", Tile{}, fmt.Errorf("%w: already declared", ErrReachNotAllowed))
	}
	if !h.IsConcealed() {
		return h.fail("reach", Tile{}, fmt.Errorf("%w: open call", ErrReachNotAllowed))
	}
	h.reached = true
	return nil
}

func (h *Hand) Reached() bool { return h.reached }

// IsConcealed 门前清
func (h *Hand) IsConcealed() bool {
	for _, m := range h.melds {
		if IsOpen(m) {
			return false
		}
	}
	return true
}

func (h *Hand) Drawn() (Tile, bool) {
	if h.drawn == nil {
		return Tile{}, false
	}
	return *h.drawn, true
}

// ClearDrawn 副露后或回合结束时没有刚摸到的牌
func (h *Hand) ClearDrawn() { h.drawn = nil }

func (h *Hand) Melds() []Meld {
	return append([]Meld(nil), h.melds...)
}

func (h *Hand) CallCount() int { return len(h.melds) }

func (h *Hand) KanCount() int {
	n := 0
	for _, m := range h.melds {
		if IsKan(m) {
			n++
		}
	}
	return n
}

// Count 同种牌张数（赤五计入五）
func (h *Hand) Count(t Tile) int {
	switch t.Suit {
	case SuitUnknown:
		return h.unknown
	case SuitHonor:
		return h.honors[t.Rank]
	default:
		return h.counts[t.Suit][t.Rank]
	}
}

func (h *Hand) CountType(tt TileType) int {
	return h.Count(TileOf(tt))
}

func (h *Hand) RedCount(s Suit) int {
	if s > SuitSou {
		return 0
	}
	return h.counts[s][0]
}

func (h *Hand) Unknown() int { return h.unknown }

func (h *Hand) SuitCounts(s Suit) [10]int { return h.counts[s] }

func (h *Hand) HonorCounts() [8]int { return h.honors }

// Counts34 暗手按 34 种牌计数
func (h *Hand) Counts34() [TileKinds]int {
	var out [TileKinds]int
	for s := SuitMan; s <= SuitSou; s++ {
		for r := 1; r <= 9; r++ {
			out[int(s)*9+r-1] = h.counts[s][r]
		}
	}
	for r := 1; r <= 7; r++ {
		out[int(East)+r-1] = h.honors[r]
	}
	return out
}

// Len 暗手张数
func (h *Hand) Len() int {
	n := h.unknown
	for s := range h.counts {
		for r := 1; r <= 9; r++ {
			n += h.counts[s][r]
		}
	}
	for r := 1; r <= 7; r++ {
		n += h.honors[r]
	}
	return n
}

// Held 计入副露的有效张数，杠按三张算
func (h *Hand) Held() int {
	return h.Len() + 3*len(h.melds)
}

// CheckSize 摸牌前 13 张，摸牌后 14 张
func (h *Hand) CheckSize() error {
	if n := h.Held(); n != 13 && n != 14 {
		return h.fail("check", Tile{}, fmt.Errorf("%w: %d tiles held", ErrInconsistentMeld, n))
	}
	return nil
}

// Tiles 暗手所有牌（含刚摸到的），赤五单独列出
func (h *Hand) Tiles() []Tile {
	out := make([]Tile, 0, 14)
	for s := SuitMan; s <= SuitSou; s++ {
		c := h.counts[s]
		for r := 1; r <= 9; r++ {
			n := c[r]
			if r == 5 {
				for i := 0; i < c[0]; i++ {
					out = append(out, RedFive(s))
				}
				n -= c[0]
			}
			for i := 0; i < n; i++ {
				out = append(out, Tile{Suit: s, Rank: r})
			}
		}
	}
	for r := 1; r <= 7; r++ {
		for i := 0; i < h.honors[r]; i++ {
			out = append(out, Tile{Suit: SuitHonor, Rank: r})
		}
	}
	for i := 0; i < h.unknown; i++ {
		out = append(out, UnknownTile())
	}
	return out
}

// DistinctTiles 去重后的暗手牌面，用作打牌候选
func (h *Hand) DistinctTiles() []Tile {
	var out []Tile
	for _, t := range h.Tiles() {
		if len(out) > 0 && out[len(out)-1].SameFace(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Pick 取出 n 张同种牌用于鸣牌，普通牌优先于赤五
func (h *Hand) Pick(tt TileType, n int) ([]Tile, bool) {
	base := TileOf(tt)
	if h.Count(base) < n {
		return nil, false
	}
	out := make([]Tile, 0, n)
	plain := h.Count(base) - h.RedCount(base.Suit)*boolInt(base.Rank == 5)
	for i := 0; i < n; i++ {
		if i < plain {
			out = append(out, base)
		} else {
			out = append(out, RedFive(base.Suit))
		}
	}
	return out, true
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (h *Hand) Clone() *Hand {
	c := *h
	c.melds = append([]Meld(nil), h.melds...)
	if h.drawn != nil {
		d := *h.drawn
		c.drawn = &d
	}
	return &c
}

func (h *Hand) String() string {
	tiles := h.Tiles()
	if h.drawn != nil {
		for i, t := range tiles {
			if t.SameFace(*h.drawn) {
				tiles = without(tiles, i)
				break
			}
		}
	}
	var b strings.Builder
	b.WriteString(FormatTiles(tiles))
	if h.drawn != nil {
		b.WriteByte('+')
		b.WriteString(h.drawn.String())
	}
	for _, m := range h.melds {
		b.WriteByte(',')
		b.WriteString(FormatMeld(m))
	}
	return b.String()
}
