package mahjong

import (
	"fmt"
	"strings"
)

type Shape int

const (
	ShapeNormal Shape = iota // 四面子一雀头
	ShapeChiitoi             // 七对子
	ShapeKokushi             // 国士无双
	ShapeChuuren             // 九莲宝灯
)

func (s Shape) String() string {
	return [...]string{"normal", "chiitoi", "kokushi", "chuuren"}[s]
}

type BlockKind int

const (
	BlockRun BlockKind = iota
	BlockTriplet
	BlockKan
	BlockPair
	BlockWhole // 国士、九莲整手
)

// Block 和牌拆解中的一组牌；Meld 非空表示来自副露（含暗杠）
type Block struct {
	Kind  BlockKind
	Tiles []Tile
	Meld  Meld
}

// HasWin 是否包含和了牌
func (b Block) HasWin() bool {
	for _, t := range b.Tiles {
		if t.Has(MarkerTsumo) || t.Has(MarkerRon) {
			return true
		}
	}
	return false
}

// Concealed 暗刻、暗顺以及暗杠；荣和完成的刻子算明刻
func (b Block) Concealed() bool {
	if b.Meld != nil {
		return !IsOpen(b.Meld)
	}
	if b.Kind == BlockTriplet {
		for _, t := range b.Tiles {
			if t.Has(MarkerRon) {
				return false
			}
		}
	}
	return true
}

func (b Block) String() string {
	if b.Meld != nil {
		return FormatMeld(b.Meld)
	}
	return formatRun(b.Tiles)
}

// Decomposition 一种和牌拆解，和了牌带 tsumo 或 ron 标记
type Decomposition struct {
	Shape   Shape
	Blocks  []Block
	WinTile Tile
	Tsumo   bool
}

func (d Decomposition) String() string {
	parts := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		parts[i] = b.String()
	}
	return fmt.Sprintf("%s[%s]", d.Shape, strings.Join(parts, " "))
}

// WinBlock 包含和了牌的那一组
func (d Decomposition) WinBlock() (Block, bool) {
	for _, b := range d.Blocks {
		if b.HasWin() {
			return b, true
		}
	}
	return Block{}, false
}

// Wait 听牌形
type Wait int

const (
	WaitRyanmen Wait = iota // 两面
	WaitKanchan             // 嵌张
	WaitPenchan             // 边张
	WaitShanpon             // 双碰
	WaitTanki               // 单骑
	WaitOther               // 国士十三面等
)

func (d Decomposition) Wait() Wait {
	b, ok := d.WinBlock()
	if !ok {
		return WaitOther
	}
	switch b.Kind {
	case BlockPair:
		return WaitTanki
	case BlockTriplet:
		return WaitShanpon
	case BlockRun:
		idx := 0
		for i, t := range b.Tiles {
			if t.Has(MarkerTsumo) || t.Has(MarkerRon) {
				idx = i
			}
		}
		lo := b.Tiles[0].Rank
		switch {
		case idx == 1:
			return WaitKanchan
		case idx == 2 && lo == 1, idx == 0 && lo == 7:
			return WaitPenchan
		default:
			return WaitRyanmen
		}
	default:
		return WaitOther
	}
}

// CalcBlocks 列出所有和牌拆解。tsumo 时手牌已含和了牌（刚摸到）；荣和时由本函数补入。
// 返回空表示未和牌，不是错误。
func CalcBlocks(h *Hand, win Tile, tsumo bool) []Decomposition {
	work := h.Clone()
	win = win.Plain()
	if !tsumo {
		if err := work.Inc(win); err != nil {
			return nil
		}
	} else if work.Count(win) == 0 {
		return nil
	}
	if work.Unknown() > 0 || work.Len()+3*work.CallCount() != 14 {
		return nil
	}

	marker := MarkerRon
	if tsumo {
		marker = MarkerTsumo
	}
	counts := work.Counts34()

	var shapes []rawDecomp
	if work.CallCount() == 0 {
		if r, ok := chiitoiShape(counts); ok {
			shapes = append(shapes, r)
		}
		if r, ok := kokushiShape(counts); ok {
			shapes = append(shapes, r)
		}
		if r, ok := chuurenShape(counts); ok {
			shapes = append(shapes, r)
		}
	}
	shapes = append(shapes, normalShapes(counts, 4-work.CallCount())...)

	seen := make(map[string]struct{})
	var out []Decomposition
	for _, raw := range shapes {
		for gi, g := range raw.groups {
			if !g.contains(win.Type()) {
				continue
			}
			d := materialize(work, raw, gi, win.With(marker))
			d.Tsumo = tsumo
			key := d.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// IsAgari 14 张（含副露）是否和牌
func IsAgari(h *Hand) bool {
	if h.Unknown() > 0 || h.Len()+3*h.CallCount() != 14 {
		return false
	}
	c := h.Counts34()
	if h.CallCount() == 0 {
		if _, ok := chiitoiShape(c); ok {
			return true
		}
		if _, ok := kokushiShape(c); ok {
			return true
		}
	}
	return len(normalShapes(c, 4-h.CallCount())) > 0
}

type rawGroup struct {
	kind  BlockKind
	types []TileType
}

func (g rawGroup) contains(tt TileType) bool {
	for _, t := range g.types {
		if t == tt {
			return true
		}
	}
	return false
}

type rawDecomp struct {
	shape  Shape
	groups []rawGroup
}

func chiitoiShape(c [TileKinds]int) (rawDecomp, bool) {
	r := rawDecomp{shape: ShapeChiitoi}
	for i := 0; i < TileKinds; i++ {
		switch c[i] {
		case 0:
		case 2:
			r.groups = append(r.groups, rawGroup{BlockPair, []TileType{TileType(i), TileType(i)}})
		default:
			return rawDecomp{}, false
		}
	}
	return r, len(r.groups) == 7
}

func kokushiShape(c [TileKinds]int) (rawDecomp, bool) {
	var types []TileType
	pair := false
	total := 0
	for _, idx := range kokushiTiles {
		if c[idx] == 0 {
			return rawDecomp{}, false
		}
		if c[idx] == 2 {
			pair = true
		}
		for k := 0; k < c[idx]; k++ {
			types = append(types, TileType(idx))
		}
		total += c[idx]
	}
	if !pair || total != 14 {
		return rawDecomp{}, false
	}
	return rawDecomp{shape: ShapeKokushi, groups: []rawGroup{{BlockWhole, types}}}, true
}

// chuurenShape 单一花色 1112345678999 + 任意一张
func chuurenShape(c [TileKinds]int) (rawDecomp, bool) {
	for s := 0; s < 3; s++ {
		base := s * 9
		total := 0
		for i := 0; i < 9; i++ {
			total += c[base+i]
		}
		if total != 14 {
			continue
		}
		need := [9]int{3, 1, 1, 1, 1, 1, 1, 1, 3}
		ok := true
		var types []TileType
		for i := 0; i < 9; i++ {
			if c[base+i] < need[i] {
				ok = false
			}
			for k := 0; k < c[base+i]; k++ {
				types = append(types, TileType(base+i))
			}
		}
		if ok {
			return rawDecomp{shape: ShapeChuuren, groups: []rawGroup{{BlockWhole, types}}}, true
		}
	}
	return rawDecomp{}, false
}

var kokushiTiles = [13]int{
	int(Man1), int(Man9),
	int(Pin1), int(Pin9),
	int(So1), int(So9),
	int(East), int(South), int(West), int(North),
	int(White), int(Green), int(Red),
}

// normalShapes 枚举雀头后，列出所有恰好组成 need 个面子的拆法
func normalShapes(c [TileKinds]int, need int) []rawDecomp {
	var out []rawDecomp
	if need < 0 {
		return nil
	}
	for j := 0; j < TileKinds; j++ {
		if c[j] < 2 {
			continue
		}
		work := c
		work[j] -= 2
		head := rawGroup{BlockPair, []TileType{TileType(j), TileType(j)}}
		enumMelds(&work, need, nil, func(groups []rawGroup) {
			gs := append([]rawGroup{head}, groups...)
			out = append(out, rawDecomp{shape: ShapeNormal, groups: gs})
		})
	}
	return out
}

func enumMelds(c *[TileKinds]int, need int, acc []rawGroup, emit func([]rawGroup)) {
	i := -1
	for k := 0; k < TileKinds; k++ {
		if c[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		if need == 0 {
			emit(append([]rawGroup(nil), acc...))
		}
		return
	}
	if need == 0 {
		return
	}
	if c[i] >= 3 {
		c[i] -= 3
		tt := TileType(i)
		enumMelds(c, need-1, append(acc, rawGroup{BlockTriplet, []TileType{tt, tt, tt}}), emit)
		c[i] += 3
	}
	tt := TileType(i)
	if tt.IsNumbered() && i%9 <= 6 && c[i+1] > 0 && c[i+2] > 0 {
		c[i]--
		c[i+1]--
		c[i+2]--
		enumMelds(c, need-1, append(acc, rawGroup{BlockRun, []TileType{tt, tt + 1, tt + 2}}), emit)
		c[i]++
		c[i+1]++
		c[i+2]++
	}
}

// materialize 把计数拆解还原成实体牌：标记和了牌，再分配赤五，最后补上副露
func materialize(h *Hand, raw rawDecomp, winGroup int, win Tile) Decomposition {
	var reds [3]int
	for s := SuitMan; s <= SuitSou; s++ {
		reds[s] = h.RedCount(s)
	}
	if win.IsRedFive() {
		reds[win.Suit]--
	}
	d := Decomposition{Shape: raw.shape, WinTile: win}
	for gi, g := range raw.groups {
		b := Block{Kind: g.kind, Tiles: make([]Tile, 0, len(g.types))}
		marked := gi != winGroup
		for _, tt := range g.types {
			t := TileOf(tt)
			if !marked && tt == win.Type() {
				b.Tiles = append(b.Tiles, win)
				marked = true
				continue
			}
			if t.IsNumbered() && t.Rank == 5 && reds[t.Suit] > 0 {
				reds[t.Suit]--
				t = t.With(MarkerRed)
			}
			b.Tiles = append(b.Tiles, t)
		}
		d.Blocks = append(d.Blocks, b)
	}
	for _, m := range h.melds {
		kind := BlockTriplet
		switch m.(type) {
		case Chi:
			kind = BlockRun
		case Pon:
		case ClosedKan, OpenKan, AddedKan:
			kind = BlockKan
		default:
			panic(fmt.Sprintf("unknown meld %T", m))
		}
		d.Blocks = append(d.Blocks, Block{Kind: kind, Tiles: m.Tiles(), Meld: m})
	}
	return d
}
