package mahjong

import "sort"

// Candidate 打出 Discard 之后的向听数与有效进张
type Candidate struct {
	Discard Tile
	Shanten int
	Tiles   []TileType // 能进一步降低向听的牌
	Ukeire  int        // 上述牌的剩余张数
}

// Visible 场上可见的牌（牌河、副露、宝牌指示牌），用于扣减进张
type Visible [TileKinds]int

// CalcCandidates 逐一试打 choices 中的牌，只保留结果向听最小的打法。
// choices 为空时试打手里每一种牌面。
func CalcCandidates(h *Hand, choices []Tile, visible *Visible) []Candidate {
	if len(choices) == 0 {
		choices = h.DistinctTiles()
	}
	best := ShantenInfinity
	var out []Candidate
	for _, t := range choices {
		work := h.Clone()
		if err := work.Discard(t); err != nil {
			continue
		}
		sh, tiles := CandidateTiles(work)
		if sh > best {
			continue
		}
		if sh < best {
			best = sh
			out = out[:0]
		}
		out = append(out, Candidate{
			Discard: t.Plain(),
			Shanten: sh,
			Tiles:   tiles,
			Ukeire:  countUkeire(work, tiles, visible),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ukeire > out[j].Ukeire
	})
	return out
}

// CandidateTiles 对没有摸牌的手牌，尝试加入每一种牌，返回当前向听与降低向听最多的牌
func CandidateTiles(h *Hand) (int, []TileType) {
	base := Shanten(h)
	work := h.Clone()
	work.ClearDrawn()
	best := base
	var tiles []TileType
	for tt := Man1; tt <= Red; tt++ {
		t := TileOf(tt)
		if work.Count(t) >= 4 {
			continue
		}
		if err := work.Inc(t); err != nil {
			continue
		}
		sh := Shanten(work)
		_ = work.Dec(t)
		if sh >= base {
			continue
		}
		if sh < best {
			best = sh
			tiles = tiles[:0]
		}
		if sh == best {
			tiles = append(tiles, tt)
		}
	}
	return base, tiles
}

// Waits 听牌时能和的牌种（按形状判断，不考虑役与振听）
func Waits(h *Hand) []TileType {
	work := h.Clone()
	var out []TileType
	for tt := Man1; tt <= Red; tt++ {
		t := TileOf(tt)
		if work.Count(t) >= 4 {
			continue
		}
		if err := work.Inc(t); err != nil {
			continue
		}
		if IsAgari(work) {
			out = append(out, tt)
		}
		_ = work.Dec(t)
	}
	return out
}

func countUkeire(h *Hand, tiles []TileType, visible *Visible) int {
	n := 0
	for _, tt := range tiles {
		left := 4 - h.CountType(tt)
		if visible != nil {
			left -= visible[tt]
		}
		n += max(left, 0)
	}
	return n
}
