package mahjong

import "slices"

// calculateAvailableOperations 他家对一张打牌的全部选择；没有可做动作的座位不出现在结果里
func (c *RoundController) calculateAvailableOperations(discarder int, t Tile) map[int]*Choices {
	out := make(map[int]*Choices)
	for s := 0; s < 4; s++ {
		if s == discarder {
			continue
		}
		ch := &Choices{CanPass: true}
		ch.Ron = c.canHu(s, t)
		if c.canCall(s) {
			ch.Pon = c.getPengOptions(s, discarder, t)
			ch.OpenKan = c.getGangOptions(s, discarder, t)
			if (discarder+1)%4 == s {
				ch.Chi = c.getChiOptions(s, t)
			}
		}
		if !ch.Empty() {
			out[s] = ch
		}
	}
	return out
}

// choicesAfterDrawn 摸牌后的选择；立直后只能打出摸到的牌
func (c *RoundController) choicesAfterDrawn(seat int) *Choices {
	h := c.hand(seat)
	drawn, _ := h.Drawn()
	ch := &Choices{}
	if _, _, err := c.tsumoScore(seat); err == nil {
		ch.Tsumo = true
	}
	if h.Reached() {
		ch.Discards = []Tile{drawn}
	} else {
		ch.Discards = h.DistinctTiles()
		ch.Reach = c.reachTiles(seat)
	}
	if c.kanAllowed() {
		ch.ClosedKan = c.getAnkanOptions(seat)
		ch.AddedKan = c.getKakanOptions(seat)
	}
	return ch
}

// reachTiles 门前清、未立直、点数足够、剩余至少四张时，打出后仍听牌的牌
func (c *RoundController) reachTiles(seat int) []Tile {
	h := c.hand(seat)
	if h.Reached() || !h.IsConcealed() || c.info.Scores[seat] < ReachStickPoints || c.wall.Remaining() < 4 {
		return nil
	}
	var out []Tile
	for _, t := range h.DistinctTiles() {
		work := h.Clone()
		if err := work.Discard(t); err != nil {
			continue
		}
		if Shanten(work) == 0 {
			out = append(out, t)
		}
	}
	return out
}

// getAnkanOptions 暗杠；立直后只能杠摸到的牌，且不能改变听牌
func (c *RoundController) getAnkanOptions(seat int) []ClosedKan {
	h := c.hand(seat)
	drawn, hasDrawn := h.Drawn()
	var out []ClosedKan
	for tt := Man1; tt <= Red; tt++ {
		four, ok := h.Pick(tt, 4)
		if !ok {
			continue
		}
		m := ClosedKan{Four: [4]Tile{four[0], four[1], four[2], four[3]}}
		if h.Reached() && (!hasDrawn || drawn.Type() != tt || !sameWaitsAfterKan(h, drawn, m)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func sameWaitsAfterKan(h *Hand, drawn Tile, m ClosedKan) bool {
	before := h.Clone()
	if err := before.Discard(drawn); err != nil {
		return false
	}
	after := h.Clone()
	if err := after.Kan(m); err != nil {
		return false
	}
	w := Waits(before)
	return len(w) > 0 && slices.Equal(w, Waits(after))
}

// getKakanOptions 加杠：手里有已碰的同种牌
func (c *RoundController) getKakanOptions(seat int) []AddedKan {
	h := c.hand(seat)
	if h.Reached() {
		return nil
	}
	var out []AddedKan
	for _, m := range h.Melds() {
		p, ok := m.(Pon)
		if !ok {
			continue
		}
		for _, own := range ownCombos(h, p.Called.Type(), 1) {
			out = append(out, AddedKan{Pon: p, Added: own[0]})
		}
	}
	return out
}

// getPengOptions 碰牌的所有选择（赤五用与不用算不同选择）
func (c *RoundController) getPengOptions(seat, discarder int, t Tile) []Pon {
	h := c.hand(seat)
	from := RelativeOf(seat, discarder)
	var out []Pon
	for _, own := range ownCombos(h, t.Type(), 2) {
		if c.rules.Kuikae && !kuikaeOK(h, own, []TileType{t.Type()}) {
			continue
		}
		out = append(out, Pon{Called: t.Plain(), Own: [2]Tile{own[0], own[1]}, From: from})
	}
	return out
}

// getGangOptions 大明杠
func (c *RoundController) getGangOptions(seat, discarder int, t Tile) []OpenKan {
	if !c.kanAllowed() {
		return nil
	}
	h := c.hand(seat)
	from := RelativeOf(seat, discarder)
	var out []OpenKan
	for _, own := range ownCombos(h, t.Type(), 3) {
		out = append(out, OpenKan{Called: t.Plain(), Own: [3]Tile{own[0], own[1], own[2]}, From: from})
	}
	return out
}

// getChiOptions 吃：只限上家的数牌，三种搭子位置
func (c *RoundController) getChiOptions(seat int, t Tile) []Chi {
	if !t.IsNumbered() {
		return nil
	}
	h := c.hand(seat)
	var out []Chi
	for _, offs := range [][2]int{{-2, -1}, {-1, 1}, {1, 2}} {
		ra, rb := t.Rank+offs[0], t.Rank+offs[1]
		if ra < 1 || rb > 9 {
			continue
		}
		ta := t.Type() + TileType(offs[0])
		tb := t.Type() + TileType(offs[1])
		for _, a := range ownCombos(h, ta, 1) {
			for _, b := range ownCombos(h, tb, 1) {
				m := Chi{Called: t.Plain(), Own: [2]Tile{a[0], b[0]}}
				if c.rules.Kuikae && !kuikaeOK(h, m.Own[:], kuikaeKinds(m)) {
					continue
				}
				out = append(out, m)
			}
		}
	}
	return out
}

// ownCombos 从手里拿出 n 张同种牌的方式，只在赤五的用量上不同
func ownCombos(h *Hand, tt TileType, n int) [][]Tile {
	base := TileOf(tt)
	total := h.Count(base)
	if total < n {
		return nil
	}
	red := 0
	if base.IsNumbered() && base.Rank == 5 {
		red = h.RedCount(base.Suit)
	}
	plain := total - red
	var out [][]Tile
	for k := max(0, n-plain); k <= min(red, n); k++ {
		combo := make([]Tile, 0, n)
		for i := 0; i < n-k; i++ {
			combo = append(combo, base)
		}
		for i := 0; i < k; i++ {
			combo = append(combo, RedFive(base.Suit))
		}
		out = append(out, combo)
	}
	return out
}
