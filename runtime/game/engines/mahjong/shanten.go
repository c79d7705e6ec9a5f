package mahjong

// ShantenInfinity 该牌型不可能成立（有副露时的七对子、国士）
const ShantenInfinity = 1 << 16

// ShantenResult 三种牌型各自的向听数
type ShantenResult struct {
	Normal  int
	Chiitoi int
	Kokushi int
}

func (r ShantenResult) Min() int {
	return min(r.Normal, r.Chiitoi, r.Kokushi)
}

// blockSummary 单一花色拆分结果：面子、搭子（含对子）、孤张
type blockSummary struct {
	sets     int
	partials int
	isolated int
}

// shantenInput 只读计数视图；未知牌按完整面子计
type shantenInput struct {
	suits   [3][10]int
	honors  [8]int
	unknown int
	calls   int
}

func inputOf(h *Hand) shantenInput {
	in := shantenInput{honors: h.HonorCounts(), unknown: h.Unknown(), calls: h.CallCount()}
	for s := SuitMan; s <= SuitSou; s++ {
		in.suits[s] = h.SuitCounts(s)
		in.suits[s][0] = 0
	}
	return in
}

// Shanten 最小向听数，-1 表示已和牌
func Shanten(h *Hand) int {
	return CalcShanten(h).Min()
}

func CalcShanten(h *Hand) ShantenResult {
	in := inputOf(h)
	return ShantenResult{
		Normal:  ShantenNormal(in),
		Chiitoi: ShantenChiitoi(in),
		Kokushi: ShantenKokushi(in),
	}
}

// ShantenNormal 一般型：先不取雀头算一次，再依次把每个对子当作雀头重算
func ShantenNormal(in shantenInput) int {
	best := shantenWithoutHead(in, false)
	for s := 0; s < 3; s++ {
		for r := 1; r <= 9; r++ {
			if in.suits[s][r] < 2 {
				continue
			}
			in.suits[s][r] -= 2
			best = min(best, shantenWithoutHead(in, true))
			in.suits[s][r] += 2
		}
	}
	for r := 1; r <= 7; r++ {
		if in.honors[r] < 2 {
			continue
		}
		in.honors[r] -= 2
		best = min(best, shantenWithoutHead(in, true))
		in.honors[r] += 2
	}
	return best
}

func shantenWithoutHead(in shantenInput, hasPair bool) int {
	var per [3][2]blockSummary
	for s := 0; s < 3; s++ {
		per[s] = walkSuit(in.suits[s])
	}
	fixed := honorSummary(in.honors)
	fixed.sets += in.calls + in.unknown/3
	fixed.isolated += in.unknown % 3

	best := ShantenInfinity
	for mask := 0; mask < 8; mask++ {
		total := fixed
		for s := 0; s < 3; s++ {
			b := per[s][(mask>>s)&1]
			total.sets += b.sets
			total.partials += b.partials
			total.isolated += b.isolated
		}
		best = min(best, shantenFormula(total, hasPair))
	}
	return best
}

// shantenFormula 8 - 2*面子 - min(搭子, 4-面子) - 雀头
func shantenFormula(b blockSummary, hasPair bool) int {
	sets := min(b.sets, 4)
	partials := min(b.partials, 4-sets)
	sh := 8 - 2*sets - partials
	if hasPair {
		sh--
	}
	return sh
}

func honorSummary(honors [8]int) blockSummary {
	var b blockSummary
	for r := 1; r <= 7; r++ {
		switch c := honors[r]; {
		case c >= 3:
			b.sets++
			b.isolated += c - 3
		case c == 2:
			b.partials++
		case c == 1:
			b.isolated++
		}
	}
	return b
}

// walkSuit 返回两个候选：[0] 孤张最少，[1] 面子最多
func walkSuit(counts [10]int) [2]blockSummary {
	best := [2]blockSummary{
		{isolated: ShantenInfinity},
		{sets: -1},
	}
	c := counts
	dfsSuit(&c, 1, blockSummary{}, &best)
	return best
}

func dfsSuit(c *[10]int, r int, cur blockSummary, best *[2]blockSummary) {
	for r <= 9 && c[r] == 0 {
		r++
	}
	if r > 9 {
		b0 := best[0]
		if cur.isolated < b0.isolated ||
			(cur.isolated == b0.isolated && (cur.sets > b0.sets || (cur.sets == b0.sets && cur.partials > b0.partials))) {
			best[0] = cur
		}
		b1 := best[1]
		if cur.sets > b1.sets ||
			(cur.sets == b1.sets && (cur.partials > b1.partials || (cur.partials == b1.partials && cur.isolated < b1.isolated))) {
			best[1] = cur
		}
		return
	}

	// 刻子
	if c[r] >= 3 {
		c[r] -= 3
		dfsSuit(c, r, blockSummary{cur.sets + 1, cur.partials, cur.isolated}, best)
		c[r] += 3
	}
	// 顺子
	if r <= 7 && c[r+1] > 0 && c[r+2] > 0 {
		c[r]--
		c[r+1]--
		c[r+2]--
		dfsSuit(c, r, blockSummary{cur.sets + 1, cur.partials, cur.isolated}, best)
		c[r]++
		c[r+1]++
		c[r+2]++
	}
	// 对子搭子
	if c[r] >= 2 {
		c[r] -= 2
		dfsSuit(c, r, blockSummary{cur.sets, cur.partials + 1, cur.isolated}, best)
		c[r] += 2
	}
	// 两面/边张
	if r <= 8 && c[r+1] > 0 {
		c[r]--
		c[r+1]--
		dfsSuit(c, r, blockSummary{cur.sets, cur.partials + 1, cur.isolated}, best)
		c[r]++
		c[r+1]++
	}
	// 嵌张
	if r <= 7 && c[r+2] > 0 {
		c[r]--
		c[r+2]--
		dfsSuit(c, r, blockSummary{cur.sets, cur.partials + 1, cur.isolated}, best)
		c[r]++
		c[r+2]++
	}
	// 孤张
	c[r]--
	dfsSuit(c, r, blockSummary{cur.sets, cur.partials, cur.isolated + 1}, best)
	c[r]++
}

// ShantenChiitoi 七对子向听数，有副露时不成立
func ShantenChiitoi(in shantenInput) int {
	if in.calls > 0 {
		return ShantenInfinity
	}
	pairs, kinds := 0, 0
	count := func(c int) {
		if c > 0 {
			kinds++
		}
		if c >= 2 {
			pairs++
		}
	}
	for s := 0; s < 3; s++ {
		for r := 1; r <= 9; r++ {
			count(in.suits[s][r])
		}
	}
	for r := 1; r <= 7; r++ {
		count(in.honors[r])
	}
	return 6 - pairs + max(0, 7-kinds)
}

// ShantenKokushi 国士无双向听数，有副露时不成立
func ShantenKokushi(in shantenInput) int {
	if in.calls > 0 {
		return ShantenInfinity
	}
	unique, pair := 0, false
	see := func(c int) {
		if c > 0 {
			unique++
		}
		if c >= 2 {
			pair = true
		}
	}
	for s := 0; s < 3; s++ {
		see(in.suits[s][1])
		see(in.suits[s][9])
	}
	for r := 1; r <= 7; r++ {
		see(in.honors[r])
	}
	sh := 13 - unique
	if pair {
		sh--
	}
	return sh
}
