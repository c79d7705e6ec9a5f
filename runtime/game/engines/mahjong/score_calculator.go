package mahjong

import (
	"fmt"
	"math"
)

// WinFlags 和牌方式
type WinFlags struct {
	Tsumo       bool
	Reach       bool
	DoubleReach bool
	Ippatsu     bool
	Chankan     bool
	Haitei      bool // 最后一张自摸
	Houtei      bool // 最后一张荣和
	Rinshan     bool
}

// BoardContext 计分所需的局面信息
type BoardContext struct {
	Winner            int
	Loser             int // 自摸为 -1
	Dealer            int
	RoundWind         Wind
	SeatWind          Wind
	DoraIndicators    []Tile
	UraDoraIndicators []Tile // 仅立直和牌时有效
	RiichiSticks      int
	Honba             int
	Flags             WinFlags
}

type YakuScore struct {
	Name    string
	Han     int
	Yakuman int
}

// ScoreResult 计分结果。Deltas 含本场棒，不含立直棒（由控制器结算）。
type ScoreResult struct {
	Deltas [4]int
	Total  int
	Han    int
	Fu     int
	Dora   int
	Yaku   []YakuScore
	Limit  string
}

// ScoringOracle 外部计分器：不成和（无役）时返回 ErrNotWinning
type ScoringOracle interface {
	Score(d Decomposition, b BoardContext) (ScoreResult, error)
}

// BasicScorer 默认计分器，覆盖常见役种、宝牌与符数
type BasicScorer struct {
	Registry []YakuChecker
}

func NewBasicScorer() *BasicScorer {
	return &BasicScorer{Registry: RiichiMahjong4pYakuRegistry}
}

func (s *BasicScorer) Score(d Decomposition, b BoardContext) (ScoreResult, error) {
	ctx := newYakuContext(d, b)
	var (
		res     ScoreResult
		han     int
		yakuman int
	)
	for _, checker := range s.Registry {
		h, ym := checker.Check(ctx)
		if h <= 0 && ym <= 0 {
			continue
		}
		res.Yaku = append(res.Yaku, YakuScore{Name: checker.ID().String(), Han: h, Yakuman: ym})
		han += h
		yakuman += ym
	}
	if han == 0 && yakuman == 0 {
		return ScoreResult{}, fmt.Errorf("%w: no yaku in %s", ErrNotWinning, d)
	}
	if yakuman > 0 {
		// 役满时只保留役满役种
		kept := res.Yaku[:0]
		for _, y := range res.Yaku {
			if y.Yakuman > 0 {
				kept = append(kept, y)
			}
		}
		res.Yaku = kept
		res.Limit = "yakuman"
		base := 8000 * yakuman
		res.Deltas, res.Total = payments(base, b)
		return res, nil
	}

	res.Dora = countDora(ctx)
	res.Han = han + res.Dora
	res.Fu = calculateFu(ctx)
	base, limit := basePoints(res.Han, res.Fu)
	res.Limit = limit
	res.Deltas, res.Total = payments(base, b)
	return res, nil
}

// countDora 表宝牌、赤宝牌、立直时的里宝牌
func countDora(ctx *YakuContext) int {
	n := 0
	indicators := append([]Tile(nil), ctx.B.DoraIndicators...)
	if ctx.B.Flags.Reach {
		indicators = append(indicators, ctx.B.UraDoraIndicators...)
	}
	for _, ind := range indicators {
		target := ind.Type().DoraNext()
		for _, t := range ctx.All {
			if t.Type() == target {
				n++
			}
		}
	}
	for _, t := range ctx.All {
		if t.IsRedFive() {
			n++
		}
	}
	return n
}

// calculateFu 符数：副底 20，加门前荣和、自摸、面子、雀头、听牌形
func calculateFu(ctx *YakuContext) int {
	if ctx.D.Shape == ShapeChiitoi {
		return 25
	}
	if isPinfu(ctx) {
		if ctx.B.Flags.Tsumo {
			return 20
		}
		return 30
	}
	fu := 20
	if ctx.Concealed && !ctx.B.Flags.Tsumo {
		fu += 10
	}
	if ctx.B.Flags.Tsumo {
		fu += 2
	}
	for _, b := range ctx.D.Blocks {
		if b.Kind != BlockTriplet && b.Kind != BlockKan {
			continue
		}
		v := 2
		if b.Tiles[0].IsYaochu() {
			v *= 2
		}
		if b.Concealed() {
			v *= 2
		}
		if b.Kind == BlockKan {
			v *= 4
		}
		fu += v
	}
	if ctx.HasPair {
		if ctx.Pair >= White {
			fu += 2
		}
		if ctx.Pair == ctx.B.SeatWind.Tile() {
			fu += 2
		}
		if ctx.Pair == ctx.B.RoundWind.Tile() {
			fu += 2
		}
	}
	switch ctx.D.Wait() {
	case WaitKanchan, WaitPenchan, WaitTanki:
		fu += 2
	}
	// 副露平和型荣和按 30 符
	if fu == 20 {
		fu = 30
	}
	return ((fu + 9) / 10) * 10
}

// basePoints 基本点 = 符 × 2^(2+番)，超过 2000 按满贯以上的固定值
func basePoints(han, fu int) (int, string) {
	switch {
	case han >= 13:
		return 8000, "kazoe-yakuman"
	case han >= 11:
		return 6000, "sanbaiman"
	case han >= 8:
		return 4000, "baiman"
	case han >= 6:
		return 3000, "haneman"
	case han >= 5:
		return 2000, "mangan"
	}
	base := fu * (1 << (2 + han))
	if base > 2000 {
		return 2000, "mangan"
	}
	return base, ""
}

// payments 荣和放铳者全付；自摸庄家付两份。本场：荣和 300，自摸每人 100。
func payments(base int, b BoardContext) ([4]int, int) {
	var delta [4]int
	dealerWin := b.Winner == b.Dealer
	if b.Loser >= 0 {
		mult := 4
		if dealerWin {
			mult = 6
		}
		pay := roundUpTo100(base*mult) + 300*b.Honba
		delta[b.Loser] -= pay
		delta[b.Winner] += pay
		return delta, pay
	}
	for s := 0; s < 4; s++ {
		if s == b.Winner {
			continue
		}
		mult := 1
		if dealerWin || s == b.Dealer {
			mult = 2
		}
		pay := roundUpTo100(base*mult) + 100*b.Honba
		delta[s] -= pay
		delta[b.Winner] += pay
	}
	return delta, delta[b.Winner]
}

func roundUpTo100(x int) int {
	return int(math.Ceil(float64(x)/100.0)) * 100
}
