package mahjong

// Yaku 役种
type Yaku int

const (
	YakuRiichi       Yaku = iota // 立直
	YakuDoubleRiichi             // 两立直
	YakuIppatsu                  // 一发
	YakuTsumo                    // 门前清自摸和
	YakuPinfu                    // 平和
	YakuIipeikou                 // 一杯口
	YakuTanyao                   // 断幺九
	YakuYakuhaiSeat              // 役牌：自风
	YakuYakuhaiRound             // 役牌：场风
	YakuYakuhaiDragon            // 役牌：三元牌
	YakuHaitei                   // 海底摸月
	YakuHoutei                   // 河底捞鱼
	YakuRinshan                  // 岭上开花
	YakuChankan                  // 抢杠
	YakuSanshoku                 // 三色同顺
	YakuIttsu                    // 一气通贯
	YakuChiitoi                  // 七对子
	YakuToitoi                   // 对对和
	YakuSanankou                 // 三暗刻
	YakuHonitsu                  // 混一色
	YakuChinitsu                 // 清一色

	// 役满
	YakuKokushi   // 国士无双
	YakuChuuren   // 九莲宝灯
	YakuSuuankou  // 四暗刻
	YakuDaisangen // 大三元
	YakuTsuuiisou // 字一色
)

var yakuNames = map[Yaku]string{
	YakuRiichi:        "riichi",
	YakuDoubleRiichi:  "double-riichi",
	YakuIppatsu:       "ippatsu",
	YakuTsumo:         "menzen-tsumo",
	YakuPinfu:         "pinfu",
	YakuIipeikou:      "iipeikou",
	YakuTanyao:        "tanyao",
	YakuYakuhaiSeat:   "yakuhai-seat-wind",
	YakuYakuhaiRound:  "yakuhai-round-wind",
	YakuYakuhaiDragon: "yakuhai-dragon",
	YakuHaitei:        "haitei",
	YakuHoutei:        "houtei",
	YakuRinshan:       "rinshan",
	YakuChankan:       "chankan",
	YakuSanshoku:      "sanshoku",
	YakuIttsu:         "ittsu",
	YakuChiitoi:       "chiitoitsu",
	YakuToitoi:        "toitoi",
	YakuSanankou:      "sanankou",
	YakuHonitsu:       "honitsu",
	YakuChinitsu:      "chinitsu",
	YakuKokushi:       "kokushi",
	YakuChuuren:       "chuuren",
	YakuSuuankou:      "suuankou",
	YakuDaisangen:     "daisangen",
	YakuTsuuiisou:     "tsuuiisou",
}

func (y Yaku) String() string { return yakuNames[y] }

// YakuContext 役判定的输入：一种拆解 + 局面
type YakuContext struct {
	D         Decomposition
	B         BoardContext
	Concealed bool // 门前清
	Runs      []TileType
	Triplets  []TileType // 含杠
	Pair      TileType
	HasPair   bool
	All       []Tile
}

func newYakuContext(d Decomposition, b BoardContext) *YakuContext {
	ctx := &YakuContext{D: d, B: b, Concealed: true}
	for _, blk := range d.Blocks {
		if blk.Meld != nil && IsOpen(blk.Meld) {
			ctx.Concealed = false
		}
		ctx.All = append(ctx.All, blk.Tiles...)
		if len(blk.Tiles) == 0 {
			continue
		}
		first := blk.Tiles[0].Type()
		switch blk.Kind {
		case BlockRun:
			lo := first
			for _, t := range blk.Tiles {
				lo = min(lo, t.Type())
			}
			ctx.Runs = append(ctx.Runs, lo)
		case BlockTriplet, BlockKan:
			ctx.Triplets = append(ctx.Triplets, first)
		case BlockPair:
			if d.Shape == ShapeNormal {
				ctx.Pair = first
				ctx.HasPair = true
			}
		case BlockWhole:
		}
	}
	return ctx
}

// YakuChecker 返回 (番数, 役满倍数)
type YakuChecker interface {
	ID() Yaku
	Check(ctx *YakuContext) (int, int)
}

type yakuCheckerFunc struct {
	id    Yaku
	check func(ctx *YakuContext) (int, int)
}

func (f yakuCheckerFunc) ID() Yaku { return f.id }

func (f yakuCheckerFunc) Check(ctx *YakuContext) (int, int) { return f.check(ctx) }

func hanIf(ok bool, han int) (int, int) {
	if ok {
		return han, 0
	}
	return 0, 0
}

func yakumanIf(ok bool) (int, int) {
	if ok {
		return 0, 1
	}
	return 0, 0
}

// openMinus 副露减一番
func openMinus(ctx *YakuContext, ok bool, closed int) (int, int) {
	if !ok {
		return 0, 0
	}
	if ctx.Concealed {
		return closed, 0
	}
	return closed - 1, 0
}

var RiichiMahjong4pYakuRegistry = []YakuChecker{
	yakuCheckerFunc{YakuKokushi, func(ctx *YakuContext) (int, int) { return yakumanIf(ctx.D.Shape == ShapeKokushi) }},
	yakuCheckerFunc{YakuChuuren, func(ctx *YakuContext) (int, int) { return yakumanIf(ctx.D.Shape == ShapeChuuren) }},
	yakuCheckerFunc{YakuSuuankou, func(ctx *YakuContext) (int, int) {
		return yakumanIf(ctx.D.Shape == ShapeNormal && concealedTriplets(ctx) == 4)
	}},
	yakuCheckerFunc{YakuDaisangen, func(ctx *YakuContext) (int, int) {
		n := 0
		for _, t := range ctx.Triplets {
			if t >= White {
				n++
			}
		}
		return yakumanIf(n == 3)
	}},
	yakuCheckerFunc{YakuTsuuiisou, func(ctx *YakuContext) (int, int) {
		for _, t := range ctx.All {
			if !t.IsHonor() {
				return 0, 0
			}
		}
		return yakumanIf(true)
	}},

	yakuCheckerFunc{YakuRiichi, func(ctx *YakuContext) (int, int) {
		return hanIf(ctx.B.Flags.Reach && !ctx.B.Flags.DoubleReach, 1)
	}},
	yakuCheckerFunc{YakuDoubleRiichi, func(ctx *YakuContext) (int, int) { return hanIf(ctx.B.Flags.DoubleReach, 2) }},
	yakuCheckerFunc{YakuIppatsu, func(ctx *YakuContext) (int, int) { return hanIf(ctx.B.Flags.Ippatsu, 1) }},
	yakuCheckerFunc{YakuTsumo, func(ctx *YakuContext) (int, int) { return hanIf(ctx.Concealed && ctx.B.Flags.Tsumo, 1) }},
	yakuCheckerFunc{YakuPinfu, func(ctx *YakuContext) (int, int) { return hanIf(isPinfu(ctx), 1) }},
	yakuCheckerFunc{YakuIipeikou, func(ctx *YakuContext) (int, int) {
		if !ctx.Concealed {
			return 0, 0
		}
		seen := map[TileType]bool{}
		for _, r := range ctx.Runs {
			if seen[r] {
				return 1, 0
			}
			seen[r] = true
		}
		return 0, 0
	}},
	yakuCheckerFunc{YakuTanyao, func(ctx *YakuContext) (int, int) {
		for _, t := range ctx.All {
			if t.IsYaochu() {
				return 0, 0
			}
		}
		return 1, 0
	}},
	yakuCheckerFunc{YakuYakuhaiSeat, func(ctx *YakuContext) (int, int) {
		return hanIf(hasTriplet(ctx, ctx.B.SeatWind.Tile()), 1)
	}},
	yakuCheckerFunc{YakuYakuhaiRound, func(ctx *YakuContext) (int, int) {
		return hanIf(hasTriplet(ctx, ctx.B.RoundWind.Tile()), 1)
	}},
	yakuCheckerFunc{YakuYakuhaiDragon, func(ctx *YakuContext) (int, int) {
		n := 0
		for _, t := range ctx.Triplets {
			if t >= White {
				n++
			}
		}
		return n, 0
	}},
	yakuCheckerFunc{YakuHaitei, func(ctx *YakuContext) (int, int) { return hanIf(ctx.B.Flags.Haitei, 1) }},
	yakuCheckerFunc{YakuHoutei, func(ctx *YakuContext) (int, int) { return hanIf(ctx.B.Flags.Houtei, 1) }},
	yakuCheckerFunc{YakuRinshan, func(ctx *YakuContext) (int, int) { return hanIf(ctx.B.Flags.Rinshan, 1) }},
	yakuCheckerFunc{YakuChankan, func(ctx *YakuContext) (int, int) { return hanIf(ctx.B.Flags.Chankan, 1) }},
	yakuCheckerFunc{YakuSanshoku, func(ctx *YakuContext) (int, int) {
		for _, r := range ctx.Runs {
			if r > Man7 {
				continue
			}
			if hasRun(ctx, r+9) && hasRun(ctx, r+18) {
				return openMinus(ctx, true, 2)
			}
		}
		return 0, 0
	}},
	yakuCheckerFunc{YakuIttsu, func(ctx *YakuContext) (int, int) {
		for _, base := range []TileType{Man1, Pin1, So1} {
			if hasRun(ctx, base) && hasRun(ctx, base+3) && hasRun(ctx, base+6) {
				return openMinus(ctx, true, 2)
			}
		}
		return 0, 0
	}},
	yakuCheckerFunc{YakuChiitoi, func(ctx *YakuContext) (int, int) { return hanIf(ctx.D.Shape == ShapeChiitoi, 2) }},
	yakuCheckerFunc{YakuToitoi, func(ctx *YakuContext) (int, int) {
		return hanIf(ctx.D.Shape == ShapeNormal && len(ctx.Triplets) == 4, 2)
	}},
	yakuCheckerFunc{YakuSanankou, func(ctx *YakuContext) (int, int) { return hanIf(concealedTriplets(ctx) == 3, 2) }},
	yakuCheckerFunc{YakuHonitsu, func(ctx *YakuContext) (int, int) {
		suit, honors := flushSuit(ctx)
		return openMinus(ctx, suit >= 0 && honors, 3)
	}},
	yakuCheckerFunc{YakuChinitsu, func(ctx *YakuContext) (int, int) {
		suit, honors := flushSuit(ctx)
		return openMinus(ctx, suit >= 0 && !honors, 6)
	}},
}

func concealedTriplets(ctx *YakuContext) int {
	n := 0
	for _, b := range ctx.D.Blocks {
		if (b.Kind == BlockTriplet || b.Kind == BlockKan) && b.Concealed() {
			n++
		}
	}
	return n
}

func hasTriplet(ctx *YakuContext, tt TileType) bool {
	for _, t := range ctx.Triplets {
		if t == tt {
			return true
		}
	}
	return false
}

func hasRun(ctx *YakuContext, lo TileType) bool {
	for _, r := range ctx.Runs {
		if r == lo {
			return true
		}
	}
	return false
}

// flushSuit 所有数牌同一花色时返回该花色，否则 -1
func flushSuit(ctx *YakuContext) (int, bool) {
	suit := -1
	honors := false
	for _, t := range ctx.All {
		if t.IsHonor() {
			honors = true
			continue
		}
		if suit >= 0 && int(t.Suit) != suit {
			return -1, false
		}
		suit = int(t.Suit)
	}
	return suit, honors
}

func isYakuhai(ctx *YakuContext, tt TileType) bool {
	return tt >= White || tt == ctx.B.SeatWind.Tile() || tt == ctx.B.RoundWind.Tile()
}

func isPinfu(ctx *YakuContext) bool {
	return ctx.Concealed && ctx.D.Shape == ShapeNormal && len(ctx.Runs) == 4 &&
		ctx.HasPair && !isYakuhai(ctx, ctx.Pair) && ctx.D.Wait() == WaitRyanmen
}
