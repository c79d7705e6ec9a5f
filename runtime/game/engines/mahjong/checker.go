package mahjong

import "fmt"

// ronMode 荣和的来源
type ronMode int

const (
	ronDiscard       ronMode = iota // 普通打牌
	ronChankan                      // 抢加杠
	ronChankanClosed                // 抢暗杠，只限国士无双
)

// board 计分用的局面信息
func (c *RoundController) board(winner, loser int, flags WinFlags) BoardContext {
	b := BoardContext{
		Winner:         winner,
		Loser:          loser,
		Dealer:         c.info.Dealer,
		RoundWind:      c.info.RoundWind,
		SeatWind:       c.info.SeatWind(winner),
		DoraIndicators: c.wall.DoraIndicators(),
		RiichiSticks:   c.info.RiichiSticks,
		Honba:          c.info.Honba,
		Flags:          flags,
	}
	if flags.Reach {
		b.UraDoraIndicators = c.wall.UraDoraIndicators()
	}
	return b
}

// bestScore 在所有拆解中取点数最高的一种
func (c *RoundController) bestScore(ds []Decomposition, b BoardContext) (Decomposition, ScoreResult, error) {
	if len(ds) == 0 {
		return Decomposition{}, ScoreResult{}, fmt.Errorf("%w: no winning shape", ErrNotWinning)
	}
	var (
		best    Decomposition
		score   ScoreResult
		found   bool
		lastErr error
	)
	for _, d := range ds {
		res, err := c.oracle.Score(d, b)
		if err != nil {
			lastErr = err
			continue
		}
		if !found || res.Total > score.Total {
			best, score, found = d, res, true
		}
	}
	if !found {
		return Decomposition{}, ScoreResult{}, lastErr
	}
	return best, score, nil
}

// tsumoScore 摸到的牌能否自摸和（有形且有役）
func (c *RoundController) tsumoScore(seat int) (Decomposition, ScoreResult, error) {
	p := c.players[seat]
	drawn, ok := p.Hand.Drawn()
	if !ok {
		return Decomposition{}, ScoreResult{}, ErrNoDrawnTile
	}
	flags := p.WinFlags()
	flags.Tsumo = true
	flags.Rinshan = c.rinshan
	flags.Haitei = !c.rinshan && c.wall.Remaining() == 0
	return c.bestScore(CalcBlocks(p.Hand, drawn, true), c.board(seat, -1, flags))
}

// ronScore 荣和判定：振听、形、役。withHonba 为 false 时不计本场（多家和了时只给最近的一家）。
func (c *RoundController) ronScore(seat, from int, t Tile, mode ronMode, withHonba bool) (Decomposition, ScoreResult, error) {
	p := c.players[seat]
	if p.Furiten(c.river) {
		return Decomposition{}, ScoreResult{}, fmt.Errorf("%w: seat %d furiten", ErrNotWinning, seat)
	}
	ds := CalcBlocks(p.Hand, t, false)
	if mode == ronChankanClosed {
		kept := ds[:0]
		for _, d := range ds {
			if d.Shape == ShapeKokushi {
				kept = append(kept, d)
			}
		}
		ds = kept
	}
	flags := p.WinFlags()
	flags.Chankan = mode != ronDiscard
	flags.Houtei = mode == ronDiscard && c.wall.Remaining() == 0
	b := c.board(seat, from, flags)
	if !withHonba {
		b.Honba = 0
	}
	return c.bestScore(ds, b)
}

// canHu 能否荣和这张打牌
func (c *RoundController) canHu(seat int, t Tile) bool {
	_, _, err := c.ronScore(seat, c.last.seat, t, ronDiscard, false)
	return err == nil
}

// kanAllowed 岭上牌与活牌都还有剩余
func (c *RoundController) kanAllowed() bool {
	return c.wall.ReplacementLeft() > 0 && c.wall.Remaining() > 0
}

// canCall 他家打牌后能否吃碰杠：立直后、河底牌不能鸣
func (c *RoundController) canCall(seat int) bool {
	return !c.hand(seat).Reached() && c.wall.Remaining() > 0
}

// markRonPassed 可以荣和却没有荣和的座位进入振听
func (c *RoundController) markRonPassed(choices map[int]*Choices, replies map[int]Reply) {
	for s, ch := range choices {
		if ch.Ron && replies[s].Action != ActionRon {
			c.players[s].PassRon()
		}
	}
}

// kuikaeKinds 鸣牌后不能打出的牌种：碰的同种牌；吃的同种牌以及另一端的筋牌
func kuikaeKinds(m Meld) []TileType {
	switch v := m.(type) {
	case Chi:
		called := v.Called.Type()
		out := []TileType{called}
		lo, hi := v.Own[0].Rank, v.Own[1].Rank
		if lo > hi {
			lo, hi = hi, lo
		}
		r := v.Called.Rank
		switch {
		case lo == r+1 && hi+1 <= 9:
			out = append(out, called+3)
		case hi == r-1 && lo-1 >= 1:
			out = append(out, called-3)
		}
		return out
	case Pon:
		return []TileType{v.Called.Type()}
	case OpenKan, ClosedKan, AddedKan:
		return nil
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

// kuikaeOK 鸣牌后至少还能打出一张不受限制的牌
func kuikaeOK(h *Hand, own []Tile, forbidden []TileType) bool {
	work := h.Clone()
	if err := work.Dec(own...); err != nil {
		return false
	}
	for _, t := range work.DistinctTiles() {
		if !containsKind(forbidden, t.Type()) {
			return true
		}
	}
	return false
}

func containsKind(kinds []TileType, tt TileType) bool {
	for _, k := range kinds {
		if k == tt {
			return true
		}
	}
	return false
}
