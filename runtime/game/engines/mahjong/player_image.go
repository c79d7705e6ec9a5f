package mahjong

// PlayerImage 座位在一局内除手牌以外的状态：一发、两立直、振听、打牌次数
type PlayerImage struct {
	SeatIndex   int
	Hand        *Hand
	Ippatsu     bool // 一发窗口，立直成立后到下一次自己打牌或任何鸣牌为止
	DoubleReach bool
	TempFuriten bool // 同巡振听，自己打牌后解除
	PermFuriten bool // 立直后见逃
	Discards    int
}

// NewPlayerImage 创建座位状态
func NewPlayerImage(seatIndex int, hand *Hand) *PlayerImage {
	return &PlayerImage{SeatIndex: seatIndex, Hand: hand}
}

// IsRiichi 是否立直
func (p *PlayerImage) IsRiichi() bool {
	return p.Hand.Reached()
}

// OnDiscard 打牌后一发结束、同巡振听解除
func (p *PlayerImage) OnDiscard() {
	p.Discards++
	p.Ippatsu = false
	p.TempFuriten = false
}

// PassRon 见逃：同巡振听，立直后永久振听
func (p *PlayerImage) PassRon() {
	p.TempFuriten = true
	if p.IsRiichi() {
		p.PermFuriten = true
	}
}

// HasDiscardedTile 自己的牌河里有听的牌（舍张振听）
func (p *PlayerImage) HasDiscardedTile(river *River, waits []TileType) bool {
	for _, w := range waits {
		if river.Contains(p.SeatIndex, w) {
			return true
		}
	}
	return false
}

// Furiten 三种振听之一成立时不能荣和
func (p *PlayerImage) Furiten(river *River) bool {
	if p.TempFuriten || p.PermFuriten {
		return true
	}
	return p.HasDiscardedTile(river, Waits(p.Hand))
}

// WinFlags 和牌时与本座位状态有关的标记
func (p *PlayerImage) WinFlags() WinFlags {
	return WinFlags{
		Reach:       p.IsRiichi(),
		DoubleReach: p.DoubleReach,
		Ippatsu:     p.Ippatsu,
	}
}
