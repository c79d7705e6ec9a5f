package mahjong

import (
	"fmt"

	"github.com/google/uuid"
)

type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "未知"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

// Tile 风牌
func (w Wind) Tile() TileType {
	return East + TileType(w)
}

const (
	DefaultInitialPoints = 25000
	ReachStickPoints     = 1000
	ExhaustivePool       = 3000
)

// RoundInfo 局面信息：场风、局数、庄家、本场、立直棒、点数
type RoundInfo struct {
	ID           string
	RoundWind    Wind
	RoundNumber  int // 1-4
	Dealer       int // 庄家座位 (0-3)
	Honba        int
	RiichiSticks int
	Scores       [4]int
}

// SeatWind 自风
func (r RoundInfo) SeatWind(seat int) Wind {
	return Wind((seat - r.Dealer + 4) % 4)
}

// SeatWinds 座位到自风的映射
func (r RoundInfo) SeatWinds() [4]Wind {
	var out [4]Wind
	for s := 0; s < 4; s++ {
		out[s] = r.SeatWind(s)
	}
	return out
}

func (r RoundInfo) String() string {
	return fmt.Sprintf("%s%d局 %d本场", r.RoundWind, r.RoundNumber, r.Honba)
}

// NewRoundInfo 东一局，起始点数相同
func NewRoundInfo(initialPoints int) RoundInfo {
	r := RoundInfo{ID: uuid.NewString(), RoundWind: WindEast, RoundNumber: 1}
	for i := range r.Scores {
		r.Scores[i] = initialPoints
	}
	return r
}

// nextRound 连庄时局数不变、本场加一；庄家下庄时本场清零并轮到下家坐庄，第四局之后进入下一个场风。
// ID 每一局都重新生成。
func nextRound(cur RoundInfo, dealerKeeps bool) RoundInfo {
	next := cur
	next.ID = uuid.NewString()
	if dealerKeeps {
		next.Honba++
		return next
	}
	next.Honba = 0
	next.Dealer = (cur.Dealer + 1) % 4
	next.RoundNumber++
	if next.RoundNumber > 4 {
		next.RoundNumber = 1
		next.RoundWind = cur.RoundWind.Next()
	}
	return next
}
