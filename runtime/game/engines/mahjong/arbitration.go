package mahjong

import (
	"fmt"
	"sort"
)

// RonPolicy 多家同时荣和的处理方式
type RonPolicy int

const (
	RonHeadBump    RonPolicy = iota // 头跳：只有离放铳者最近的一家和牌
	RonMultiple                     // 允许双响、三响
	RonTripleAbort                  // 允许双响，三家荣和则流局
)

func (p RonPolicy) String() string {
	switch p {
	case RonMultiple:
		return "multiple"
	case RonTripleAbort:
		return "triple-abort"
	default:
		return "head-bump"
	}
}

func ParseRonPolicy(s string) (RonPolicy, error) {
	switch s {
	case "", "head-bump":
		return RonHeadBump, nil
	case "multiple":
		return RonMultiple, nil
	case "triple-abort":
		return RonTripleAbort, nil
	default:
		return RonHeadBump, fmt.Errorf("unknown ron policy %q", s)
	}
}

// Arbitration 一次打牌后各家反应的仲裁结果
type Arbitration struct {
	Ron   []int  // 荣和座位，按离放铳者的距离排序
	Call  *Reply // 胜出的吃/碰/大明杠
	Abort bool   // 三家荣和流局
}

// Passed 没有任何动作
func (a Arbitration) Passed() bool {
	return len(a.Ron) == 0 && a.Call == nil && !a.Abort
}

// distance 从 from 起按巡目顺序到 seat 的步数
func distance(from, seat int) int {
	return (seat - from + 4) % 4
}

// Arbitrate 按 荣和 > 大明杠 > 碰 > 吃 取最高一类；同类按离打牌者的距离取最近的座位。
// 低优先级的回复即使合法也被整体丢弃。
func Arbitrate(discarder int, replies []Reply, policy RonPolicy) Arbitration {
	top := 0
	for _, r := range replies {
		top = max(top, r.Action.priority())
	}
	if top == 0 {
		return Arbitration{}
	}
	var winners []Reply
	for _, r := range replies {
		if r.Action.priority() == top {
			winners = append(winners, r)
		}
	}
	sort.SliceStable(winners, func(i, j int) bool {
		return distance(discarder, winners[i].Seat) < distance(discarder, winners[j].Seat)
	})

	if top != ActionRon.priority() {
		w := winners[0]
		return Arbitration{Call: &w}
	}

	seats := make([]int, len(winners))
	for i, w := range winners {
		seats[i] = w.Seat
	}
	switch policy {
	case RonMultiple:
		return Arbitration{Ron: seats}
	case RonTripleAbort:
		if len(seats) >= 3 {
			return Arbitration{Abort: true}
		}
		return Arbitration{Ron: seats}
	default:
		return Arbitration{Ron: seats[:1]}
	}
}
