package mahjong

import (
	"fmt"
	"strings"
)

type Action int

const (
	ActionPass Action = iota
	ActionDiscard
	ActionReach
	ActionTsumo
	ActionRon
	ActionChi
	ActionPon
	ActionOpenKan
	ActionClosedKan
	ActionAddedKan
)

var actionNames = [...]string{"pass", "discard", "reach", "tsumo", "ron", "chi", "pon", "open-kan", "closed-kan", "added-kan"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction 与 String 互逆
func ParseAction(s string) (Action, error) {
	for i, n := range actionNames {
		if n == s {
			return Action(i), nil
		}
	}
	return ActionPass, fmt.Errorf("%w: action %q", ErrNoSuchChoice, s)
}

// priority 鸣牌仲裁的优先级：荣和 > 大明杠 > 碰 > 吃
func (a Action) priority() int {
	switch a {
	case ActionRon:
		return 4
	case ActionOpenKan:
		return 3
	case ActionPon:
		return 2
	case ActionChi:
		return 1
	default:
		return 0
	}
}

// Choices 某座位在一个决策点的全部合法选择
type Choices struct {
	Discards  []Tile
	Reach     []Tile // 打出后可以立直的牌
	Tsumo     bool
	Ron       bool
	Chi       []Chi
	Pon       []Pon
	OpenKan   []OpenKan
	ClosedKan []ClosedKan
	AddedKan  []AddedKan
	CanPass   bool
}

// Empty 没有任何可做的动作（不需要询问）
func (c *Choices) Empty() bool {
	return len(c.Discards) == 0 && len(c.Reach) == 0 && !c.Tsumo && !c.Ron &&
		len(c.Chi) == 0 && len(c.Pon) == 0 && len(c.OpenKan) == 0 &&
		len(c.ClosedKan) == 0 && len(c.AddedKan) == 0
}

func (c *Choices) String() string {
	var parts []string
	if len(c.Discards) > 0 {
		parts = append(parts, "discard:"+FormatTiles(c.Discards))
	}
	if len(c.Reach) > 0 {
		parts = append(parts, "reach:"+FormatTiles(c.Reach))
	}
	if c.Tsumo {
		parts = append(parts, "tsumo")
	}
	if c.Ron {
		parts = append(parts, "ron")
	}
	for _, m := range c.Chi {
		parts = append(parts, "chi:"+FormatMeld(m))
	}
	for _, m := range c.Pon {
		parts = append(parts, "pon:"+FormatMeld(m))
	}
	for _, m := range c.OpenKan {
		parts = append(parts, "kan:"+FormatMeld(m))
	}
	for _, m := range c.ClosedKan {
		parts = append(parts, "ankan:"+FormatMeld(m))
	}
	for _, m := range c.AddedKan {
		parts = append(parts, "kakan:"+FormatMeld(m))
	}
	if c.CanPass {
		parts = append(parts, "pass")
	}
	return strings.Join(parts, " ")
}

// Reply 座位对选择类事件的回复
type Reply struct {
	EventID int64
	Seat    int
	Action  Action
	Tile    Tile // 打牌、立直宣言牌
	Meld    Meld // 吃碰杠的具体组合
}

func (r Reply) String() string {
	switch r.Action {
	case ActionDiscard, ActionReach:
		return fmt.Sprintf("%s %s", r.Action, r.Tile)
	case ActionChi, ActionPon, ActionOpenKan, ActionClosedKan, ActionAddedKan:
		if r.Meld != nil {
			return fmt.Sprintf("%s %s", r.Action, FormatMeld(r.Meld))
		}
	}
	return r.Action.String()
}

// Validate 回复必须是提供过的选择之一
func (c *Choices) Validate(r Reply) error {
	ok := false
	switch r.Action {
	case ActionPass:
		ok = c.CanPass
	case ActionDiscard:
		ok = containsFace(c.Discards, r.Tile)
	case ActionReach:
		ok = containsFace(c.Reach, r.Tile)
	case ActionTsumo:
		ok = c.Tsumo
	case ActionRon:
		ok = c.Ron
	case ActionChi:
		ok = containsMeld(c.Chi, r.Meld)
	case ActionPon:
		ok = containsMeld(c.Pon, r.Meld)
	case ActionOpenKan:
		ok = containsMeld(c.OpenKan, r.Meld)
	case ActionClosedKan:
		ok = containsMeld(c.ClosedKan, r.Meld)
	case ActionAddedKan:
		ok = containsMeld(c.AddedKan, r.Meld)
	}
	if !ok {
		return fmt.Errorf("%w: %s not in [%s]", ErrNoSuchChoice, r, c)
	}
	return nil
}

// Default 超时或非法回复时的替代动作：能过则过，否则打出刚摸到的牌
func (c *Choices) Default(id int64, seat int, drawn Tile, hasDrawn bool) Reply {
	r := Reply{EventID: id, Seat: seat, Action: ActionPass}
	if c.CanPass || len(c.Discards) == 0 {
		return r
	}
	r.Action = ActionDiscard
	if hasDrawn && containsFace(c.Discards, drawn) {
		r.Tile = drawn.Plain()
		return r
	}
	r.Tile = c.Discards[len(c.Discards)-1]
	return r
}

func containsFace(tiles []Tile, t Tile) bool {
	for _, x := range tiles {
		if x.SameFace(t) {
			return true
		}
	}
	return false
}

func containsMeld[M Meld](options []M, m Meld) bool {
	if m == nil {
		return false
	}
	want := FormatMeld(m)
	for _, o := range options {
		if FormatMeld(o) == want {
			return true
		}
	}
	return false
}
