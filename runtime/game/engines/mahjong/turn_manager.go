package mahjong

import "fmt"

// State 一局内的状态
type State int

const (
	StateDistribute            State = iota // 配牌
	StateDrawn                              // 摸牌（含岭上）
	StateWaitingAfterDrawn                  // 等待摸牌者选择
	StateTsumo                              // 自摸（终局）
	StateDiscarded                          // 已打牌，计算各家反应
	StateWaitingAfterDiscarded              // 等待他家反应
	StateRoned                              // 荣和（终局）
	StatePoned                              // 碰
	StateChied                              // 吃
	StateDaiKaned                           // 大明杠
	StateWaitingDiscardEvent                // 鸣牌后等待打牌
	StateAnKaned                            // 暗杠
	StateShoKaned                           // 加杠
	StateWaitingChankan                     // 等待抢杠
	StateDrawnGame                          // 流局（终局）
)

var stateNames = [...]string{
	"distribute", "drawn", "waiting-after-drawn", "tsumo", "discarded",
	"waiting-after-discarded", "roned", "poned", "chied", "dai-kaned",
	"waiting-discard-event", "an-kaned", "sho-kaned", "waiting-chankan", "drawn-game",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsFinal 终局状态
func (s State) IsFinal() bool {
	return s == StateTsumo || s == StateRoned || s == StateDrawnGame
}

// IsWaiting 需要座位回复的挂起点
func (s State) IsWaiting() bool {
	switch s {
	case StateWaitingAfterDrawn, StateWaitingAfterDiscarded, StateWaitingDiscardEvent, StateWaitingChankan:
		return true
	default:
		return false
	}
}

// transitions 合法迁移表；大明杠后经由岭上摸牌回到 drawn
var transitions = map[State][]State{
	StateDistribute:            {StateDrawn},
	StateDrawn:                 {StateWaitingAfterDrawn, StateDrawnGame},
	StateWaitingAfterDrawn:     {StateTsumo, StateDiscarded, StateAnKaned, StateShoKaned},
	StateDiscarded:             {StateWaitingAfterDiscarded, StateDrawn, StateDrawnGame},
	StateWaitingAfterDiscarded: {StateRoned, StatePoned, StateChied, StateDaiKaned, StateDrawn, StateDrawnGame},
	StatePoned:                 {StateWaitingDiscardEvent},
	StateChied:                 {StateWaitingDiscardEvent},
	StateDaiKaned:              {StateDrawn},
	StateWaitingDiscardEvent:   {StateDiscarded},
	StateAnKaned:               {StateWaitingChankan},
	StateShoKaned:              {StateWaitingChankan},
	StateWaitingChankan:        {StateRoned, StateDrawn, StateDrawnGame},
}

// TurnManager 当前行动座位与状态
type TurnManager struct {
	TurnPointer int
	State       State
	history     []State
}

func NewTurnManager(dealer int) *TurnManager {
	return &TurnManager{TurnPointer: dealer, State: StateDistribute}
}

// NextTurn 下一个座位
func (tm *TurnManager) NextTurn() int {
	tm.TurnPointer = (tm.TurnPointer + 1) % 4
	return tm.TurnPointer
}

// SetTurn 鸣牌后轮到鸣牌者
func (tm *TurnManager) SetTurn(seat int) {
	tm.TurnPointer = seat
}

func (tm *TurnManager) GetCurrentPlayer() int { return tm.TurnPointer }

func (tm *TurnManager) GetState() State { return tm.State }

// Enter 按迁移表切换状态
func (tm *TurnManager) Enter(next State) error {
	for _, s := range transitions[tm.State] {
		if s == next {
			tm.history = append(tm.history, tm.State)
			tm.State = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidState, tm.State, next)
}

// Path 经过的状态序列（含当前）
func (tm *TurnManager) Path() []State {
	return append(append([]State(nil), tm.history...), tm.State)
}
