package mahjong

type EventType int

const (
	EventDistribute EventType = iota // 配牌
	EventDraw                        // 摸牌
	EventDiscard                     // 打牌
	EventCall                        // 吃、碰、各种杠
	EventReach                       // 立直成立
	EventNewDora                     // 翻开新宝牌指示牌
	EventChoiceAfterDrawn            // 摸牌后的选择
	EventChoiceAfterDiscarded        // 他家打牌后的选择
	EventChoiceAfterCalled           // 鸣牌后的打牌选择
	EventChoiceForChankan            // 抢杠选择
	EventEndOfRound                  // 本局结束
)

var eventNames = [...]string{
	"distribute", "draw", "discard", "call", "reach", "new-dora",
	"choice-after-drawn", "choice-after-discarded", "choice-after-called",
	"choice-for-chankan", "end-of-round",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// IsChoice 需要回复的事件
func (t EventType) IsChoice() bool {
	return t >= EventChoiceAfterDrawn && t <= EventChoiceForChankan
}

// Event 控制器发出的事件。同一决策点发给多个座位的事件共享 ID。
type Event struct {
	ID    int64
	Type  EventType
	Round RoundInfo
	Seat  int // 行动座位；选择类事件为被询问的座位

	Tile        Tile      // 摸到/打出/新宝牌指示牌
	Hands       [4][]Tile // 配牌，只对本人可见
	Meld        Meld      // 副露
	Reach       bool      // 打牌为立直宣言牌
	Replacement bool      // 岭上摸牌

	Choices *Choices
	Hand    *Hand // 被询问座位的手牌快照

	Result *RoundResult
}

// redactFor 其他座位看不到的信息替换为未知牌
func (e Event) redactFor(seat int) Event {
	out := e
	switch e.Type {
	case EventDistribute:
		out.Hands = [4][]Tile{}
		for s := 0; s < 4; s++ {
			if s == seat {
				out.Hands[s] = append([]Tile(nil), e.Hands[s]...)
				continue
			}
			out.Hands[s] = make([]Tile, len(e.Hands[s]))
			for i := range out.Hands[s] {
				out.Hands[s][i] = UnknownTile()
			}
		}
	case EventDraw:
		if e.Seat != seat {
			out.Tile = UnknownTile()
		}
	}
	return out
}

// Observer 旁观者，接收不做遮挡的完整事件
type Observer interface {
	Observe(ev Event)
}

type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }
