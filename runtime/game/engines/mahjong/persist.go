package mahjong

import (
	"fmt"
	"sync"

	"github.com/konoui/mjimage-sub000/common/log"
	"github.com/konoui/mjimage-sub000/core/domain/entity"
)

// HistoryRecorder 把一局的开局快照、回复与结果收集为 entity.RoundHistory
type HistoryRecorder struct {
	matchID string
	history *entity.RoundHistory
	mu      sync.Mutex
}

func NewHistoryRecorder(matchID string) *HistoryRecorder {
	return &HistoryRecorder{matchID: matchID}
}

// Start 开局（配牌之前）调用，牌山快照的计数器全为零
func (hr *HistoryRecorder) Start(info RoundInfo, wall WallSnapshot, rules Rules) {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	h := entity.NewRoundHistory(hr.matchID, int(info.RoundWind), info.RoundNumber, info.Dealer, info.Honba)
	h.RiichiSticks = info.RiichiSticks
	h.Scores = info.Scores
	for s, w := range info.SeatWinds() {
		h.SeatWinds[s] = w.String()
	}
	h.Rules = entity.RuleRecord{RedFives: rules.RedFives, RonPolicy: rules.RonPolicy.String(), Kuikae: rules.Kuikae}
	h.Wall = entity.WallSnapshot{
		Drawable:    tileStrings(wall.Drawable),
		Replacement: tileStrings(wall.Replacement),
		Dora:        tileStrings(wall.Dora),
		UraDora:     tileStrings(wall.UraDora),
	}
	hr.history = h
}

// Record 记录一个事件 id 的全部回复
func (hr *HistoryRecorder) Record(eventID int64, replies []Reply) {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	if hr.history == nil {
		log.Warn("回合未开始，忽略事件 %d 的回复", eventID)
		return
	}
	records := make([]entity.ReplyRecord, 0, len(replies))
	for _, r := range replies {
		records = append(records, replyRecord(r))
	}
	hr.history.AddReplies(eventID, records)
}

// Finish 记录结果
func (hr *HistoryRecorder) Finish(result *RoundResult) {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	if hr.history == nil {
		return
	}
	out := &entity.RoundResult{
		EndType:      result.Kind.String(),
		Delta:        result.Deltas,
		Points:       result.Scores,
		Tenpai:       result.Tenpai,
		RiichiSticks: result.RiichiSticks,
		DealerKeeps:  result.DealerKeeps,
	}
	for _, w := range result.Wins {
		claim := entity.HuClaim{
			WinnerSeat: w.Seat,
			LoserSeat:  w.From,
			WinTile:    w.Decomposition.WinTile.String(),
			Blocks:     w.Decomposition.String(),
			Han:        w.Score.Han,
			Fu:         w.Score.Fu,
			Points:     w.Score.Total,
		}
		for _, y := range w.Score.Yaku {
			claim.Yaku = append(claim.Yaku, y.Name)
		}
		out.Claims = append(out.Claims, claim)
	}
	hr.history.CompleteRound(out)
}

// History 当前记录，开局前为 nil
func (hr *HistoryRecorder) History() *entity.RoundHistory {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	return hr.history
}

func tileStrings(tiles []Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}

func parseTileList(ss []string) ([]Tile, error) {
	out := make([]Tile, len(ss))
	for i, s := range ss {
		t, err := ParseTile(s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func meldKindName(m Meld) string {
	switch m.(type) {
	case Chi:
		return "chi"
	case Pon:
		return "pon"
	case ClosedKan:
		return "closed-kan"
	case OpenKan:
		return "open-kan"
	case AddedKan:
		return "added-kan"
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

func replyRecord(r Reply) entity.ReplyRecord {
	rec := entity.ReplyRecord{Seat: r.Seat, Action: r.Action.String()}
	switch r.Action {
	case ActionDiscard, ActionReach:
		rec.Tile = r.Tile.String()
	}
	if r.Meld != nil {
		rec.Meld = FormatMeld(r.Meld)
		rec.Kind = meldKindName(r.Meld)
	}
	return rec
}

func replyFromRecord(id int64, rec entity.ReplyRecord) (Reply, error) {
	a, err := ParseAction(rec.Action)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{EventID: id, Seat: rec.Seat, Action: a}
	if rec.Tile != "" {
		if r.Tile, err = ParseTile(rec.Tile); err != nil {
			return Reply{}, err
		}
	}
	if rec.Meld != "" {
		if r.Meld, err = ParseMeld(rec.Meld); err != nil {
			return Reply{}, err
		}
	}
	return r, nil
}

// WallFromHistory 由开局快照恢复牌山
func WallFromHistory(h *entity.RoundHistory) (*Wall, error) {
	var s WallSnapshot
	var err error
	if s.Drawable, err = parseTileList(h.Wall.Drawable); err != nil {
		return nil, fmt.Errorf("%w: drawable: %v", ErrSnapshot, err)
	}
	if s.Replacement, err = parseTileList(h.Wall.Replacement); err != nil {
		return nil, fmt.Errorf("%w: replacement: %v", ErrSnapshot, err)
	}
	if s.Dora, err = parseTileList(h.Wall.Dora); err != nil {
		return nil, fmt.Errorf("%w: dora: %v", ErrSnapshot, err)
	}
	if s.UraDora, err = parseTileList(h.Wall.UraDora); err != nil {
		return nil, fmt.Errorf("%w: ura dora: %v", ErrSnapshot, err)
	}
	return RestoreWall(s)
}

// RepliesFromHistory 事件 id -> 回复
func RepliesFromHistory(h *entity.RoundHistory) (map[int64][]Reply, error) {
	out := make(map[int64][]Reply, len(h.Replies))
	for id, recs := range h.Replies {
		for _, rec := range recs {
			r, err := replyFromRecord(id, rec)
			if err != nil {
				return nil, fmt.Errorf("event %d seat %d: %w", id, rec.Seat, err)
			}
			out[id] = append(out[id], r)
		}
	}
	return out, nil
}

// RulesFromHistory 记录里的规则
func RulesFromHistory(h *entity.RoundHistory) (Rules, error) {
	p, err := ParseRonPolicy(h.Rules.RonPolicy)
	if err != nil {
		return Rules{}, err
	}
	return Rules{RedFives: h.Rules.RedFives, RonPolicy: p, Kuikae: h.Rules.Kuikae}, nil
}

// NewReplayController 从记录重建一局：同一牌山快照与回复得到同样的摸牌与选择
func NewReplayController(h *entity.RoundHistory, opts ...Option) (*RoundController, error) {
	wall, err := WallFromHistory(h)
	if err != nil {
		return nil, err
	}
	replies, err := RepliesFromHistory(h)
	if err != nil {
		return nil, err
	}
	rules, err := RulesFromHistory(h)
	if err != nil {
		return nil, err
	}
	info := RoundInfo{
		ID:           h.ID,
		RoundWind:    Wind(h.RoundWind),
		RoundNumber:  h.RoundNumber,
		Dealer:       h.Dealer,
		Honba:        h.Honba,
		RiichiSticks: h.RiichiSticks,
		Scores:       h.Scores,
	}
	all := append([]Option{WithRules(rules)}, opts...)
	return NewRoundController(info, wall, NewReplayTransport(replies), all...), nil
}
