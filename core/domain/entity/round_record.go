package entity

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// RoundHistory 一局的回放记录：开局快照 + 每个事件 id 的回复。
// 牌一律以记法字符串保存，例如 "0m"、"*5p"。
type RoundHistory struct {
	ID           string                  `json:"id" yaml:"id"`
	MatchID      string                  `json:"match_id,omitempty" yaml:"match_id,omitempty"`
	RoundWind    int                     `json:"round_wind" yaml:"round_wind"`     // 0 东 1 南 2 西 3 北
	RoundNumber  int                     `json:"round_number" yaml:"round_number"` // 局数 (1-4)
	Dealer       int                     `json:"dealer" yaml:"dealer"`             // 庄家座位
	Honba        int                     `json:"honba" yaml:"honba"`               // 本场数
	RiichiSticks int                     `json:"riichi_sticks" yaml:"riichi_sticks"`
	Scores       [4]int                  `json:"scores" yaml:"scores,flow"`
	SeatWinds    [4]string               `json:"seat_winds" yaml:"seat_winds,flow"`
	Rules        RuleRecord              `json:"rules" yaml:"rules"`
	Wall         WallSnapshot            `json:"wall" yaml:"wall"`
	Replies      map[int64][]ReplyRecord `json:"replies" yaml:"replies"`
	Result       *RoundResult            `json:"result,omitempty" yaml:"result,omitempty"`
	StartTime    time.Time               `json:"start_time" yaml:"start_time"`
	EndTime      time.Time               `json:"end_time,omitempty" yaml:"end_time,omitempty"`
}

type RuleRecord struct {
	RedFives  bool   `json:"red_fives" yaml:"red_fives"`
	RonPolicy string `json:"ron_policy" yaml:"ron_policy"`
	Kuikae    bool   `json:"kuikae" yaml:"kuikae"`
}

// WallSnapshot 牌山快照（活牌、岭上牌、宝牌与里宝牌指示牌）
type WallSnapshot struct {
	Drawable    []string `json:"drawable" yaml:"drawable,flow"`
	Replacement []string `json:"replacement" yaml:"replacement,flow"`
	Dora        []string `json:"dora" yaml:"dora,flow"`
	UraDora     []string `json:"ura_dora" yaml:"ura_dora,flow"`
}

// ReplyRecord 单个座位对一个事件的回复
type ReplyRecord struct {
	Seat   int    `json:"seat" yaml:"seat"`
	Action string `json:"action" yaml:"action"`
	Tile   string `json:"tile,omitempty" yaml:"tile,omitempty"`
	Meld   string `json:"meld,omitempty" yaml:"meld,omitempty"`
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty"` // 副露种类，仅吃碰杠
}

// RoundResult 回合结果
type RoundResult struct {
	EndType      string    `json:"end_type" yaml:"end_type"` // "RON", "TSUMO", "DRAW_EXHAUSTIVE", "DRAW_3RON", "DRAW_4KAN", ...
	Claims       []HuClaim `json:"claims,omitempty" yaml:"claims,omitempty"`
	Delta        [4]int    `json:"delta" yaml:"delta,flow"`
	Points       [4]int    `json:"points" yaml:"points,flow"`
	Tenpai       [4]bool   `json:"tenpai" yaml:"tenpai,flow"`
	RiichiSticks int       `json:"riichi_sticks" yaml:"riichi_sticks"`
	DealerKeeps  bool      `json:"dealer_keeps" yaml:"dealer_keeps"`
}

// HuClaim 和牌信息
type HuClaim struct {
	WinnerSeat int      `json:"winner_seat" yaml:"winner_seat"`
	LoserSeat  int      `json:"loser_seat" yaml:"loser_seat"` // 自摸为 -1
	WinTile    string   `json:"win_tile" yaml:"win_tile"`
	Blocks     string   `json:"blocks" yaml:"blocks"`
	Han        int      `json:"han" yaml:"han"`
	Fu         int      `json:"fu" yaml:"fu"`
	Yaku       []string `json:"yaku" yaml:"yaku,flow"`
	Points     int      `json:"points" yaml:"points"`
}

// NewRoundHistory 创建局记录
func NewRoundHistory(matchID string, roundWind, roundNumber, dealer, honba int) *RoundHistory {
	return &RoundHistory{
		ID:          uuid.NewString(),
		MatchID:     matchID,
		RoundWind:   roundWind,
		RoundNumber: roundNumber,
		Dealer:      dealer,
		Honba:       honba,
		Replies:     make(map[int64][]ReplyRecord, 64),
		StartTime:   time.Now(),
	}
}

// AddReplies 记录一个事件 id 的全部回复
func (h *RoundHistory) AddReplies(eventID int64, replies []ReplyRecord) {
	if h.Replies == nil {
		h.Replies = make(map[int64][]ReplyRecord)
	}
	h.Replies[eventID] = append([]ReplyRecord(nil), replies...)
}

// CompleteRound 设置回合结果
func (h *RoundHistory) CompleteRound(result *RoundResult) {
	h.EndTime = time.Now()
	h.Result = result
}

// EncodeYAML 输出两格缩进的 YAML
func (h *RoundHistory) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("encode round history %s: %w", h.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeRoundHistory 从 YAML 读取
func DecodeRoundHistory(data []byte) (*RoundHistory, error) {
	h := &RoundHistory{}
	if err := yaml.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("decode round history: %w", err)
	}
	if h.ID == "" {
		return nil, fmt.Errorf("decode round history: missing id")
	}
	return h, nil
}
