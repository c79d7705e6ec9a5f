package entity

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecord 一场对局（东风战/半庄）的元数据
type MatchRecord struct {
	ID          string           `json:"id" yaml:"id"`
	GameType    string           `json:"game_type" yaml:"game_type"` // "riichi_mahjong_4p"
	Seed        int64            `json:"seed" yaml:"seed"`
	Rounds      []string         `json:"rounds" yaml:"rounds"` // RoundHistory.ID，按顺序
	StartTime   time.Time        `json:"start_time" yaml:"start_time"`
	EndTime     time.Time        `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	FinalResult *GameFinalResult `json:"final_result,omitempty" yaml:"final_result,omitempty"`
	Status      string           `json:"status" yaml:"status"` // "in_progress", "completed", "aborted"
}

// GameFinalResult 最终结果
type GameFinalResult struct {
	Rankings []PlayerRanking `json:"rankings" yaml:"rankings"`
	Points   [4]int          `json:"points" yaml:"points,flow"`
}

// PlayerRanking 座位排名
type PlayerRanking struct {
	SeatIndex int `json:"seat_index" yaml:"seat_index"`
	Points    int `json:"points" yaml:"points"`
	Rank      int `json:"rank" yaml:"rank"` // 1-4
}

func NewMatchRecord(seed int64) *MatchRecord {
	return &MatchRecord{
		ID:        uuid.NewString(),
		GameType:  "riichi_mahjong_4p",
		Seed:      seed,
		StartTime: time.Now(),
		Status:    "in_progress",
	}
}

func (m *MatchRecord) AddRound(roundID string) {
	m.Rounds = append(m.Rounds, roundID)
}

// CompleteGame 设置最终结果，同分时座位靠前者名次优先
func (m *MatchRecord) CompleteGame(points [4]int) {
	m.EndTime = time.Now()
	m.Status = "completed"
	rankings := make([]PlayerRanking, 0, 4)
	for s := 0; s < 4; s++ {
		rank := 1
		for o := 0; o < 4; o++ {
			if points[o] > points[s] || (points[o] == points[s] && o < s) {
				rank++
			}
		}
		rankings = append(rankings, PlayerRanking{SeatIndex: s, Points: points[s], Rank: rank})
	}
	m.FinalResult = &GameFinalResult{Rankings: rankings, Points: points}
}

// AbortGame 中止
func (m *MatchRecord) AbortGame() {
	m.EndTime = time.Now()
	m.Status = "aborted"
}
