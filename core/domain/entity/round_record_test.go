package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHistoryYAML(t *testing.T) {
	h := NewRoundHistory("match", 1, 3, 2, 1)
	h.Scores = [4]int{24000, 26000, 25000, 25000}
	h.SeatWinds = [4]string{"西", "北", "东", "南"}
	h.Rules = RuleRecord{RedFives: true, RonPolicy: "head-bump", Kuikae: true}
	h.Wall.Drawable = []string{"0m", "1z"}
	h.AddReplies(7, []ReplyRecord{{Seat: 1, Action: "pon", Meld: "*555m", Kind: "pon"}})
	h.CompleteRound(&RoundResult{
		EndType: "RON",
		Claims:  []HuClaim{{WinnerSeat: 1, LoserSeat: 0, WinTile: "5m", Han: 2, Fu: 30, Yaku: []string{"tanyao"}, Points: 2000}},
		Delta:   [4]int{-2000, 2000, 0, 0},
	})

	data, err := h.EncodeYAML()
	require.NoError(t, err)
	got, err := DecodeRoundHistory(data)
	require.NoError(t, err)

	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, h.Scores, got.Scores)
	assert.Equal(t, h.SeatWinds, got.SeatWinds)
	assert.Equal(t, h.Rules, got.Rules)
	assert.Equal(t, h.Replies, got.Replies)
	require.NotNil(t, got.Result)
	assert.Equal(t, h.Result.Claims, got.Result.Claims)
	assert.Equal(t, h.Result.Delta, got.Result.Delta)
}

func TestDecodeRoundHistoryRequiresID(t *testing.T) {
	_, err := DecodeRoundHistory([]byte("honba: 1\n"))
	require.Error(t, err)
	_, err = DecodeRoundHistory([]byte("id: [\n"))
	require.Error(t, err)
}

func TestMatchRecordRanking(t *testing.T) {
	m := NewMatchRecord(1)
	m.AddRound("a")
	m.AddRound("b")
	m.CompleteGame([4]int{25000, 30000, 25000, 20000})

	assert.Equal(t, "completed", m.Status)
	assert.Equal(t, []string{"a", "b"}, m.Rounds)
	ranks := map[int]int{}
	for _, r := range m.FinalResult.Rankings {
		ranks[r.SeatIndex] = r.Rank
	}
	assert.Equal(t, map[int]int{1: 1, 0: 2, 2: 3, 3: 4}, ranks)

	m2 := NewMatchRecord(2)
	m2.AbortGame()
	assert.Equal(t, "aborted", m2.Status)
	assert.Nil(t, m2.FinalResult)
}
