package mahjong

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptSeat 默认打出刚摸到的牌、能过就过；react 返回 true 时使用它给出的回复
type scriptSeat struct {
	seat   int
	react  func(ev Event) (Reply, bool)
	events []Event
}

func (s *scriptSeat) OnEvent(ev Event) {
	s.events = append(s.events, ev)
}

func (s *scriptSeat) Choose(ev Event) (Reply, bool) {
	if !ev.Type.IsChoice() {
		return Reply{}, false
	}
	if s.react != nil {
		if r, ok := s.react(ev); ok {
			r.EventID, r.Seat = ev.ID, s.seat
			return r, true
		}
	}
	drawn, ok := ev.Hand.Drawn()
	return ev.Choices.Default(ev.ID, s.seat, drawn, ok), true
}

func scriptSeats(reacts map[int]func(ev Event) (Reply, bool)) ([4]*scriptSeat, [4]Seat) {
	var (
		scripts [4]*scriptSeat
		seats   [4]Seat
	)
	for s := 0; s < 4; s++ {
		scripts[s] = &scriptSeat{seat: s, react: reacts[s]}
		seats[s] = scripts[s]
	}
	return scripts, seats
}

// dealtDeck 按配牌顺序排好四家手牌，接着是 draws，其余牌补在后面
func dealtDeck(t *testing.T, dealer int, hands [4]string, draws string) []Tile {
	t.Helper()
	var hs [4][]Tile
	for s, h := range hands {
		hs[s] = MustParseTiles(h)
		require.Len(t, hs[s], HandSize, "seat %d", s)
	}
	var head []Tile
	for r := 0; r < HandSize; r++ {
		for i := 0; i < 4; i++ {
			head = append(head, hs[(dealer+i)%4][r])
		}
	}
	head = append(head, MustParseTiles(draws)...)

	var used [TileKinds]int
	for _, x := range head {
		used[x.Type()]++
	}
	deck := append([]Tile(nil), head...)
	for _, x := range NewTileDeck(false) {
		if used[x.Type()] > 0 {
			used[x.Type()]--
			continue
		}
		deck = append(deck, x)
	}
	require.Len(t, deck, TileLimit)
	return deck
}

// withDoraIndicator 把 skip 之后的一张 tt 换到第一张宝牌指示牌的位置
func withDoraIndicator(t *testing.T, deck []Tile, skip int, tt TileType) {
	t.Helper()
	idx := DrawableTiles + ReplacementTiles
	for i := skip; i < len(deck); i++ {
		if deck[i].Type() == tt {
			deck[i], deck[idx] = deck[idx], deck[i]
			return
		}
	}
	t.Fatalf("no spare %s in deck", tt)
}

func wallOf(t *testing.T, deck []Tile, position int) *Wall {
	t.Helper()
	o := DrawableTiles
	w, err := RestoreWall(WallSnapshot{
		Drawable:    deck[:o],
		Replacement: deck[o : o+ReplacementTiles],
		Dora:        deck[o+ReplacementTiles : o+ReplacementTiles+IndicatorTiles],
		UraDora:     deck[o+ReplacementTiles+IndicatorTiles:],
		Position:    position,
	})
	require.NoError(t, err)
	return w
}

var callHands = [4]string{
	"147m258p369s1234z",
	"12m4589p1479s567z",
	"33m169p258s12347z",
	"69m37p58s1234567z",
}

func stepTo(t *testing.T, c *RoundController, want State, limit int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < limit && c.State() != want; i++ {
		require.NoError(t, c.Step(ctx))
	}
	require.Equal(t, want, c.State())
}

func TestControllerPonBeatsChi(t *testing.T) {
	deck := dealtDeck(t, 0, callHands, "3m")
	scripts, seats := scriptSeats(map[int]func(Event) (Reply, bool){
		1: func(ev Event) (Reply, bool) {
			if len(ev.Choices.Chi) == 0 {
				return Reply{}, false
			}
			return Reply{Action: ActionChi, Meld: ev.Choices.Chi[0]}, true
		},
		2: func(ev Event) (Reply, bool) {
			if len(ev.Choices.Pon) == 0 {
				return Reply{}, false
			}
			return Reply{Action: ActionPon, Meld: ev.Choices.Pon[0]}, true
		},
	})
	info := NewRoundInfo(DefaultInitialPoints)
	c := NewRoundController(info, wallOf(t, deck, 0), NewSyncTransport(seats))

	stepTo(t, c, StateWaitingAfterDiscarded, 10)
	last, ok := c.River().Last()
	require.True(t, ok)
	assert.Equal(t, TileOf(Man3), last.Tile)
	assert.Equal(t, 0, last.Seat)

	require.NoError(t, c.Step(context.Background()))
	assert.Equal(t, StatePoned, c.State())
	assert.Equal(t, 2, c.Turn())
	assert.Equal(t, 1, c.Hand(2).CallCount())
	assert.Equal(t, 0, c.Hand(1).CallCount())
	last, _ = c.River().Last()
	assert.True(t, last.Called)

	// 所有座位都收到了碰的事件，他家只看到公开信息
	var calls int
	for _, s := range scripts {
		for _, ev := range s.events {
			if ev.Type == EventCall {
				calls++
				assert.Equal(t, 2, ev.Seat)
			}
		}
	}
	assert.Equal(t, 4, calls)

	require.NoError(t, c.Step(context.Background()))
	assert.Equal(t, StateWaitingDiscardEvent, c.State())
	require.NoError(t, c.Step(context.Background()))
	assert.Equal(t, StateDiscarded, c.State())
	assert.Equal(t, 10, c.Hand(2).Len())
	assert.Equal(t, 13, c.Hand(2).Held())
}

func TestControllerAllPassMovesTurn(t *testing.T) {
	deck := dealtDeck(t, 0, callHands, "3m")
	_, seats := scriptSeats(nil)
	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), wallOf(t, deck, 0), NewSyncTransport(seats))

	stepTo(t, c, StateWaitingAfterDiscarded, 10)
	require.NoError(t, c.Step(context.Background()))
	assert.Equal(t, StateDrawn, c.State())
	assert.Equal(t, 1, c.Turn())
	assert.Equal(t, 13, c.Hand(1).Len())
	assert.Equal(t, 13, c.Hand(0).Len())
	assert.Len(t, c.Wall().DoraIndicators(), 1)
}

func TestControllerProtocolViolation(t *testing.T) {
	deck := dealtDeck(t, 0, callHands, "3m")
	_, seats := scriptSeats(map[int]func(Event) (Reply, bool){
		0: func(ev Event) (Reply, bool) { return Reply{Action: ActionTsumo}, true },
	})
	wrongID := &recordingTransport{SyncTransport: NewSyncTransport(seats), shift: 100}
	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), wallOf(t, deck, 0), wrongID)

	stepTo(t, c, StateWaitingAfterDrawn, 5)
	err := c.Step(context.Background())
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	require.ErrorIs(t, err, ErrUnknownEvent)
}

// recordingTransport 记录每次询问走的是 AskOne 还是 AskAll；shift 非零时把回复的事件 id 改错
type recordingTransport struct {
	*SyncTransport
	shift int64
	one   int
	all   [][]int
}

func (t *recordingTransport) AskOne(ctx context.Context, seat int, ev Event) (Reply, error) {
	t.one++
	r, err := t.SyncTransport.AskOne(ctx, seat, ev)
	r.EventID += t.shift
	return r, err
}

func (t *recordingTransport) AskAll(ctx context.Context, seats []int, evs []Event) ([]Reply, error) {
	t.all = append(t.all, append([]int(nil), seats...))
	replies, err := t.SyncTransport.AskAll(ctx, seats, evs)
	for i := range replies {
		replies[i].EventID += t.shift
	}
	return replies, err
}

func TestControllerInvalidReplyFallsBackToDefault(t *testing.T) {
	deck := dealtDeck(t, 0, callHands, "3m")
	_, seats := scriptSeats(map[int]func(Event) (Reply, bool){
		0: func(ev Event) (Reply, bool) { return Reply{Action: ActionTsumo}, true },
	})
	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), wallOf(t, deck, 0), NewSyncTransport(seats))

	stepTo(t, c, StateWaitingAfterDrawn, 5)
	require.NoError(t, c.Step(context.Background()))
	assert.Equal(t, StateDiscarded, c.State())
	last, _ := c.River().Last()
	assert.Equal(t, TileOf(Man3), last.Tile)
}

func TestControllerExhaustiveDraw(t *testing.T) {
	cases := []struct {
		name   string
		hands  [4]string
		deltas [4]int
		tenpai [4]bool
		keeps  bool
	}{
		{"nobody tenpai", callHands, [4]int{}, [4]bool{}, false},
		{
			"dealer tenpai",
			[4]string{"123m456p789s1122z", callHands[1], callHands[2], callHands[3]},
			[4]int{3000, -1000, -1000, -1000},
			[4]bool{true, false, false, false},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deal := dealtDeck(t, 0, tc.hands, "")
			// 配牌放在活牌末尾，配完即荒牌
			rest := deal[4*HandSize:]
			deck := append(append(append([]Tile(nil), rest[:DrawableTiles-4*HandSize]...), deal[:4*HandSize]...), rest[DrawableTiles-4*HandSize:]...)
			require.Len(t, deck, TileLimit)

			c := NewRoundController(NewRoundInfo(DefaultInitialPoints), wallOf(t, deck, DrawableTiles-4*HandSize), NewSyncTransport([4]Seat{}))
			res, err := c.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, StateDrawnGame, c.State())
			assert.Equal(t, EndExhaustive, res.Kind)
			assert.Equal(t, tc.deltas, res.Deltas)
			assert.Equal(t, tc.tenpai, res.Tenpai)
			assert.Equal(t, tc.keeps, res.DealerKeeps)
			sum := 0
			for _, s := range res.Scores {
				sum += s
			}
			assert.Equal(t, 4*DefaultInitialPoints, sum)
			assert.ErrorIs(t, c.Step(context.Background()), ErrRoundFinished)
		})
	}
}

func TestControllerTsumoWin(t *testing.T) {
	hands := [4]string{"22234m567p34567s", callHands[1], callHands[2], callHands[3]}
	deck := dealtDeck(t, 0, hands, "8s")
	_, seats := scriptSeats(map[int]func(Event) (Reply, bool){
		0: func(ev Event) (Reply, bool) {
			if !ev.Choices.Tsumo {
				return Reply{}, false
			}
			return Reply{Action: ActionTsumo}, true
		},
	})
	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), wallOf(t, deck, 0), NewSyncTransport(seats))
	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EndTsumo, res.Kind)
	require.Len(t, res.Wins, 1)
	assert.Equal(t, -1, res.Wins[0].From)
	assert.Contains(t, yakuNamesOf(res.Wins[0].Score), "menzen-tsumo")
	assert.Greater(t, res.Deltas[0], 0)
	assert.True(t, res.DealerKeeps)
	assert.Equal(t, 1, res.Next.Honba)
	assert.Equal(t, []State{StateDistribute, StateDrawn, StateWaitingAfterDrawn, StateTsumo}, c.tm.Path())
}

func TestControllerRonWithReachStick(t *testing.T) {
	// 庄家打出 8s，座位 1 荣和
	hands := [4]string{
		"147m258p369s1234z",
		"22234m567p34567s",
		"33m169p258s12347z",
		"69m17p15s1234567z",
	}
	deck := dealtDeck(t, 0, hands, "8s")
	withDoraIndicator(t, deck, 4*HandSize+1, Man9)
	_, seats := scriptSeats(map[int]func(Event) (Reply, bool){
		1: func(ev Event) (Reply, bool) {
			if !ev.Choices.Ron {
				return Reply{}, false
			}
			return Reply{Action: ActionRon}, true
		},
	})
	info := NewRoundInfo(DefaultInitialPoints)
	info.RiichiSticks = 1
	info.Honba = 1
	c := NewRoundController(info, wallOf(t, deck, 0), NewSyncTransport(seats))
	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EndRon, res.Kind)
	require.Len(t, res.Wins, 1)
	assert.Equal(t, 1, res.Wins[0].Seat)
	assert.Equal(t, 0, res.Wins[0].From)
	// 平和断幺 2000 + 一本场 300 + 供托 1000
	assert.Equal(t, [4]int{-2300, 3300, 0, 0}, res.Deltas)
	assert.Equal(t, 0, res.RiichiSticks)
	assert.False(t, res.DealerKeeps)
	assert.Equal(t, 1, res.Next.Dealer)
	assert.Equal(t, 0, res.Next.Honba)
}

func TestControllerRunWithAgents(t *testing.T) {
	var seats [4]Seat
	for s := range seats {
		seats[s] = NewEfficiencyAgent(s)
	}
	rec := NewHistoryRecorder("match")
	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), NewWall(rand.New(rand.NewSource(7)), true), NewSyncTransport(seats), WithRecorder(rec))
	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, c.State().IsFinal())
	assert.Same(t, res, c.Result())

	sum := res.RiichiSticks * ReachStickPoints
	for _, s := range res.Scores {
		sum += s
	}
	assert.Equal(t, 4*DefaultInitialPoints, sum)

	h := rec.History()
	require.NotNil(t, h)
	require.NotNil(t, h.Result)
	assert.Equal(t, res.Kind.String(), h.Result.EndType)
	assert.Len(t, h.Wall.Drawable, DrawableTiles)
}

func TestReplayReproducesRound(t *testing.T) {
	var seats [4]Seat
	for s := range seats {
		seats[s] = NewEfficiencyAgent(s)
	}
	rec := NewHistoryRecorder("")
	info := NewRoundInfo(DefaultInitialPoints)
	info.Dealer = 2
	c := NewRoundController(info, NewWall(rand.New(rand.NewSource(11)), true), NewSyncTransport(seats), WithRecorder(rec))
	want, err := c.Run(context.Background())
	require.NoError(t, err)

	replay, err := NewReplayController(rec.History())
	require.NoError(t, err)
	assert.Equal(t, 2, replay.Info().Dealer)
	got, err := replay.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, want.Kind, got.Kind)
	assert.Equal(t, want.Deltas, got.Deltas)
	assert.Equal(t, want.Scores, got.Scores)
	assert.Equal(t, want.Tenpai, got.Tenpai)
	assert.Equal(t, c.River().Entries(), replay.River().Entries())
}

func TestReplayMissingReply(t *testing.T) {
	deck := dealtDeck(t, 0, callHands, "3m")
	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), wallOf(t, deck, 0), NewReplayTransport(nil))
	stepTo(t, c, StateWaitingAfterDrawn, 5)
	err := c.Step(context.Background())
	require.ErrorIs(t, err, ErrReplyMissing)
}
