package mahjong

import (
	"context"
	"errors"
	"fmt"

	"github.com/konoui/mjimage-sub000/common/log"
)

/*
	一局的流程由 RoundController 驱动，每次 Step 只前进一个状态：
		distribute -> drawn -> waiting-after-drawn
			-> tsumo (终局)
			-> discarded -> waiting-after-discarded
				-> roned (终局)
				-> poned / chied -> waiting-discard-event -> discarded
				-> dai-kaned -> drawn (岭上)
				-> drawn (下一家)
			-> an-kaned / sho-kaned -> waiting-chankan -> roned | drawn (岭上)
		任意摸牌失败或中途流局 -> drawn-game (终局)

	需要回复的挂起点只有 waiting-* 四个状态，回复按事件 id 收集。
	立直棒在宣言牌无人荣和之后才支付；宣言牌被荣和则视为立直不成立。
	明杠、加杠的新宝牌在下一次打牌后翻开，暗杠立即翻开。
*/

// Rules 本局使用的规则开关
type Rules struct {
	RedFives  bool
	RonPolicy RonPolicy
	Kuikae    bool // 禁止食替
}

func DefaultRules() Rules {
	return Rules{RedFives: true, RonPolicy: RonHeadBump, Kuikae: true}
}

// EndKind 本局结束方式
type EndKind int

const (
	EndTsumo EndKind = iota
	EndRon
	EndExhaustive // 荒牌流局
	EndFourWinds  // 四家打出同一种牌
	EndFourKans   // 四杠散了
	EndTripleRon  // 三家和了
	EndFourReach  // 四家立直
)

var endNames = [...]string{"TSUMO", "RON", "DRAW_EXHAUSTIVE", "DRAW_4WIND", "DRAW_4KAN", "DRAW_3RON", "DRAW_4RIICHI"}

func (k EndKind) String() string {
	if int(k) < len(endNames) {
		return endNames[k]
	}
	return "UNKNOWN"
}

// ParseEndKind 与 String 互逆
func ParseEndKind(s string) (EndKind, error) {
	for i, n := range endNames {
		if n == s {
			return EndKind(i), nil
		}
	}
	return EndTsumo, fmt.Errorf("unknown end kind %q", s)
}

// IsAbortive 中途流局
func (k EndKind) IsAbortive() bool {
	return k >= EndFourWinds
}

// WinRecord 一家的和牌
type WinRecord struct {
	Seat          int
	From          int // 自摸为 -1
	Decomposition Decomposition
	Score         ScoreResult
}

// RoundResult 本局结果。Deltas 为结算点数（含立直棒收入，不含立直宣言时支付的 1000 点）。
type RoundResult struct {
	Kind         EndKind
	Wins         []WinRecord
	Deltas       [4]int
	Tenpai       [4]bool
	Scores       [4]int // 结算后的点数
	RiichiSticks int    // 留在场上的立直棒
	DealerKeeps  bool
	Next         RoundInfo
}

// Recorder 记录开局快照与每个事件 id 的回复，用于回放
type Recorder interface {
	Start(info RoundInfo, wall WallSnapshot, rules Rules)
	Record(eventID int64, replies []Reply)
	Finish(result *RoundResult)
}

type Option func(*RoundController)

func WithObserver(o Observer) Option {
	return func(c *RoundController) { c.observers = append(c.observers, o) }
}

func WithOracle(o ScoringOracle) Option {
	return func(c *RoundController) { c.oracle = o }
}

func WithRecorder(r Recorder) Option {
	return func(c *RoundController) { c.recorder = r }
}

func WithRules(r Rules) Option {
	return func(c *RoundController) { c.rules = r }
}

type lastDiscard struct {
	seat int
	tile Tile
}

type pendingKan struct {
	seat int
	meld Meld
	tile Tile // 可被抢的那张
}

// RoundController 一局的状态机，独占牌山、牌河与四家手牌
type RoundController struct {
	info      RoundInfo
	rules     Rules
	wall      *Wall
	river     *River
	players   [4]*PlayerImage
	tm        *TurnManager
	transport Transport
	oracle    ScoringOracle
	observers []Observer
	recorder  Recorder

	eventID       int64
	result        *RoundResult
	last          lastDiscard
	pending       map[int]*Choices
	kan           *pendingKan
	kanOwners     []int
	pendingDora   int
	rinshan       bool
	anyCall       bool
	forbidden     []TileType
	reachPending  int
	pendingDouble bool
}

// NewRoundController 用给定的牌山开始一局；牌山可由 NewWall 洗出，也可由快照恢复
func NewRoundController(info RoundInfo, wall *Wall, transport Transport, opts ...Option) *RoundController {
	c := &RoundController{
		info:         info,
		rules:        DefaultRules(),
		wall:         wall,
		river:        NewRiver(),
		tm:           NewTurnManager(info.Dealer),
		transport:    transport,
		oracle:       NewBasicScorer(),
		reachPending: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RoundController) State() State { return c.tm.GetState() }

// Turn 当前行动座位
func (c *RoundController) Turn() int { return c.tm.GetCurrentPlayer() }

func (c *RoundController) Info() RoundInfo { return c.info }

func (c *RoundController) Rules() Rules { return c.rules }

// Hand 某座位手牌的副本，配牌前为 nil
func (c *RoundController) Hand(seat int) *Hand {
	if c.players[seat] == nil {
		return nil
	}
	return c.players[seat].Hand.Clone()
}

func (c *RoundController) River() *River { return c.river }

func (c *RoundController) Wall() *Wall { return c.wall }

// Result 终局后的结果，未结束时为 nil
func (c *RoundController) Result() *RoundResult { return c.result }

// Run 推进到终局
func (c *RoundController) Run(ctx context.Context) (*RoundResult, error) {
	for !c.tm.GetState().IsFinal() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.Step(ctx); err != nil {
			return nil, err
		}
	}
	return c.result, nil
}

// Step 执行当前状态的动作并迁移到下一个状态
func (c *RoundController) Step(ctx context.Context) error {
	switch c.tm.GetState() {
	case StateDistribute:
		return c.stepDistribute(ctx)
	case StateDrawn:
		return c.stepDrawn(ctx)
	case StateWaitingAfterDrawn:
		return c.stepWaitingAfterDrawn(ctx)
	case StateDiscarded:
		return c.stepDiscarded(ctx)
	case StateWaitingAfterDiscarded:
		return c.stepWaitingAfterDiscarded(ctx)
	case StatePoned, StateChied:
		return c.enter(StateWaitingDiscardEvent)
	case StateDaiKaned:
		c.rinshan = true
		return c.enter(StateDrawn)
	case StateWaitingDiscardEvent:
		return c.stepWaitingDiscardEvent(ctx)
	case StateAnKaned, StateShoKaned:
		return c.enter(StateWaitingChankan)
	case StateWaitingChankan:
		return c.stepWaitingChankan(ctx)
	case StateTsumo, StateRoned, StateDrawnGame:
		return ErrRoundFinished
	default:
		return fmt.Errorf("%w: %s", ErrInvalidState, c.tm.GetState())
	}
}

func (c *RoundController) enter(next State) error {
	prev := c.tm.GetState()
	if err := c.tm.Enter(next); err != nil {
		return err
	}
	log.Debug("状态 %s -> %s 座位 %d", prev, next, c.tm.GetCurrentPlayer())
	return nil
}

func (c *RoundController) hand(seat int) *Hand { return c.players[seat].Hand }

// checkSize 摸牌、打牌、鸣牌之后手牌只能是 13 或 14 张
func (c *RoundController) checkSize(seat int) error {
	if err := c.hand(seat).CheckSize(); err != nil {
		return fmt.Errorf("%w: seat %d: %w", ErrInvalidState, seat, err)
	}
	return nil
}

func (c *RoundController) stepDistribute(ctx context.Context) error {
	if c.recorder != nil {
		c.recorder.Start(c.info, c.wall.Snapshot(), c.rules)
	}
	hands, err := c.wall.Deal(c.info.Dealer)
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	for s := range hands {
		h, err := NewHand(hands[s])
		if err != nil {
			return fmt.Errorf("deal seat %d: %w", s, err)
		}
		c.players[s] = NewPlayerImage(s, h)
	}
	log.Info("%s 开始，庄家 %d，点数 %v", c.info, c.info.Dealer, c.info.Scores)
	if err := c.broadcast(ctx, Event{Type: EventDistribute, Seat: c.info.Dealer, Hands: hands}); err != nil {
		return err
	}
	c.pendingDora++
	if err := c.flushDora(ctx); err != nil {
		return err
	}
	return c.enter(StateDrawn)
}

func (c *RoundController) stepDrawn(ctx context.Context) error {
	seat := c.tm.GetCurrentPlayer()
	var (
		t   Tile
		err error
	)
	if c.rinshan {
		t, err = c.wall.DrawReplacement()
	} else {
		t, err = c.wall.Draw()
	}
	if errors.Is(err, ErrWallExhausted) {
		return c.exhaustiveDraw(ctx)
	}
	if err != nil {
		return err
	}
	if err := c.hand(seat).Draw(t); err != nil {
		return err
	}
	if err := c.checkSize(seat); err != nil {
		return err
	}
	if err := c.broadcast(ctx, Event{Type: EventDraw, Seat: seat, Tile: t, Replacement: c.rinshan}); err != nil {
		return err
	}
	return c.enter(StateWaitingAfterDrawn)
}

func (c *RoundController) stepWaitingAfterDrawn(ctx context.Context) error {
	seat := c.tm.GetCurrentPlayer()
	replies, err := c.ask(ctx, EventChoiceAfterDrawn, map[int]*Choices{seat: c.choicesAfterDrawn(seat)})
	if err != nil {
		return err
	}
	r := replies[seat]
	switch r.Action {
	case ActionTsumo:
		return c.winByTsumo(ctx, seat)
	case ActionDiscard:
		return c.discard(ctx, seat, r.Tile, false)
	case ActionReach:
		return c.discard(ctx, seat, r.Tile, true)
	case ActionClosedKan, ActionAddedKan:
		return c.declareKan(ctx, seat, r.Meld)
	default:
		return fmt.Errorf("%w: %s after draw", ErrNoSuchChoice, r.Action)
	}
}

func (c *RoundController) discard(ctx context.Context, seat int, t Tile, reach bool) error {
	p := c.players[seat]
	if err := p.Hand.Discard(t); err != nil {
		return err
	}
	if err := c.checkSize(seat); err != nil {
		return err
	}
	t = t.Plain()
	if reach {
		c.reachPending = seat
		c.pendingDouble = p.Discards == 0 && !c.anyCall
	}
	p.OnDiscard()
	c.river.Append(seat, t, reach)
	c.last = lastDiscard{seat: seat, tile: t}
	c.forbidden = nil
	c.rinshan = false
	if err := c.broadcast(ctx, Event{Type: EventDiscard, Seat: seat, Tile: t, Reach: reach}); err != nil {
		return err
	}
	if err := c.flushDora(ctx); err != nil {
		return err
	}
	return c.enter(StateDiscarded)
}

func (c *RoundController) stepDiscarded(ctx context.Context) error {
	choices := c.calculateAvailableOperations(c.last.seat, c.last.tile)
	if len(choices) == 0 {
		return c.afterPass(ctx)
	}
	c.pending = choices
	return c.enter(StateWaitingAfterDiscarded)
}

func (c *RoundController) stepWaitingAfterDiscarded(ctx context.Context) error {
	choices := c.pending
	c.pending = nil
	replies, err := c.ask(ctx, EventChoiceAfterDiscarded, choices)
	if err != nil {
		return err
	}
	c.markRonPassed(choices, replies)
	arb := Arbitrate(c.last.seat, orderedReplies(replies), c.rules.RonPolicy)
	switch {
	case arb.Abort:
		log.Info("三家和了，流局")
		c.reachPending = -1
		return c.abortive(ctx, EndTripleRon)
	case len(arb.Ron) > 0:
		return c.winByRon(ctx, arb.Ron, c.last.seat, c.last.tile, ronDiscard)
	case arb.Call != nil:
		return c.applyCall(ctx, *arb.Call)
	default:
		return c.afterPass(ctx)
	}
}

// afterPass 打出的牌无人处理：立直成立、中途流局判定、轮到下家
func (c *RoundController) afterPass(ctx context.Context) error {
	if err := c.establishReach(ctx); err != nil {
		return err
	}
	switch {
	case c.allReached():
		return c.abortive(ctx, EndFourReach)
	case c.river.FourWindsAbort():
		return c.abortive(ctx, EndFourWinds)
	case c.CheckFourKanDraw():
		return c.abortive(ctx, EndFourKans)
	}
	c.tm.NextTurn()
	c.rinshan = false
	return c.enter(StateDrawn)
}

func (c *RoundController) applyCall(ctx context.Context, r Reply) error {
	if err := c.establishReach(ctx); err != nil {
		return err
	}
	seat := r.Seat
	if err := c.river.MarkLastCalled(); err != nil {
		return err
	}
	if err := c.hand(seat).Call(r.Meld); err != nil {
		return err
	}
	if err := c.checkSize(seat); err != nil {
		return err
	}
	c.breakIppatsu()
	c.tm.SetTurn(seat)
	log.Info("座位 %d %s %s", seat, r.Action, FormatMeld(r.Meld))
	if err := c.broadcast(ctx, Event{Type: EventCall, Seat: seat, Tile: c.last.tile, Meld: r.Meld}); err != nil {
		return err
	}
	switch m := r.Meld.(type) {
	case Chi:
		if c.rules.Kuikae {
			c.forbidden = kuikaeKinds(m)
		}
		return c.enter(StateChied)
	case Pon:
		if c.rules.Kuikae {
			c.forbidden = kuikaeKinds(m)
		}
		return c.enter(StatePoned)
	case OpenKan:
		c.kanOwners = append(c.kanOwners, seat)
		c.pendingDora++
		return c.enter(StateDaiKaned)
	case ClosedKan, AddedKan:
		return fmt.Errorf("%w: %s on a discard", ErrInconsistentMeld, FormatMeld(m))
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
}

func (c *RoundController) stepWaitingDiscardEvent(ctx context.Context) error {
	seat := c.tm.GetCurrentPlayer()
	h := c.hand(seat)
	var allowed []Tile
	for _, t := range h.DistinctTiles() {
		if !containsKind(c.forbidden, t.Type()) {
			allowed = append(allowed, t)
		}
	}
	if len(allowed) == 0 {
		allowed = h.DistinctTiles()
	}
	replies, err := c.ask(ctx, EventChoiceAfterCalled, map[int]*Choices{seat: {Discards: allowed}})
	if err != nil {
		return err
	}
	r := replies[seat]
	if r.Action != ActionDiscard {
		return fmt.Errorf("%w: %s after call", ErrNoSuchChoice, r.Action)
	}
	return c.discard(ctx, seat, r.Tile, false)
}

func (c *RoundController) declareKan(ctx context.Context, seat int, m Meld) error {
	if err := c.hand(seat).Kan(m); err != nil {
		return err
	}
	if err := c.checkSize(seat); err != nil {
		return err
	}
	c.breakIppatsu()
	c.kanOwners = append(c.kanOwners, seat)
	k := &pendingKan{seat: seat, meld: m}
	log.Info("座位 %d 开杠 %s", seat, FormatMeld(m))
	switch v := m.(type) {
	case ClosedKan:
		k.tile = v.Four[0]
	case AddedKan:
		k.tile = v.Added
	case Chi, Pon, OpenKan:
		return fmt.Errorf("%w: %s from own turn", ErrInconsistentMeld, FormatMeld(m))
	default:
		panic(fmt.Sprintf("unknown meld %T", m))
	}
	c.kan = k
	if err := c.broadcast(ctx, Event{Type: EventCall, Seat: seat, Tile: k.tile, Meld: m}); err != nil {
		return err
	}
	c.pendingDora++
	if _, closed := m.(ClosedKan); closed {
		if err := c.flushDora(ctx); err != nil {
			return err
		}
		return c.enter(StateAnKaned)
	}
	return c.enter(StateShoKaned)
}

func (c *RoundController) stepWaitingChankan(ctx context.Context) error {
	k := c.kan
	c.kan = nil
	if k == nil {
		return fmt.Errorf("%w: no pending kan", ErrInvalidState)
	}
	mode := ronChankan
	if _, closed := k.meld.(ClosedKan); closed {
		mode = ronChankanClosed
	}
	choices := make(map[int]*Choices)
	for s := 0; s < 4; s++ {
		if s == k.seat {
			continue
		}
		if _, _, err := c.ronScore(s, k.seat, k.tile, mode, false); err == nil {
			choices[s] = &Choices{Ron: true, CanPass: true}
		}
	}
	if len(choices) > 0 {
		replies, err := c.ask(ctx, EventChoiceForChankan, choices)
		if err != nil {
			return err
		}
		c.markRonPassed(choices, replies)
		arb := Arbitrate(k.seat, orderedReplies(replies), c.rules.RonPolicy)
		switch {
		case arb.Abort:
			return c.abortive(ctx, EndTripleRon)
		case len(arb.Ron) > 0:
			return c.winByRon(ctx, arb.Ron, k.seat, k.tile, mode)
		}
	}
	c.rinshan = true
	return c.enter(StateDrawn)
}

// establishReach 宣言牌通过后支付立直棒，一发开始
func (c *RoundController) establishReach(ctx context.Context) error {
	seat := c.reachPending
	if seat < 0 {
		return nil
	}
	c.reachPending = -1
	p := c.players[seat]
	if err := p.Hand.Reach(); err != nil {
		return err
	}
	p.Ippatsu = true
	p.DoubleReach = c.pendingDouble
	c.info.Scores[seat] -= ReachStickPoints
	c.info.RiichiSticks++
	log.Info("座位 %d 立直，供托 %d", seat, c.info.RiichiSticks)
	return c.broadcast(ctx, Event{Type: EventReach, Seat: seat})
}

func (c *RoundController) breakIppatsu() {
	c.anyCall = true
	for _, p := range c.players {
		p.Ippatsu = false
	}
}

func (c *RoundController) allReached() bool {
	for _, p := range c.players {
		if !p.Hand.Reached() {
			return false
		}
	}
	return true
}

// flushDora 翻开所有待翻的宝牌指示牌
func (c *RoundController) flushDora(ctx context.Context) error {
	for ; c.pendingDora > 0; c.pendingDora-- {
		t, err := c.wall.RevealDora()
		if err != nil {
			return err
		}
		if err := c.broadcast(ctx, Event{Type: EventNewDora, Seat: c.tm.GetCurrentPlayer(), Tile: t}); err != nil {
			return err
		}
	}
	return nil
}

// CheckFourKanDraw 第四个杠之后的打牌无人荣和，且四个杠不属于同一家
func (c *RoundController) CheckFourKanDraw() bool {
	if len(c.kanOwners) < 4 {
		return false
	}
	for _, s := range c.kanOwners[1:] {
		if s != c.kanOwners[0] {
			return true
		}
	}
	return false
}

func (c *RoundController) winByTsumo(ctx context.Context, seat int) error {
	if err := c.flushDora(ctx); err != nil {
		return err
	}
	d, score, err := c.tsumoScore(seat)
	if err != nil {
		return fmt.Errorf("%w: seat %d tsumo: %v", ErrScoring, seat, err)
	}
	deltas := score.Deltas
	deltas[seat] += c.info.RiichiSticks * ReachStickPoints
	c.info.RiichiSticks = 0
	log.Info("座位 %d 自摸 %s %d番%d符 %d点", seat, d, score.Han, score.Fu, score.Total)
	if err := c.enter(StateTsumo); err != nil {
		return err
	}
	win := WinRecord{Seat: seat, From: -1, Decomposition: d, Score: score}
	return c.finish(ctx, EndTsumo, []WinRecord{win}, deltas, [4]bool{}, seat == c.info.Dealer)
}

// winByRon seats 已按离放铳者的距离排序；供托与本场只归最近的一家
func (c *RoundController) winByRon(ctx context.Context, seats []int, from int, t Tile, mode ronMode) error {
	if c.reachPending == from {
		log.Info("座位 %d 的立直宣言牌被荣和，立直不成立", from)
		c.reachPending = -1
	}
	stick := selectStickWinnerRonA(from, seats)
	var (
		deltas      [4]int
		wins        []WinRecord
		dealerKeeps bool
	)
	for _, s := range seats {
		d, score, err := c.ronScore(s, from, t, mode, s == stick)
		if err != nil {
			return fmt.Errorf("%w: seat %d ron: %v", ErrScoring, s, err)
		}
		for i := range deltas {
			deltas[i] += score.Deltas[i]
		}
		wins = append(wins, WinRecord{Seat: s, From: from, Decomposition: d, Score: score})
		if s == c.info.Dealer {
			dealerKeeps = true
		}
		log.Info("座位 %d 荣和座位 %d 的 %s %d番%d符 %d点", s, from, t, score.Han, score.Fu, score.Total)
	}
	deltas[stick] += c.info.RiichiSticks * ReachStickPoints
	c.info.RiichiSticks = 0
	if err := c.enter(StateRoned); err != nil {
		return err
	}
	return c.finish(ctx, EndRon, wins, deltas, [4]bool{}, dealerKeeps)
}

func selectStickWinnerRonA(loser int, winners []int) int {
	best := -1
	bestDist := 5
	for _, w := range winners {
		d := distance(loser, w)
		if d == 0 {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = w
		}
	}
	return best
}

// exhaustiveDraw 荒牌流局：听牌者平分 3000 点罚符，全员听牌或全员未听时不移动点数
func (c *RoundController) exhaustiveDraw(ctx context.Context) error {
	var (
		tenpai      [4]bool
		deltas      [4]int
		tenpaiSeats []int
	)
	for s, p := range c.players {
		if Shanten(p.Hand) == 0 {
			tenpai[s] = true
			tenpaiSeats = append(tenpaiSeats, s)
		}
	}
	if n := len(tenpaiSeats); n > 0 && n < 4 {
		winEach := ExhaustivePool / n
		loseEach := ExhaustivePool / (4 - n)
		for s := range deltas {
			if tenpai[s] {
				deltas[s] += winEach
			} else {
				deltas[s] -= loseEach
			}
		}
	}
	log.Info("荒牌流局，听牌 %v", tenpai)
	if err := c.enter(StateDrawnGame); err != nil {
		return err
	}
	return c.finish(ctx, EndExhaustive, nil, deltas, tenpai, tenpai[c.info.Dealer])
}

// abortive 中途流局不移动点数，庄家连庄
func (c *RoundController) abortive(ctx context.Context, kind EndKind) error {
	log.Info("中途流局 %s", kind)
	if err := c.enter(StateDrawnGame); err != nil {
		return err
	}
	return c.finish(ctx, kind, nil, [4]int{}, [4]bool{}, true)
}

func (c *RoundController) finish(ctx context.Context, kind EndKind, wins []WinRecord, deltas [4]int, tenpai [4]bool, dealerKeeps bool) error {
	for s := range deltas {
		c.info.Scores[s] += deltas[s]
	}
	res := &RoundResult{
		Kind:         kind,
		Wins:         wins,
		Deltas:       deltas,
		Tenpai:       tenpai,
		Scores:       c.info.Scores,
		RiichiSticks: c.info.RiichiSticks,
		DealerKeeps:  dealerKeeps,
		Next:         nextRound(c.info, dealerKeeps),
	}
	c.result = res
	if c.recorder != nil {
		c.recorder.Finish(res)
	}
	log.Info("%s 结束 %s，点数变化 %v，点数 %v", c.info, kind, deltas, res.Scores)
	return c.broadcast(ctx, Event{Type: EventEndOfRound, Seat: c.info.Dealer, Result: res})
}
