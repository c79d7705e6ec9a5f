package mahjong

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/konoui/mjimage-sub000/common/config"
	"github.com/konoui/mjimage-sub000/common/log"
	"github.com/konoui/mjimage-sub000/core/domain/entity"
	"github.com/konoui/mjimage-sub000/core/domain/repository"
)

// MatchLength 东风战 / 半庄战
type MatchLength int

const (
	MatchEast MatchLength = iota
	MatchSouth
)

func (l MatchLength) String() string {
	if l == MatchSouth {
		return "south"
	}
	return "east"
}

func ParseMatchLength(s string) (MatchLength, error) {
	switch s {
	case "", "east":
		return MatchEast, nil
	case "south":
		return MatchSouth, nil
	default:
		return MatchEast, fmt.Errorf("unknown match length %q", s)
	}
}

// lastWind 最后一个场风
func (l MatchLength) lastWind() Wind {
	if l == MatchSouth {
		return WindSouth
	}
	return WindEast
}

type MatchConfig struct {
	Rules         Rules
	Length        MatchLength
	InitialPoints int
	Seed          int64 // 洗牌种子，相同种子与相同回复得到相同的对局
}

// MatchConfigFromRules 由配置文件的规则段得到对局配置
func MatchConfigFromRules(rc config.RuleConf, seed int64) (MatchConfig, error) {
	name, err := rc.RonPolicy()
	if err != nil {
		return MatchConfig{}, err
	}
	policy, err := ParseRonPolicy(name)
	if err != nil {
		return MatchConfig{}, err
	}
	lengthName, err := rc.MatchLength()
	if err != nil {
		return MatchConfig{}, err
	}
	length, err := ParseMatchLength(lengthName)
	if err != nil {
		return MatchConfig{}, err
	}
	return MatchConfig{
		Rules:         Rules{RedFives: rc.RedFives, RonPolicy: policy, Kuikae: rc.Kuikae},
		Length:        length,
		InitialPoints: rc.InitialPoints,
		Seed:          seed,
	}, nil
}

// Match 连续进行多局：点数、本场、立直棒在局间传递，
// 东场（或南场）结束或有人点数小于零时终局。
type Match struct {
	cfg       MatchConfig
	transport Transport
	store     repository.RoundHistoryRepository
	opts      []Option
	record    *entity.MatchRecord
	results   []*RoundResult
}

// NewMatch store 为 nil 时不保存牌谱
func NewMatch(cfg MatchConfig, transport Transport, store repository.RoundHistoryRepository, opts ...Option) *Match {
	if cfg.InitialPoints <= 0 {
		cfg.InitialPoints = DefaultInitialPoints
	}
	return &Match{
		cfg:       cfg,
		transport: transport,
		store:     store,
		opts:      opts,
		record:    entity.NewMatchRecord(cfg.Seed),
	}
}

func (m *Match) Record() *entity.MatchRecord { return m.record }

// Results 已结束的各局结果，按顺序
func (m *Match) Results() []*RoundResult { return m.results }

func (m *Match) Run(ctx context.Context) (*entity.MatchRecord, error) {
	rng := rand.New(rand.NewSource(m.cfg.Seed))
	info := NewRoundInfo(m.cfg.InitialPoints)
	log.Info("对局 %s 开始，%s 战，种子 %d", m.record.ID, m.cfg.Length, m.cfg.Seed)

	for {
		rec := NewHistoryRecorder(m.record.ID)
		opts := append([]Option{WithRules(m.cfg.Rules), WithRecorder(rec)}, m.opts...)
		c := NewRoundController(info, NewWall(rng, m.cfg.Rules.RedFives), m.transport, opts...)
		res, err := c.Run(ctx)
		if err != nil {
			log.Error("对局 %s 在 %s 中止: %v", m.record.ID, info, err)
			m.record.AbortGame()
			m.saveRecord(ctx)
			return m.record, err
		}
		m.results = append(m.results, res)
		m.saveRound(ctx, rec.History())

		info = res.Next
		if m.over(res) {
			break
		}
	}

	final := info.Scores
	if info.RiichiSticks > 0 {
		top := 0
		for s := 1; s < 4; s++ {
			if final[s] > final[top] {
				top = s
			}
		}
		final[top] += info.RiichiSticks * ReachStickPoints
	}
	m.record.CompleteGame(final)
	m.saveRecord(ctx)
	log.Info("对局 %s 结束，%d 局，最终点数 %v", m.record.ID, len(m.results), final)
	return m.record, nil
}

// over 有人被飞，或下一局已超出最后一个场风
func (m *Match) over(res *RoundResult) bool {
	for _, s := range res.Scores {
		if s < 0 {
			return true
		}
	}
	return res.Next.RoundWind > m.cfg.Length.lastWind()
}

func (m *Match) saveRound(ctx context.Context, h *entity.RoundHistory) {
	if h == nil {
		return
	}
	m.record.AddRound(h.ID)
	if m.store == nil {
		return
	}
	if err := m.store.SaveRoundHistory(ctx, h); err != nil {
		log.Warn("保存牌谱 %s 失败: %v", h.ID, err)
	}
}

func (m *Match) saveRecord(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveMatchRecord(ctx, m.record); err != nil {
		log.Warn("保存对局 %s 失败: %v", m.record.ID, err)
	}
}
