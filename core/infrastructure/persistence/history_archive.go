package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/konoui/mjimage-sub000/common/cache"
	"github.com/konoui/mjimage-sub000/common/log"
	"github.com/konoui/mjimage-sub000/core/domain/entity"
	"github.com/konoui/mjimage-sub000/core/domain/repository"
	"gopkg.in/yaml.v3"
)

// HistoryArchive 内存牌谱仓库：牌谱以 YAML 字节存入 ristretto，成本按字节数计算。
// 超出 maxCost 或过期的记录会被淘汰，查找时返回 NotFound。
type HistoryArchive struct {
	cache    *cache.GeneralCache
	roundKey string
	matchKey string
	mu       sync.RWMutex
	byMatch  map[string][]string // matchID -> roundID，按保存顺序
}

func NewHistoryArchive(maxCost int64, ttl time.Duration) (*HistoryArchive, error) {
	generalCache, err := cache.NewGeneralCache(maxCost, ttl)
	if err != nil {
		return nil, fmt.Errorf("创建牌谱缓存失败: %w", err)
	}
	return &HistoryArchive{
		cache:    generalCache,
		roundKey: "history:round",
		matchKey: "history:match",
		byMatch:  make(map[string][]string),
	}, nil
}

var _ repository.RoundHistoryRepository = (*HistoryArchive)(nil)

func (a *HistoryArchive) key(prefix, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// put 写入并等待生效，被准入策略拒绝时返回错误
func (a *HistoryArchive) put(key string, data []byte) error {
	if !a.cache.SetWithCost(key, data, int64(len(data))) {
		return fmt.Errorf("%w: %s", repository.ErrArchiveRejected, key)
	}
	a.cache.Wait()
	if _, ok := a.cache.GetBytes(key); !ok {
		return fmt.Errorf("%w: %s (%d bytes)", repository.ErrArchiveRejected, key, len(data))
	}
	return nil
}

// SaveRoundHistory 保存牌谱
func (a *HistoryArchive) SaveRoundHistory(ctx context.Context, history *entity.RoundHistory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if history == nil || history.ID == "" {
		return fmt.Errorf("%w: round history without id", repository.ErrInvalidRecord)
	}
	data, err := history.EncodeYAML()
	if err != nil {
		log.Error("编码牌谱失败: %v", err)
		return err
	}
	if err := a.put(a.key(a.roundKey, history.ID), data); err != nil {
		log.Warn("保存牌谱 %s 失败: %v", history.ID, err)
		return err
	}

	a.mu.Lock()
	a.byMatch[history.MatchID] = append(a.byMatch[history.MatchID], history.ID)
	a.mu.Unlock()
	log.Debug("保存牌谱 %s，%d 字节", history.ID, len(data))
	return nil
}

// FindRoundHistory 根据ID查找牌谱
func (a *HistoryArchive) FindRoundHistory(ctx context.Context, id string) (*entity.RoundHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := a.cache.GetBytes(a.key(a.roundKey, id))
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrRoundHistoryNotFound, id)
	}
	h, err := entity.DecodeRoundHistory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrArchiveCorrupt, err)
	}
	return h, nil
}

// FindRoundHistoriesByMatch 按保存顺序返回仍在缓存中的牌谱
func (a *HistoryArchive) FindRoundHistoriesByMatch(ctx context.Context, matchID string) ([]*entity.RoundHistory, error) {
	a.mu.RLock()
	ids := append([]string(nil), a.byMatch[matchID]...)
	a.mu.RUnlock()

	out := make([]*entity.RoundHistory, 0, len(ids))
	for _, id := range ids {
		h, err := a.FindRoundHistory(ctx, id)
		if err != nil {
			log.Warn("对局 %s 的牌谱 %s 已不可用: %v", matchID, id, err)
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// SaveMatchRecord 保存对局元数据
func (a *HistoryArchive) SaveMatchRecord(ctx context.Context, record *entity.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.ID == "" {
		return fmt.Errorf("%w: match record without id", repository.ErrInvalidRecord)
	}
	data, err := yaml.Marshal(record)
	if err != nil {
		return err
	}
	return a.put(a.key(a.matchKey, record.ID), data)
}

// FindMatchRecord 根据ID查找对局
func (a *HistoryArchive) FindMatchRecord(ctx context.Context, id string) (*entity.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := a.cache.GetBytes(a.key(a.matchKey, id))
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrMatchRecordNotFound, id)
	}
	var record entity.MatchRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrArchiveCorrupt, err)
	}
	return &record, nil
}

// Close 关闭缓存
func (a *HistoryArchive) Close() {
	a.cache.Close()
}
