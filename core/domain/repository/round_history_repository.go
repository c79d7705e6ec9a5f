package repository

import (
	"context"

	"github.com/konoui/mjimage-sub000/core/domain/entity"
)

// RoundHistoryRepository 牌谱仓储接口
type RoundHistoryRepository interface {
	// SaveRoundHistory 保存一局的牌谱（开局快照、回复、结果）
	SaveRoundHistory(ctx context.Context, history *entity.RoundHistory) error

	// FindRoundHistory 根据ID查找牌谱
	FindRoundHistory(ctx context.Context, id string) (*entity.RoundHistory, error)

	// FindRoundHistoriesByMatch 查找一场对局的所有牌谱（按局的顺序）
	FindRoundHistoriesByMatch(ctx context.Context, matchID string) ([]*entity.RoundHistory, error)

	// SaveMatchRecord 保存对局元数据
	SaveMatchRecord(ctx context.Context, record *entity.MatchRecord) error

	// FindMatchRecord 根据ID查找对局
	FindMatchRecord(ctx context.Context, id string) (*entity.MatchRecord, error)
}
