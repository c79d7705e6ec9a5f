package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/konoui/mjimage-sub000/common/config"
	"github.com/konoui/mjimage-sub000/common/log"
	"github.com/konoui/mjimage-sub000/core/domain/entity"
	"github.com/konoui/mjimage-sub000/core/infrastructure/persistence"
	"github.com/konoui/mjimage-sub000/runtime/game/engines/mahjong"
)

var ErrReplayMismatch = errors.New("replayed result differs from recorded result")

type SimulateOptions struct {
	Seed  int64
	Games int
	Sync  bool // 使用同步传输，否则每个座位一个 goroutine
}

// Simulate 1.创建牌谱仓库。2.每场对局创建四个 AI 座位与传输。3.跑完对局并按需导出牌谱。
func Simulate(ctx context.Context, cfg *config.Config, opts SimulateOptions) error {
	archive, err := persistence.NewHistoryArchive(cfg.History.MaxCost, cfg.History.TTL)
	if err != nil {
		return err
	}
	defer archive.Close()

	for g := 0; g < max(opts.Games, 1); g++ {
		mc, err := mahjong.MatchConfigFromRules(cfg.Rule, opts.Seed+int64(g))
		if err != nil {
			return err
		}
		record, err := runMatch(ctx, mc, archive, opts.Sync, cfg.Rule.ReplyTimeout)
		if err != nil {
			return fmt.Errorf("match %d: %w", g, err)
		}
		if cfg.History.Dir != "" {
			if err := dumpHistories(ctx, archive, record, cfg.History.Dir); err != nil {
				return err
			}
		}
	}
	return nil
}

func runMatch(ctx context.Context, mc mahjong.MatchConfig, archive *persistence.HistoryArchive, syncMode bool, timeout time.Duration) (*entity.MatchRecord, error) {
	transport, stop := newTransport(ctx, syncMode, timeout)
	defer stop()

	mirror := mahjong.NewMirror()
	match := mahjong.NewMatch(mc, transport, archive, mahjong.WithObserver(mirror))
	record, err := match.Run(ctx)
	if err != nil {
		return record, err
	}
	if err := mirror.Err(); err != nil {
		log.Warn("镜像与控制器不一致: %v", err)
	}
	for _, r := range record.FinalResult.Rankings {
		log.Info("座位 %d 第 %d 名 %d 点", r.SeatIndex, r.Rank, r.Points)
	}
	return record, nil
}

// newTransport 同步模式直接调用座位；通道模式为每个座位启动一个 goroutine，stop 等待它们退出
func newTransport(ctx context.Context, syncMode bool, timeout time.Duration) (mahjong.Transport, func()) {
	var seats [4]mahjong.Seat
	for s := range seats {
		seats[s] = mahjong.NewEfficiencyAgent(s)
	}
	if syncMode {
		return mahjong.NewSyncTransport(seats), func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	t := mahjong.NewChannelTransport(64, timeout)
	var wg sync.WaitGroup
	for s := range seats {
		wg.Add(1)
		go func(seat int) {
			defer wg.Done()
			t.ServeSeat(ctx, seat, seats[seat])
		}(s)
	}
	return t, func() {
		cancel()
		wg.Wait()
	}
}

// dumpHistories 每局一个 YAML 文件：<对局ID>-<序号>.yaml
func dumpHistories(ctx context.Context, archive *persistence.HistoryArchive, record *entity.MatchRecord, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	histories, err := archive.FindRoundHistoriesByMatch(ctx, record.ID)
	if err != nil {
		return err
	}
	for i, h := range histories {
		data, err := h.EncodeYAML()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%02d.yaml", record.ID, i+1))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}
	log.Info("导出 %d 局牌谱到 %s", len(histories), dir)
	return nil
}

// Replay 从 YAML 牌谱重建一局，结果必须与记录一致
func Replay(ctx context.Context, file string, w io.Writer) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	h, err := entity.DecodeRoundHistory(data)
	if err != nil {
		return err
	}
	mirror := mahjong.NewMirror()
	c, err := mahjong.NewReplayController(h, mahjong.WithObserver(mirror))
	if err != nil {
		return err
	}
	res, err := c.Run(ctx)
	if err != nil {
		return err
	}
	if err := mirror.Err(); err != nil {
		return err
	}
	if h.Result != nil {
		if h.Result.EndType != res.Kind.String() || h.Result.Delta != res.Deltas {
			return fmt.Errorf("%w: recorded %s %v, replayed %s %v",
				ErrReplayMismatch, h.Result.EndType, h.Result.Delta, res.Kind, res.Deltas)
		}
	}
	_, err = fmt.Fprintf(w, "%s %s delta=%v points=%v\n", h.ID, res.Kind, res.Deltas, res.Scores)
	return err
}
