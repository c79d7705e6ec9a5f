package mahjong

import (
	"fmt"
	"sync"

	"github.com/konoui/mjimage-sub000/common/log"
)

// Mirror 只读镜像：按事件重放手牌变化，每个事件 id 最多应用一次。
// 作为 Observer 时看到完整信息；作为座位的事件接收者时，他家的牌是未知牌。
type Mirror struct {
	mu      sync.Mutex
	round   string
	hands   [4]*Hand
	river   *River
	dora    []Tile
	seen    map[int64]struct{}
	err     error
	applied int
}

func NewMirror() *Mirror {
	return &Mirror{river: NewRiver(), seen: make(map[int64]struct{})}
}

func (m *Mirror) Observe(ev Event) { m.apply(ev) }

// OnEvent 让 Mirror 可以嵌入 Seat 实现
func (m *Mirror) OnEvent(ev Event) { m.apply(ev) }

func (m *Mirror) apply(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.Round.ID != m.round {
		m.round = ev.Round.ID
		m.seen = make(map[int64]struct{})
	}
	if ev.Type.IsChoice() {
		return
	}
	if _, dup := m.seen[ev.ID]; dup {
		return
	}
	m.seen[ev.ID] = struct{}{}
	if err := m.applyEvent(ev); err != nil && m.err == nil {
		log.Error("镜像应用事件 %d %s 失败: %v", ev.ID, ev.Type, err)
		m.err = err
	}
	m.applied++
}

func (m *Mirror) applyEvent(ev Event) error {
	if ev.Type != EventDistribute && m.hands[ev.Seat] == nil && ev.Type != EventNewDora && ev.Type != EventEndOfRound {
		return fmt.Errorf("%w: %s before distribute", ErrInvalidState, ev.Type)
	}
	switch ev.Type {
	case EventDistribute:
		m.river = NewRiver()
		m.dora = nil
		for s := range ev.Hands {
			h, err := NewHand(ev.Hands[s])
			if err != nil {
				return err
			}
			m.hands[s] = h
		}
	case EventDraw:
		return m.hands[ev.Seat].Draw(ev.Tile)
	case EventDiscard:
		h := m.hands[ev.Seat]
		if err := h.Discard(ev.Tile); err != nil {
			if h.Unknown() == 0 {
				return err
			}
			if err := h.Discard(UnknownTile()); err != nil {
				return err
			}
		}
		m.river.Append(ev.Seat, ev.Tile, ev.Reach)
	case EventCall:
		if IsOpen(ev.Meld) && !isAddedKan(ev.Meld) {
			if err := m.river.MarkLastCalled(); err != nil {
				return err
			}
		}
		return applyCall(m.hands[ev.Seat], ev.Meld)
	case EventReach:
		return m.hands[ev.Seat].Reach()
	case EventNewDora:
		m.dora = append(m.dora, ev.Tile)
	case EventEndOfRound:
	}
	return nil
}

func isAddedKan(meld Meld) bool {
	_, ok := meld.(AddedKan)
	return ok
}

// applyCall 手里没有副露用的牌时（他家的未知牌），用未知牌抵扣
func applyCall(h *Hand, meld Meld) error {
	err := h.Call(meld)
	if err == nil {
		return nil
	}
	own := ownTiles(meld)
	if h.Unknown() < len(own) {
		return err
	}
	unknowns := make([]Tile, len(own))
	for i := range unknowns {
		unknowns[i] = UnknownTile()
	}
	if err := h.Dec(unknowns...); err != nil {
		return err
	}
	if v, ok := meld.(AddedKan); ok {
		for i, x := range h.melds {
			if p, ok := x.(Pon); ok && p.Called.SameKind(v.Added) {
				h.melds[i] = v
				h.drawn = nil
				return nil
			}
		}
		return h.fail("kan", v.Added, ErrInconsistentMeld)
	}
	h.melds = append(h.melds, meld)
	h.drawn = nil
	return nil
}

// Hand 镜像手牌的副本
func (m *Mirror) Hand(seat int) *Hand {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hands[seat] == nil {
		return nil
	}
	return m.hands[seat].Clone()
}

func (m *Mirror) River() []Discard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.river.Entries()
}

func (m *Mirror) DoraIndicators() []Tile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Tile(nil), m.dora...)
}

// Applied 已应用的事件数（重复投递不计）
func (m *Mirror) Applied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

// Err 第一次应用失败的错误
func (m *Mirror) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
