package mahjong

import (
	"sync"

	"github.com/konoui/mjimage-sub000/common/log"
)

// EfficiencyAgent 按牌效行动的进程内座位：能和就和，能立直就立直，
// 只在鸣牌能降低向听时鸣牌，其余时候打出有效进张最多的牌。
type EfficiencyAgent struct {
	seat    int
	mu      sync.Mutex
	round   string
	visible Visible
}

func NewEfficiencyAgent(seat int) *EfficiencyAgent {
	return &EfficiencyAgent{seat: seat}
}

func (a *EfficiencyAgent) OnEvent(ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ev.Round.ID != a.round {
		a.round = ev.Round.ID
		a.visible = Visible{}
	}
	switch ev.Type {
	case EventDistribute:
		a.visible = Visible{}
	case EventDiscard, EventNewDora:
		a.see(ev.Tile)
	case EventCall:
		if ev.Seat == a.seat {
			return
		}
		for _, t := range ownTiles(ev.Meld) {
			a.see(t)
		}
	}
}

func (a *EfficiencyAgent) see(t Tile) {
	if t.IsUnknown() {
		return
	}
	a.visible[t.Type()]++
}

func (a *EfficiencyAgent) Choose(ev Event) (Reply, bool) {
	if !ev.Type.IsChoice() || ev.Choices == nil || ev.Hand == nil {
		return Reply{}, false
	}
	a.mu.Lock()
	vis := a.visible
	a.mu.Unlock()

	ch, h := ev.Choices, ev.Hand
	r := Reply{EventID: ev.ID, Seat: a.seat}
	switch {
	case ch.Tsumo:
		r.Action = ActionTsumo
		return r, true
	case ch.Ron:
		r.Action = ActionRon
		return r, true
	}
	if len(ch.Reach) > 0 {
		if cs := CalcCandidates(h, ch.Reach, &vis); len(cs) > 0 {
			r.Action, r.Tile = ActionReach, cs[0].Discard
			return r, true
		}
	}
	if m, ok := a.bestCall(h, ch, &vis); ok {
		r.Meld = m
		if _, chi := m.(Chi); chi {
			r.Action = ActionChi
		} else {
			r.Action = ActionPon
		}
		log.Debug("座位 %d 鸣牌 %s", a.seat, FormatMeld(m))
		return r, true
	}
	if ch.CanPass {
		r.Action = ActionPass
		return r, true
	}
	if cs := CalcCandidates(h, ch.Discards, &vis); len(cs) > 0 {
		r.Action, r.Tile = ActionDiscard, cs[0].Discard
		return r, true
	}
	drawn, ok := h.Drawn()
	return ch.Default(ev.ID, a.seat, drawn, ok), true
}

// bestCall 鸣牌后打出最优的一张，向听比现在小才鸣
func (a *EfficiencyAgent) bestCall(h *Hand, ch *Choices, vis *Visible) (Meld, bool) {
	var options []Meld
	for _, m := range ch.Pon {
		options = append(options, m)
	}
	for _, m := range ch.Chi {
		options = append(options, m)
	}
	if len(options) == 0 {
		return nil, false
	}
	best, bestSh := Meld(nil), Shanten(h)
	for _, m := range options {
		work := h.Clone()
		if err := work.Call(m); err != nil {
			continue
		}
		cs := CalcCandidates(work, nil, vis)
		if len(cs) == 0 {
			continue
		}
		if cs[0].Shanten < bestSh {
			best, bestSh = m, cs[0].Shanten
		}
	}
	return best, best != nil
}
