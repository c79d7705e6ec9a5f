package mahjong

import (
	"context"
	"fmt"
	"time"
)

// Transport 控制器与座位之间的通道。
// AskOne / AskAll 只负责投递与收集，回复的 id 与数量由控制器校验。
type Transport interface {
	Notify(ctx context.Context, seat int, ev Event) error
	AskOne(ctx context.Context, seat int, ev Event) (Reply, error)
	AskAll(ctx context.Context, seats []int, evs []Event) ([]Reply, error)
}

// Seat 进程内座位
type Seat interface {
	OnEvent(ev Event)
	// Choose 返回 false 表示没有回复
	Choose(ev Event) (Reply, bool)
}

// SyncTransport 同步参考实现：先把事件全部投递，再从信箱取出该 id 的回复
type SyncTransport struct {
	seats   [4]Seat
	mailbox map[int64]map[int]Reply
}

func NewSyncTransport(seats [4]Seat) *SyncTransport {
	return &SyncTransport{seats: seats, mailbox: make(map[int64]map[int]Reply)}
}

func (t *SyncTransport) Notify(_ context.Context, seat int, ev Event) error {
	if s := t.seats[seat]; s != nil {
		s.OnEvent(ev)
	}
	return nil
}

func (t *SyncTransport) emit(seat int, ev Event) {
	s := t.seats[seat]
	if s == nil {
		return
	}
	s.OnEvent(ev)
	if r, ok := s.Choose(ev); ok {
		box := t.mailbox[ev.ID]
		if box == nil {
			box = make(map[int]Reply)
			t.mailbox[ev.ID] = box
		}
		box[seat] = r
	}
}

func (t *SyncTransport) drain(id int64, seat int) (Reply, error) {
	r, ok := t.mailbox[id][seat]
	if !ok {
		return Reply{}, protocolErr(id, seat, ErrReplyMissing, "mailbox empty")
	}
	return r, nil
}

func (t *SyncTransport) AskOne(ctx context.Context, seat int, ev Event) (Reply, error) {
	replies, err := t.AskAll(ctx, []int{seat}, []Event{ev})
	if err != nil {
		return Reply{}, err
	}
	return replies[0], nil
}

func (t *SyncTransport) AskAll(_ context.Context, seats []int, evs []Event) ([]Reply, error) {
	for i, seat := range seats {
		t.emit(seat, evs[i])
	}
	defer func() {
		for _, ev := range evs {
			delete(t.mailbox, ev.ID)
		}
	}()
	out := make([]Reply, 0, len(seats))
	for i, seat := range seats {
		r, err := t.drain(evs[i].ID, seat)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ChannelTransport 每个座位一条出站事件通道与一条入站回复通道
type ChannelTransport struct {
	out     [4]chan Event
	in      [4]chan Reply
	timeout time.Duration
}

func NewChannelTransport(buffer int, timeout time.Duration) *ChannelTransport {
	t := &ChannelTransport{timeout: timeout}
	for i := 0; i < 4; i++ {
		t.out[i] = make(chan Event, buffer)
		t.in[i] = make(chan Reply, 1)
	}
	return t
}

// Events 座位读取事件的通道
func (t *ChannelTransport) Events(seat int) <-chan Event { return t.out[seat] }

// Replies 座位写回复的通道
func (t *ChannelTransport) Replies(seat int) chan<- Reply { return t.in[seat] }

func (t *ChannelTransport) Notify(ctx context.Context, seat int, ev Event) error {
	select {
	case t.out[seat] <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *ChannelTransport) AskOne(ctx context.Context, seat int, ev Event) (Reply, error) {
	replies, err := t.AskAll(ctx, []int{seat}, []Event{ev})
	if err != nil {
		return Reply{}, err
	}
	return replies[0], nil
}

// AskAll 先把同一 id 的事件发给所有座位，再逐个接收回复
func (t *ChannelTransport) AskAll(ctx context.Context, seats []int, evs []Event) ([]Reply, error) {
	for i, seat := range seats {
		if err := t.Notify(ctx, seat, evs[i]); err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out := make([]Reply, 0, len(seats))
	for i, seat := range seats {
		select {
		case r := <-t.in[seat]:
			out = append(out, r)
		case <-ctx.Done():
			return nil, protocolErr(evs[i].ID, seat, ErrReplyTimeout, "waited %s", t.timeout)
		}
	}
	return out, nil
}

// ServeSeat 在独立 goroutine 中驱动一个进程内座位，直到 ctx 结束或通道关闭
func (t *ChannelTransport) ServeSeat(ctx context.Context, seat int, s Seat) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-t.out[seat]:
			if !ok {
				return
			}
			s.OnEvent(ev)
			if !ev.Type.IsChoice() {
				continue
			}
			r, ok := s.Choose(ev)
			if !ok {
				continue
			}
			select {
			case t.in[seat] <- r:
			case <-ctx.Done():
				return
			}
		}
	}
}

// ReplayTransport 从历史记录回答，缺少回复时立即失败
type ReplayTransport struct {
	replies map[int64][]Reply
}

func NewReplayTransport(replies map[int64][]Reply) *ReplayTransport {
	return &ReplayTransport{replies: replies}
}

func (t *ReplayTransport) Notify(context.Context, int, Event) error { return nil }

func (t *ReplayTransport) AskOne(ctx context.Context, seat int, ev Event) (Reply, error) {
	replies, err := t.AskAll(ctx, []int{seat}, []Event{ev})
	if err != nil {
		return Reply{}, err
	}
	return replies[0], nil
}

func (t *ReplayTransport) AskAll(_ context.Context, seats []int, evs []Event) ([]Reply, error) {
	out := make([]Reply, 0, len(seats))
	for i, seat := range seats {
		r, ok := t.find(evs[i].ID, seat)
		if !ok {
			return nil, protocolErr(evs[i].ID, seat, ErrReplyMissing, "%s", fmt.Sprintf("no recorded reply for %s", evs[i].Type))
		}
		out = append(out, r)
	}
	return out, nil
}

func (t *ReplayTransport) find(id int64, seat int) (Reply, bool) {
	for _, r := range t.replies[id] {
		if r.Seat == seat {
			return r, true
		}
	}
	return Reply{}, false
}
