package mahjong

import (
	"context"
	"sort"

	"github.com/konoui/mjimage-sub000/common/log"
)

func (c *RoundController) nextID() int64 {
	c.eventID++
	return c.eventID
}

// broadcast 旁观者收到完整事件，各座位收到遮挡后的事件
func (c *RoundController) broadcast(ctx context.Context, ev Event) error {
	ev.ID = c.nextID()
	ev.Round = c.info
	for _, o := range c.observers {
		o.Observe(ev)
	}
	for s := 0; s < 4; s++ {
		if err := c.transport.Notify(ctx, s, ev.redactFor(s)); err != nil {
			return err
		}
	}
	log.Debug("事件 %d %s 座位 %d %s", ev.ID, ev.Type, ev.Seat, ev.Tile)
	return nil
}

// ask 同一决策点的所有座位共享一个事件 id；回复数量、id、座位任何一项不符都是协议错误。
// 不在选择内的回复按默认动作处理，不终止本局。
func (c *RoundController) ask(ctx context.Context, typ EventType, choices map[int]*Choices) (map[int]Reply, error) {
	id := c.nextID()
	seats := make([]int, 0, len(choices))
	for s := range choices {
		seats = append(seats, s)
	}
	sort.Ints(seats)

	evs := make([]Event, len(seats))
	for i, s := range seats {
		evs[i] = Event{ID: id, Type: typ, Round: c.info, Seat: s, Choices: choices[s], Hand: c.hand(s).Clone()}
		for _, o := range c.observers {
			o.Observe(evs[i])
		}
		log.Debug("事件 %d %s 询问座位 %d: %s", id, typ, s, choices[s])
	}

	replies, err := c.collect(ctx, seats, evs)
	if err != nil {
		return nil, err
	}
	if len(replies) != len(seats) {
		err := protocolErr(id, -1, ErrReplyCount, "want %d replies, got %d", len(seats), len(replies))
		log.Error("%v", err)
		return nil, err
	}
	out := make(map[int]Reply, len(seats))
	for _, r := range replies {
		var perr *ProtocolError
		switch ch, asked := choices[r.Seat]; {
		case r.EventID != id:
			perr = protocolErr(r.EventID, r.Seat, ErrUnknownEvent, "expected event %d", id)
		case !asked:
			perr = protocolErr(id, r.Seat, ErrReplyCount, "seat was not asked")
		default:
			if _, dup := out[r.Seat]; dup {
				perr = protocolErr(id, r.Seat, ErrReplyCount, "duplicate reply")
				break
			}
			if err := ch.Validate(r); err != nil {
				log.Warn("座位 %d 的回复无效，按默认动作处理: %v", r.Seat, err)
				drawn, ok := c.hand(r.Seat).Drawn()
				r = ch.Default(id, r.Seat, drawn, ok)
			}
			out[r.Seat] = r
		}
		if perr != nil {
			log.Error("%v", perr)
			return nil, perr
		}
	}

	if c.recorder != nil {
		c.recorder.Record(id, orderedReplies(out))
	}
	return out, nil
}

// collect 只询问一家时走 AskOne
func (c *RoundController) collect(ctx context.Context, seats []int, evs []Event) ([]Reply, error) {
	if len(seats) != 1 {
		return c.transport.AskAll(ctx, seats, evs)
	}
	r, err := c.transport.AskOne(ctx, seats[0], evs[0])
	if err != nil {
		return nil, err
	}
	return []Reply{r}, nil
}

// orderedReplies 按座位排序
func orderedReplies(replies map[int]Reply) []Reply {
	out := make([]Reply, 0, len(replies))
	for s := 0; s < 4; s++ {
		if r, ok := replies[s]; ok {
			out = append(out, r)
		}
	}
	return out
}
