package mahjong

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelTransportRound(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewChannelTransport(64, 5*time.Second)
	var wg sync.WaitGroup
	for s := 0; s < 4; s++ {
		wg.Add(1)
		go func(seat int) {
			defer wg.Done()
			tr.ServeSeat(ctx, seat, NewEfficiencyAgent(seat))
		}(s)
	}
	defer func() {
		cancel()
		wg.Wait()
	}()

	c := NewRoundController(NewRoundInfo(DefaultInitialPoints), NewWall(rand.New(rand.NewSource(13)), true), tr)
	res, err := c.Run(ctx)
	require.NoError(t, err)
	assert.True(t, c.State().IsFinal())
	assert.NotNil(t, res)
}

func TestChannelTransportTimeout(t *testing.T) {
	tr := NewChannelTransport(4, 10*time.Millisecond)
	_, err := tr.AskOne(context.Background(), 1, Event{ID: 3, Type: EventChoiceAfterDrawn})
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, int64(3), perr.EventID)
	assert.Equal(t, 1, perr.Seat)
	assert.ErrorIs(t, err, ErrReplyTimeout)

	ev := <-tr.Events(1)
	assert.Equal(t, int64(3), ev.ID)
}

func TestChannelTransportReplies(t *testing.T) {
	tr := NewChannelTransport(4, time.Second)
	go func() {
		ev := <-tr.Events(2)
		tr.Replies(2) <- Reply{EventID: ev.ID, Seat: 2, Action: ActionPass}
	}()
	r, err := tr.AskOne(context.Background(), 2, Event{ID: 9, Type: EventChoiceAfterDiscarded})
	require.NoError(t, err)
	assert.Equal(t, Reply{EventID: 9, Seat: 2, Action: ActionPass}, r)
}

func TestSyncTransportMissingSeat(t *testing.T) {
	tr := NewSyncTransport([4]Seat{})
	require.NoError(t, tr.Notify(context.Background(), 0, Event{ID: 1}))
	_, err := tr.AskOne(context.Background(), 0, Event{ID: 2, Type: EventChoiceAfterDrawn})
	require.ErrorIs(t, err, ErrReplyMissing)
}

func TestReplayTransportFindsSeat(t *testing.T) {
	tr := NewReplayTransport(map[int64][]Reply{
		4: {{EventID: 4, Seat: 1, Action: ActionPass}, {EventID: 4, Seat: 3, Action: ActionRon}},
	})
	replies, err := tr.AskAll(context.Background(), []int{1, 3}, []Event{{ID: 4}, {ID: 4}})
	require.NoError(t, err)
	assert.Equal(t, ActionRon, replies[1].Action)

	_, err = tr.AskOne(context.Background(), 2, Event{ID: 4})
	require.ErrorIs(t, err, ErrReplyMissing)
}
