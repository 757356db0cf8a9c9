package events

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/access-panel/internal/logic"
)

func receiveWithin(t *testing.T, c *Channel, kind logic.EventKind, d time.Duration) (logic.Event, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return c.Receive(ctx, kind)
}

func TestNewChannelMinimumDepth(t *testing.T) {
	c := NewChannel(2)
	for i := 0; i < MinDepth; i++ {
		require.True(t, c.TrySend(evAt(logic.EventEntry, i)), "send %d", i)
	}
	assert.False(t, c.TrySend(evAt(logic.EventEntry, 99)))
	assert.Equal(t, uint64(1), c.Dropped())
	assert.Equal(t, MinDepth, c.Len())
}

func TestReceiveSameKindFIFO(t *testing.T) {
	c := NewChannel(10)
	for i := 0; i < 5; i++ {
		require.True(t, c.TrySend(evAt(logic.EventEntry, i)))
	}
	for i := 0; i < 5; i++ {
		ev, err := receiveWithin(t, c, logic.EventEntry, time.Second)
		require.NoError(t, err)
		assert.Equal(t, i, ev.Time.Second())
	}
	assert.Equal(t, 0, c.Len())
}

func TestReceiveBlocksUntilSend(t *testing.T) {
	c := NewChannel(10)
	got := make(chan logic.Event, 1)
	go func() {
		ev, err := c.Receive(context.Background(), logic.EventExit)
		if err == nil {
			got <- ev
		}
	}()

	select {
	case <-got:
		t.Fatal("receive returned before any send")
	case <-time.After(20 * time.Millisecond):
	}

	c.TrySend(evAt(logic.EventExit, 7))
	select {
	case ev := <-got:
		assert.Equal(t, logic.EventExit, ev.Kind)
		assert.Equal(t, 7, ev.Time.Second())
	case <-time.After(time.Second):
		t.Fatal("receive did not wake after send")
	}
}

func TestReceiveContextCancelled(t *testing.T) {
	c := NewChannel(10)
	_, err := receiveWithin(t, c, logic.EventEntry, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// An exit press queued behind two entry presses reaches the exit consumer
// only after the entry consumer drained both entries, in order.
func TestForeignHeadIsHandedToOtherConsumer(t *testing.T) {
	c := NewChannel(10)
	require.True(t, c.TrySend(evAt(logic.EventEntry, 1)))
	require.True(t, c.TrySend(evAt(logic.EventEntry, 2)))
	require.True(t, c.TrySend(evAt(logic.EventExit, 3)))

	exitGot := make(chan logic.Event, 1)
	go func() {
		ev, err := c.Receive(context.Background(), logic.EventExit)
		if err == nil {
			exitGot <- ev
		}
	}()

	// Exit consumer must stay blocked while an entry event is at the head.
	select {
	case <-exitGot:
		t.Fatal("exit consumer received ahead of pending entry events")
	case <-time.After(20 * time.Millisecond):
	}

	ev, err := receiveWithin(t, c, logic.EventEntry, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, ev.Time.Second())
	ev, err = receiveWithin(t, c, logic.EventEntry, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Time.Second())

	select {
	case ev := <-exitGot:
		assert.Equal(t, logic.EventExit, ev.Kind)
		assert.Equal(t, 3, ev.Time.Second())
	case <-time.After(time.Second):
		t.Fatal("exit consumer never received its event")
	}
	assert.NotZero(t, c.Requeued())
}

// Depth bounds everything pending, whether still in the producer buffer or
// already pulled into the consumer-side queue.
func TestDepthBoundsTotalPending(t *testing.T) {
	c := NewChannel(10)
	assert.Equal(t, 10, c.Depth())
	for i := 0; i < 10; i++ {
		require.True(t, c.TrySend(evAt(logic.EventEntry, i)))
	}

	// Receiving pulls every send into the consumer queue and frees one slot.
	_, err := receiveWithin(t, c, logic.EventEntry, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Len())

	assert.True(t, c.TrySend(evAt(logic.EventEntry, 10)))
	assert.False(t, c.TrySend(evAt(logic.EventEntry, 11)))
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, uint64(1), c.Dropped())

	assert.Equal(t, 10, c.Flush())
	assert.Equal(t, 0, c.Len())
	for i := 0; i < 10; i++ {
		require.True(t, c.TrySend(evAt(logic.EventExit, i)), "send %d after flush", i)
	}
}

// A consumer that takes the other kind's event puts it back at the front,
// ahead of anything sent later.
func TestHandBackKeepsEventAtFront(t *testing.T) {
	c := NewChannel(10)
	require.True(t, c.TrySend(evAt(logic.EventExit, 0)))

	_, err := receiveWithin(t, c, logic.EventEntry, 20*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotZero(t, c.Requeued())
	assert.Equal(t, 1, c.Len())

	require.True(t, c.TrySend(evAt(logic.EventExit, 1)))
	ev, err := receiveWithin(t, c, logic.EventExit, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Time.Second())
}

func TestFlushDiscardsPending(t *testing.T) {
	c := NewChannel(10)
	c.TrySend(evAt(logic.EventEntry, 1))
	c.TrySend(evAt(logic.EventExit, 2))
	c.TrySend(evAt(logic.EventExit, 0))
	c.TrySend(evAt(logic.EventEntry, 3))

	assert.Equal(t, 4, c.Flush())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Flush())

	_, err := receiveWithin(t, c, logic.EventEntry, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The channel keeps working after a flush.
	require.True(t, c.TrySend(evAt(logic.EventEntry, 5)))
	ev, err := receiveWithin(t, c, logic.EventEntry, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5, ev.Time.Second())
}

func TestFlushWakesBlockedConsumer(t *testing.T) {
	c := NewChannel(10)
	c.TrySend(evAt(logic.EventEntry, 1))

	exitDone := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_, err := c.Receive(ctx, logic.EventExit)
		exitDone <- err
	}()
	time.Sleep(10 * time.Millisecond)

	c.Flush()
	c.TrySend(evAt(logic.EventExit, 2))

	select {
	case err := <-exitDone:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("exit consumer stuck after flush")
	}
}

// Stress: one producer interleaving kinds, two consumers. Every event is
// consumed exactly once and each consumer sees its kind in send order.
func TestConcurrentProducersAndConsumers(t *testing.T) {
	const perKind = 200
	c := NewChannel(10)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	consume := func(kind logic.EventKind, out *[]int) {
		defer wg.Done()
		for len(*out) < perKind {
			ev, err := c.Receive(ctx, kind)
			if err != nil {
				return
			}
			*out = append(*out, ev.Time.Nanosecond())
		}
	}
	var entries, exits []int
	wg.Add(2)
	go consume(logic.EventEntry, &entries)
	go consume(logic.EventExit, &exits)

	sendKind := func(kind logic.EventKind, seq int) {
		ev := logic.Event{Kind: kind, Time: time.Unix(0, int64(seq))}
		for !c.TrySend(ev) {
			runtime.Gosched()
		}
	}
	for i := 0; i < perKind; i++ {
		sendKind(logic.EventEntry, i)
		sendKind(logic.EventExit, i)
	}
	wg.Wait()

	require.Len(t, entries, perKind)
	require.Len(t, exits, perKind)
	for i := 0; i < perKind; i++ {
		assert.Equal(t, i, entries[i], "entry order")
		assert.Equal(t, i, exits[i], "exit order")
	}
	assert.Equal(t, 0, c.Len())
}
