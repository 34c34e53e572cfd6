package guard

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-playground/assert/v2"
)

func admireKey(target string) Key {
	return Key{ActorID: "u1", TargetID: target, Family: FamilyAdmire}
}

func TestLifecycle(t *testing.T) {
	g := New()
	k := admireKey("p1")

	ticket, err := g.Acquire("admire", k)
	assert.Equal(t, nil, err)
	assert.Equal(t, StatusIdle, g.Status(k))

	g.SetTempID(ticket, "tmp-admire-1")
	assert.Equal(t, nil, g.Transition(ticket, StatusOptimistic))
	assert.Equal(t, StatusOptimistic, g.Status(k))
	assert.Equal(t, "tmp-admire-1", g.Pending()[0].TempID)

	assert.Equal(t, nil, g.Transition(ticket, StatusConfirmed))
	assert.NotEqual(t, nil, g.Transition(ticket, StatusRolledBack))

	g.Release(ticket)
	assert.Equal(t, StatusIdle, g.Status(k))
	assert.Equal(t, 0, len(g.Pending()))
}

func TestSecondTriggerRejected(t *testing.T) {
	g := New()
	first, err := g.Acquire("admire", admireKey("p1"))
	assert.Equal(t, nil, err)

	_, err = g.Acquire("unadmire", admireKey("p1"))
	assert.Equal(t, true, errors.Is(err, ErrActionPending))

	// farklı hedef bağımsız
	other, err := g.Acquire("admire", admireKey("p2"))
	assert.Equal(t, nil, err)

	// farklı aile bağımsız
	_, err = g.Acquire("follow", Key{ActorID: "u1", TargetID: "p1", Family: FamilyFollow})
	assert.Equal(t, nil, err)

	g.Release(first)
	g.Release(first)
	_, err = g.Acquire("admire", admireKey("p1"))
	assert.Equal(t, nil, err)
	g.Release(other)
}

func TestAcquireAllOrNothing(t *testing.T) {
	g := New()
	follow := func(target string) Key {
		return Key{ActorID: "u1", TargetID: target, Family: FamilyFollow}
	}
	held, _ := g.Acquire("follow", follow("u3"))

	_, err := g.Acquire("bulk_follow", follow("u2"), follow("u3"), follow("u4"))
	assert.Equal(t, true, errors.Is(err, ErrActionPending))
	assert.Equal(t, StatusIdle, g.Status(follow("u2")))
	assert.Equal(t, 1, len(g.Pending()))

	g.Release(held)
	bulk, err := g.Acquire("bulk_follow", follow("u2"), follow("u3"), follow("u2"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(bulk.Keys()))

	_, err = g.Acquire("bulk_follow")
	assert.NotEqual(t, nil, err)
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	g := New()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Acquire("admire", admireKey("p1")); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
