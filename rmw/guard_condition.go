package rmw

import (
	"context"
	"sync"
	"sync/atomic"
)

// Condition is a condition an application can wait on but not change.
type Condition interface {
	TriggerValue() bool
	Wait(ctx context.Context) error
}

// GuardCondition is a boolean an application can wait on. Setting it true
// wakes every waiter; it stays true until cleared.
type GuardCondition struct {
	implementation string
	triggers       uint64

	mu      sync.Mutex
	value   bool
	changed chan struct{}
}

// NewGuardCondition returns an untriggered guard condition.
func NewGuardCondition() *GuardCondition {
	return &GuardCondition{
		implementation: Identifier,
		changed:        make(chan struct{}),
	}
}

// Trigger sets the value to true.
func (g *GuardCondition) Trigger() error {
	if err := checkImplementation("guard condition", g.implementation); err != nil {
		return err
	}
	atomic.AddUint64(&g.triggers, 1)
	g.SetTriggerValue(true)
	return nil
}

func (g *GuardCondition) SetTriggerValue(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v && !g.value {
		close(g.changed)
		g.changed = make(chan struct{})
	}
	g.value = v
}

func (g *GuardCondition) TriggerValue() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// Take returns the value and clears it.
func (g *GuardCondition) Take() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := g.value
	g.value = false
	return v
}

// Triggers counts calls to Trigger.
func (g *GuardCondition) Triggers() uint64 {
	return atomic.LoadUint64(&g.triggers)
}

// Wait blocks until the value is true or ctx is done.
func (g *GuardCondition) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		if g.value {
			g.mu.Unlock()
			return nil
		}
		ch := g.changed
		g.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}
