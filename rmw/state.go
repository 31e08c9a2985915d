package rmw

import (
	"sync"

	"github.com/pkg/errors"
)

// EntityState is the lifecycle stage of a node, client, service,
// publisher or subscription.
type EntityState uint8

const (
	Uninitialized EntityState = iota
	PartiallyBuilt
	Ready
	Destroyed
)

func (s EntityState) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case PartiallyBuilt:
		return "PARTIALLY_BUILT"
	case Ready:
		return "READY"
	case Destroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

type entityStateMachine struct {
	state EntityState
	mutex sync.RWMutex
}

func (sm *entityStateMachine) getState() EntityState {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	return sm.state
}

func (sm *entityStateMachine) transition(to EntityState) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	from := sm.state
	switch {
	case from == Uninitialized && to == PartiallyBuilt,
		from == PartiallyBuilt && to == Ready,
		from == PartiallyBuilt && to == Destroyed,
		from == Ready && to == Destroyed:
		sm.state = to
		return nil
	case from == Destroyed:
		return ErrAlreadyDestroyed
	}
	return errors.Errorf("illegal transition from %s to %s", from, to)
}

// requireReady fails unless the entity is fully built and not destroyed.
func (sm *entityStateMachine) requireReady(handle string) error {
	switch s := sm.getState(); s {
	case Ready:
		return nil
	case Destroyed:
		return errors.Wrapf(ErrAlreadyDestroyed, "%s", handle)
	default:
		return errors.Wrapf(ErrInvalidArgument, "%s is %s", handle, s)
	}
}
