package rmw

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type resourceKind uint8

const (
	resourceParticipant resourceKind = iota
	resourceListener
	resourceTopic
	resourcePublisher
	resourceSubscriber
	resourceWriter
	resourceReader
	resourceReadCondition
)

func (k resourceKind) String() string {
	switch k {
	case resourceParticipant:
		return "participant"
	case resourceListener:
		return "listener"
	case resourceTopic:
		return "topic"
	case resourcePublisher:
		return "publisher"
	case resourceSubscriber:
		return "subscriber"
	case resourceWriter:
		return "datawriter"
	case resourceReader:
		return "datareader"
	case resourceReadCondition:
		return "readcondition"
	default:
		return "resource"
	}
}

// ownerOf names the resource that must still be held when a dependent
// resource is released.
var ownerOf = map[resourceKind]resourceKind{
	resourceWriter:        resourcePublisher,
	resourceReader:        resourceSubscriber,
	resourceReadCondition: resourceReader,
}

type ownedResource struct {
	kind    resourceKind
	name    string
	release func() error
}

// resourceStack records acquired DDS resources so they can be released in
// reverse order of acquisition, both when creation fails halfway and on
// destruction.
type resourceStack struct {
	items []ownedResource
}

func (s *resourceStack) push(kind resourceKind, name string, release func() error) {
	s.items = append(s.items, ownedResource{kind: kind, name: name, release: release})
}

func (s *resourceStack) len() int {
	return len(s.items)
}

// unwind releases everything, newest first. A resource whose owner is no
// longer held is reported and skipped; every other resource is still
// released. All failures are combined into the returned error.
func (s *resourceStack) unwind() error {
	held := make(map[resourceKind]int)
	for _, r := range s.items {
		held[r.kind]++
	}

	var err error
	for i := len(s.items) - 1; i >= 0; i-- {
		r := s.items[i]
		held[r.kind]--
		if owner, ok := ownerOf[r.kind]; ok && held[owner] == 0 {
			err = multierr.Append(err, errors.Wrapf(ErrInconsistentTeardown,
				"cannot delete %s '%s' because the %s is null", r.kind, r.name, owner))
			continue
		}
		if rerr := r.release(); rerr != nil {
			err = multierr.Append(err, transportError(rerr, "failed to delete %s '%s'", r.kind, r.name))
		}
	}
	s.items = nil
	return err
}
