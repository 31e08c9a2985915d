// Package memdds is an in-process DDS domain. Participants created from the
// same Domain discover each other through the built-in publication and
// subscription topics, and writers deliver to matched readers without a
// network.
package memdds

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/edwinhayes/rmwdds/dds"
)

// MatchFilter decides whether a writer and reader on the same topic may
// match. Returning false keeps them apart.
type MatchFilter func(topicName string, writer, reader dds.GUID) bool

type Option func(*Domain)

// WithClock sets the clock used for source timestamps.
func WithClock(c clock.Clock) Option {
	return func(d *Domain) { d.clock = c }
}

// Domain is a set of participants that can see each other.
type Domain struct {
	mu           sync.Mutex
	clock        clock.Clock
	participants map[dds.GUID]*participant
	writers      map[dds.GUID]*dataWriter
	readers      map[dds.GUID]*dataReader
	filter       MatchFilter
	live         int

	loanMu sync.Mutex
	loans  map[*dds.SampleSeq]*dataReader

	faultMu sync.Mutex
	faults  map[Op]int
}

// NewDomain returns an empty domain.
func NewDomain(opts ...Option) *Domain {
	d := &Domain{
		clock:        clock.New(),
		participants: make(map[dds.GUID]*participant),
		writers:      make(map[dds.GUID]*dataWriter),
		readers:      make(map[dds.GUID]*dataReader),
		loans:        make(map[*dds.SampleSeq]*dataReader),
		faults:       make(map[Op]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LiveEntities counts participants, topics, publishers, subscribers,
// writers, readers and read conditions that have not been deleted.
func (d *Domain) LiveEntities() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// OutstandingLoans counts sample sequences not yet returned.
func (d *Domain) OutstandingLoans() int {
	d.loanMu.Lock()
	defer d.loanMu.Unlock()
	return len(d.loans)
}

// SetMatchFilter installs f for endpoints created afterwards. A nil filter
// matches everything.
func (d *Domain) SetMatchFilter(f MatchFilter) {
	d.mu.Lock()
	d.filter = f
	d.mu.Unlock()
}

func (d *Domain) CreateParticipant(domain dds.DomainID, qos *dds.DomainParticipantQos) (dds.DomainParticipant, error) {
	if err := d.fault(OpCreateParticipant); err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, dds.RetcodeOutOfResources
	}
	var prefix [12]byte
	copy(prefix[:], id[:12])

	p := &participant{
		domain:      d,
		domainID:    domain,
		guid:        dds.NewGUID(prefix, entityIDParticipant),
		prefix:      prefix,
		types:       make(map[string]struct{}),
		topics:      make(map[string]*topic),
		publishers:  make(map[*publisher]struct{}),
		subscribers: make(map[*subscriber]struct{}),
	}
	if qos != nil {
		p.qos = *qos
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	p.builtin = p.newBuiltinSubscriber()
	d.participants[p.guid] = p
	d.live++
	d.announceExisting(p)
	return p, nil
}

func (d *Domain) DeleteParticipant(dp dds.DomainParticipant) error {
	p, ok := dp.(*participant)
	if !ok || p.domain != d {
		return dds.RetcodeBadParameter
	}
	d.mu.Lock()
	if p.deleted {
		d.mu.Unlock()
		return dds.RetcodeAlreadyDeleted
	}
	if len(p.topics) > 0 || len(p.publishers) > 0 || len(p.subscribers) > 0 {
		d.mu.Unlock()
		return dds.RetcodePreconditionNotMet
	}
	p.deleted = true
	delete(d.participants, p.guid)
	d.live--
	builtins := p.builtin.readerList()
	d.mu.Unlock()

	for _, r := range builtins {
		r.stopDispatch()
		r.dropLoans()
	}
	return nil
}

// match reports whether w and r should be connected. Caller holds d.mu.
func (d *Domain) match(w *dataWriter, r *dataReader) bool {
	if r.builtin {
		return false
	}
	if w.topic.name != r.topicName() || w.topic.typeName != r.typeName() {
		return false
	}
	if w.participant().domainID != r.participant().domainID {
		return false
	}
	if w.qos.Reliability.Kind == dds.BestEffortReliabilityQos &&
		r.qos.Reliability.Kind == dds.ReliableReliabilityQos {
		return false
	}
	if d.filter != nil && !d.filter(w.topic.name, w.guid, r.guid) {
		return false
	}
	return true
}

func (d *Domain) now() dds.Time {
	return dds.TimeFromGo(d.clock.Now())
}

// announce delivers a built-in topic sample to every participant of the
// same DDS domain. Caller holds d.mu.
func (d *Domain) announce(domain dds.DomainID, topicName string, handle dds.InstanceHandle, data []byte) {
	info := dds.SampleInfo{
		SampleState:     dds.NotReadSampleState,
		ViewState:       dds.NewViewState,
		InstanceState:   dds.AliveInstanceState,
		SourceTimestamp: d.now(),
		InstanceHandle:  handle,
		ValidData:       data != nil,
	}
	if data == nil {
		info.InstanceState = dds.NotAliveDisposedInstanceState
	}
	for _, p := range d.participants {
		if p.domainID != domain {
			continue
		}
		if r := p.builtin.lookup(topicName); r != nil {
			r.deliver(dds.Sample{Data: data, Info: info})
		}
	}
}

// announceExisting replays the live endpoints to a participant that just
// joined. Caller holds d.mu.
func (d *Domain) announceExisting(p *participant) {
	pubs := p.builtin.lookup(dds.BuiltinTopicNamePublication)
	subs := p.builtin.lookup(dds.BuiltinTopicNameSubscription)
	info := dds.SampleInfo{
		SampleState:     dds.NotReadSampleState,
		ViewState:       dds.NewViewState,
		InstanceState:   dds.AliveInstanceState,
		SourceTimestamp: d.now(),
		ValidData:       true,
	}
	for _, w := range d.writers {
		if w.participant().domainID != p.domainID {
			continue
		}
		info.InstanceHandle = w.InstanceHandle()
		pubs.deliver(dds.Sample{Data: w.announcement, Info: info})
	}
	for _, r := range d.readers {
		if r.builtin || r.participant().domainID != p.domainID {
			continue
		}
		info.InstanceHandle = r.InstanceHandle()
		subs.deliver(dds.Sample{Data: r.announcement, Info: info})
	}
}

func (d *Domain) addLoan(seq *dds.SampleSeq, r *dataReader) {
	d.loanMu.Lock()
	d.loans[seq] = r
	d.loanMu.Unlock()
}

func (d *Domain) returnLoan(seq *dds.SampleSeq, r *dataReader) error {
	d.loanMu.Lock()
	defer d.loanMu.Unlock()
	owner, ok := d.loans[seq]
	if !ok || owner != r {
		return dds.RetcodePreconditionNotMet
	}
	delete(d.loans, seq)
	return nil
}
