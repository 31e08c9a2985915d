package memdds

import (
	"github.com/edwinhayes/rmwdds/dds"
)

const (
	entityIDParticipant = 0x000001c1

	entityKindTopic      = 0x0a
	entityKindPublisher  = 0x08
	entityKindSubscriber = 0x09
	entityKindWriter     = 0x03
	entityKindReader     = 0x04
)

type participant struct {
	domain      *Domain
	domainID    dds.DomainID
	guid        dds.GUID
	prefix      [12]byte
	qos         dds.DomainParticipantQos
	nextEntity  uint32
	types       map[string]struct{}
	topics      map[string]*topic
	publishers  map[*publisher]struct{}
	subscribers map[*subscriber]struct{}
	builtin     *subscriber
	deleted     bool
}

// newEntityGUID allocates a GUID under d.mu.
func (p *participant) newEntityGUID(kind uint32) dds.GUID {
	p.nextEntity++
	return dds.NewGUID(p.prefix, p.nextEntity<<8|kind)
}

func (p *participant) InstanceHandle() dds.InstanceHandle {
	return dds.InstanceHandle(p.guid)
}

func (p *participant) GUID() dds.GUID {
	return p.guid
}

func (p *participant) DomainID() dds.DomainID {
	return p.domainID
}

func (p *participant) RegisterType(typeName string) error {
	if typeName == "" {
		return dds.RetcodeBadParameter
	}
	if err := p.domain.fault(OpRegisterType); err != nil {
		return err
	}
	p.domain.mu.Lock()
	defer p.domain.mu.Unlock()
	if p.deleted {
		return dds.RetcodeAlreadyDeleted
	}
	p.types[typeName] = struct{}{}
	return nil
}

func (p *participant) CreateTopic(name, typeName string, qos *dds.TopicQos) (dds.Topic, error) {
	if name == "" {
		return nil, dds.RetcodeBadParameter
	}
	if err := p.domain.fault(OpCreateTopic); err != nil {
		return nil, err
	}
	d := p.domain
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.deleted {
		return nil, dds.RetcodeAlreadyDeleted
	}
	if _, ok := p.types[typeName]; !ok {
		return nil, dds.RetcodePreconditionNotMet
	}
	if _, ok := p.topics[name]; ok {
		return nil, dds.RetcodePreconditionNotMet
	}
	t := &topic{
		participant: p,
		name:        name,
		typeName:    typeName,
		qos:         dds.DefaultTopicQos(),
		guid:        p.newEntityGUID(entityKindTopic),
		refs:        1,
	}
	if qos != nil {
		t.qos = *qos
	}
	p.topics[name] = t
	d.live++
	return t, nil
}

func (p *participant) FindTopic(name string, timeout dds.Duration) (dds.Topic, error) {
	if err := p.domain.fault(OpFindTopic); err != nil {
		return nil, err
	}
	p.domain.mu.Lock()
	defer p.domain.mu.Unlock()
	if p.deleted {
		return nil, dds.RetcodeAlreadyDeleted
	}
	t, ok := p.topics[name]
	if !ok {
		return nil, dds.RetcodeTimeout
	}
	t.refs++
	return t, nil
}

func (p *participant) LookupTopicDescription(name string) dds.TopicDescription {
	p.domain.mu.Lock()
	defer p.domain.mu.Unlock()
	if t, ok := p.topics[name]; ok {
		return t
	}
	return nil
}

func (p *participant) DeleteTopic(dt dds.Topic) error {
	t, ok := dt.(*topic)
	if !ok || t.participant != p {
		return dds.RetcodeBadParameter
	}
	if err := p.domain.fault(OpDeleteTopic); err != nil {
		return err
	}
	d := p.domain
	d.mu.Lock()
	defer d.mu.Unlock()
	if t.refs == 0 {
		return dds.RetcodeAlreadyDeleted
	}
	if t.refs == 1 && t.endpoints > 0 {
		return dds.RetcodePreconditionNotMet
	}
	t.refs--
	if t.refs == 0 {
		delete(p.topics, t.name)
		d.live--
	}
	return nil
}

func (p *participant) DefaultTopicQos() (dds.TopicQos, error) {
	if err := p.domain.fault(OpDefaultTopicQos); err != nil {
		return dds.TopicQos{}, err
	}
	return dds.DefaultTopicQos(), nil
}

func (p *participant) CreatePublisher(qos *dds.PublisherQos) (dds.Publisher, error) {
	if err := p.domain.fault(OpCreatePublisher); err != nil {
		return nil, err
	}
	d := p.domain
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.deleted {
		return nil, dds.RetcodeAlreadyDeleted
	}
	pub := &publisher{
		participant: p,
		guid:        p.newEntityGUID(entityKindPublisher),
		writers:     make(map[*dataWriter]struct{}),
	}
	if qos != nil {
		pub.qos = *qos
	}
	p.publishers[pub] = struct{}{}
	d.live++
	return pub, nil
}

func (p *participant) DeletePublisher(dp dds.Publisher) error {
	pub, ok := dp.(*publisher)
	if !ok || pub.participant != p {
		return dds.RetcodeBadParameter
	}
	if err := p.domain.fault(OpDeletePublisher); err != nil {
		return err
	}
	d := p.domain
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := p.publishers[pub]; !ok {
		return dds.RetcodeAlreadyDeleted
	}
	if len(pub.writers) > 0 {
		return dds.RetcodePreconditionNotMet
	}
	delete(p.publishers, pub)
	d.live--
	return nil
}

func (p *participant) CreateSubscriber(qos *dds.SubscriberQos) (dds.Subscriber, error) {
	if err := p.domain.fault(OpCreateSubscriber); err != nil {
		return nil, err
	}
	d := p.domain
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.deleted {
		return nil, dds.RetcodeAlreadyDeleted
	}
	sub := &subscriber{
		participant: p,
		guid:        p.newEntityGUID(entityKindSubscriber),
		readers:     make(map[*dataReader]struct{}),
	}
	if qos != nil {
		sub.qos = *qos
	}
	p.subscribers[sub] = struct{}{}
	d.live++
	return sub, nil
}

func (p *participant) DeleteSubscriber(ds dds.Subscriber) error {
	sub, ok := ds.(*subscriber)
	if !ok || sub.participant != p || sub.builtin {
		return dds.RetcodeBadParameter
	}
	if err := p.domain.fault(OpDeleteSubscriber); err != nil {
		return err
	}
	d := p.domain
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := p.subscribers[sub]; !ok {
		return dds.RetcodeAlreadyDeleted
	}
	if len(sub.readers) > 0 {
		return dds.RetcodePreconditionNotMet
	}
	delete(p.subscribers, sub)
	d.live--
	return nil
}

func (p *participant) BuiltinSubscriber() (dds.Subscriber, error) {
	if err := p.domain.fault(OpBuiltinSubscriber); err != nil {
		return nil, err
	}
	return p.builtin, nil
}

// DeleteContainedEntities removes every endpoint, group and topic of p.
// Built-in readers stay alive until the participant itself is deleted.
func (p *participant) DeleteContainedEntities() error {
	d := p.domain
	d.mu.Lock()
	var stopped []*dataReader
	for sub := range p.subscribers {
		for r := range sub.readers {
			d.removeReader(r)
			stopped = append(stopped, r)
		}
		delete(p.subscribers, sub)
		d.live--
	}
	for pub := range p.publishers {
		for w := range pub.writers {
			d.removeWriter(w)
		}
		delete(p.publishers, pub)
		d.live--
	}
	for name := range p.topics {
		delete(p.topics, name)
		d.live--
	}
	d.mu.Unlock()

	for _, r := range stopped {
		r.stopDispatch()
		r.dropLoans()
	}
	return nil
}

// newBuiltinSubscriber creates the discovery readers. Caller holds d.mu.
func (p *participant) newBuiltinSubscriber() *subscriber {
	sub := &subscriber{
		participant: p,
		guid:        p.newEntityGUID(entityKindSubscriber),
		readers:     make(map[*dataReader]struct{}),
		builtin:     true,
	}
	for _, name := range []string{dds.BuiltinTopicNamePublication, dds.BuiltinTopicNameSubscription} {
		r := newDataReader(sub, builtinTopic{name: name, typeName: name + "Data"}, dds.DataReaderQos{
			Reliability: dds.ReliabilityQosPolicy{Kind: dds.ReliableReliabilityQos},
			History:     dds.HistoryQosPolicy{Kind: dds.KeepAllHistoryQos},
		})
		r.builtin = true
		sub.readers[r] = struct{}{}
	}
	return sub
}

type topic struct {
	participant *participant
	name        string
	typeName    string
	qos         dds.TopicQos
	guid        dds.GUID
	refs        int
	endpoints   int
}

func (t *topic) InstanceHandle() dds.InstanceHandle { return dds.InstanceHandle(t.guid) }
func (t *topic) Name() string                       { return t.name }
func (t *topic) TypeName() string                   { return t.typeName }

type builtinTopic struct {
	name     string
	typeName string
}

func (t builtinTopic) Name() string     { return t.name }
func (t builtinTopic) TypeName() string { return t.typeName }
