package rmw

import (
	"github.com/pkg/errors"

	"github.com/edwinhayes/rmwdds/dds"
)

// endpointBuilder acquires the DDS resources of one client, service,
// publisher or subscription, recording each on stack as it goes.
type endpointBuilder struct {
	node  *Node
	stack *resourceStack
}

func (b *endpointBuilder) registerType(mt MessageType) (string, error) {
	typeName, err := ddsTypeName(mt.Name())
	if err != nil {
		return "", err
	}
	if err := b.node.participant.RegisterType(typeName); err != nil {
		return "", transportError(err, "failed to register type '%s'", typeName)
	}
	return typeName, nil
}

// topic returns a reference to the topic called name, creating it when the
// participant has none. Topics are shared by every endpoint of a node.
func (b *endpointBuilder) topic(name, typeName string) (dds.Topic, error) {
	p := b.node.participant
	var t dds.Topic
	if td := p.LookupTopicDescription(name); td != nil {
		if td.TypeName() != typeName {
			return nil, errors.Wrapf(ErrInvalidArgument, "topic '%s' already exists with type '%s'", name, td.TypeName())
		}
		found, err := p.FindTopic(name, dds.DurationInfinite)
		if err != nil {
			return nil, transportError(err, "failed to find topic '%s'", name)
		}
		t = found
	} else {
		qos, err := p.DefaultTopicQos()
		if err != nil {
			return nil, transportError(err, "failed to get default topic qos")
		}
		created, err := p.CreateTopic(name, typeName, &qos)
		if err != nil {
			return nil, transportError(err, "failed to create topic '%s'", name)
		}
		t = created
	}
	b.stack.push(resourceTopic, name, func() error { return p.DeleteTopic(t) })
	return t, nil
}

func (b *endpointBuilder) publisher(name string) (dds.Publisher, error) {
	p := b.node.participant
	pub, err := p.CreatePublisher(nil)
	if err != nil {
		return nil, transportError(err, "failed to create publisher")
	}
	b.stack.push(resourcePublisher, name, func() error { return p.DeletePublisher(pub) })
	return pub, nil
}

func (b *endpointBuilder) subscriber(name string) (dds.Subscriber, error) {
	p := b.node.participant
	sub, err := p.CreateSubscriber(nil)
	if err != nil {
		return nil, transportError(err, "failed to create subscriber")
	}
	b.stack.push(resourceSubscriber, name, func() error { return p.DeleteSubscriber(sub) })
	return sub, nil
}

func (b *endpointBuilder) writer(pub dds.Publisher, t dds.Topic, qos *QoSProfile) (dds.DataWriter, error) {
	wq, err := dataWriterQos(pub, qos)
	if err != nil {
		return nil, transportError(err, "failed to get datawriter qos")
	}
	w, err := pub.CreateDataWriter(t, &wq)
	if err != nil {
		return nil, transportError(err, "failed to create datawriter for '%s'", t.Name())
	}
	b.stack.push(resourceWriter, t.Name(), func() error { return pub.DeleteDataWriter(w) })
	return w, nil
}

func (b *endpointBuilder) reader(sub dds.Subscriber, t dds.Topic, qos *QoSProfile, l dds.DataReaderListener) (dds.DataReader, error) {
	rq, err := dataReaderQos(sub, qos)
	if err != nil {
		return nil, transportError(err, "failed to get datareader qos")
	}
	var mask dds.StatusMask
	if l != nil {
		mask = dds.DataAvailableStatus
	}
	r, err := sub.CreateDataReader(t, &rq, l, mask)
	if err != nil {
		return nil, transportError(err, "failed to create datareader for '%s'", t.Name())
	}
	b.stack.push(resourceReader, t.Name(), func() error { return sub.DeleteDataReader(r) })
	return r, nil
}

func (b *endpointBuilder) readCondition(r dds.DataReader) (dds.ReadCondition, error) {
	rc, err := r.CreateReadCondition(dds.AnySampleState, dds.AnyViewState, dds.AnyInstanceState)
	if err != nil {
		return nil, transportError(err, "failed to create read condition")
	}
	b.stack.push(resourceReadCondition, r.TopicDescription().Name(), func() error { return r.DeleteReadCondition(rc) })
	return rc, nil
}

// abandon unwinds whatever was acquired before a creation failure and
// returns cause.
func (b *endpointBuilder) abandon(cause error) error {
	if err := b.stack.unwind(); err != nil {
		b.node.logger.Errorf("failed to clean up after '%v': %v", cause, err)
	}
	return cause
}

func checkQoS(qos *QoSProfile) (*QoSProfile, error) {
	if qos == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "qos profile is null")
	}
	if qos.Depth < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "negative history depth %d", qos.Depth)
	}
	return qos, nil
}
