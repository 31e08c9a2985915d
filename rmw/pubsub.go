package rmw

import (
	stderrors "errors"

	modular "github.com/edwinhayes/logrus-modular"
	"github.com/pkg/errors"

	"github.com/edwinhayes/rmwdds/dds"
)

// Publisher writes messages of one type to a topic.
type Publisher struct {
	implementation string
	node           *Node
	topicName      string
	ddsTopicName   string
	msgType        MessageType
	publisher      dds.Publisher
	writer         dds.DataWriter
	logger         modular.Logger
	sm             entityStateMachine
	resources      resourceStack
}

// CreatePublisher creates a publisher of mt on topicName.
func (node *Node) CreatePublisher(mt MessageType, topicName string, qos *QoSProfile) (*Publisher, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "type support is null")
	}
	qos, err := checkQoS(qos)
	if err != nil {
		return nil, err
	}
	name, err := node.resolver.resolve(topicName)
	if err != nil {
		return nil, err
	}

	p := new(Publisher)
	p.implementation = Identifier
	p.node = node
	p.topicName = name
	p.ddsTopicName = mangleTopicName(name, qos.AvoidROSNamespaceConventions)
	p.msgType = mt
	p.logger = node.logger.WithField("publisher", name)
	p.sm.transition(PartiallyBuilt)

	b := &endpointBuilder{node: node, stack: &p.resources}
	if err := p.build(b, qos); err != nil {
		p.sm.transition(Destroyed)
		return nil, b.abandon(err)
	}
	p.sm.transition(Ready)

	if err := node.graphGuard.Trigger(); err != nil {
		p.logger.Errorf("failed to trigger graph guard condition: %v", err)
	}
	p.logger.Debugf("Created publisher on topic '%s' on node '%s'", name, node.qualifiedName)
	return p, nil
}

func (p *Publisher) build(b *endpointBuilder, qos *QoSProfile) error {
	typeName, err := b.registerType(p.msgType)
	if err != nil {
		return err
	}
	t, err := b.topic(p.ddsTopicName, typeName)
	if err != nil {
		return err
	}
	if p.publisher, err = b.publisher(p.topicName); err != nil {
		return err
	}
	if p.writer, err = b.writer(p.publisher, t, qos); err != nil {
		return err
	}
	return nil
}

func (p *Publisher) checkReady() error {
	if p == nil {
		return errors.Wrap(ErrInvalidArgument, "publisher handle is null")
	}
	if err := checkImplementation("publisher", p.implementation); err != nil {
		return err
	}
	return p.sm.requireReady("publisher")
}

// Publish writes msg.
func (p *Publisher) Publish(msg Message) error {
	if err := p.checkReady(); err != nil {
		return err
	}
	if msg == nil {
		return errors.Wrap(ErrInvalidArgument, "ros message handle is null")
	}
	if err := checkMessageType(msg, p.msgType); err != nil {
		return err
	}
	data, err := serializeMessage(msg)
	if err != nil {
		return err
	}
	if err := p.writer.Write(data); err != nil {
		return transportError(err, "failed to publish on '%s'", p.ddsTopicName)
	}
	return nil
}

// MatchedSubscriptionCount counts the subscriptions the writer is matched
// with.
func (p *Publisher) MatchedSubscriptionCount() (int, error) {
	if err := p.checkReady(); err != nil {
		return 0, err
	}
	subs, err := p.writer.MatchedSubscriptions()
	if err != nil {
		return 0, transportError(err, "failed to get matched subscriptions of '%s'", p.ddsTopicName)
	}
	return len(subs), nil
}

func (p *Publisher) TopicName() string {
	return p.topicName
}

func (p *Publisher) State() EntityState {
	return p.sm.getState()
}

// DestroyPublisher releases every resource of p.
func (node *Node) DestroyPublisher(p *Publisher) error {
	if node == nil {
		return errors.Wrap(ErrInvalidArgument, "node handle is null")
	}
	if err := checkImplementation("node", node.implementation); err != nil {
		return err
	}
	if p == nil {
		return errors.Wrap(ErrInvalidArgument, "publisher handle is null")
	}
	if err := checkImplementation("publisher", p.implementation); err != nil {
		return err
	}
	if p.node != node {
		return errors.Wrap(ErrInvalidArgument, "publisher does not belong to node")
	}
	if err := p.sm.transition(Destroyed); err != nil {
		return err
	}
	err := p.resources.unwind()
	if terr := node.graphGuard.Trigger(); terr != nil {
		p.logger.Errorf("failed to trigger graph guard condition: %v", terr)
	}
	if err != nil {
		p.logger.Errorf("failed to destroy publisher: %v", err)
	}
	return err
}

// Subscription takes messages of one type from a topic.
type Subscription struct {
	implementation string
	node           *Node
	topicName      string
	ddsTopicName   string
	msgType        MessageType
	subscriber     dds.Subscriber
	reader         dds.DataReader
	readCondition  dds.ReadCondition
	logger         modular.Logger
	sm             entityStateMachine
	resources      resourceStack
}

// CreateSubscription creates a subscription to mt on topicName.
func (node *Node) CreateSubscription(mt MessageType, topicName string, qos *QoSProfile) (*Subscription, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "type support is null")
	}
	qos, err := checkQoS(qos)
	if err != nil {
		return nil, err
	}
	name, err := node.resolver.resolve(topicName)
	if err != nil {
		return nil, err
	}

	s := new(Subscription)
	s.implementation = Identifier
	s.node = node
	s.topicName = name
	s.ddsTopicName = mangleTopicName(name, qos.AvoidROSNamespaceConventions)
	s.msgType = mt
	s.logger = node.logger.WithField("subscription", name)
	s.sm.transition(PartiallyBuilt)

	b := &endpointBuilder{node: node, stack: &s.resources}
	if err := s.build(b, qos); err != nil {
		s.sm.transition(Destroyed)
		return nil, b.abandon(err)
	}
	s.sm.transition(Ready)

	if err := node.graphGuard.Trigger(); err != nil {
		s.logger.Errorf("failed to trigger graph guard condition: %v", err)
	}
	s.logger.Debugf("Created subscription on topic '%s' on node '%s'", name, node.qualifiedName)
	return s, nil
}

func (s *Subscription) build(b *endpointBuilder, qos *QoSProfile) error {
	typeName, err := b.registerType(s.msgType)
	if err != nil {
		return err
	}
	t, err := b.topic(s.ddsTopicName, typeName)
	if err != nil {
		return err
	}
	if s.subscriber, err = b.subscriber(s.topicName); err != nil {
		return err
	}
	if s.reader, err = b.reader(s.subscriber, t, qos, nil); err != nil {
		return err
	}
	if s.readCondition, err = b.readCondition(s.reader); err != nil {
		return err
	}
	return nil
}

func (s *Subscription) checkReady() error {
	if s == nil {
		return errors.Wrap(ErrInvalidArgument, "subscription handle is null")
	}
	if err := checkImplementation("subscription", s.implementation); err != nil {
		return err
	}
	return s.sm.requireReady("subscription")
}

// TakeMessage takes the oldest message into msg. It reports false when
// nothing was waiting.
func (s *Subscription) TakeMessage(msg Message) (bool, error) {
	if err := s.checkReady(); err != nil {
		return false, err
	}
	if msg == nil {
		return false, errors.Wrap(ErrInvalidArgument, "ros message handle is null")
	}
	if err := checkMessageType(msg, s.msgType); err != nil {
		return false, err
	}

	seq, err := s.reader.Take(1)
	if err != nil {
		if stderrors.Is(err, dds.RetcodeNoData) {
			return false, nil
		}
		return false, transportError(err, "failed to take from '%s'", s.ddsTopicName)
	}
	defer func() {
		if err := s.reader.ReturnLoan(seq); err != nil {
			s.logger.Errorf("failed to return loan: %v", err)
		}
	}()
	if seq.Len() == 0 || !seq.Samples[0].Info.ValidData {
		return false, nil
	}
	if err := deserializeMessage(seq.Samples[0].Data, msg); err != nil {
		return false, err
	}
	return true, nil
}

// MatchedPublicationCount counts the publications the reader is matched
// with.
func (s *Subscription) MatchedPublicationCount() (int, error) {
	if err := s.checkReady(); err != nil {
		return 0, err
	}
	pubs, err := s.reader.MatchedPublications()
	if err != nil {
		return 0, transportError(err, "failed to get matched publications of '%s'", s.ddsTopicName)
	}
	return len(pubs), nil
}

func (s *Subscription) TopicName() string {
	return s.topicName
}

// ReadCondition triggers when a message is waiting.
func (s *Subscription) ReadCondition() dds.ReadCondition {
	return s.readCondition
}

func (s *Subscription) State() EntityState {
	return s.sm.getState()
}

// DestroySubscription releases every resource of s.
func (node *Node) DestroySubscription(s *Subscription) error {
	if node == nil {
		return errors.Wrap(ErrInvalidArgument, "node handle is null")
	}
	if err := checkImplementation("node", node.implementation); err != nil {
		return err
	}
	if s == nil {
		return errors.Wrap(ErrInvalidArgument, "subscription handle is null")
	}
	if err := checkImplementation("subscription", s.implementation); err != nil {
		return err
	}
	if s.node != node {
		return errors.Wrap(ErrInvalidArgument, "subscription does not belong to node")
	}
	if err := s.sm.transition(Destroyed); err != nil {
		return err
	}
	err := s.resources.unwind()
	if terr := node.graphGuard.Trigger(); terr != nil {
		s.logger.Errorf("failed to trigger graph guard condition: %v", terr)
	}
	if err != nil {
		s.logger.Errorf("failed to destroy subscription: %v", err)
	}
	return err
}
