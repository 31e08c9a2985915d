package rmw

import (
	modular "github.com/edwinhayes/logrus-modular"
	"github.com/pkg/errors"

	"github.com/edwinhayes/rmwdds/dds"
)

// Service takes requests from clients and sends back correlated
// responses.
type Service struct {
	implementation    string
	node              *Node
	serviceName       string
	serviceType       ServiceType
	requestTopicName  string
	responseTopicName string
	publisher         dds.Publisher
	subscriber        dds.Subscriber
	responseWriter    dds.DataWriter
	requestReader     dds.DataReader
	readCondition     dds.ReadCondition
	queue             *requestQueue
	logger            modular.Logger
	sm                entityStateMachine
	resources         resourceStack
}

// CreateService creates a server of the service called serviceName.
// Relative names are resolved against the node.
func (node *Node) CreateService(st ServiceType, serviceName string, qos *QoSProfile) (*Service, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "type support is null")
	}
	qos, err := checkQoS(qos)
	if err != nil {
		return nil, err
	}
	name, err := node.resolver.resolve(serviceName)
	if err != nil {
		return nil, err
	}

	s := new(Service)
	s.implementation = Identifier
	s.node = node
	s.serviceName = name
	s.serviceType = st
	s.requestTopicName, s.responseTopicName = serviceTopicNames(name, qos.AvoidROSNamespaceConventions)
	s.queue = newRequestQueue(name, node.context.metrics)
	s.logger = node.logger.WithField("service", name)
	s.sm.transition(PartiallyBuilt)

	b := &endpointBuilder{node: node, stack: &s.resources}
	if err := s.build(b, qos); err != nil {
		s.sm.transition(Destroyed)
		return nil, b.abandon(err)
	}
	s.sm.transition(Ready)

	node.settle()
	s.logger.Debugf("Created server with service '%s' on node '%s'", name, node.qualifiedName)
	return s, nil
}

func (s *Service) build(b *endpointBuilder, qos *QoSProfile) error {
	requestType, err := b.registerType(s.serviceType.RequestType())
	if err != nil {
		return err
	}
	responseType, err := b.registerType(s.serviceType.ResponseType())
	if err != nil {
		return err
	}
	requestTopic, err := b.topic(s.requestTopicName, requestType)
	if err != nil {
		return err
	}
	responseTopic, err := b.topic(s.responseTopicName, responseType)
	if err != nil {
		return err
	}
	if s.subscriber, err = b.subscriber(s.serviceName); err != nil {
		return err
	}
	listener := &requestListener{queue: s.queue, logger: s.logger}
	if s.requestReader, err = b.reader(s.subscriber, requestTopic, qos, listener); err != nil {
		return err
	}
	if s.readCondition, err = b.readCondition(s.requestReader); err != nil {
		return err
	}
	if s.publisher, err = b.publisher(s.serviceName); err != nil {
		return err
	}
	if s.responseWriter, err = b.writer(s.publisher, responseTopic, qos); err != nil {
		return err
	}
	return nil
}

func (s *Service) checkReady() error {
	if s == nil {
		return errors.Wrap(ErrInvalidArgument, "service handle is null")
	}
	if err := checkImplementation("service", s.implementation); err != nil {
		return err
	}
	return s.sm.requireReady("service")
}

// DestroyService releases every resource of s. Resources that cannot be
// released are reported and the rest are still released.
func (node *Node) DestroyService(s *Service) error {
	if node == nil {
		return errors.Wrap(ErrInvalidArgument, "node handle is null")
	}
	if err := checkImplementation("node", node.implementation); err != nil {
		return err
	}
	if s == nil {
		return errors.Wrap(ErrInvalidArgument, "service handle is null")
	}
	if err := checkImplementation("service", s.implementation); err != nil {
		return err
	}
	if s.node != node {
		return errors.Wrap(ErrInvalidArgument, "service does not belong to node")
	}
	if err := s.sm.transition(Destroyed); err != nil {
		return err
	}
	err := s.resources.unwind()
	if terr := node.graphGuard.Trigger(); terr != nil {
		s.logger.Errorf("failed to trigger graph guard condition: %v", terr)
	}
	if err != nil {
		s.logger.Errorf("failed to destroy service: %v", err)
		return err
	}
	s.logger.Debugf("Deleted server with service '%s' on node '%s'", s.serviceName, node.qualifiedName)
	return nil
}

func (s *Service) ServiceName() string {
	return s.serviceName
}

// GuardCondition is true while requests are waiting to be taken. Only
// TakeRequest clears it.
func (s *Service) GuardCondition() Condition {
	return requestCondition{s.queue}
}

// ReadCondition triggers when the request reader holds samples.
func (s *Service) ReadCondition() dds.ReadCondition {
	return s.readCondition
}

// PendingRequests counts requests waiting to be taken.
func (s *Service) PendingRequests() int {
	return s.queue.len()
}

func (s *Service) State() EntityState {
	return s.sm.getState()
}
