package rmw

import (
	modular "github.com/edwinhayes/logrus-modular"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edwinhayes/rmwdds/dds"
)

// Client sends requests to a service and takes the responses addressed to
// it.
type Client struct {
	implementation    string
	node              *Node
	serviceName       string
	serviceType       ServiceType
	requestTopicName  string
	responseTopicName string
	publisher         dds.Publisher
	subscriber        dds.Subscriber
	requestWriter     dds.DataWriter
	responseReader    dds.DataReader
	readCondition     dds.ReadCondition
	writerGUID        WriterGUID
	sequence          sequenceGenerator
	logger            modular.Logger
	sm                entityStateMachine
	resources         resourceStack
}

// CreateClient creates a client of the service called serviceName.
// Relative names are resolved against the node.
func (node *Node) CreateClient(st ServiceType, serviceName string, qos *QoSProfile) (*Client, error) {
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

	c := new(Client)
	c.implementation = Identifier
	c.node = node
	c.serviceName = name
	c.serviceType = st
	c.requestTopicName, c.responseTopicName = serviceTopicNames(name, qos.AvoidROSNamespaceConventions)
	c.logger = node.logger.WithField("client", name)
	c.sm.transition(PartiallyBuilt)

	b := &endpointBuilder{node: node, stack: &c.resources}
	if err := c.build(b, qos); err != nil {
		c.sm.transition(Destroyed)
		return nil, b.abandon(err)
	}
	c.sm.transition(Ready)

	node.settle()
	c.logger.Debugf("Created client with service '%s' on node '%s'", name, node.qualifiedName)
	return c, nil
}

func (c *Client) build(b *endpointBuilder, qos *QoSProfile) error {
	requestType, err := b.registerType(c.serviceType.RequestType())
	if err != nil {
		return err
	}
	responseType, err := b.registerType(c.serviceType.ResponseType())
	if err != nil {
		return err
	}
	requestTopic, err := b.topic(c.requestTopicName, requestType)
	if err != nil {
		return err
	}
	responseTopic, err := b.topic(c.responseTopicName, responseType)
	if err != nil {
		return err
	}
	if c.publisher, err = b.publisher(c.serviceName); err != nil {
		return err
	}
	if c.requestWriter, err = b.writer(c.publisher, requestTopic, qos); err != nil {
		return err
	}
	if c.subscriber, err = b.subscriber(c.serviceName); err != nil {
		return err
	}
	if c.responseReader, err = b.reader(c.subscriber, responseTopic, qos, nil); err != nil {
		return err
	}
	if c.readCondition, err = b.readCondition(c.responseReader); err != nil {
		return err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return errors.Wrapf(ErrBadAlloc, "failed to generate writer guid: %v", err)
	}
	c.writerGUID = WriterGUID(id)
	return nil
}

func (c *Client) checkReady() error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "client handle is null")
	}
	if err := checkImplementation("client", c.implementation); err != nil {
		return err
	}
	return c.sm.requireReady("client")
}

// DestroyClient releases every resource of c. Resources that cannot be
// released are reported and the rest are still released.
func (node *Node) DestroyClient(c *Client) error {
	if node == nil {
		return errors.Wrap(ErrInvalidArgument, "node handle is null")
	}
	if err := checkImplementation("node", node.implementation); err != nil {
		return err
	}
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "client handle is null")
	}
	if err := checkImplementation("client", c.implementation); err != nil {
		return err
	}
	if c.node != node {
		return errors.Wrap(ErrInvalidArgument, "client does not belong to node")
	}
	if err := c.sm.transition(Destroyed); err != nil {
		return err
	}
	err := c.resources.unwind()
	if terr := node.graphGuard.Trigger(); terr != nil {
		c.logger.Errorf("failed to trigger graph guard condition: %v", terr)
	}
	if err != nil {
		c.logger.Errorf("failed to destroy client: %v", err)
		return err
	}
	c.logger.Debugf("Deleted client with service '%s' on node '%s'", c.serviceName, node.qualifiedName)
	return nil
}

func (c *Client) ServiceName() string {
	return c.serviceName
}

func (c *Client) WriterGUID() WriterGUID {
	return c.writerGUID
}

// ReadCondition triggers when a response sample is waiting.
func (c *Client) ReadCondition() dds.ReadCondition {
	return c.readCondition
}

func (c *Client) State() EntityState {
	return c.sm.getState()
}
