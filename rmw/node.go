package rmw

import (
	"fmt"

	modular "github.com/edwinhayes/logrus-modular"
	"github.com/pkg/errors"

	"github.com/edwinhayes/rmwdds/dds"
)

// Node owns one DDS participant and the discovery state built from its
// built-in readers.
type Node struct {
	implementation string
	context        *Context
	name           string
	namespace      string
	qualifiedName  string
	participant    dds.DomainParticipant
	graphGuard     *GuardCondition
	pubListener    *DiscoveryListener
	subListener    *DiscoveryListener
	resolver       *nameResolver
	logger         modular.Logger
	sm             entityStateMachine
	resources      resourceStack
}

// CreateNode creates a participant for the node name in namespace and
// starts listening to discovery.
func (c *Context) CreateNode(name, namespace string) (*Node, error) {
	if c == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "context is null")
	}
	if err := checkImplementation("context", c.implementation); err != nil {
		return nil, err
	}
	if !isValidNodeName(name) {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid node name '%s'", name)
	}
	if namespace == "" {
		namespace = GlobalNS
	}
	namespace = canonicalizeName(namespace)
	if !isValidNamespace(namespace) {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid namespace '%s'", namespace)
	}

	node := new(Node)
	node.implementation = Identifier
	node.context = c
	node.name = name
	node.namespace = namespace
	node.qualifiedName = qualifyNode(namespace, name)
	node.resolver = newNameResolver(node.qualifiedName, c.options.Remappings)
	node.logger = c.logger.WithField("node", node.qualifiedName)
	if err := node.sm.transition(PartiallyBuilt); err != nil {
		return nil, err
	}

	if err := node.build(); err != nil {
		node.sm.transition(Destroyed)
		if uerr := node.resources.unwind(); uerr != nil {
			node.logger.Errorf("failed to unwind node: %v", uerr)
		}
		return nil, err
	}
	if err := c.addNode(node); err != nil {
		node.sm.transition(Destroyed)
		if uerr := node.resources.unwind(); uerr != nil {
			node.logger.Errorf("failed to unwind node: %v", uerr)
		}
		return nil, err
	}
	node.sm.transition(Ready)
	node.logger.Debugf("Created node '%s' in domain %d", node.qualifiedName, c.options.DomainID)
	return node, nil
}

func (node *Node) build() error {
	factory := node.context.options.Factory
	qos := dds.DomainParticipantQos{
		UserData: []byte(fmt.Sprintf("name=%s;namespace=%s;", node.name, node.namespace)),
	}
	participant, err := factory.CreateParticipant(node.context.options.DomainID, &qos)
	if err != nil {
		return transportError(err, "failed to create participant")
	}
	node.participant = participant
	node.resources.push(resourceParticipant, node.qualifiedName, func() error {
		if err := participant.DeleteContainedEntities(); err != nil {
			return err
		}
		return factory.DeleteParticipant(participant)
	})

	node.graphGuard = NewGuardCondition()
	node.pubListener = newDiscoveryListener(publicationEndpoints, node.graphGuard, node.logger, node.context.metrics)
	node.subListener = newDiscoveryListener(subscriptionEndpoints, node.graphGuard, node.logger, node.context.metrics)

	builtin, err := participant.BuiltinSubscriber()
	if err != nil {
		return transportError(err, "failed to get builtin subscriber")
	}
	for _, l := range []*DiscoveryListener{node.pubListener, node.subListener} {
		topic := l.kind.builtinTopic()
		reader := builtin.LookupDataReader(topic)
		if reader == nil {
			return errors.Wrapf(ErrTransport, "failed to look up builtin reader for %s", topic)
		}
		if err := reader.SetListener(l, dds.DataAvailableStatus); err != nil {
			return transportError(err, "failed to attach listener to %s", topic)
		}
		node.resources.push(resourceListener, topic, func() error {
			return reader.SetListener(nil, 0)
		})
	}
	return nil
}

func (node *Node) checkReady() error {
	if node == nil {
		return errors.Wrap(ErrInvalidArgument, "node handle is null")
	}
	if err := checkImplementation("node", node.implementation); err != nil {
		return err
	}
	return node.sm.requireReady("node")
}

// Destroy stops discovery and deletes the participant together with
// everything it still contains.
func (node *Node) Destroy() error {
	if node == nil {
		return errors.Wrap(ErrInvalidArgument, "node handle is null")
	}
	if err := checkImplementation("node", node.implementation); err != nil {
		return err
	}
	if err := node.sm.transition(Destroyed); err != nil {
		return err
	}
	node.context.removeNode(node)
	err := node.resources.unwind()
	if err != nil {
		node.logger.Errorf("failed to destroy node: %v", err)
	} else {
		node.logger.Debugf("Deleted node '%s'", node.qualifiedName)
	}
	return err
}

func (node *Node) Name() string {
	return node.name
}

func (node *Node) Namespace() string {
	return node.namespace
}

func (node *Node) FullyQualifiedName() string {
	return node.qualifiedName
}

// GraphGuardCondition is triggered whenever discovery changes the graph.
func (node *Node) GraphGuardCondition() *GuardCondition {
	return node.graphGuard
}

// ParticipantGUID identifies the node in graph queries.
func (node *Node) ParticipantGUID() dds.GUID {
	return node.participant.GUID()
}

func (node *Node) State() EntityState {
	return node.sm.getState()
}

// settle announces a new endpoint to graph waiters and gives discovery
// time to reach remote participants.
func (node *Node) settle() {
	if err := node.graphGuard.Trigger(); err != nil {
		node.logger.Errorf("failed to trigger graph guard condition: %v", err)
	}
	if d := node.context.options.SettleDelay; d > 0 {
		node.context.options.Clock.Sleep(d)
	}
}
