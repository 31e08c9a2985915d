package rmw

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	modular "github.com/edwinhayes/logrus-modular"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/rmwdds/dds"
)

var lastInstanceID uint64

// InitOptions configures a Context.
type InitOptions struct {
	implementation string

	InstanceID uint64
	DomainID   dds.DomainID
	Factory    dds.DomainParticipantFactory

	// SettleDelay is slept after a client or service is created so that
	// discovery can reach remote participants.
	SettleDelay time.Duration
	Clock       clock.Clock
	Logger      *logrus.Logger
	Registerer  prometheus.Registerer
	InitLog     bool
	Remappings  NameMap
}

// NewInitOptions returns options with the defaults filled in.
func NewInitOptions() InitOptions {
	return InitOptions{
		implementation: Identifier,
		SettleDelay:    DefaultSettleDelay,
		Clock:          clock.New(),
	}
}

// Copy returns options that share nothing mutable with o.
func (o InitOptions) Copy() (InitOptions, error) {
	if err := checkImplementation("init options", o.implementation); err != nil {
		return InitOptions{}, err
	}
	dst := o
	if o.Remappings != nil {
		dst.Remappings = make(NameMap, len(o.Remappings))
		for k, v := range o.Remappings {
			dst.Remappings[k] = v
		}
	}
	return dst, nil
}

// Context owns the process wide state shared by nodes.
type Context struct {
	implementation string
	instanceID     uint64
	options        InitOptions
	logger         modular.ModuleLogger
	metrics        *metrics

	mu       sync.Mutex
	nodes    map[*Node]struct{}
	shutdown bool
}

// Init validates opts and returns a new Context.
func Init(opts InitOptions) (*Context, error) {
	if err := checkImplementation("init options", opts.implementation); err != nil {
		return nil, err
	}
	if opts.Factory == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "init options carry no participant factory")
	}
	if opts.SettleDelay < 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "negative settle delay")
	}
	opts, _ = opts.Copy()
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}

	c := new(Context)
	c.implementation = Identifier
	c.instanceID = opts.InstanceID
	if c.instanceID == 0 {
		c.instanceID = atomic.AddUint64(&lastInstanceID, 1)
	}
	c.options = opts
	c.logger = moduleLogger(opts.Logger)
	c.metrics = m
	c.nodes = make(map[*Node]struct{})

	if opts.InitLog {
		c.logger.Info("RMW successfully initialized")
	}
	return c, nil
}

func (c *Context) InstanceID() uint64 {
	return c.instanceID
}

func (c *Context) Options() InitOptions {
	o, _ := c.options.Copy()
	return o
}

// IsValid reports whether c can still create nodes.
func (c *Context) IsValid() bool {
	if c == nil || c.implementation != Identifier {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.shutdown
}

// Shutdown stops c from creating new nodes. Existing nodes stay usable
// until destroyed.
func (c *Context) Shutdown() error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "context is null")
	}
	if err := checkImplementation("context", c.implementation); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return errors.Wrap(ErrInvalidArgument, "context is already shut down")
	}
	c.shutdown = true
	return nil
}

// Fini releases c. It must be shut down and hold no nodes.
func (c *Context) Fini() error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "context is null")
	}
	if err := checkImplementation("context", c.implementation); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.shutdown {
		return errors.Wrap(ErrInvalidArgument, "context has not been shut down")
	}
	if len(c.nodes) > 0 {
		return errors.Wrapf(ErrInvalidArgument, "context still has %d nodes", len(c.nodes))
	}
	c.implementation = ""
	return nil
}

func (c *Context) addNode(n *Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return errors.Wrap(ErrInvalidArgument, "context is shut down")
	}
	c.nodes[n] = struct{}{}
	return nil
}

func (c *Context) removeNode(n *Node) {
	c.mu.Lock()
	delete(c.nodes, n)
	c.mu.Unlock()
}
