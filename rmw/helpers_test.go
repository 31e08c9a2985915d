package rmw

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/rmwdds/dds/memdds"
)

type testIntType struct {
	name string
}

func (t *testIntType) Text() string        { return "int64 data\n" }
func (t *testIntType) Name() string        { return t.name }
func (t *testIntType) NewMessage() Message { return &testInt{typ: t} }

// testInt is a message carrying a single int64.
type testInt struct {
	typ  *testIntType
	Data int64
}

func (m *testInt) Type() MessageType {
	return m.typ
}

func (m *testInt) Serialize(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, m.Data)
}

func (m *testInt) Deserialize(buf *bytes.Reader) error {
	return binary.Read(buf, binary.LittleEndian, &m.Data)
}

type testServiceType struct {
	name     string
	request  *testIntType
	response *testIntType
}

func (t *testServiceType) Name() string              { return t.name }
func (t *testServiceType) RequestType() MessageType  { return t.request }
func (t *testServiceType) ResponseType() MessageType { return t.response }

var (
	msgInt      = &testIntType{"test_msgs/msg/Int"}
	msgIntOther = &testIntType{"test_msgs/msg/Other"}
	msgEchoReq  = &testIntType{"test_msgs/srv/Echo_Request"}
	msgEchoRes  = &testIntType{"test_msgs/srv/Echo_Response"}
	srvEcho     = &testServiceType{"test_msgs/srv/Echo", msgEchoReq, msgEchoRes}
	servicesQoS = QoSProfileServicesDefault()
	topicQoS    = QoSProfileDefault()
)

func request(v int64) *testInt  { return &testInt{typ: msgEchoReq, Data: v} }
func response(v int64) *testInt { return &testInt{typ: msgEchoRes, Data: v} }

type testEnv struct {
	domain   *memdds.Domain
	context  *Context
	registry *prometheus.Registry
}

// newTestEnv initializes a context over a fresh in-process domain with no
// settle delay and a quiet logger.
func newTestEnv(t *testing.T, configure ...func(*InitOptions)) *testEnv {
	t.Helper()
	env := &testEnv{domain: memdds.NewDomain(), registry: prometheus.NewRegistry()}
	opts := NewInitOptions()
	opts.Factory = env.domain
	opts.SettleDelay = 0
	opts.Registerer = env.registry
	l := NewLogger()
	l.SetOutput(io.Discard)
	opts.Logger = l
	for _, fn := range configure {
		fn(&opts)
	}
	ctx, err := Init(opts)
	require.NoError(t, err)
	env.context = ctx
	return env
}

func (env *testEnv) node(t *testing.T, name string) *Node {
	t.Helper()
	node, err := env.context.CreateNode(name, "/")
	require.NoError(t, err)
	t.Cleanup(func() {
		if node.State() == Ready {
			node.Destroy()
		}
	})
	return node
}

// metricValue returns the value of the counter or gauge name whose labels
// include labels.
func (env *testEnv) metricValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := env.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := true
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v != lp.GetValue() {
					match = false
				}
			}
			if match {
				return m.GetCounter().GetValue() + m.GetGauge().GetValue()
			}
		}
	}
	return 0
}
