package rmw

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/rmwdds/dds/memdds"
)

func TestInitValidatesOptions(t *testing.T) {
	_, err := Init(InitOptions{})
	assert.True(t, errors.Is(err, ErrIncorrectImplementation))

	opts := NewInitOptions()
	_, err = Init(opts)
	assert.True(t, errors.Is(err, ErrInvalidArgument), "missing factory")

	opts.Factory = memdds.NewDomain()
	opts.SettleDelay = -1
	_, err = Init(opts)
	assert.True(t, errors.Is(err, ErrInvalidArgument), "negative settle delay")
}

func TestInitOptionsCopy(t *testing.T) {
	opts := NewInitOptions()
	opts.Remappings = NameMap{"a": "b"}
	dst, err := opts.Copy()
	require.NoError(t, err)
	dst.Remappings["a"] = "c"
	assert.Equal(t, "b", opts.Remappings["a"])

	_, err = InitOptions{}.Copy()
	assert.True(t, errors.Is(err, ErrIncorrectImplementation))
}

func TestInitAssignsInstanceIDs(t *testing.T) {
	a := newTestEnv(t)
	b := newTestEnv(t)
	assert.NotZero(t, a.context.InstanceID())
	assert.NotEqual(t, a.context.InstanceID(), b.context.InstanceID())

	c := newTestEnv(t, func(o *InitOptions) { o.InstanceID = 4242 })
	assert.Equal(t, uint64(4242), c.context.InstanceID())
	assert.Equal(t, uint64(4242), c.context.Options().InstanceID)
}

func TestInitLog(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	newTestEnv(t, func(o *InitOptions) {
		o.Logger = logger
		o.InitLog = true
	})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "RMW successfully initialized", hook.LastEntry().Message)
	assert.Equal(t, logModule, hook.LastEntry().Data["module"])
}

func TestInitSharesMetricsRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	newTestEnv(t, func(o *InitOptions) { o.Registerer = reg })
	newTestEnv(t, func(o *InitOptions) { o.Registerer = reg })
}

func TestContextShutdownAndFini(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.context
	assert.True(t, ctx.IsValid())
	assert.True(t, errors.Is(ctx.Fini(), ErrInvalidArgument), "fini before shutdown")

	node := env.node(t, "n")
	require.NoError(t, ctx.Shutdown())
	assert.False(t, ctx.IsValid())
	assert.True(t, errors.Is(ctx.Shutdown(), ErrInvalidArgument))

	before := env.domain.LiveEntities()
	_, err := ctx.CreateNode("late", "/")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, before, env.domain.LiveEntities(), "a refused node leaves nothing behind")

	assert.True(t, errors.Is(ctx.Fini(), ErrInvalidArgument), "fini with nodes")
	require.NoError(t, node.Destroy())
	require.NoError(t, ctx.Fini())
	assert.False(t, ctx.IsValid())
}

func TestRefusedNodeLogsUnwindFailure(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	env := newTestEnv(t, func(o *InitOptions) { o.Logger = logger })
	require.NoError(t, env.context.Shutdown())

	// Both listeners attach, then detaching the first one fails.
	env.domain.InjectFault(memdds.OpSetListener, 2)
	_, err := env.context.CreateNode("late", "/")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "failed to unwind node")
	assert.Equal(t, "/late", hook.LastEntry().Data["node"])
	assert.Equal(t, 0, env.domain.LiveEntities(), "the participant is still deleted")
}
