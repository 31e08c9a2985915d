package rmw

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/rmwdds/dds/memdds"
)

func TestPublishAndTake(t *testing.T) {
	env := newTestEnv(t)
	talker := env.node(t, "talker")
	listener := env.node(t, "listener")

	pub, err := talker.CreatePublisher(msgInt, "chatter", &topicQoS)
	require.NoError(t, err)
	sub, err := listener.CreateSubscription(msgInt, "/chatter", &topicQoS)
	require.NoError(t, err)
	assert.Equal(t, "/chatter", pub.TopicName())
	assert.Equal(t, "/chatter", sub.TopicName())

	n, err := pub.MatchedSubscriptionCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = sub.MatchedPublicationCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	msg := &testInt{typ: msgInt}
	taken, err := sub.TakeMessage(msg)
	require.NoError(t, err)
	assert.False(t, taken)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, pub.Publish(&testInt{typ: msgInt, Data: i}))
	}
	assert.True(t, sub.ReadCondition().TriggerValue())
	for i := int64(1); i <= 3; i++ {
		taken, err = sub.TakeMessage(msg)
		require.NoError(t, err)
		require.True(t, taken)
		assert.Equal(t, i, msg.Data)
	}
	taken, err = sub.TakeMessage(msg)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.Equal(t, 0, env.domain.OutstandingLoans())
}

func TestPublishChecksMessageType(t *testing.T) {
	env := newTestEnv(t)
	node := env.node(t, "n")
	pub, err := node.CreatePublisher(msgInt, "chatter", &topicQoS)
	require.NoError(t, err)
	sub, err := node.CreateSubscription(msgInt, "chatter", &topicQoS)
	require.NoError(t, err)

	assert.True(t, errors.Is(pub.Publish(&testInt{typ: msgIntOther}), ErrInvalidArgument))
	assert.True(t, errors.Is(pub.Publish(nil), ErrInvalidArgument))
	_, err = sub.TakeMessage(&testInt{typ: msgIntOther})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = node.CreateSubscription(msgIntOther, "chatter", &topicQoS)
	assert.True(t, errors.Is(err, ErrInvalidArgument), "topic exists with another type")
}

func TestPublisherUnwind(t *testing.T) {
	env := newTestEnv(t)
	node := env.node(t, "n")
	baseline := env.domain.LiveEntities()

	for _, op := range []memdds.Op{
		memdds.OpRegisterType,
		memdds.OpCreateTopic,
		memdds.OpCreatePublisher,
		memdds.OpCreateDataWriter,
	} {
		env.domain.InjectFault(op, 0)
		_, err := node.CreatePublisher(msgInt, "chatter", &topicQoS)
		assert.True(t, errors.Is(err, ErrTransport), "%s", op)
		assert.Equal(t, baseline, env.domain.LiveEntities(), "%s", op)
		env.domain.ClearFaults()
	}
	for _, op := range []memdds.Op{
		memdds.OpCreateSubscriber,
		memdds.OpCreateDataReader,
		memdds.OpCreateReadCondition,
	} {
		env.domain.InjectFault(op, 0)
		_, err := node.CreateSubscription(msgInt, "chatter", &topicQoS)
		assert.True(t, errors.Is(err, ErrTransport), "%s", op)
		assert.Equal(t, baseline, env.domain.LiveEntities(), "%s", op)
		env.domain.ClearFaults()
	}
}

func TestDestroyPublisherAndSubscription(t *testing.T) {
	env := newTestEnv(t)
	node := env.node(t, "n")
	baseline := env.domain.LiveEntities()
	pub, err := node.CreatePublisher(msgInt, "chatter", &topicQoS)
	require.NoError(t, err)
	sub, err := node.CreateSubscription(msgInt, "chatter", &topicQoS)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(&testInt{typ: msgInt, Data: 1}))

	require.NoError(t, node.DestroyPublisher(pub))
	require.NoError(t, node.DestroySubscription(sub))
	assert.Equal(t, baseline, env.domain.LiveEntities())
	assert.Equal(t, Destroyed, pub.State())
	assert.Equal(t, Destroyed, sub.State())

	assert.True(t, errors.Is(node.DestroyPublisher(pub), ErrAlreadyDestroyed))
	assert.True(t, errors.Is(node.DestroySubscription(sub), ErrAlreadyDestroyed))
	assert.True(t, errors.Is(pub.Publish(&testInt{typ: msgInt}), ErrAlreadyDestroyed))
	_, err = sub.TakeMessage(&testInt{typ: msgInt})
	assert.True(t, errors.Is(err, ErrAlreadyDestroyed))
}
