package rmw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/rmwdds/dds"
)

type defaultsPublisher struct {
	dds.Publisher
}

func (defaultsPublisher) DefaultDataWriterQos() (dds.DataWriterQos, error) {
	return dds.DefaultDataWriterQos(), nil
}

type defaultsSubscriber struct {
	dds.Subscriber
}

func (defaultsSubscriber) DefaultDataReaderQos() (dds.DataReaderQos, error) {
	return dds.DefaultDataReaderQos(), nil
}

func TestDataWriterQos(t *testing.T) {
	p := QoSProfileDefault()
	p.Durability = DurabilityTransientLocal
	p.Deadline = 100 * time.Millisecond
	p.Lifespan = DurationInfinite
	p.Liveliness = LivelinessManualByTopic
	p.LivelinessLeaseDuration = 2 * time.Second

	qos, err := dataWriterQos(defaultsPublisher{}, &p)
	require.NoError(t, err)
	assert.Equal(t, dds.KeepLastHistoryQos, qos.History.Kind)
	assert.Equal(t, int32(10), qos.History.Depth)
	assert.Equal(t, dds.ReliableReliabilityQos, qos.Reliability.Kind)
	assert.Equal(t, dds.TransientLocalDurabilityQos, qos.Durability.Kind)
	assert.Equal(t, 100*time.Millisecond, qos.Deadline.Period.ToGo())
	assert.True(t, qos.Lifespan.Duration.IsInfinite())
	assert.Equal(t, dds.ManualByTopicLivelinessQos, qos.Liveliness.Kind)
	assert.Equal(t, 2*time.Second, qos.Liveliness.LeaseDuration.ToGo())
}

func TestDataWriterQosSaturatesLongDurations(t *testing.T) {
	p := QoSProfileDefault()
	p.Deadline = 200 * 365 * 24 * time.Hour
	p.Lifespan = maxDDSDuration
	p.LivelinessLeaseDuration = maxDDSDuration - time.Second

	var qos dds.DataWriterQos
	var err error
	assert.NotPanics(t, func() {
		qos, err = dataWriterQos(defaultsPublisher{}, &p)
	})
	require.NoError(t, err)
	assert.True(t, qos.Deadline.Period.IsInfinite())
	assert.True(t, qos.Lifespan.Duration.IsInfinite())
	assert.False(t, qos.Liveliness.LeaseDuration.IsInfinite())
	assert.Equal(t, maxDDSDuration-time.Second, qos.Liveliness.LeaseDuration.ToGo())
}

func TestDataReaderQosKeepsDefaults(t *testing.T) {
	p := QoSProfileSystemDefault()
	qos, err := dataReaderQos(defaultsSubscriber{}, &p)
	require.NoError(t, err)
	assert.Equal(t, dds.DefaultDataReaderQos(), qos)

	p = QoSProfileSensorData()
	qos, err = dataReaderQos(defaultsSubscriber{}, &p)
	require.NoError(t, err)
	assert.Equal(t, dds.BestEffortReliabilityQos, qos.Reliability.Kind)
	assert.Equal(t, int32(5), qos.History.Depth)
}

func TestDiscoveredQoS(t *testing.T) {
	pub := &dds.PublicationBuiltinTopicData{
		Durability:  dds.DurabilityQosPolicy{Kind: dds.TransientLocalDurabilityQos},
		Deadline:    dds.DeadlineQosPolicy{Period: dds.DurationInfinite},
		Liveliness:  dds.LivelinessQosPolicy{Kind: dds.AutomaticLivelinessQos, LeaseDuration: dds.NewDuration(1, 500000000)},
		Reliability: dds.ReliabilityQosPolicy{Kind: dds.BestEffortReliabilityQos},
		Lifespan:    dds.LifespanQosPolicy{Duration: dds.NewDuration(3, 0)},
	}
	qos := publicationQoS(pub)
	assert.Equal(t, HistoryUnknown, qos.History)
	assert.Equal(t, DepthSystemDefault, qos.Depth)
	assert.Equal(t, ReliabilityBestEffort, qos.Reliability)
	assert.Equal(t, DurabilityTransientLocal, qos.Durability)
	assert.Equal(t, DurationInfinite, qos.Deadline)
	assert.Equal(t, LivelinessAutomatic, qos.Liveliness)
	assert.Equal(t, 1500*time.Millisecond, qos.LivelinessLeaseDuration)
	assert.Equal(t, 3*time.Second, qos.Lifespan)

	sub := &dds.SubscriptionBuiltinTopicData{
		Reliability: dds.ReliabilityQosPolicy{Kind: dds.ReliableReliabilityQos},
	}
	qos = subscriptionQoS(sub)
	assert.Equal(t, HistoryUnknown, qos.History)
	assert.Equal(t, ReliabilityReliable, qos.Reliability)
	assert.Equal(t, time.Duration(0), qos.Lifespan)
}
