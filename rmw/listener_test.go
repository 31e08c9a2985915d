package rmw

import (
	"io"
	"testing"

	modular "github.com/edwinhayes/logrus-modular"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/rmwdds/dds"
)

// scriptedReader hands out prepared batches and records loans.
type scriptedReader struct {
	dds.DataReader
	batches  []*dds.SampleSeq
	err      error
	maxes    []int
	returned []*dds.SampleSeq
}

func (r *scriptedReader) Take(max int) (*dds.SampleSeq, error) {
	r.maxes = append(r.maxes, max)
	if r.err != nil {
		return nil, r.err
	}
	if len(r.batches) == 0 {
		return nil, dds.RetcodeNoData
	}
	seq := r.batches[0]
	r.batches = r.batches[1:]
	return seq, nil
}

func (r *scriptedReader) ReturnLoan(seq *dds.SampleSeq) error {
	r.returned = append(r.returned, seq)
	return nil
}

func quietLogger() modular.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return moduleLogger(l)
}

func aliveInfo(entity dds.GUID) dds.SampleInfo {
	return dds.SampleInfo{
		SampleState:    dds.NotReadSampleState,
		ViewState:      dds.NewViewState,
		InstanceState:  dds.AliveInstanceState,
		InstanceHandle: dds.InstanceHandle(entity),
		ValidData:      true,
	}
}

func publicationSample(t *testing.T, participant, entity dds.GUID, topic, typeName string) dds.Sample {
	t.Helper()
	data, err := dds.EncodePublicationData(&dds.PublicationBuiltinTopicData{
		Key:            dds.KeyFromGUID(entity),
		ParticipantKey: dds.KeyFromGUID(participant),
		TopicName:      topic,
		TypeName:       typeName,
		Reliability:    dds.ReliabilityQosPolicy{Kind: dds.ReliableReliabilityQos},
	})
	require.NoError(t, err)
	return dds.Sample{Data: data, Info: aliveInfo(entity)}
}

func subscriptionSample(t *testing.T, participant, entity dds.GUID, topic, typeName string) dds.Sample {
	t.Helper()
	data, err := dds.EncodeSubscriptionData(&dds.SubscriptionBuiltinTopicData{
		Key:            dds.KeyFromGUID(entity),
		ParticipantKey: dds.KeyFromGUID(participant),
		TopicName:      topic,
		TypeName:       typeName,
	})
	require.NoError(t, err)
	return dds.Sample{Data: data, Info: aliveInfo(entity)}
}

func disposedSample(entity dds.GUID) dds.Sample {
	return dds.Sample{Info: dds.SampleInfo{
		InstanceState:  dds.NotAliveDisposedInstanceState,
		InstanceHandle: dds.InstanceHandle(entity),
	}}
}

func batch(samples ...dds.Sample) *dds.SampleSeq {
	return &dds.SampleSeq{Samples: samples}
}

func TestDiscoveryListenerAddsBatchAndTriggersOnce(t *testing.T) {
	graph := NewGuardCondition()
	l := newDiscoveryListener(publicationEndpoints, graph, quietLogger(), nil)
	p := testGUID(1, 0x1c1)

	seq := batch(
		publicationSample(t, p, testGUID(1, 0x103), "rt/a", "T"),
		publicationSample(t, p, testGUID(1, 0x203), "rt/a", "T"),
		publicationSample(t, p, testGUID(1, 0x303), "rt/b", "U"),
	)
	r := &scriptedReader{batches: []*dds.SampleSeq{seq}}
	l.OnDataAvailable(r)

	assert.Equal(t, []int{discoveryBatchSize}, r.maxes)
	assert.Equal(t, []*dds.SampleSeq{seq}, r.returned)
	assert.Equal(t, uint64(1), graph.Triggers())
	assert.True(t, graph.TriggerValue())
	assert.Equal(t, 2, l.CountTopic("rt/a"))
	assert.Equal(t, map[string][]string{"rt/a": {"T"}, "rt/b": {"U"}}, l.NamesAndTypesByParticipant(p))

	info, ok := l.Lookup(testGUID(1, 0x303))
	require.True(t, ok)
	assert.Equal(t, p, info.ParticipantGUID)
	assert.Equal(t, ReliabilityReliable, info.QoS.Reliability)
	assert.Equal(t, HistoryUnknown, info.QoS.History)
}

func TestDiscoveryListenerRemovesDisposedEndpoints(t *testing.T) {
	graph := NewGuardCondition()
	l := newDiscoveryListener(subscriptionEndpoints, graph, quietLogger(), nil)
	p := testGUID(1, 0x1c1)
	e := testGUID(1, 0x104)

	r := &scriptedReader{batches: []*dds.SampleSeq{
		batch(subscriptionSample(t, p, e, "rt/a", "T")),
		batch(disposedSample(e), disposedSample(e)),
		batch(disposedSample(testGUID(7, 7))),
	}}
	l.OnDataAvailable(r)
	assert.Equal(t, 1, l.CountTopic("rt/a"))

	l.OnDataAvailable(r)
	assert.Equal(t, 0, l.CountTopic("rt/a"))
	assert.Equal(t, uint64(2), graph.Triggers())

	// Disposal of an unknown entity is harmless.
	l.OnDataAvailable(r)
	assert.Empty(t, l.NamesAndTypes())
	assert.Equal(t, uint64(3), graph.Triggers())
	assert.Len(t, r.returned, 3)
}

func TestDiscoveryListenerSkipsBadSamples(t *testing.T) {
	graph := NewGuardCondition()
	l := newDiscoveryListener(publicationEndpoints, graph, quietLogger(), nil)
	p := testGUID(1, 0x1c1)

	nilHandle := publicationSample(t, p, testGUID(1, 0x103), "rt/nil", "T")
	nilHandle.Info.InstanceHandle = dds.HandleNil
	malformed := dds.Sample{Data: []byte(`{"topic_name": 5}`), Info: aliveInfo(testGUID(1, 0x203))}
	good := publicationSample(t, p, testGUID(1, 0x303), "rt/good", "T")

	r := &scriptedReader{batches: []*dds.SampleSeq{batch(nilHandle, malformed, good)}}
	l.OnDataAvailable(r)

	assert.Equal(t, map[string][]string{"rt/good": {"T"}}, l.NamesAndTypes())
	assert.Equal(t, uint64(1), graph.Triggers())
	assert.Len(t, r.returned, 1)
}

func TestDiscoveryListenerTakeFailures(t *testing.T) {
	graph := NewGuardCondition()
	l := newDiscoveryListener(publicationEndpoints, graph, quietLogger(), nil)

	empty := &scriptedReader{}
	l.OnDataAvailable(empty)
	assert.Equal(t, uint64(0), graph.Triggers())
	assert.Empty(t, empty.returned)

	failing := &scriptedReader{err: dds.RetcodeOutOfResources}
	l.OnDataAvailable(failing)
	assert.Equal(t, uint64(0), graph.Triggers())
	assert.Empty(t, failing.returned)
}

func TestDiscoveryListenerMetrics(t *testing.T) {
	env := &testEnv{registry: prometheus.NewRegistry()}
	m, err := newMetrics(env.registry)
	require.NoError(t, err)

	graph := NewGuardCondition()
	l := newDiscoveryListener(publicationEndpoints, graph, quietLogger(), m)
	p := testGUID(1, 0x1c1)
	e := testGUID(1, 0x103)
	r := &scriptedReader{batches: []*dds.SampleSeq{
		batch(publicationSample(t, p, e, "rt/a", "T"), dds.Sample{Data: []byte("x"), Info: aliveInfo(testGUID(1, 0x203))}),
		batch(disposedSample(e)),
	}}
	l.OnDataAvailable(r)
	l.OnDataAvailable(r)

	kind := map[string]string{"kind": "publication"}
	assert.Equal(t, 1.0, env.metricValue(t, "rmw_dds_discovery_samples_total", map[string]string{"kind": "publication", "state": "alive"}))
	assert.Equal(t, 1.0, env.metricValue(t, "rmw_dds_discovery_samples_total", map[string]string{"kind": "publication", "state": "disposed"}))
	assert.Equal(t, 1.0, env.metricValue(t, "rmw_dds_discovery_errors_total", kind))
	assert.Equal(t, 2.0, env.metricValue(t, "rmw_dds_discovery_graph_triggers_total", kind))
}
