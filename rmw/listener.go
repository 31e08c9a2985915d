package rmw

import (
	"errors"
	"sync"

	modular "github.com/edwinhayes/logrus-modular"

	"github.com/edwinhayes/rmwdds/dds"
)

// discoveryBatchSize bounds the samples processed per callback. Samples
// left behind are picked up by the next callback.
const discoveryBatchSize = 8

type endpointKind int

const (
	publicationEndpoints endpointKind = iota
	subscriptionEndpoints
)

func (k endpointKind) String() string {
	if k == publicationEndpoints {
		return "publication"
	}
	return "subscription"
}

func (k endpointKind) builtinTopic() string {
	if k == publicationEndpoints {
		return dds.BuiltinTopicNamePublication
	}
	return dds.BuiltinTopicNameSubscription
}

// DiscoveryListener keeps a TopicCache in sync with one built-in discovery
// topic and triggers the graph guard condition when it changes. Callbacks
// run on DDS threads while queries run on application threads; mu
// serializes both.
type DiscoveryListener struct {
	kind    endpointKind
	graph   *GuardCondition
	logger  modular.Logger
	metrics *metrics

	mu    sync.Mutex
	cache *TopicCache
}

func newDiscoveryListener(kind endpointKind, graph *GuardCondition, logger modular.Logger, m *metrics) *DiscoveryListener {
	l := new(DiscoveryListener)
	l.kind = kind
	l.graph = graph
	l.logger = logger.WithField("discovery", kind.String())
	l.metrics = m
	l.cache = NewTopicCache()
	return l
}

// OnDataAvailable takes one batch of discovery samples and applies it to
// the cache. Failures are logged; nothing propagates to the DDS thread.
func (l *DiscoveryListener) OnDataAvailable(r dds.DataReader) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq, err := r.Take(discoveryBatchSize)
	if err != nil {
		if !errors.Is(err, dds.RetcodeNoData) {
			l.logger.Errorf("failed to take %s data: %v", l.kind.builtinTopic(), err)
			l.metrics.discoveryError(l.kind.String())
		}
		return
	}
	defer func() {
		if err := r.ReturnLoan(seq); err != nil {
			l.logger.Errorf("failed to return loan of %s data: %v", l.kind.builtinTopic(), err)
		}
	}()

	for i := range seq.Samples {
		s := &seq.Samples[i]
		if s.Info.InstanceHandle.IsNil() {
			continue
		}
		entity := s.Info.InstanceHandle.GUID()
		if !s.Info.Alive() {
			l.cache.RemoveTopic(entity)
			l.metrics.discoverySample(l.kind.String(), "disposed")
			continue
		}
		info, err := l.parse(entity, s.Data)
		if err != nil {
			l.logger.Errorf("dropping %s sample of %s: %v", l.kind.builtinTopic(), entity, err)
			l.metrics.discoveryError(l.kind.String())
			continue
		}
		l.cache.AddTopic(info)
		l.metrics.discoverySample(l.kind.String(), "alive")
	}

	if seq.Len() > 0 {
		if err := l.graph.Trigger(); err != nil {
			l.logger.Errorf("failed to trigger graph guard condition: %v", err)
			return
		}
		l.metrics.graphTrigger(l.kind.String())
	}
}

func (l *DiscoveryListener) parse(entity dds.GUID, data []byte) (TopicInfo, error) {
	if l.kind == publicationEndpoints {
		pub, err := dds.ParsePublicationData(data)
		if err != nil {
			return TopicInfo{}, err
		}
		return TopicInfo{
			ParticipantGUID: pub.ParticipantKey.GUID(),
			EntityGUID:      entity,
			TopicName:       pub.TopicName,
			TypeName:        pub.TypeName,
			QoS:             publicationQoS(pub),
		}, nil
	}
	sub, err := dds.ParseSubscriptionData(data)
	if err != nil {
		return TopicInfo{}, err
	}
	return TopicInfo{
		ParticipantGUID: sub.ParticipantKey.GUID(),
		EntityGUID:      entity,
		TopicName:       sub.TopicName,
		TypeName:        sub.TypeName,
		QoS:             subscriptionQoS(sub),
	}, nil
}

// CountTopic counts endpoints on the DDS topic named topicName.
func (l *DiscoveryListener) CountTopic(topicName string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.CountTopic(topicName)
}

// NamesAndTypes snapshots every DDS topic name with its types.
func (l *DiscoveryListener) NamesAndTypes() map[string][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.NamesAndTypes()
}

// NamesAndTypesByParticipant snapshots the topics of one participant.
func (l *DiscoveryListener) NamesAndTypesByParticipant(participant dds.GUID) map[string][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.NamesAndTypesByParticipant(participant)
}

// Lookup returns a copy of the entry of entity.
func (l *DiscoveryListener) Lookup(entity dds.GUID) (TopicInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Lookup(entity)
}
