package dds

type DurabilityQosPolicyKind int32

const (
	VolatileDurabilityQos DurabilityQosPolicyKind = iota
	TransientLocalDurabilityQos
	TransientDurabilityQos
	PersistentDurabilityQos
)

type ReliabilityQosPolicyKind int32

const (
	BestEffortReliabilityQos ReliabilityQosPolicyKind = iota + 1
	ReliableReliabilityQos
)

type HistoryQosPolicyKind int32

const (
	KeepLastHistoryQos HistoryQosPolicyKind = iota
	KeepAllHistoryQos
)

type LivelinessQosPolicyKind int32

const (
	AutomaticLivelinessQos LivelinessQosPolicyKind = iota
	ManualByParticipantLivelinessQos
	ManualByTopicLivelinessQos
)

type DurabilityQosPolicy struct {
	Kind DurabilityQosPolicyKind
}

type DeadlineQosPolicy struct {
	Period Duration
}

type LatencyBudgetQosPolicy struct {
	Duration Duration
}

type LivelinessQosPolicy struct {
	Kind          LivelinessQosPolicyKind
	LeaseDuration Duration
}

type ReliabilityQosPolicy struct {
	Kind            ReliabilityQosPolicyKind
	MaxBlockingTime Duration
}

type HistoryQosPolicy struct {
	Kind  HistoryQosPolicyKind
	Depth int32
}

type LifespanQosPolicy struct {
	Duration Duration
}

type PartitionQosPolicy struct {
	Name []string
}

type TopicQos struct {
	Durability  DurabilityQosPolicy
	Deadline    DeadlineQosPolicy
	Liveliness  LivelinessQosPolicy
	Reliability ReliabilityQosPolicy
	History     HistoryQosPolicy
	Lifespan    LifespanQosPolicy
}

type PublisherQos struct {
	Partition PartitionQosPolicy
}

type SubscriberQos struct {
	Partition PartitionQosPolicy
}

type DataWriterQos struct {
	Durability  DurabilityQosPolicy
	Deadline    DeadlineQosPolicy
	Liveliness  LivelinessQosPolicy
	Reliability ReliabilityQosPolicy
	History     HistoryQosPolicy
	Lifespan    LifespanQosPolicy
}

type DataReaderQos struct {
	Durability  DurabilityQosPolicy
	Deadline    DeadlineQosPolicy
	Liveliness  LivelinessQosPolicy
	Reliability ReliabilityQosPolicy
	History     HistoryQosPolicy
}

type DomainParticipantQos struct {
	UserData []byte
}

// DefaultDataWriterQos is what a freshly created publisher hands out.
func DefaultDataWriterQos() DataWriterQos {
	return DataWriterQos{
		Durability:  DurabilityQosPolicy{Kind: VolatileDurabilityQos},
		Deadline:    DeadlineQosPolicy{Period: DurationInfinite},
		Liveliness:  LivelinessQosPolicy{Kind: AutomaticLivelinessQos, LeaseDuration: DurationInfinite},
		Reliability: ReliabilityQosPolicy{Kind: ReliableReliabilityQos, MaxBlockingTime: NewDuration(0, 100000000)},
		History:     HistoryQosPolicy{Kind: KeepLastHistoryQos, Depth: 1},
		Lifespan:    LifespanQosPolicy{Duration: DurationInfinite},
	}
}

// DefaultDataReaderQos is what a freshly created subscriber hands out.
func DefaultDataReaderQos() DataReaderQos {
	return DataReaderQos{
		Durability:  DurabilityQosPolicy{Kind: VolatileDurabilityQos},
		Deadline:    DeadlineQosPolicy{Period: DurationInfinite},
		Liveliness:  LivelinessQosPolicy{Kind: AutomaticLivelinessQos, LeaseDuration: DurationInfinite},
		Reliability: ReliabilityQosPolicy{Kind: BestEffortReliabilityQos},
		History:     HistoryQosPolicy{Kind: KeepLastHistoryQos, Depth: 1},
	}
}

func DefaultTopicQos() TopicQos {
	w := DefaultDataWriterQos()
	return TopicQos{
		Durability:  w.Durability,
		Deadline:    w.Deadline,
		Liveliness:  w.Liveliness,
		Reliability: w.Reliability,
		History:     w.History,
		Lifespan:    w.Lifespan,
	}
}
