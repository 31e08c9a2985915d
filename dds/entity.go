package dds

// Names of the built-in discovery topics.
const (
	BuiltinTopicNameParticipant  = "DCPSParticipant"
	BuiltinTopicNamePublication  = "DCPSPublication"
	BuiltinTopicNameSubscription = "DCPSSubscription"
)

type DomainID uint32

type StatusMask uint32

const (
	DataAvailableStatus StatusMask = 1 << 10
)

// DomainParticipantFactory creates and deletes participants.
type DomainParticipantFactory interface {
	CreateParticipant(domain DomainID, qos *DomainParticipantQos) (DomainParticipant, error)
	DeleteParticipant(p DomainParticipant) error
}

type Entity interface {
	InstanceHandle() InstanceHandle
}

type DomainParticipant interface {
	Entity
	DomainID() DomainID
	GUID() GUID

	// RegisterType makes typeName usable by CreateTopic. Registering the
	// same name twice is not an error.
	RegisterType(typeName string) error

	CreateTopic(name, typeName string, qos *TopicQos) (Topic, error)
	// FindTopic returns a new reference to an existing topic; each
	// reference is released with DeleteTopic.
	FindTopic(name string, timeout Duration) (Topic, error)
	// LookupTopicDescription returns nil when no local topic is named name.
	LookupTopicDescription(name string) TopicDescription
	DeleteTopic(t Topic) error
	DefaultTopicQos() (TopicQos, error)

	CreatePublisher(qos *PublisherQos) (Publisher, error)
	DeletePublisher(p Publisher) error
	CreateSubscriber(qos *SubscriberQos) (Subscriber, error)
	DeleteSubscriber(s Subscriber) error

	BuiltinSubscriber() (Subscriber, error)
	DeleteContainedEntities() error
}

type TopicDescription interface {
	Name() string
	TypeName() string
}

type Topic interface {
	Entity
	TopicDescription
}

type Publisher interface {
	Entity
	DefaultDataWriterQos() (DataWriterQos, error)
	CreateDataWriter(t Topic, qos *DataWriterQos) (DataWriter, error)
	DeleteDataWriter(w DataWriter) error
}

type Subscriber interface {
	Entity
	DefaultDataReaderQos() (DataReaderQos, error)
	CreateDataReader(td TopicDescription, qos *DataReaderQos, l DataReaderListener, mask StatusMask) (DataReader, error)
	DeleteDataReader(r DataReader) error
	LookupDataReader(topicName string) DataReader
}

type DataWriter interface {
	Entity
	GUID() GUID
	Topic() Topic
	// Write publishes one serialized sample.
	Write(data []byte) error
	MatchedSubscriptions() ([]InstanceHandle, error)
}

type DataReader interface {
	Entity
	GUID() GUID
	TopicDescription() TopicDescription
	// Take removes up to max samples; LengthUnlimited takes all of them.
	// An empty reader reports RetcodeNoData.
	Take(max int) (*SampleSeq, error)
	ReturnLoan(seq *SampleSeq) error
	MatchedPublications() ([]InstanceHandle, error)
	SetListener(l DataReaderListener, mask StatusMask) error
	CreateReadCondition(sample SampleStateKind, view ViewStateKind, instance InstanceStateKind) (ReadCondition, error)
	DeleteReadCondition(c ReadCondition) error
}

type ReadCondition interface {
	DataReader() DataReader
	TriggerValue() bool
}

// DataReaderListener receives reader callbacks on a thread owned by the
// DDS implementation.
type DataReaderListener interface {
	OnDataAvailable(r DataReader)
}
