package dds

type SampleStateKind uint32

const (
	ReadSampleState SampleStateKind = 1 << iota
	NotReadSampleState
)

type ViewStateKind uint32

const (
	NewViewState ViewStateKind = 1 << iota
	NotNewViewState
)

type InstanceStateKind uint32

const (
	AliveInstanceState InstanceStateKind = 1 << iota
	NotAliveDisposedInstanceState
	NotAliveNoWritersInstanceState
)

const (
	AnySampleState   = ReadSampleState | NotReadSampleState
	AnyViewState     = NewViewState | NotNewViewState
	AnyInstanceState = AliveInstanceState | NotAliveDisposedInstanceState | NotAliveNoWritersInstanceState
)

// LengthUnlimited asks Take for every available sample.
const LengthUnlimited = -1

// SampleInfo describes one received sample.
type SampleInfo struct {
	SampleState       SampleStateKind
	ViewState         ViewStateKind
	InstanceState     InstanceStateKind
	SourceTimestamp   Time
	InstanceHandle    InstanceHandle
	PublicationHandle InstanceHandle
	ValidData         bool
}

// Alive reports whether the sample announces a live instance with data.
func (i *SampleInfo) Alive() bool {
	return i.ValidData && i.InstanceState == AliveInstanceState
}

// Sample is one serialized payload and its info. Payloads of built-in
// topics are the JSON documents produced by EncodePublicationData and
// EncodeSubscriptionData.
type Sample struct {
	Data []byte
	Info SampleInfo
}

// SampleSeq is a loan of samples from a reader. It must be handed back
// with DataReader.ReturnLoan.
type SampleSeq struct {
	Samples []Sample
}

func (s *SampleSeq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}
