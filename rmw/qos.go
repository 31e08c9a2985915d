package rmw

import (
	"math"
	"time"

	"github.com/edwinhayes/rmwdds/dds"
)

type QoSHistoryPolicy int

const (
	HistorySystemDefault QoSHistoryPolicy = iota
	HistoryKeepLast
	HistoryKeepAll
	HistoryUnknown
)

type QoSReliabilityPolicy int

const (
	ReliabilitySystemDefault QoSReliabilityPolicy = iota
	ReliabilityReliable
	ReliabilityBestEffort
	ReliabilityUnknown
)

type QoSDurabilityPolicy int

const (
	DurabilitySystemDefault QoSDurabilityPolicy = iota
	DurabilityTransientLocal
	DurabilityVolatile
	DurabilityUnknown
)

type QoSLivelinessPolicy int

const (
	LivelinessSystemDefault QoSLivelinessPolicy = iota
	LivelinessAutomatic
	LivelinessManualByNode
	LivelinessManualByTopic
	LivelinessUnknown
)

const (
	// DepthSystemDefault leaves the history depth to the DDS layer.
	DepthSystemDefault = 0

	// DurationInfinite marks a QoS duration without limit. A zero duration
	// means "use the DDS default".
	DurationInfinite = time.Duration(math.MaxInt64)
)

// QoSProfile is the middleware-independent quality of service of an
// endpoint.
type QoSProfile struct {
	History                      QoSHistoryPolicy
	Depth                        int
	Reliability                  QoSReliabilityPolicy
	Durability                   QoSDurabilityPolicy
	Deadline                     time.Duration
	Lifespan                     time.Duration
	Liveliness                   QoSLivelinessPolicy
	LivelinessLeaseDuration      time.Duration
	AvoidROSNamespaceConventions bool
}

// QoSProfileDefault is reliable, volatile, keep last 10.
func QoSProfileDefault() QoSProfile {
	return QoSProfile{
		History:     HistoryKeepLast,
		Depth:       10,
		Reliability: ReliabilityReliable,
		Durability:  DurabilityVolatile,
		Liveliness:  LivelinessSystemDefault,
	}
}

// QoSProfileServicesDefault is used by clients and services.
func QoSProfileServicesDefault() QoSProfile {
	return QoSProfileDefault()
}

// QoSProfileSensorData is best effort, keep last 5.
func QoSProfileSensorData() QoSProfile {
	qos := QoSProfileDefault()
	qos.Reliability = ReliabilityBestEffort
	qos.Depth = 5
	return qos
}

func QoSProfileSystemDefault() QoSProfile {
	return QoSProfile{}
}

// maxDDSDuration is the first duration a DDS seconds field cannot hold.
const maxDDSDuration = time.Duration(1<<32) * time.Second

func toDDSDuration(d time.Duration, current dds.Duration) dds.Duration {
	switch {
	case d == 0:
		return current
	case d == DurationInfinite, d >= maxDDSDuration:
		return dds.DurationInfinite
	default:
		return dds.DurationFromGo(d)
	}
}

func fromDDSDuration(d dds.Duration) time.Duration {
	if d.IsInfinite() {
		return DurationInfinite
	}
	return d.ToGo()
}

func applyHistory(h *dds.HistoryQosPolicy, p *QoSProfile) {
	switch p.History {
	case HistoryKeepLast:
		h.Kind = dds.KeepLastHistoryQos
	case HistoryKeepAll:
		h.Kind = dds.KeepAllHistoryQos
	}
	if p.Depth != DepthSystemDefault {
		h.Depth = int32(p.Depth)
	}
}

func applyReliability(r *dds.ReliabilityQosPolicy, p *QoSProfile) {
	switch p.Reliability {
	case ReliabilityReliable:
		r.Kind = dds.ReliableReliabilityQos
	case ReliabilityBestEffort:
		r.Kind = dds.BestEffortReliabilityQos
	}
}

func applyDurability(d *dds.DurabilityQosPolicy, p *QoSProfile) {
	switch p.Durability {
	case DurabilityTransientLocal:
		d.Kind = dds.TransientLocalDurabilityQos
	case DurabilityVolatile:
		d.Kind = dds.VolatileDurabilityQos
	}
}

func applyLiveliness(l *dds.LivelinessQosPolicy, p *QoSProfile) {
	switch p.Liveliness {
	case LivelinessAutomatic:
		l.Kind = dds.AutomaticLivelinessQos
	case LivelinessManualByNode:
		l.Kind = dds.ManualByParticipantLivelinessQos
	case LivelinessManualByTopic:
		l.Kind = dds.ManualByTopicLivelinessQos
	}
	l.LeaseDuration = toDDSDuration(p.LivelinessLeaseDuration, l.LeaseDuration)
}

// dataWriterQos starts from the publisher defaults and applies p.
func dataWriterQos(pub dds.Publisher, p *QoSProfile) (dds.DataWriterQos, error) {
	qos, err := pub.DefaultDataWriterQos()
	if err != nil {
		return qos, err
	}
	applyHistory(&qos.History, p)
	applyReliability(&qos.Reliability, p)
	applyDurability(&qos.Durability, p)
	applyLiveliness(&qos.Liveliness, p)
	qos.Deadline.Period = toDDSDuration(p.Deadline, qos.Deadline.Period)
	qos.Lifespan.Duration = toDDSDuration(p.Lifespan, qos.Lifespan.Duration)
	return qos, nil
}

// dataReaderQos starts from the subscriber defaults and applies p.
func dataReaderQos(sub dds.Subscriber, p *QoSProfile) (dds.DataReaderQos, error) {
	qos, err := sub.DefaultDataReaderQos()
	if err != nil {
		return qos, err
	}
	applyHistory(&qos.History, p)
	applyReliability(&qos.Reliability, p)
	applyDurability(&qos.Durability, p)
	applyLiveliness(&qos.Liveliness, p)
	qos.Deadline.Period = toDDSDuration(p.Deadline, qos.Deadline.Period)
	return qos, nil
}

func convertReliability(r dds.ReliabilityQosPolicy) QoSReliabilityPolicy {
	switch r.Kind {
	case dds.BestEffortReliabilityQos:
		return ReliabilityBestEffort
	case dds.ReliableReliabilityQos:
		return ReliabilityReliable
	}
	return ReliabilityUnknown
}

func convertDurability(d dds.DurabilityQosPolicy) QoSDurabilityPolicy {
	switch d.Kind {
	case dds.VolatileDurabilityQos:
		return DurabilityVolatile
	case dds.TransientLocalDurabilityQos:
		return DurabilityTransientLocal
	}
	return DurabilityUnknown
}

func convertLiveliness(l dds.LivelinessQosPolicy) QoSLivelinessPolicy {
	switch l.Kind {
	case dds.AutomaticLivelinessQos:
		return LivelinessAutomatic
	case dds.ManualByParticipantLivelinessQos:
		return LivelinessManualByNode
	case dds.ManualByTopicLivelinessQos:
		return LivelinessManualByTopic
	}
	return LivelinessUnknown
}

// discoveredQoS builds the profile reported for a remote endpoint. Built-in
// topic data does not carry history, so it is reported as unknown.
func discoveredQoS(rel dds.ReliabilityQosPolicy, dur dds.DurabilityQosPolicy, deadline dds.DeadlineQosPolicy,
	live dds.LivelinessQosPolicy) QoSProfile {
	return QoSProfile{
		History:                 HistoryUnknown,
		Depth:                   DepthSystemDefault,
		Reliability:             convertReliability(rel),
		Durability:              convertDurability(dur),
		Deadline:                fromDDSDuration(deadline.Period),
		Liveliness:              convertLiveliness(live),
		LivelinessLeaseDuration: fromDDSDuration(live.LeaseDuration),
	}
}

func publicationQoS(d *dds.PublicationBuiltinTopicData) QoSProfile {
	qos := discoveredQoS(d.Reliability, d.Durability, d.Deadline, d.Liveliness)
	qos.Lifespan = fromDDSDuration(d.Lifespan.Duration)
	return qos
}

func subscriptionQoS(d *dds.SubscriptionBuiltinTopicData) QoSProfile {
	return discoveredQoS(d.Reliability, d.Durability, d.Deadline, d.Liveliness)
}
