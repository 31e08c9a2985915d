package dds

import (
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// PublicationBuiltinTopicData announces a data writer.
type PublicationBuiltinTopicData struct {
	Key            BuiltinTopicKey
	ParticipantKey BuiltinTopicKey
	TopicName      string
	TypeName       string
	Durability     DurabilityQosPolicy
	Deadline       DeadlineQosPolicy
	Liveliness     LivelinessQosPolicy
	Reliability    ReliabilityQosPolicy
	Lifespan       LifespanQosPolicy
}

// SubscriptionBuiltinTopicData announces a data reader.
type SubscriptionBuiltinTopicData struct {
	Key            BuiltinTopicKey
	ParticipantKey BuiltinTopicKey
	TopicName      string
	TypeName       string
	Durability     DurabilityQosPolicy
	Deadline       DeadlineQosPolicy
	Liveliness     LivelinessQosPolicy
	Reliability    ReliabilityQosPolicy
}

type wireDuration struct {
	Sec  uint32 `json:"sec"`
	NSec uint32 `json:"nanosec"`
}

type wireEndpoint struct {
	Key            [4]uint32     `json:"key"`
	ParticipantKey [4]uint32     `json:"participant_key"`
	TopicName      string        `json:"topic_name"`
	TypeName       string        `json:"type_name"`
	Durability     int32         `json:"durability"`
	Deadline       wireDuration  `json:"deadline"`
	Liveliness     int32         `json:"liveliness"`
	LeaseDuration  wireDuration  `json:"lease_duration"`
	Reliability    int32         `json:"reliability"`
	MaxBlocking    wireDuration  `json:"max_blocking_time"`
	Lifespan       *wireDuration `json:"lifespan,omitempty"`
}

func toWire(d Duration) wireDuration {
	return wireDuration{Sec: d.Sec, NSec: d.NSec}
}

// EncodePublicationData serializes d as a DCPSPublication sample payload.
func EncodePublicationData(d *PublicationBuiltinTopicData) ([]byte, error) {
	lifespan := toWire(d.Lifespan.Duration)
	return json.Marshal(wireEndpoint{
		Key:            d.Key,
		ParticipantKey: d.ParticipantKey,
		TopicName:      d.TopicName,
		TypeName:       d.TypeName,
		Durability:     int32(d.Durability.Kind),
		Deadline:       toWire(d.Deadline.Period),
		Liveliness:     int32(d.Liveliness.Kind),
		LeaseDuration:  toWire(d.Liveliness.LeaseDuration),
		Reliability:    int32(d.Reliability.Kind),
		MaxBlocking:    toWire(d.Reliability.MaxBlockingTime),
		Lifespan:       &lifespan,
	})
}

// EncodeSubscriptionData serializes d as a DCPSSubscription sample payload.
func EncodeSubscriptionData(d *SubscriptionBuiltinTopicData) ([]byte, error) {
	return json.Marshal(wireEndpoint{
		Key:            d.Key,
		ParticipantKey: d.ParticipantKey,
		TopicName:      d.TopicName,
		TypeName:       d.TypeName,
		Durability:     int32(d.Durability.Kind),
		Deadline:       toWire(d.Deadline.Period),
		Liveliness:     int32(d.Liveliness.Kind),
		LeaseDuration:  toWire(d.Liveliness.LeaseDuration),
		Reliability:    int32(d.Reliability.Kind),
		MaxBlocking:    toWire(d.Reliability.MaxBlockingTime),
	})
}

// endpointFields is the part shared by both built-in endpoint topics.
type endpointFields struct {
	key            BuiltinTopicKey
	participantKey BuiltinTopicKey
	topicName      string
	typeName       string
	durability     DurabilityQosPolicy
	deadline       DeadlineQosPolicy
	liveliness     LivelinessQosPolicy
	reliability    ReliabilityQosPolicy
	lifespan       LifespanQosPolicy
	hasLifespan    bool
}

var endpointPaths = [][]string{
	{"key"},
	{"participant_key"},
	{"topic_name"},
	{"type_name"},
	{"durability"},
	{"deadline"},
	{"liveliness"},
	{"lease_duration"},
	{"reliability"},
	{"max_blocking_time"},
	{"lifespan"},
}

const (
	pathKey = iota
	pathParticipantKey
	pathTopicName
	pathTypeName
	pathDurability
	pathDeadline
	pathLiveliness
	pathLeaseDuration
	pathReliability
	pathMaxBlocking
	pathLifespan
)

func parseKey(value []byte) (BuiltinTopicKey, error) {
	var key BuiltinTopicKey
	i := 0
	var err error
	_, aerr := jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, e error) {
		if err != nil {
			return
		}
		if e != nil {
			err = e
			return
		}
		if i >= len(key) || vt != jsonparser.Number {
			err = errors.New("malformed builtin topic key")
			return
		}
		n, perr := jsonparser.ParseInt(v)
		if perr != nil || n < 0 || n > maxUint32 {
			err = errors.New("malformed builtin topic key")
			return
		}
		key[i] = uint32(n)
		i++
	})
	if aerr != nil {
		return key, aerr
	}
	if err == nil && i != len(key) {
		err = errors.New("builtin topic key too short")
	}
	return key, err
}

func parseDuration(value []byte) (Duration, error) {
	sec, err := jsonparser.GetInt(value, "sec")
	if err != nil {
		return Duration{}, err
	}
	nsec, err := jsonparser.GetInt(value, "nanosec")
	if err != nil {
		return Duration{}, err
	}
	if sec == DurationInfiniteSec && nsec == DurationInfiniteNSec {
		return DurationInfinite, nil
	}
	if sec < 0 || sec > maxUint32 || nsec < 0 || nsec >= secondInNanosecond {
		return Duration{}, errors.New("duration out of range")
	}
	return Duration{temporal{uint32(sec), uint32(nsec)}}, nil
}

func parseEndpoint(data []byte) (*endpointFields, error) {
	f := &endpointFields{
		deadline:    DeadlineQosPolicy{Period: DurationInfinite},
		liveliness:  LivelinessQosPolicy{LeaseDuration: DurationInfinite},
		reliability: ReliabilityQosPolicy{Kind: BestEffortReliabilityQos},
	}
	var found [pathLifespan + 1]bool
	var perr error
	jsonparser.EachKey(data, func(idx int, value []byte, vt jsonparser.ValueType, err error) {
		if perr != nil {
			return
		}
		if err != nil {
			perr = err
			return
		}
		found[idx] = true
		switch idx {
		case pathKey:
			f.key, perr = parseKey(value)
		case pathParticipantKey:
			f.participantKey, perr = parseKey(value)
		case pathTopicName:
			f.topicName, perr = jsonparser.ParseString(value)
		case pathTypeName:
			f.typeName, perr = jsonparser.ParseString(value)
		case pathDurability:
			var n int64
			n, perr = jsonparser.ParseInt(value)
			f.durability.Kind = DurabilityQosPolicyKind(n)
		case pathDeadline:
			f.deadline.Period, perr = parseDuration(value)
		case pathLiveliness:
			var n int64
			n, perr = jsonparser.ParseInt(value)
			f.liveliness.Kind = LivelinessQosPolicyKind(n)
		case pathLeaseDuration:
			f.liveliness.LeaseDuration, perr = parseDuration(value)
		case pathReliability:
			var n int64
			n, perr = jsonparser.ParseInt(value)
			f.reliability.Kind = ReliabilityQosPolicyKind(n)
		case pathMaxBlocking:
			f.reliability.MaxBlockingTime, perr = parseDuration(value)
		case pathLifespan:
			f.lifespan.Duration, perr = parseDuration(value)
			f.hasLifespan = true
		}
	}, endpointPaths...)
	if perr != nil {
		return nil, errors.Wrap(perr, "parse builtin topic data")
	}
	for _, idx := range []int{pathKey, pathParticipantKey, pathTopicName, pathTypeName} {
		if !found[idx] {
			return nil, errors.Errorf("parse builtin topic data: missing %q", endpointPaths[idx][0])
		}
	}
	return f, nil
}

// ParsePublicationData decodes a DCPSPublication payload. A missing
// lifespan decodes as infinite.
func ParsePublicationData(data []byte) (*PublicationBuiltinTopicData, error) {
	f, err := parseEndpoint(data)
	if err != nil {
		return nil, err
	}
	lifespan := f.lifespan
	if !f.hasLifespan {
		lifespan.Duration = DurationInfinite
	}
	return &PublicationBuiltinTopicData{
		Key:            f.key,
		ParticipantKey: f.participantKey,
		TopicName:      f.topicName,
		TypeName:       f.typeName,
		Durability:     f.durability,
		Deadline:       f.deadline,
		Liveliness:     f.liveliness,
		Reliability:    f.reliability,
		Lifespan:       lifespan,
	}, nil
}

// ParseSubscriptionData decodes a DCPSSubscription payload.
func ParseSubscriptionData(data []byte) (*SubscriptionBuiltinTopicData, error) {
	f, err := parseEndpoint(data)
	if err != nil {
		return nil, err
	}
	return &SubscriptionBuiltinTopicData{
		Key:            f.key,
		ParticipantKey: f.participantKey,
		TopicName:      f.topicName,
		TypeName:       f.typeName,
		Durability:     f.durability,
		Deadline:       f.deadline,
		Liveliness:     f.liveliness,
		Reliability:    f.reliability,
	}, nil
}
