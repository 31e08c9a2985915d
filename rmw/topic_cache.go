package rmw

import (
	"sort"

	"github.com/edwinhayes/rmwdds/dds"
)

// TopicInfo is what discovery learned about one remote or local endpoint.
type TopicInfo struct {
	ParticipantGUID dds.GUID
	EntityGUID      dds.GUID
	TopicName       string
	TypeName        string
	QoS             QoSProfile
}

// TopicCache indexes discovered endpoints by entity GUID and by
// participant. It is not safe for concurrent use; the discovery listener
// that owns it serializes access.
type TopicCache struct {
	topics       map[dds.GUID]TopicInfo
	participants map[dds.GUID]map[dds.GUID]struct{}
}

func NewTopicCache() *TopicCache {
	return &TopicCache{
		topics:       make(map[dds.GUID]TopicInfo),
		participants: make(map[dds.GUID]map[dds.GUID]struct{}),
	}
}

// AddTopic records or replaces the entry of info.EntityGUID.
func (c *TopicCache) AddTopic(info TopicInfo) {
	if old, ok := c.topics[info.EntityGUID]; ok && old.ParticipantGUID != info.ParticipantGUID {
		c.unindex(old.ParticipantGUID, old.EntityGUID)
	}
	c.topics[info.EntityGUID] = info
	set, ok := c.participants[info.ParticipantGUID]
	if !ok {
		set = make(map[dds.GUID]struct{})
		c.participants[info.ParticipantGUID] = set
	}
	set[info.EntityGUID] = struct{}{}
}

// RemoveTopic drops the entry of entity. It reports whether one existed.
func (c *TopicCache) RemoveTopic(entity dds.GUID) bool {
	info, ok := c.topics[entity]
	if !ok {
		return false
	}
	delete(c.topics, entity)
	c.unindex(info.ParticipantGUID, entity)
	return true
}

func (c *TopicCache) unindex(participant, entity dds.GUID) {
	set := c.participants[participant]
	delete(set, entity)
	if len(set) == 0 {
		delete(c.participants, participant)
	}
}

func (c *TopicCache) Len() int {
	return len(c.topics)
}

func (c *TopicCache) Lookup(entity dds.GUID) (TopicInfo, bool) {
	info, ok := c.topics[entity]
	return info, ok
}

// CountTopic counts endpoints on the DDS topic named topicName.
func (c *TopicCache) CountTopic(topicName string) int {
	n := 0
	for _, info := range c.topics {
		if info.TopicName == topicName {
			n++
		}
	}
	return n
}

// ParticipantEntities returns the entities announced by participant.
func (c *TopicCache) ParticipantEntities(participant dds.GUID) []dds.GUID {
	set := c.participants[participant]
	out := make([]dds.GUID, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	return out
}

// NamesAndTypes maps each DDS topic name to the sorted set of its types.
func (c *TopicCache) NamesAndTypes() map[string][]string {
	return collectNamesAndTypes(c.each)
}

// NamesAndTypesByParticipant is NamesAndTypes restricted to participant.
func (c *TopicCache) NamesAndTypesByParticipant(participant dds.GUID) map[string][]string {
	return collectNamesAndTypes(func(fn func(TopicInfo)) {
		for g := range c.participants[participant] {
			fn(c.topics[g])
		}
	})
}

func (c *TopicCache) each(fn func(TopicInfo)) {
	for _, info := range c.topics {
		fn(info)
	}
}

func collectNamesAndTypes(each func(func(TopicInfo))) map[string][]string {
	sets := make(map[string]map[string]struct{})
	each(func(info TopicInfo) {
		types, ok := sets[info.TopicName]
		if !ok {
			types = make(map[string]struct{})
			sets[info.TopicName] = types
		}
		types[info.TypeName] = struct{}{}
	})
	out := make(map[string][]string, len(sets))
	for name, types := range sets {
		list := make([]string, 0, len(types))
		for t := range types {
			list = append(list, t)
		}
		sort.Strings(list)
		out[name] = list
	}
	return out
}
