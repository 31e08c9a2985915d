package rmw

import (
	"strings"

	"github.com/edwinhayes/rmwdds/dds"
)

// CountPublishers counts the discovered writers on topicName, local ones
// included.
func (node *Node) CountPublishers(topicName string) (int, error) {
	return node.countTopic(node.pubListener, topicName)
}

// CountSubscribers counts the discovered readers on topicName, local ones
// included.
func (node *Node) CountSubscribers(topicName string) (int, error) {
	return node.countTopic(node.subListener, topicName)
}

func (node *Node) countTopic(l *DiscoveryListener, topicName string) (int, error) {
	if err := node.checkReady(); err != nil {
		return 0, err
	}
	name, err := node.resolver.resolve(topicName)
	if err != nil {
		return 0, err
	}
	return l.CountTopic(mangleTopicName(name, false)), nil
}

// TopicNamesAndTypes lists every topic seen by discovery with its sorted
// types. Unless noDemangle is set only ROS topics are listed, under their
// ROS names and types.
func (node *Node) TopicNamesAndTypes(noDemangle bool) (map[string][]string, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	all := node.pubListener.NamesAndTypes()
	mergeNamesAndTypes(all, node.subListener.NamesAndTypes())
	return topicNamesAndTypes(all, noDemangle), nil
}

// ServiceNamesAndTypes lists every service seen by discovery with its
// service types.
func (node *Node) ServiceNamesAndTypes() (map[string][]string, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	all := node.pubListener.NamesAndTypes()
	mergeNamesAndTypes(all, node.subListener.NamesAndTypes())
	return serviceNamesAndTypes(all, ""), nil
}

// PublisherNamesAndTypesByParticipant lists the topics written by the
// participant identified by guid.
func (node *Node) PublisherNamesAndTypesByParticipant(guid dds.GUID, noDemangle bool) (map[string][]string, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	return topicNamesAndTypes(node.pubListener.NamesAndTypesByParticipant(guid), noDemangle), nil
}

// SubscriberNamesAndTypesByParticipant lists the topics read by the
// participant identified by guid.
func (node *Node) SubscriberNamesAndTypesByParticipant(guid dds.GUID, noDemangle bool) (map[string][]string, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	return topicNamesAndTypes(node.subListener.NamesAndTypesByParticipant(guid), noDemangle), nil
}

// ServerNamesAndTypesByParticipant lists the services served by the
// participant identified by guid. Servers read the request topic.
func (node *Node) ServerNamesAndTypesByParticipant(guid dds.GUID) (map[string][]string, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	return serviceNamesAndTypes(node.subListener.NamesAndTypesByParticipant(guid), requestSuffix), nil
}

// ClientNamesAndTypesByParticipant lists the services used by the
// participant identified by guid. Clients write the request topic.
func (node *Node) ClientNamesAndTypesByParticipant(guid dds.GUID) (map[string][]string, error) {
	if err := node.checkReady(); err != nil {
		return nil, err
	}
	return serviceNamesAndTypes(node.pubListener.NamesAndTypesByParticipant(guid), requestSuffix), nil
}

func topicNamesAndTypes(src map[string][]string, noDemangle bool) map[string][]string {
	if noDemangle {
		return src
	}
	out := make(map[string][]string)
	for name, types := range src {
		topic, ok := demangleTopicName(name)
		if !ok {
			continue
		}
		demangled := make([]string, 0, len(types))
		for _, t := range types {
			demangled = append(demangled, demangleTypeName(t))
		}
		out[topic] = setUnion(out[topic], demangled)
	}
	return out
}

// serviceNamesAndTypes keeps the service topics of src whose name ends in
// suffix and reports them by service name and type.
func serviceNamesAndTypes(src map[string][]string, suffix string) map[string][]string {
	out := make(map[string][]string)
	for name, types := range src {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		service, ok := demangleServiceName(name)
		if !ok {
			continue
		}
		var serviceTypes []string
		for _, t := range types {
			if st, ok := demangleServiceType(t); ok {
				serviceTypes = append(serviceTypes, st)
			}
		}
		if len(serviceTypes) > 0 {
			out[service] = setUnion(out[service], serviceTypes)
		}
	}
	return out
}
