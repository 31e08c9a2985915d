package rmw

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	Sep       = "/"
	GlobalNS  = "/"
	PrivateNS = "~"
	Remap     = ":="
)

// Prefixes and suffixes that map ROS names onto DDS topic names.
const (
	topicPrefix    = "rt"
	requestPrefix  = "rq"
	responsePrefix = "rr"
	requestSuffix  = "Request"
	responseSuffix = "Reply"

	ddsTypeNamespace = "dds_"
)

type NameMap map[string]string

var (
	nameRe      = regexp.MustCompile(`^[~/]?([a-zA-Z]\w*/)*[a-zA-Z]\w*$`)
	nodeNameRe  = regexp.MustCompile(`^[a-zA-Z_]\w*$`)
	namespaceRe = regexp.MustCompile(`^/([a-zA-Z]\w*(/[a-zA-Z]\w*)*)?$`)
)

func getNamespace(name string) string {
	if len(name) == 0 {
		return GlobalNS
	} else if name[len(name)-1] == '/' {
		name = name[:len(name)-1]
	}
	result := name[:strings.LastIndex(name, Sep)+1]
	if len(result) == 0 {
		return Sep
	}
	return result
}

func resolveName(name string, qualifiedNode string, mappings NameMap) string {
	var resolvedName string

	if len(name) == 0 {
		return getNamespace(qualifiedNode)
	}

	canonName := canonicalizeName(name)
	if isGlobalName(canonName) {
		resolvedName = canonName
	} else if isPrivateName(canonName) {
		resolvedName = canonicalizeName(qualifiedNode + Sep + canonName[1:])
	} else {
		resolvedName = getNamespace(qualifiedNode) + canonName
	}

	if remappedName, ok := mappings[resolvedName]; ok {
		return remappedName
	}
	return resolvedName
}

func isValidName(name string) bool {
	if len(name) == 0 {
		return true
	}
	if name == "/" || name == "~" {
		return true
	}
	return nameRe.MatchString(name)
}

func isValidNodeName(name string) bool {
	return nodeNameRe.MatchString(name)
}

func isValidNamespace(name string) bool {
	return namespaceRe.MatchString(name)
}

func isGlobalName(name string) bool {
	return len(name) > 0 && name[0:1] == GlobalNS
}

func isPrivateName(name string) bool {
	return len(name) > 0 && name[0:1] == PrivateNS
}

// Remove sequential seperater
func canonicalizeName(name string) string {
	if name == GlobalNS || name == "" {
		return name
	}
	components := []string{}
	for _, word := range strings.Split(name, Sep) {
		if len(word) > 0 {
			components = append(components, word)
		}
	}
	if name[0:1] == GlobalNS {
		return GlobalNS + strings.Join(components, Sep)
	}
	return strings.Join(components, Sep)
}

type nameResolver struct {
	qualifiedNode   string
	resolvedMapping NameMap
}

func newNameResolver(qualifiedNode string, remapping NameMap) *nameResolver {
	n := new(nameResolver)
	n.qualifiedNode = qualifiedNode
	n.resolvedMapping = make(NameMap)

	for k, v := range remapping {
		newKey := resolveName(k, qualifiedNode, nil)
		newValue := resolveName(v, qualifiedNode, nil)
		n.resolvedMapping[newKey] = newValue
	}
	return n
}

// resolve turns name into a fully qualified, remapped name.
func (n *nameResolver) resolve(name string) (string, error) {
	if len(name) == 0 || !isValidName(name) || name == GlobalNS || name == PrivateNS {
		return "", errors.Wrapf(ErrInvalidArgument, "invalid name '%s'", name)
	}
	return resolveName(name, n.qualifiedNode, n.resolvedMapping), nil
}

func qualifyNode(namespace, name string) string {
	if namespace == GlobalNS {
		return GlobalNS + name
	}
	return namespace + Sep + name
}

// mangleTopicName returns the DDS topic carrying ROS topic name.
func mangleTopicName(name string, avoidROSNamespaceConventions bool) string {
	if avoidROSNamespaceConventions {
		return name
	}
	return topicPrefix + name
}

// serviceTopicNames returns the DDS topics carrying the requests and the
// replies of service.
func serviceTopicNames(service string, avoidROSNamespaceConventions bool) (request, response string) {
	if avoidROSNamespaceConventions {
		return service + requestSuffix, service + responseSuffix
	}
	return requestPrefix + service + requestSuffix, responsePrefix + service + responseSuffix
}

// demangleTopicName strips the topic prefix. Names that do not carry it
// are not ROS topics.
func demangleTopicName(name string) (string, bool) {
	if !strings.HasPrefix(name, topicPrefix+Sep) {
		return "", false
	}
	return name[len(topicPrefix):], true
}

// demangleServiceName recovers the service name from either of its two
// topics.
func demangleServiceName(name string) (string, bool) {
	switch {
	case strings.HasPrefix(name, requestPrefix+Sep) && strings.HasSuffix(name, requestSuffix):
		return name[len(requestPrefix) : len(name)-len(requestSuffix)], true
	case strings.HasPrefix(name, responsePrefix+Sep) && strings.HasSuffix(name, responseSuffix):
		return name[len(responsePrefix) : len(name)-len(responseSuffix)], true
	}
	return "", false
}

// ddsTypeName maps "pkg/srv/Name" (or "pkg/Name" for messages) to
// "pkg::srv::dds_::Name_".
func ddsTypeName(rosType string) (string, error) {
	parts := strings.Split(rosType, Sep)
	switch len(parts) {
	case 2:
		parts = []string{parts[0], "msg", parts[1]}
	case 3:
	default:
		return "", errors.Wrapf(ErrInvalidArgument, "malformed type name '%s'", rosType)
	}
	for _, p := range parts {
		if p == "" {
			return "", errors.Wrapf(ErrInvalidArgument, "malformed type name '%s'", rosType)
		}
	}
	return parts[0] + "::" + parts[1] + "::" + ddsTypeNamespace + "::" + parts[2] + "_", nil
}

// demangleTypeName is the inverse of ddsTypeName. Names that were not
// produced by it are returned unchanged.
func demangleTypeName(name string) string {
	parts := strings.Split(name, "::")
	if len(parts) != 4 || parts[2] != ddsTypeNamespace || !strings.HasSuffix(parts[3], "_") {
		return name
	}
	return parts[0] + Sep + parts[1] + Sep + strings.TrimSuffix(parts[3], "_")
}

// demangleServiceType maps the request or response type of a service back
// to the service type.
func demangleServiceType(name string) (string, bool) {
	t := demangleTypeName(name)
	switch {
	case strings.HasSuffix(t, "_Request"):
		return strings.TrimSuffix(t, "_Request"), true
	case strings.HasSuffix(t, "_Response"):
		return strings.TrimSuffix(t, "_Response"), true
	}
	return "", false
}
