package rmw

import (
	"bytes"
)

// MessageType describes a message: its fully qualified name such as
// "example_interfaces/srv/AddTwoInts_Request" and a factory.
type MessageType interface {
	Text() string
	Name() string
	NewMessage() Message
}

type Message interface {
	Type() MessageType
	Serialize(buf *bytes.Buffer) error
	Deserialize(buf *bytes.Reader) error
}

// ServiceType describes a service such as "example_interfaces/srv/AddTwoInts"
// by its request and response message types.
type ServiceType interface {
	Name() string
	RequestType() MessageType
	ResponseType() MessageType
}
