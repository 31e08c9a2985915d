// Automatically generated from the interface definition "example_interfaces/srv/AddTwoInts.srv"
package example_interfaces

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/rmwdds/rmw"
)

type _MsgAddTwoIntsRequest struct {
	text string
	name string
}

func (t *_MsgAddTwoIntsRequest) Text() string {
	return t.text
}

func (t *_MsgAddTwoIntsRequest) Name() string {
	return t.name
}

func (t *_MsgAddTwoIntsRequest) NewMessage() rmw.Message {
	m := new(AddTwoInts_Request)
	m.A = 0
	m.B = 0
	return m
}

var (
	MsgAddTwoIntsRequest = &_MsgAddTwoIntsRequest{
		`int64 a
int64 b
`,
		"example_interfaces/srv/AddTwoInts_Request",
	}
)

type AddTwoInts_Request struct {
	A int64 `rosmsg:"a:int64"`
	B int64 `rosmsg:"b:int64"`
}

func (m *AddTwoInts_Request) Type() rmw.MessageType {
	return MsgAddTwoIntsRequest
}

func (m *AddTwoInts_Request) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	binary.Write(buf, binary.LittleEndian, m.A)
	binary.Write(buf, binary.LittleEndian, m.B)
	return err
}

func (m *AddTwoInts_Request) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	if err = binary.Read(buf, binary.LittleEndian, &m.A); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.B); err != nil {
		return err
	}
	return err
}
