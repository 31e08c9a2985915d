// Automatically generated from the interface definition "example_interfaces/srv/AddTwoInts.srv"
package example_interfaces

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/rmwdds/rmw"
)

type _MsgAddTwoIntsResponse struct {
	text string
	name string
}

func (t *_MsgAddTwoIntsResponse) Text() string {
	return t.text
}

func (t *_MsgAddTwoIntsResponse) Name() string {
	return t.name
}

func (t *_MsgAddTwoIntsResponse) NewMessage() rmw.Message {
	m := new(AddTwoInts_Response)
	m.Sum = 0
	return m
}

var (
	MsgAddTwoIntsResponse = &_MsgAddTwoIntsResponse{
		`int64 sum
`,
		"example_interfaces/srv/AddTwoInts_Response",
	}
)

type AddTwoInts_Response struct {
	Sum int64 `rosmsg:"sum:int64"`
}

func (m *AddTwoInts_Response) Type() rmw.MessageType {
	return MsgAddTwoIntsResponse
}

func (m *AddTwoInts_Response) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	binary.Write(buf, binary.LittleEndian, m.Sum)
	return err
}

func (m *AddTwoInts_Response) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	if err = binary.Read(buf, binary.LittleEndian, &m.Sum); err != nil {
		return err
	}
	return err
}
