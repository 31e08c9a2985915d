// Automatically generated from the interface definition "example_interfaces/msg/String.msg"
package example_interfaces

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/rmwdds/rmw"
)

type _MsgString struct {
	text string
	name string
}

func (t *_MsgString) Text() string {
	return t.text
}

func (t *_MsgString) Name() string {
	return t.name
}

func (t *_MsgString) NewMessage() rmw.Message {
	m := new(String)
	m.Data = ""
	return m
}

var (
	MsgString = &_MsgString{
		`string data
`,
		"example_interfaces/msg/String",
	}
)

type String struct {
	Data string `rosmsg:"data:string"`
}

func (m *String) Type() rmw.MessageType {
	return MsgString
}

func (m *String) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	binary.Write(buf, binary.LittleEndian, uint32(len([]byte(m.Data))))
	buf.Write([]byte(m.Data))
	return err
}

func (m *String) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	{
		var size uint32
		if err = binary.Read(buf, binary.LittleEndian, &size); err != nil {
			return err
		}
		data := make([]byte, int(size))
		if err = binary.Read(buf, binary.LittleEndian, data); err != nil {
			return err
		}
		m.Data = string(data)
	}
	return err
}
