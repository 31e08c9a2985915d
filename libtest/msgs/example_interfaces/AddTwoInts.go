// Automatically generated from the interface definition "example_interfaces/srv/AddTwoInts.srv"
package example_interfaces

import (
	"github.com/edwinhayes/rmwdds/rmw"
)

// Service type metadata
type _SrvAddTwoInts struct {
	name    string
	text    string
	reqType rmw.MessageType
	resType rmw.MessageType
}

func (t *_SrvAddTwoInts) Name() string                  { return t.name }
func (t *_SrvAddTwoInts) Text() string                  { return t.text }
func (t *_SrvAddTwoInts) RequestType() rmw.MessageType  { return t.reqType }
func (t *_SrvAddTwoInts) ResponseType() rmw.MessageType { return t.resType }

var (
	SrvAddTwoInts = &_SrvAddTwoInts{
		"example_interfaces/srv/AddTwoInts",
		`int64 a
int64 b
---
int64 sum
`,
		MsgAddTwoIntsRequest,
		MsgAddTwoIntsResponse,
	}
)

type AddTwoInts struct {
	Request  AddTwoInts_Request
	Response AddTwoInts_Response
}

func (s *AddTwoInts) ReqMessage() rmw.Message { return &s.Request }
func (s *AddTwoInts) ResMessage() rmw.Message { return &s.Response }
