package rmw

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

// WriterGUID identifies the client that issued a request. It is generated
// per client and is unrelated to any DDS entity GUID.
type WriterGUID [16]byte

func (g WriterGUID) String() string {
	return hex.EncodeToString(g[:])
}

// RequestID correlates a response with its request.
type RequestID struct {
	WriterGUID     WriterGUID
	SequenceNumber int64
}

// ServiceInfo accompanies a taken request or response. Timestamps are in
// nanoseconds; ReceivedTimestamp is 0 when the DDS layer does not report it.
type ServiceInfo struct {
	SourceTimestamp   int64
	ReceivedTimestamp int64
	RequestID         RequestID
}

// correlationSize is the length of the suffix appended to every request
// and response body: a little-endian int64 sequence number followed by the
// 16 byte writer GUID.
const correlationSize = 8 + 16

func serializeMessage(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := msg.Serialize(&buf); err != nil {
		return nil, errors.Wrapf(ErrError, "serialize %s: %v", msg.Type().Name(), err)
	}
	return buf.Bytes(), nil
}

func deserializeMessage(data []byte, msg Message) error {
	if err := msg.Deserialize(bytes.NewReader(data)); err != nil {
		return errors.Wrapf(ErrError, "deserialize %s: %v", msg.Type().Name(), err)
	}
	return nil
}

// serializeWithID writes msg followed by the correlation suffix for id.
func serializeWithID(msg Message, id RequestID) ([]byte, error) {
	var buf bytes.Buffer
	if err := msg.Serialize(&buf); err != nil {
		return nil, errors.Wrapf(ErrError, "serialize %s: %v", msg.Type().Name(), err)
	}
	binary.Write(&buf, binary.LittleEndian, id.SequenceNumber)
	buf.Write(id.WriterGUID[:])
	return buf.Bytes(), nil
}

// splitCorrelation separates data into the message body and the
// correlation suffix.
func splitCorrelation(data []byte) ([]byte, RequestID, error) {
	var id RequestID
	if len(data) < correlationSize {
		return nil, id, errors.Wrapf(ErrError, "sample of %d bytes is too short to carry a request id", len(data))
	}
	n := len(data) - correlationSize
	suffix := bytes.NewReader(data[n:])
	if err := binary.Read(suffix, binary.LittleEndian, &id.SequenceNumber); err != nil {
		return nil, id, errors.Wrap(ErrError, err.Error())
	}
	if _, err := io.ReadFull(suffix, id.WriterGUID[:]); err != nil {
		return nil, id, errors.Wrap(ErrError, err.Error())
	}
	return data[:n], id, nil
}
