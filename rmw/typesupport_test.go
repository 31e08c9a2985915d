package rmw

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestCorrelationSuffix(t *testing.T) {
	id := RequestID{SequenceNumber: 0x0102030405060708}
	for i := range id.WriterGUID {
		id.WriterGUID[i] = byte(0xa0 + i)
	}
	data, err := serializeWithID(request(42), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 8+correlationSize {
		t.Fatalf("expected %d bytes but %d", 8+correlationSize, len(data))
	}
	if seq := int64(binary.LittleEndian.Uint64(data[8:16])); seq != id.SequenceNumber {
		t.Errorf("sequence number %x", seq)
	}
	if WriterGUID(data[16:32]) != id.WriterGUID {
		t.Errorf("writer guid %x", data[16:32])
	}

	body, got, err := splitCorrelation(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("expected %+v but %+v", id, got)
	}
	msg := request(0)
	if err := deserializeMessage(body, msg); err != nil {
		t.Fatal(err)
	}
	if msg.Data != 42 {
		t.Error(msg.Data)
	}
}

func TestSplitCorrelationRejectsShortSamples(t *testing.T) {
	_, _, err := splitCorrelation(make([]byte, correlationSize-1))
	if !errors.Is(err, ErrError) {
		t.Error(err)
	}

	body, _, err := splitCorrelation(make([]byte, correlationSize))
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 0 {
		t.Error(body)
	}
}

func TestSplitCorrelationLeavesTruncatedBody(t *testing.T) {
	// Only the suffix is present so the body cannot be decoded.
	body, _, err := splitCorrelation(make([]byte, correlationSize))
	if err != nil {
		t.Fatal(err)
	}
	err = deserializeMessage(body, request(0))
	if !errors.Is(err, ErrError) {
		t.Error(err)
	}
}

func TestWriterGUIDString(t *testing.T) {
	var g WriterGUID
	g[0] = 0xab
	g[15] = 0x01
	if s := g.String(); s != "ab000000000000000000000000000001" {
		t.Error(s)
	}
}
