package rmw

import (
	"github.com/pkg/errors"
)

// SendRequest writes req to the service and returns the sequence number
// that its response will carry. Sequence numbers of a client start at 1 and
// increase by one per request.
func (c *Client) SendRequest(req Message) (int64, error) {
	if err := c.checkReady(); err != nil {
		return 0, err
	}
	if req == nil {
		return 0, errors.Wrap(ErrInvalidArgument, "ros request handle is null")
	}
	if err := checkMessageType(req, c.serviceType.RequestType()); err != nil {
		return 0, err
	}

	id := RequestID{WriterGUID: c.writerGUID, SequenceNumber: c.sequence.next()}
	data, err := serializeWithID(req, id)
	if err != nil {
		return 0, err
	}
	if err := c.requestWriter.Write(data); err != nil {
		return 0, transportError(err, "failed to send request on '%s'", c.requestTopicName)
	}
	c.node.context.metrics.requestSent(c.serviceName)
	c.logger.Debugf("Sent request %d", id.SequenceNumber)
	return id.SequenceNumber, nil
}

// TakeRequest removes the oldest pending request and decodes it into req.
// It reports false when no request is pending.
func (s *Service) TakeRequest(req Message) (ServiceInfo, bool, error) {
	var info ServiceInfo
	if err := s.checkReady(); err != nil {
		return info, false, err
	}
	if req == nil {
		return info, false, errors.Wrap(ErrInvalidArgument, "ros request handle is null")
	}
	if err := checkMessageType(req, s.serviceType.RequestType()); err != nil {
		return info, false, err
	}

	sample, ok := s.queue.pop()
	if !ok {
		return info, false, nil
	}
	body, id, err := splitCorrelation(sample.Data)
	if err != nil {
		return info, false, err
	}
	if err := deserializeMessage(body, req); err != nil {
		return info, false, err
	}
	info.SourceTimestamp = sample.Info.SourceTimestamp.Int64()
	info.RequestID = id
	s.node.context.metrics.requestTaken(s.serviceName)
	return info, true, nil
}

func checkMessageType(msg Message, want MessageType) error {
	if got := msg.Type().Name(); got != want.Name() {
		return errors.Wrapf(ErrInvalidArgument, "message of type '%s' where '%s' was expected", got, want.Name())
	}
	return nil
}
