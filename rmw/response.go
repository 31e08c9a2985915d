package rmw

import (
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/edwinhayes/rmwdds/dds"
)

// SendResponse writes res back to the client that issued the request
// identified by id.
func (s *Service) SendResponse(id RequestID, res Message) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	if res == nil {
		return errors.Wrap(ErrInvalidArgument, "ros response handle is null")
	}
	if err := checkMessageType(res, s.serviceType.ResponseType()); err != nil {
		return err
	}

	data, err := serializeWithID(res, id)
	if err != nil {
		return err
	}
	if err := s.responseWriter.Write(data); err != nil {
		return transportError(err, "failed to send response on '%s'", s.responseTopicName)
	}
	s.node.context.metrics.responseSent(s.serviceName)
	s.logger.Debugf("Sent response %d to %s", id.SequenceNumber, id.WriterGUID)
	return nil
}

// TakeResponse takes one response sample and decodes it into res if it
// answers a request of this client. Responses addressed to other clients
// are consumed and reported as not taken.
func (c *Client) TakeResponse(res Message) (ServiceInfo, bool, error) {
	var info ServiceInfo
	if err := c.checkReady(); err != nil {
		return info, false, err
	}
	if res == nil {
		return info, false, errors.Wrap(ErrInvalidArgument, "ros response handle is null")
	}
	if err := checkMessageType(res, c.serviceType.ResponseType()); err != nil {
		return info, false, err
	}

	seq, err := c.responseReader.Take(1)
	if err != nil {
		if stderrors.Is(err, dds.RetcodeNoData) {
			return info, false, nil
		}
		return info, false, transportError(err, "failed to take response from '%s'", c.responseTopicName)
	}
	defer func() {
		if err := c.responseReader.ReturnLoan(seq); err != nil {
			c.logger.Errorf("failed to return loan of response: %v", err)
		}
	}()

	if seq.Len() == 0 {
		return info, false, nil
	}
	sample := seq.Samples[0]
	if !sample.Info.ValidData {
		return info, false, nil
	}

	body, id, err := splitCorrelation(sample.Data)
	if err != nil {
		return info, false, err
	}
	if id.WriterGUID != c.writerGUID {
		c.node.context.metrics.responseDiscarded(c.serviceName)
		return info, false, nil
	}
	if err := deserializeMessage(body, res); err != nil {
		return info, false, err
	}
	info.SourceTimestamp = sample.Info.SourceTimestamp.Int64()
	info.RequestID = id
	c.node.context.metrics.responseTaken(c.serviceName)
	return info, true, nil
}
