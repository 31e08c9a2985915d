package rmw

import (
	"github.com/pkg/errors"
)

// ServiceServerIsAvailable reports whether a server of c's service is
// reachable: the request writer must match at least one subscription and
// the response reader at least one publication. The two counts are read
// one after the other, so a server that is still being discovered may be
// reported as unavailable but never the other way round.
func (node *Node) ServiceServerIsAvailable(c *Client) (bool, error) {
	if err := node.checkReady(); err != nil {
		return false, err
	}
	if err := c.checkReady(); err != nil {
		return false, err
	}
	if c.node != node {
		return false, errors.Wrap(ErrInvalidArgument, "client does not belong to node")
	}

	subs, err := c.requestWriter.MatchedSubscriptions()
	if err != nil {
		return false, transportError(err, "failed to get matched subscriptions of '%s'", c.requestTopicName)
	}
	if len(subs) == 0 {
		return false, nil
	}
	pubs, err := c.responseReader.MatchedPublications()
	if err != nil {
		return false, transportError(err, "failed to get matched publications of '%s'", c.responseTopicName)
	}
	return len(pubs) > 0, nil
}
