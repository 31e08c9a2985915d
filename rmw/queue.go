package rmw

import (
	"container/list"
	"context"
	"errors"
	"sync"

	modular "github.com/edwinhayes/logrus-modular"

	"github.com/edwinhayes/rmwdds/dds"
)

// requestQueue buffers requests between the DDS listener thread and
// TakeRequest. The guard condition is true exactly when the queue is not
// empty; both change under mu.
type requestQueue struct {
	service string
	guard   *GuardCondition
	metrics *metrics

	mu    sync.Mutex
	items *list.List
}

func newRequestQueue(service string, m *metrics) *requestQueue {
	return &requestQueue{
		service: service,
		guard:   NewGuardCondition(),
		metrics: m,
		items:   list.New(),
	}
}

func (q *requestQueue) push(s dds.Sample) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.PushBack(s)
	if q.items.Len() == 1 {
		q.guard.SetTriggerValue(true)
	}
	q.metrics.queueDepth(q.service, q.items.Len())
}

func (q *requestQueue) pop() (dds.Sample, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	front := q.items.Front()
	if front == nil {
		return dds.Sample{}, false
	}
	q.items.Remove(front)
	if q.items.Len() == 0 {
		q.guard.SetTriggerValue(false)
	}
	q.metrics.queueDepth(q.service, q.items.Len())
	return front.Value.(dds.Sample), true
}

func (q *requestQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// requestCondition is the waiting side of a request queue's guard.
type requestCondition struct {
	queue *requestQueue
}

func (c requestCondition) TriggerValue() bool {
	c.queue.mu.Lock()
	defer c.queue.mu.Unlock()
	return c.queue.guard.TriggerValue()
}

func (c requestCondition) Wait(ctx context.Context) error {
	return c.queue.guard.Wait(ctx)
}

// requestListener moves requests from the service's reader into its
// queue as they arrive.
type requestListener struct {
	queue  *requestQueue
	logger modular.Logger
}

func (l *requestListener) OnDataAvailable(r dds.DataReader) {
	for {
		seq, err := r.Take(dds.LengthUnlimited)
		if err != nil {
			if !errors.Is(err, dds.RetcodeNoData) {
				l.logger.Errorf("failed to take requests: %v", err)
			}
			return
		}
		for _, s := range seq.Samples {
			if s.Info.ValidData {
				l.queue.push(s)
			}
		}
		if err := r.ReturnLoan(seq); err != nil {
			l.logger.Errorf("failed to return loan of requests: %v", err)
			return
		}
	}
}
