package rmw

import "sync"

// sequenceGenerator hands out request sequence numbers starting at 1.
type sequenceGenerator struct {
	last  int64
	mutex sync.Mutex
}

func (g *sequenceGenerator) next() int64 {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.last++
	return g.last
}
