package simulate

import "github.com/greenburghlibrary/deskcheck/pkg/core/model"

// roundRobinStrategy cycles a FIFO queue seeded once with the whole staff
// list. For each block it dequeues candidates until one is in the eligible
// pool, then sends that one to the back. Rejected candidates also go to the
// back rather than returning to the front: they are skipped for this block
// and stay away from the front until the queue cycles around. A pass that
// rejects everyone leaves the queue in its original order.
type roundRobinStrategy struct {
	queue []model.Person
}

func newRoundRobinStrategy(staff []model.Person) *roundRobinStrategy {
	queue := make([]model.Person, len(staff))
	copy(queue, staff)
	return &roundRobinStrategy{queue: queue}
}

func (s *roundRobinStrategy) Name() model.Strategy {
	return model.StrategyRoundRobin
}

func (s *roundRobinStrategy) Pick(pool []model.Person) (model.Person, bool) {
	inPool := make(map[int]bool, len(pool))
	for _, person := range pool {
		inPool[person.ID] = true
	}

	for i := 0; i < len(s.queue); i++ {
		candidate := s.queue[0]
		s.queue = append(s.queue[1:], candidate)
		if inPool[candidate.ID] {
			return candidate, true
		}
	}
	return model.Person{}, false
}
