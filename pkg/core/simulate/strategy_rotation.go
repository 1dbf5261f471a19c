package simulate

import "github.com/greenburghlibrary/deskcheck/pkg/core/model"

// rotationStrategy keeps a single integer cursor across the whole run and
// picks pool[cursor % len(pool)]. The cursor advances once per filled block,
// not per distinct pool, so its index drifts across blocks with
// differently-sized pools.
type rotationStrategy struct {
	cursor int
}

func (s *rotationStrategy) Name() model.Strategy {
	return model.StrategyRotation
}

func (s *rotationStrategy) Pick(pool []model.Person) (model.Person, bool) {
	if len(pool) == 0 {
		return model.Person{}, false
	}
	person := pool[s.cursor%len(pool)]
	s.cursor++
	return person, true
}
