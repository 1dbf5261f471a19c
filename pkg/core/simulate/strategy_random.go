package simulate

import (
	"math/rand"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

// randomStrategy picks uniformly from the pool. Unseeded: runs are not
// reproducible, only valid.
type randomStrategy struct{}

func (s *randomStrategy) Name() model.Strategy {
	return model.StrategyRandom
}

func (s *randomStrategy) Pick(pool []model.Person) (model.Person, bool) {
	if len(pool) == 0 {
		return model.Person{}, false
	}
	return pool[rand.Intn(len(pool))], true
}
