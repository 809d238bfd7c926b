package services

import (
	"github.com/mroth/weightedrand/v2"
)

type ServiceGacha[T any] struct {
	chooser *weightedrand.Chooser[T, int]
}

func NewServiceGacha[T any](choices []weightedrand.Choice[T, int]) (*ServiceGacha[T], error) {
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	return &ServiceGacha[T]{chooser}, nil
}

func (service *ServiceGacha[T]) Pick() T {
	return service.chooser.Pick()
}

// shareMessages all take (reward, platform).
var shareMessages = []weightedrand.Choice[string, int]{
	weightedrand.NewChoice("+%d drips! Thanks for sharing on %s.", 6),
	weightedrand.NewChoice("Nice share! +%d drips for spreading the word on %s.", 3),
	weightedrand.NewChoice("You earned %d drips by sharing on %s. Keep it flowing!", 1),
}

var shareBonusMessages = []weightedrand.Choice[string, int]{
	weightedrand.NewChoice("Bonus share! +%d drips for sharing on %s.", 1),
}
