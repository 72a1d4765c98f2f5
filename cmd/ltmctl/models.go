package main

import (
	"fmt"

	"github.com/simlin/ltm/internal/scenarios"
	"github.com/simlin/ltm/model"
)

// buildModel resolves one of the bundled demonstration models by name
// (§10.8): bass (S1), smooth (S2), arms-race (S4).
func buildModel(name string) (*model.Model, error) {
	switch name {
	case "bass":
		return scenarios.BuildBass()
	case "smooth":
		return scenarios.BuildSmooth()
	case "arms-race":
		return scenarios.BuildArmsRace()
	default:
		return nil, fmt.Errorf("unknown --model %q (want bass, smooth, or arms-race)", name)
	}
}
