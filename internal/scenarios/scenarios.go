package scenarios

import "github.com/simlin/ltm/model"

// BuildBass compiles the Bass diffusion model of spec.md S1: a
// word-of-mouth reinforcing loop (R1) competing against a
// saturation balancing loop (B1) as Adopters approaches
// TotalPopulation.
func BuildBass() (*model.Model, error) {
	const (
		contactRate      = 100.0
		adoptionFraction = 0.015
		totalPopulation  = 100000.0
	)

	b := model.NewBuilder()
	if _, err := b.DeclareStock("potential"); err != nil {
		return nil, err
	}
	if _, err := b.DeclareStock("adopters"); err != nil {
		return nil, err
	}
	_, err := b.AddFlow("adopting", func(in []float64) (float64, error) {
		potential, adopters := in[0], in[1]
		return contactRate * adoptionFraction * potential * adopters / totalPopulation, nil
	}, "potential", "adopters")
	if err != nil {
		return nil, err
	}
	if err := b.SetInitial("potential", constant(99900)); err != nil {
		return nil, err
	}
	if err := b.SetFlows("potential", nil, []string{"adopting"}, true); err != nil {
		return nil, err
	}
	if err := b.SetInitial("adopters", constant(100)); err != nil {
		return nil, err
	}
	if err := b.SetFlows("adopters", []string{"adopting"}, nil, true); err != nil {
		return nil, err
	}
	return b.Compile()
}

// BuildSmooth compiles spec.md S2: a single stock tracking a fixed
// target with first-order exponential smoothing, the textbook isolated
// balancing loop.
func BuildSmooth() (*model.Model, error) {
	const (
		tau    = 5.0
		target = 10.0
	)

	b := model.NewBuilder()
	if _, err := b.DeclareStock("s"); err != nil {
		return nil, err
	}
	_, err := b.AddFlow("adjust", func(in []float64) (float64, error) {
		return (target - in[0]) / tau, nil
	}, "s")
	if err != nil {
		return nil, err
	}
	if err := b.SetInitial("s", constant(0)); err != nil {
		return nil, err
	}
	if err := b.SetFlows("s", []string{"adjust"}, nil, false); err != nil {
		return nil, err
	}
	return b.Compile()
}

// BuildArmsRace compiles spec.md S4: three stocks, each adjusting
// toward a weighted combination of the other two. Each adjust flow
// reads all three stocks directly (no intermediate "target" variable),
// so the dependency graph's exhaustive simple-cycle set is exactly: one
// self-correction loop per stock (2 variables), one two-party loop per
// pair of stocks (4 variables), and two three-party loops, clockwise
// and counter-clockwise (6 variables) — 8 loops total, matching the
// scenario's stated exhaustive count.
func BuildArmsRace() (*model.Model, error) {
	const period = 10.0

	b := model.NewBuilder()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := b.DeclareStock(id); err != nil {
			return nil, err
		}
	}

	adjustments := []struct {
		id           string
		stock        string
		weightOther1 float64
		other1       string
		weightOther2 float64
		other2       string
	}{
		{"adjust_a", "a", 1.0, "b", 0.9, "c"},
		{"adjust_b", "b", 1.0, "a", 1.1, "c"},
		{"adjust_c", "c", 1.1, "a", 0.9, "b"},
	}
	for _, adj := range adjustments {
		w1, w2 := adj.weightOther1, adj.weightOther2
		if _, err := b.AddFlow(adj.id, func(in []float64) (float64, error) {
			self, other1, other2 := in[0], in[1], in[2]
			target := w1*other1 + w2*other2
			return (target - self) / period, nil
		}, adj.stock, adj.other1, adj.other2); err != nil {
			return nil, err
		}
	}

	initials := map[string]float64{"a": 50, "b": 100, "c": 150}
	flows := map[string]string{"a": "adjust_a", "b": "adjust_b", "c": "adjust_c"}
	for _, id := range []string{"a", "b", "c"} {
		if err := b.SetInitial(id, constant(initials[id])); err != nil {
			return nil, err
		}
		if err := b.SetFlows(id, []string{flows[id]}, nil, false); err != nil {
			return nil, err
		}
	}

	return b.Compile()
}

func constant(v float64) model.EquationFunc {
	return func(in []float64) (float64, error) { return v, nil }
}
