package model

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// NewRandomGrid creates a grid where every cell is independently alive with
// probability density. The same seed always yields the same grid.
func NewRandomGrid(rows, cols int, density float64, seed int64) (*Grid, error) {
	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	if err = g.Randomize(density, seed); err != nil {
		return nil, err
	}
	return g, nil
}

// Randomize fills the grid with random living cells
func (g *Grid) Randomize(density float64, seed int64) error {
	if density < 0 || density > 1 {
		return errors.Wrapf(ErrInvalidArgument, "[Randomize] density must be in [0, 1], got %v", density)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	for r := range g.rows {
		for c := range g.cols {
			g.cells[r][c] = rng.Float64() < density
		}
	}
	return nil
}
