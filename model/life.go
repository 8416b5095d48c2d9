package model

import "github.com/pkg/errors"

// Neighbors returns a grid of the same shape holding, for every cell, the number
// of live cells among its up to eight adjacent cells.
func Neighbors(g *Grid) ([][]int, error) {
	if err := g.validate("Neighbors"); err != nil {
		return nil, err
	}

	counts := make([][]int, g.rows)
	for r := range g.rows {
		counts[r] = make([]int, g.cols)
		for c := range g.cols {
			counts[r][c] = g.CountNeighbors(r, c)
		}
	}
	return counts, nil
}

// Step computes the next generation of g. Every cell is updated from the input
// grid only, so all births and deaths happen simultaneously.
func Step(g *Grid) (*Grid, error) {
	if err := g.validate("Step"); err != nil {
		return nil, err
	}
	return g.NextGeneration(nil), nil
}

// Run advances a copy of g by the given number of generations and returns the
// final one. g itself is never modified.
func Run(g *Grid, cycles int) (*Grid, error) {
	return RunEach(g, cycles, nil)
}

// RunEach is Run with a callback invoked after every generation. The grid passed
// to fn is only valid for the duration of the call; Clone it to keep it. A non-nil
// error from fn stops the run and is returned.
func RunEach(g *Grid, cycles int, fn func(generation int, g *Grid) error) (*Grid, error) {
	if cycles < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "[Run] cycles must be non-negative, got %d", cycles)
	}
	if err := g.validate("Run"); err != nil {
		return nil, err
	}

	var (
		pool = NewGridPool()
		cur  = g.Clone()
	)
	for gen := 1; gen <= cycles; gen++ {
		next := cur.NextGeneration(pool)
		GridToPool(cur, pool)
		cur = next

		if fn != nil {
			if err := fn(gen, cur); err != nil {
				return nil, errors.Wrapf(err, "[Run] generation %d", gen)
			}
		}
	}
	return cur, nil
}

// Period returns the smallest p in [1, maxCycles] such that running g for p
// generations yields g again, or 0 if the pattern does not repeat within maxCycles.
func Period(g *Grid, maxCycles int) (int, error) {
	if maxCycles < 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "[Period] maxCycles must be non-negative, got %d", maxCycles)
	}
	if err := g.validate("Period"); err != nil {
		return 0, err
	}

	var (
		want   = g.Hash()
		period = 0
		found  = errors.New("period found")
	)
	_, err := RunEach(g, maxCycles, func(gen int, cur *Grid) error {
		if cur.Hash() == want && cur.Equal(g) {
			period = gen
			return found
		}
		return nil
	})
	if err != nil && errors.Cause(err) != found {
		return 0, err
	}
	return period, nil
}
