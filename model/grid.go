package model

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cgol/rules"
)

// ErrInvalidArgument is returned for malformed grids, negative cycle counts and
// out-of-range parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// Grid is a fixed-shape board of live/dead cells addressed by (row, col)
type Grid struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewGrid creates an all-dead grid with the given shape
func NewGrid(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "[NewGrid] shape must be positive, got %dx%d", rows, cols)
	}
	return newGrid(rows, cols), nil
}

func newGrid(rows, cols int) *Grid {
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: cells,
	}
}

// FromRows builds a grid from a rectangular slice of rows. The input is copied.
func FromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "[FromRows] grid must have at least one row and one column")
	}
	g := newGrid(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != g.cols {
			return nil, errors.Wrapf(ErrInvalidArgument, "[FromRows] row %d has %d cells, want %d", i, len(row), g.cols)
		}
		copy(g.cells[i], row)
	}
	return g, nil
}

// Rows returns the number of rows
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns
func (g *Grid) Cols() int {
	return g.cols
}

// Set sets a cell to alive (true) or dead (false). Out-of-range positions are ignored.
func (g *Grid) Set(row, col int, alive bool) {
	if row >= 0 && row < g.rows && col >= 0 && col < g.cols {
		g.cells[row][col] = alive
	}
}

// Get returns the state of a cell. Positions outside the grid are dead.
func (g *Grid) Get(row, col int) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return false
	}
	return g.cells[row][col]
}

// Reset resizes the grid and kills every cell, reusing storage where possible
func (g *Grid) Reset(rows, cols int) {
	g.rows = rows
	g.cols = cols

	if len(g.cells) != rows {
		g.cells = make([][]bool, rows)
	}
	for i := range g.cells {
		if len(g.cells[i]) != cols {
			g.cells[i] = make([]bool, cols)
		} else {
			for j := range g.cells[i] {
				g.cells[i][j] = false
			}
		}
	}
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	next := newGrid(g.rows, g.cols)
	for r := range g.rows {
		copy(next.cells[r], g.cells[r])
	}
	return next
}

// Equal reports whether both grids have the same shape and cell states
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// validate rejects nil and zero-shaped grids
func (g *Grid) validate(caller string) error {
	if g == nil {
		return errors.Wrapf(ErrInvalidArgument, "[%s] nil grid", caller)
	}
	if g.rows < 1 || g.cols < 1 || len(g.cells) != g.rows {
		return errors.Wrapf(ErrInvalidArgument, "[%s] malformed grid shape %dx%d", caller, g.rows, g.cols)
	}
	return nil
}

// CountNeighbors counts living neighbors, clamping the 3x3 window to the grid bounds.
// Positions outside the grid never contribute; there is no wraparound.
func (g *Grid) CountNeighbors(row, col int) int {
	count := 0

	minR := max(0, row-1)
	maxR := min(g.rows-1, row+1)
	minC := max(0, col-1)
	maxC := min(g.cols-1, col+1)

	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			if r == row && c == col {
				continue
			}
			if g.cells[r][c] {
				count++
			}
		}
	}

	return count
}

// NextGeneration computes the following generation into a fresh grid taken from
// pool (nil means allocate). The receiver is only read.
func (g *Grid) NextGeneration(pool *GridPool) *Grid {
	var next *Grid
	if pool != nil {
		next = pool.Get(g.rows, g.cols)
	} else {
		next = newGrid(g.rows, g.cols)
	}

	for r := range g.rows {
		for c := range g.cols {
			next.cells[r][c] = rules.Next(g.cells[r][c], g.CountNeighbors(r, c))
		}
	}

	return next
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				count++
			}
		}
	}
	return
}

// Hash returns an MD5 digest of the shape and cell states
func (g *Grid) Hash() string {
	h := md5.New()
	fmt.Fprintf(h, "%dx%d:", g.rows, g.cols)
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// String renders the grid as rows of 0/1 digits, mostly for test failures
func (g *Grid) String() string {
	var b strings.Builder
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
