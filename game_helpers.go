package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cgol/model"
	"github.com/sheikhrachel/go-cgol/storage"
	"github.com/sheikhrachel/go-cgol/utils"
)

const (
	statusActive   = "Active"
	statusStagnant = "Stagnant"
	statusExtinct  = "Extinct"
)

// session holds the state of one interactive run
type session struct {
	config   utils.Config
	in       *bufio.Reader
	out      io.Writer
	renderer *model.TerminalRenderer
	stats    *utils.Stats
}

func newSession(config utils.Config, in io.Reader, out io.Writer) *session {
	return &session{
		config:   config,
		in:       bufio.NewReader(in),
		out:      out,
		renderer: &model.TerminalRenderer{Out: out},
		stats:    utils.NewStats(),
	}
}

// prompt asks a question and returns the trimmed answer. A closed input with no
// pending text is reported as io.EOF.
func (s *session) prompt(question string) (string, error) {
	fmt.Fprint(s.out, question)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// initializeWorld asks for a random world or a file to load
func (s *session) initializeWorld() (*model.Grid, error) {
	answer, err := s.prompt("Do you want to initialize a random world? (y/n): ")
	if err != nil {
		return nil, errors.Wrap(err, "[initializeWorld] failed to read answer")
	}

	if strings.EqualFold(answer, "y") {
		answer, err = s.prompt(fmt.Sprintf("Enter the shape as 'rows cols' [%d %d]: ", s.config.Rows, s.config.Cols))
		if err != nil {
			return nil, errors.Wrap(err, "[initializeWorld] failed to read shape")
		}
		rows, cols, err := parseShape(answer, s.config.Rows, s.config.Cols)
		if err != nil {
			return nil, err
		}
		return model.NewRandomGrid(rows, cols, s.config.RandomDensity, s.config.Seed)
	}

	filename, err := s.prompt("Enter the filename to load the world from: ")
	if err != nil {
		return nil, errors.Wrap(err, "[initializeWorld] failed to read filename")
	}
	return storage.Load(filename)
}

// parseShape reads "rows cols" (or "rows,cols"). An empty answer keeps the defaults.
func parseShape(answer string, defRows, defCols int) (int, int, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool {
		return r == ' ' || r == ',' || r == 'x' || r == '\t'
	})
	if len(fields) == 0 {
		return defRows, defCols, nil
	}
	if len(fields) != 2 {
		return 0, 0, errors.Wrapf(model.ErrInvalidArgument, "[parseShape] expected 'rows cols', got %q", answer)
	}

	rows, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, errors.Wrapf(model.ErrInvalidArgument, "[parseShape] bad row count %q", fields[0])
	}
	cols, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, errors.Wrapf(model.ErrInvalidArgument, "[parseShape] bad column count %q", fields[1])
	}
	return rows, cols, nil
}

// displayGameInfo shows the initial game information
func (s *session) displayGameInfo(grid *model.Grid) {
	fmt.Fprintf(s.out, "Grid: %dx%d | Initial living cells: %d\n",
		grid.Rows(), grid.Cols(), grid.CountLivingCells())
	fmt.Fprintln(s.out, "Press Ctrl+C to stop and save")
	fmt.Fprintln(s.out)
}

// displayGameStatus shows the current generation and its population
func (s *session) displayGameStatus(generation int, grid *model.Grid, frameDuration time.Duration) {
	livingCells := grid.CountLivingCells()
	density := float64(livingCells) / float64(grid.Rows()*grid.Cols()) * 100
	s.stats.Update(generation, livingCells, frameDuration)

	fmt.Fprintf(s.out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		generation, livingCells, density, gameStatus(grid, livingCells))
	fmt.Fprintf(s.out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		s.stats.GenerationsPerSecond, s.stats.AveragePopulation, time.Since(s.stats.StartTime).Seconds())
}

// gameStatus reports Extinct for an empty world, Stagnant when the next
// generation equals this one and Active otherwise.
func gameStatus(grid *model.Grid, livingCells int) string {
	if livingCells == 0 {
		return statusExtinct
	}
	if next, err := model.Step(grid); err == nil && next.Equal(grid) {
		return statusStagnant
	}
	return statusActive
}

// loop displays and advances the world until ctx is done or the generation limit
// is hit, and returns the last computed generation. Only the current grid is kept.
func (s *session) loop(ctx context.Context, grid *model.Grid) (*model.Grid, error) {
	lastFrameTime := time.Now()

	for generation := 0; ; generation++ {
		frameStart := time.Now()
		if s.config.ClearScreen {
			if err := s.renderer.Clear(); err != nil {
				fmt.Fprintln(s.out, "Error clearing terminal:", err)
			}
		}

		s.displayGameStatus(generation, grid, frameStart.Sub(lastFrameTime))
		lastFrameTime = frameStart
		if err := s.renderer.Display(grid); err != nil {
			return grid, err
		}

		if s.config.MaxGenerations > 0 && generation >= s.config.MaxGenerations {
			fmt.Fprintf(s.out, "\nReached maximum generations limit (%d)\n", s.config.MaxGenerations)
			return grid, nil
		}
		if !sleepContext(ctx, s.config.Interval) {
			return grid, nil
		}

		next, err := model.Step(grid)
		if err != nil {
			return grid, err
		}
		grid = next
	}
}

// sleepContext waits for d and reports false if ctx finished first
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// displayFinalStats prints the summary shown after the loop stops
func (s *session) displayFinalStats() {
	fmt.Fprintln(s.out, "\nShutting down gracefully...")
	fmt.Fprintf(s.out, "Final stats: %d generations in %.1f seconds\n",
		s.stats.TotalGenerations, time.Since(s.stats.StartTime).Seconds())
	fmt.Fprintf(s.out, "Average: %.1f avg population\n", s.stats.AveragePopulation)
}

// saveWorld asks for a path and writes the grid there. An empty answer skips saving.
func (s *session) saveWorld(grid *model.Grid) error {
	filename, err := s.prompt("Enter a filename to save the world to (empty to skip): ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrap(err, "[saveWorld] failed to read filename")
	}
	if filename == "" {
		return nil
	}

	if err = storage.Save(filename, grid); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "World saved to %s\n", filename)
	return nil
}
