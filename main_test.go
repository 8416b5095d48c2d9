package main

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cgol/model"
	"github.com/sheikhrachel/go-cgol/storage"
	"github.com/sheikhrachel/go-cgol/utils"
)

func testConfig() utils.Config {
	config := utils.DefaultConfig()
	config.Interval = 0
	config.ClearScreen = false
	config.Seed = 11
	return config
}

func writeBlinker(t *testing.T, path string) *model.Grid {
	t.Helper()
	g, err := model.NewGrid(3, 3)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	g.AddBlinker(1, 0)
	if err = storage.Save(path, g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return g
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in         string
		rows, cols int
		wantErr    bool
	}{
		{in: "", rows: 5, cols: 5},
		{in: "3 4", rows: 3, cols: 4},
		{in: "10,20", rows: 10, cols: 20},
		{in: "7x2", rows: 7, cols: 2},
		{in: "3", wantErr: true},
		{in: "a b", wantErr: true},
		{in: "1 2 3", wantErr: true},
	}

	for _, tt := range tests {
		rows, cols, err := parseShape(tt.in, 5, 5)
		if tt.wantErr {
			if !errors.Is(err, model.ErrInvalidArgument) {
				t.Fatalf("parseShape(%q) err = %v, want ErrInvalidArgument", tt.in, err)
			}
			continue
		}
		if err != nil || rows != tt.rows || cols != tt.cols {
			t.Fatalf("parseShape(%q) = %d, %d, %v", tt.in, rows, cols, err)
		}
	}
}

func TestRunInteractiveRandomWorld(t *testing.T) {
	config := testConfig()
	config.MaxGenerations = 3
	savePath := filepath.Join(t.TempDir(), "saved.csv")

	var out bytes.Buffer
	in := strings.NewReader("y\n4 6\n" + savePath + "\n")
	if err := runInteractive(context.Background(), config, in, &out); err != nil {
		t.Fatalf("runInteractive: %v", err)
	}

	start, err := model.NewRandomGrid(4, 6, config.RandomDensity, config.Seed)
	if err != nil {
		t.Fatalf("NewRandomGrid: %v", err)
	}
	want, err := model.Run(start, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	saved, err := storage.Load(savePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !saved.Equal(want) {
		t.Fatalf("saved world:\n%s\nwant:\n%s", saved, want)
	}
	if n := strings.Count(out.String(), "Gen: "); n != 4 {
		t.Fatalf("displayed %d generations, want 4\n%s", n, out.String())
	}
}

func TestRunInteractiveLoadedWorld(t *testing.T) {
	dir := t.TempDir()
	loadPath := filepath.Join(dir, "blinker.csv")
	savePath := filepath.Join(dir, "out.csv")
	start := writeBlinker(t, loadPath)

	config := testConfig()
	config.MaxGenerations = 1

	var out bytes.Buffer
	in := strings.NewReader("n\n" + loadPath + "\n" + savePath + "\n")
	if err := runInteractive(context.Background(), config, in, &out); err != nil {
		t.Fatalf("runInteractive: %v", err)
	}

	want, _ := model.Step(start)
	saved, err := storage.Load(savePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !saved.Equal(want) {
		t.Fatalf("saved world:\n%s\nwant:\n%s", saved, want)
	}
}

func TestRunInteractiveErrors(t *testing.T) {
	config := testConfig()
	config.MaxGenerations = 1

	err := runInteractive(context.Background(), config,
		strings.NewReader("n\n"+filepath.Join(t.TempDir(), "missing.csv")+"\n"), &bytes.Buffer{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file err = %v, want fs.ErrNotExist", err)
	}

	err = runInteractive(context.Background(), config, strings.NewReader("y\n0 3\n"), &bytes.Buffer{})
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("zero rows err = %v, want ErrInvalidArgument", err)
	}

	err = runInteractive(context.Background(), config, strings.NewReader(""), &bytes.Buffer{})
	if err == nil {
		t.Fatal("closed input should fail")
	}
}

func TestRunInteractiveInterruptedDuringPrompts(t *testing.T) {
	dir := t.TempDir()
	loadPath := filepath.Join(dir, "blinker.csv")
	savePath := filepath.Join(dir, "out.csv")
	start := writeBlinker(t, loadPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	in := strings.NewReader("n\n" + loadPath + "\n" + savePath + "\n")
	if err := runInteractive(ctx, testConfig(), in, &out); err != nil {
		t.Fatalf("runInteractive: %v", err)
	}
	if strings.Contains(out.String(), "Gen: ") {
		t.Fatalf("interrupted session still drew a frame:\n%s", out.String())
	}

	saved, err := storage.Load(savePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !saved.Equal(start) {
		t.Fatalf("saved world:\n%s\nwant:\n%s", saved, start)
	}
}

func TestGameStatus(t *testing.T) {
	empty, _ := model.NewGrid(4, 4)
	block, _ := model.NewGrid(4, 4)
	block.AddBlock(1, 1)
	blinker, _ := model.NewGrid(3, 3)
	blinker.AddBlinker(1, 0)

	tests := []struct {
		name string
		grid *model.Grid
		want string
	}{
		{name: "extinct", grid: empty, want: statusExtinct},
		{name: "still life", grid: block, want: statusStagnant},
		{name: "oscillator", grid: blinker, want: statusActive},
	}
	for _, tt := range tests {
		if got := gameStatus(tt.grid, tt.grid.CountLivingCells()); got != tt.want {
			t.Fatalf("%s: gameStatus = %q, want %q", tt.name, got, tt.want)
		}
	}

	config := testConfig()
	config.MaxGenerations = 1
	var out bytes.Buffer
	s := newSession(config, strings.NewReader(""), &out)
	if _, err := s.loop(context.Background(), block); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if n := strings.Count(out.String(), "Status: "+statusStagnant); n != 2 {
		t.Fatalf("got %d stagnant status lines, want 2\n%s", n, out.String())
	}
	if n := strings.Count(out.String(), "Performance: "); n != 2 {
		t.Fatalf("got %d performance lines, want 2\n%s", n, out.String())
	}
}

func TestLoopStopsWhenCancelled(t *testing.T) {
	config := testConfig()
	s := newSession(config, strings.NewReader(""), &bytes.Buffer{})

	g, _ := model.NewGrid(3, 3)
	g.AddBlinker(1, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	last, err := s.loop(ctx, g)
	if err != nil {
		t.Fatalf("loop: %v", err)
	}
	if !last.Equal(g) {
		t.Fatalf("cancelled loop advanced the world:\n%s", last)
	}
}

func TestSaveWorldSkip(t *testing.T) {
	g, _ := model.NewGrid(2, 2)
	for _, input := range []string{"\n", ""} {
		s := newSession(testConfig(), strings.NewReader(input), &bytes.Buffer{})
		if err := s.saveWorld(g); err != nil {
			t.Fatalf("saveWorld(%q): %v", input, err)
		}
	}
}

func TestRunBatchToDir(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	var paths []string
	var starts []*model.Grid
	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		path := filepath.Join(inDir, name)
		starts = append(starts, writeBlinker(t, path))
		paths = append(paths, path)
	}

	config := testConfig()
	config.Cycles = 3
	config.OutDir = outDir
	config.Jobs = 2
	if err := runBatch(context.Background(), config, paths, &bytes.Buffer{}); err != nil {
		t.Fatalf("runBatch: %v", err)
	}

	for i, path := range paths {
		want, _ := model.Run(starts[i], 3)
		got, err := storage.Load(filepath.Join(outDir, filepath.Base(path)))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s:\n%s\nwant:\n%s", path, got, want)
		}
	}
}

func TestRunBatchToWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinker.csv")
	writeBlinker(t, path)

	config := testConfig()
	config.Cycles = 1

	var out bytes.Buffer
	if err := runBatch(context.Background(), config, []string{path}, &out); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if got, want := out.String(), "0,1,0\n0,1,0\n0,1,0\n"; got != want {
		t.Fatalf("runBatch wrote %q, want %q", got, want)
	}
}

func TestRunBatchErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	writeBlinker(t, good)

	config := testConfig()
	err := runBatch(context.Background(), config, []string{good, filepath.Join(dir, "missing.csv")}, &bytes.Buffer{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file err = %v, want fs.ErrNotExist", err)
	}

	outDir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err = os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
		writeBlinker(t, filepath.Join(dir, sub, "w.csv"))
	}
	config.OutDir = outDir
	err = runBatch(context.Background(), config,
		[]string{filepath.Join(dir, "a", "w.csv"), filepath.Join(dir, "b", "w.csv")}, &bytes.Buffer{})
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("clashing output names err = %v, want ErrInvalidArgument", err)
	}
	if entries, _ := os.ReadDir(outDir); len(entries) != 0 {
		t.Fatalf("clashing batch wrote %d files before failing", len(entries))
	}
	config.OutDir = ""

	config.Cycles = -1
	err = runBatch(context.Background(), config, []string{good}, &bytes.Buffer{})
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("negative cycles err = %v, want ErrInvalidArgument", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	config.Cycles = 5
	err = runBatch(ctx, config, []string{good}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled batch err = %v, want context.Canceled", err)
	}
}

func TestParseConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"rows": 9, "cycles": 4, "jobs": 3}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	config, rest, err := parseConfig([]string{"-config", path, "-cycles", "12", "world.csv"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if config.Rows != 9 || config.Jobs != 3 {
		t.Fatalf("file values not applied: %+v", config)
	}
	if config.Cycles != 12 {
		t.Fatalf("Cycles = %d, want flag override 12", config.Cycles)
	}
	if len(rest) != 1 || rest[0] != "world.csv" {
		t.Fatalf("positional args = %v", rest)
	}

	_, _, err = parseConfig([]string{"-config", filepath.Join(dir, "missing.json")}, &bytes.Buffer{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("explicit missing config err = %v, want fs.ErrNotExist", err)
	}
}
