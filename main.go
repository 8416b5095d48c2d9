package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cgol/utils"
)

const defaultConfigPath = "config.json"

// parseConfig loads the JSON configuration named by -config and applies the
// remaining flags on top of it. It returns the positional arguments.
func parseConfig(args []string, out io.Writer) (utils.Config, []string, error) {
	parse := func(config *utils.Config) (*flag.FlagSet, string, bool, error) {
		flags := flag.NewFlagSet("go-cgol", flag.ContinueOnError)
		flags.SetOutput(out)
		path := flags.String("config", defaultConfigPath, "JSON configuration file")
		config.Bind(flags)
		err := flags.Parse(args)

		explicit := false
		flags.Visit(func(f *flag.Flag) {
			if f.Name == "config" {
				explicit = true
			}
		})
		return flags, *path, explicit, err
	}

	config := utils.DefaultConfig()
	_, path, explicit, err := parse(&config)
	if err != nil {
		return config, nil, err
	}

	config, err = utils.LoadConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return config, nil, err
		}
		fmt.Fprintln(out, "Using default configuration (config.json not found)")
		config = utils.DefaultConfig()
	}

	flags, _, _, err := parse(&config)
	if err != nil {
		return config, nil, err
	}
	return config, flags.Args(), nil
}

// runInteractive asks for a world, shows it evolving until ctx is done, then
// offers to save the last generation.
func runInteractive(ctx context.Context, config utils.Config, in io.Reader, out io.Writer) error {
	s := newSession(config, in, out)

	grid, err := s.initializeWorld()
	if err != nil {
		return err
	}
	s.displayGameInfo(grid)

	// An interrupt while the prompts were waiting stops before the first frame.
	last := grid
	if ctx.Err() == nil {
		if last, err = s.loop(ctx, grid); err != nil {
			return err
		}
	}
	s.displayFinalStats()

	return s.saveWorld(last)
}

func run(args []string, in io.Reader, out io.Writer) error {
	config, paths, err := parseConfig(args, out)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(paths) > 0 {
		return runBatch(ctx, config, paths, out)
	}

	// Restore default Ctrl+C handling once the loop stops so the save prompt can be aborted.
	go func() {
		<-ctx.Done()
		stop()
	}()
	return runInteractive(ctx, config, in, out)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
