package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-cgol/model"
	"github.com/sheikhrachel/go-cgol/storage"
	"github.com/sheikhrachel/go-cgol/utils"
)

// runBatch advances every file in paths by config.Cycles generations. Files are
// independent worlds and are simulated concurrently, up to config.Jobs at a time.
// Results go to config.OutDir under the input's base name, or to out when no
// directory is set.
func runBatch(ctx context.Context, config utils.Config, paths []string, out io.Writer) error {
	if config.Cycles < 0 {
		return errors.Wrapf(model.ErrInvalidArgument, "[runBatch] cycles must be non-negative, got %d", config.Cycles)
	}

	if config.OutDir != "" {
		seen := make(map[string]string, len(paths))
		for _, path := range paths {
			base := filepath.Base(path)
			if prev, ok := seen[base]; ok {
				return errors.Wrapf(model.ErrInvalidArgument,
					"[runBatch] %s and %s would both be written to %s", prev, path, filepath.Join(config.OutDir, base))
			}
			seen[base] = path
		}
	}

	var (
		results   = make([]*model.Grid, len(paths))
		eg, egCtx = errgroup.WithContext(ctx)
	)
	eg.SetLimit(max(1, config.Jobs))

	for i, path := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			grid, err := storage.Load(path)
			if err != nil {
				return err
			}

			// Check for cancellation between generations.
			final, err := model.RunEach(grid, config.Cycles, func(int, *model.Grid) error {
				return egCtx.Err()
			})
			if err != nil {
				return errors.Wrapf(err, "[runBatch] failed to simulate %s", path)
			}

			if config.OutDir != "" {
				return storage.Save(filepath.Join(config.OutDir, filepath.Base(path)), final)
			}
			results[i] = final
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	if config.OutDir != "" {
		return nil
	}

	for i, grid := range results {
		if len(paths) > 1 {
			fmt.Fprintf(out, "# %s\n", paths[i])
		}
		if err := storage.Write(out, grid); err != nil {
			return err
		}
	}
	return nil
}
