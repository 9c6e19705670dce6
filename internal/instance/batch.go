package instance

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/field"
	"dsdl-go/internal/registry"
)

// BatchOptions configures ValidateBatch.
type BatchOptions struct {
	// Workers bounds concurrent validations. Zero or less uses one per CPU.
	Workers int
	Reader  field.Reader
	Logger  *slog.Logger
}

// BatchResult is the outcome for one sample, at the sample's input index.
type BatchResult struct {
	Index    int
	Instance *Instance
	Err      error
	Warnings []errdefs.MissingFieldWarning
}

// ValidateBatch validates samples concurrently against the named struct.
// Results keep input order. A failing sample does not stop the others;
// cancelling ctx stops scheduling and marks unscheduled samples with the
// context error.
func ValidateBatch(ctx context.Context, reg *registry.Registry, name string, samples []map[string]any, mode Mode, opts BatchOptions) ([]BatchResult, error) {
	desc, err := reg.Struct(name)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Debug("validating batch", "struct", name, "samples", len(samples), "workers", workers, "mode", mode)

	results := make([]BatchResult, len(samples))
	for i := range results {
		results[i].Index = i
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, raw := range samples {
		if ctx.Err() != nil {
			for j := i; j < len(samples); j++ {
				results[j].Err = ctx.Err()
			}

			break
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			inst, err := NewFromDescriptor(reg, desc, raw, mode, WithReader(opts.Reader), WithLogger(logger))
			if err != nil {
				results[i].Err = err
				return nil
			}

			results[i].Instance = inst
			results[i].Warnings = inst.Warnings()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	logger.Info("batch validated", "struct", name, "samples", len(samples), "failed", failed)

	return results, ctx.Err()
}
