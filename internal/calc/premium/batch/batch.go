// Package batch sizes many cable runs at once.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/calcerr"
)

const maxItems = 1000

type Input struct {
	Items []cable.Input `json:"items"`
}

type Result struct {
	Results []cable.Result `json:"results"`
	// Items whose size ladder ran out
	BoundsExceeded int `json:"bounds_exceeded"`
}

// Calculate sizes every item concurrently. Results keep input order and the
// first invalid item fails the whole batch.
func Calculate(ctx context.Context, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, calcerr.Invalid("items", "at least one item is required")
	}
	if len(in.Items) > maxItems {
		return Result{}, calcerr.Invalid("items", fmt.Sprintf("at most %d items per batch", maxItems))
	}

	out := make([]cable.Result, len(in.Items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, item := range in.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := cable.Calculate(item)
			if err != nil {
				return scoped(i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Results: out}
	for _, r := range out {
		if errors.Is(r.Err(), calcerr.ErrBoundsExceeded) {
			res.BoundsExceeded++
		}
	}
	return res, nil
}

func scoped(i int, err error) error {
	var inv *calcerr.InvalidInputError
	if errors.As(err, &inv) {
		return calcerr.Invalid(fmt.Sprintf("items[%d].%s", i, inv.Field), inv.Reason)
	}
	return fmt.Errorf("items[%d]: %w", i, err)
}
