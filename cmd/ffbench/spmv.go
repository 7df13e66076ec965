package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/sampling"
	"github.com/go-ffblas/ffblas/sparse"
)

type spmvFlags struct {
	fieldFlags
	m, n, perRow int
	layout       string
}

func newSpMVCmd() *cobra.Command {
	sf := &spmvFlags{}
	cmd := &cobra.Command{
		Use:   "spmv",
		Short: "Time y += A·x for a random ELL matrix under every strategy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(&sf.fieldFlags,
				func() error { return runSpMV[int32](cmd, sf) },
				func() error { return runSpMV[int64](cmd, sf) },
				func() error { return runSpMV[float64](cmd, sf) })
		},
	}
	sf.register(cmd)
	fs := cmd.Flags()
	fs.IntVar(&sf.m, "m", 4096, "rows")
	fs.IntVar(&sf.n, "n", 4096, "columns")
	fs.IntVar(&sf.perRow, "per-row", 32, "maximum non-zeros per row")
	fs.StringVar(&sf.layout, "layout", "ell", "storage layout: ell or ellsimd")
	return cmd
}

func runSpMV[E field.Element](cmd *cobra.Command, sf *spmvFlags) error {
	f, err := newField[E](&sf.fieldFlags)
	if err != nil {
		return err
	}
	x := sampling.NewXOF([]byte(sf.seed), 0)
	rows, cols, vals := sampling.Triplets[E](f, x, sf.m, sf.n, sf.perRow)
	a, err := sparse.NewELL[E](f, rows, cols, vals, sf.m, sf.n)
	if err != nil {
		return err
	}
	defer a.Release()
	xs := sampling.Elements[E](f, x, sf.n)
	y := make([]E, sf.m)

	var run func(opts ...sparse.Option)
	switch sf.layout {
	case "ell":
		run = func(opts ...sparse.Option) { sparse.SpMV[E](f, a, xs, y, opts...) }
	case "ellsimd":
		s := sparse.ToSimd(a)
		defer s.Release()
		run = func(opts ...sparse.Option) { sparse.SpMVSimd[E](f, s, xs, y, opts...) }
	default:
		return fmt.Errorf("unknown layout %q", sf.layout)
	}

	opts := []sparse.Option{}
	if pool := sf.pool(); pool != nil {
		defer pool.Close()
		opts = append(opts, sparse.WithPool(pool))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %dx%d nnz=%d ld=%d delayed=%v layout=%s\n", f, a.M, a.N, a.NNZ, a.Ld, a.Delayed, sf.layout)
	for _, s := range []sparse.Strategy{sparse.StrategyGeneric, sparse.StrategyUnparametric, sparse.StrategyVectorized} {
		var runErr error
		d := timeIt(sf.reps, func() {
			defer func() {
				if r := recover(); r != nil {
					runErr = fmt.Errorf("%v", r)
				}
			}()
			run(append(opts, sparse.WithStrategy(s))...)
		})
		if runErr != nil {
			fmt.Fprintf(out, "  %-13s skipped: %v\n", s, runErr)
			continue
		}
		gflops := 2 * float64(a.NNZ) / d.Seconds() / 1e9
		fmt.Fprintf(out, "  %-13s %12v  %.3f Gop/s\n", s, d, gflops)
	}
	return nil
}
