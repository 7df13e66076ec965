package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/blas"

	"github.com/go-ffblas/ffblas/dense"
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/sampling"
)

type syrkFlags struct {
	fieldFlags
	n, k      int
	beta      int64
	upper     bool
	trans     bool
	threshold int
	budget    int64
}

func newSyrkCmd() *cobra.Command {
	sf := &syrkFlags{}
	cmd := &cobra.Command{
		Use:   "syrk",
		Short: "Time C = A·Aᵗ + beta·C, recursive against the base case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sf.threshold < 2 {
				return fmt.Errorf("threshold must be at least 2, got %d", sf.threshold)
			}
			return dispatch(&sf.fieldFlags,
				func() error { return runSyrk[int32](cmd, sf) },
				func() error { return runSyrk[int64](cmd, sf) },
				func() error { return runSyrk[float64](cmd, sf) })
		},
	}
	sf.register(cmd)
	fs := cmd.Flags()
	fs.IntVar(&sf.n, "n", 512, "order of C")
	fs.IntVar(&sf.k, "k", 512, "inner dimension")
	fs.Int64Var(&sf.beta, "beta", 0, "scale applied to the old C")
	fs.BoolVar(&sf.upper, "upper", false, "compute the upper triangle")
	fs.BoolVar(&sf.trans, "trans", false, "A is k x n and C = Aᵗ·A")
	fs.IntVar(&sf.threshold, "threshold", dense.DefaultThreshold, "recursion cutoff")
	fs.Int64Var(&sf.budget, "budget", -1, "scratch budget in bytes; negative means unlimited")
	return cmd
}

func runSyrk[E field.Element](cmd *cobra.Command, sf *syrkFlags) error {
	f, err := newField[E](&sf.fieldFlags)
	if err != nil {
		return err
	}
	uplo, trans := blas.Lower, blas.NoTrans
	if sf.upper {
		uplo = blas.Upper
	}
	rows, cols := sf.n, sf.k
	if sf.trans {
		trans = blas.Trans
		rows, cols = cols, rows
	}

	x := sampling.NewXOF([]byte(sf.seed), 1)
	a := dense.ViewOf(sampling.Matrix[E](f, x, rows, cols), rows, cols, max(cols, 1))
	c0 := sampling.Matrix[E](f, x, sf.n, sf.n)
	c := dense.NewView[E](sf.n, sf.n)
	alpha, beta := f.One(), f.Init(sf.beta)

	opts := []dense.Option{}
	var budget *dense.Budget
	if sf.budget >= 0 {
		budget = dense.NewBudget(sf.budget)
		opts = append(opts, dense.WithAllocator(budget))
	}
	if pool := sf.pool(); pool != nil {
		defer pool.Close()
		opts = append(opts, dense.WithPool(pool))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s n=%d k=%d beta=%v upper=%v trans=%v\n", f, sf.n, sf.k, beta, sf.upper, sf.trans)
	for _, threshold := range []int{max(sf.n, sf.k) + 1, sf.threshold} {
		var runErr error
		d := timeIt(sf.reps, func() {
			dense.Copy(c, dense.ViewOf(c0, sf.n, sf.n, max(sf.n, 1)))
			runErr = dense.Syrk[E](f, uplo, trans, sf.n, sf.k, alpha, a, beta, c, append(opts, dense.WithThreshold(threshold))...)
		})
		if runErr != nil {
			return runErr
		}
		label := "base case"
		if threshold == sf.threshold {
			label = fmt.Sprintf("threshold %d", threshold)
		}
		ops := float64(sf.n) * float64(sf.n+1) * float64(sf.k)
		fmt.Fprintf(out, "  %-14s %12v  %.3f Gop/s\n", label, d, ops/d.Seconds()/1e9)
	}
	if budget != nil {
		fmt.Fprintf(out, "  scratch peak   %d bytes\n", budget.Peak())
	}
	return nil
}
