package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ffblas/ffblas/delayed"
	"github.com/go-ffblas/ffblas/dense"
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

func newInfoCmd() *cobra.Command {
	ff := &fieldFlags{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print dispatch level, lane counts and field bounds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dispatch level: %s\n", hwy.CurrentLevel())
			fmt.Fprintf(out, "Vector width:   %d bytes\n", hwy.CurrentWidth())
			fmt.Fprintf(out, "Cache line:     %d bytes\n", hwy.CacheLineSize)
			fmt.Fprintf(out, "Lanes:          int32=%d int64=%d float64=%d\n",
				hwy.MaxLanes[int32](), hwy.MaxLanes[int64](), hwy.MaxLanes[float64]())
			if hwy.NoSimdEnv() {
				fmt.Fprintln(out, "FFBLAS_NO_SIMD is set")
			}
			return dispatch(ff,
				func() error { return fieldInfo[int32](cmd, ff) },
				func() error { return fieldInfo[int64](cmd, ff) },
				func() error { return fieldInfo[float64](cmd, ff) })
		},
	}
	ff.register(cmd)
	return cmd
}

func fieldInfo[E field.Element](cmd *cobra.Command, ff *fieldFlags) error {
	f, err := newField[E](ff)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Field:          %s\n", f)
	fmt.Fprintf(out, "Elements:       [%v, %v]\n", f.MinElement(), f.MaxElement())
	fmt.Fprintf(out, "kmax:           %d\n", delayed.Bound[E](f))
	x, y, ok := dense.SkewPair[E](f)
	if ok {
		fmt.Fprintf(out, "Skew pair:      x=%v y=%v\n", x, y)
	} else {
		fmt.Fprintln(out, "Skew pair:      none, Syrk stays on the base case")
	}
	return nil
}
