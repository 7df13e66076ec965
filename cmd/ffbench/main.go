// Command ffbench times the finite-field kernels on reproducible random
// inputs.
//
// Usage:
//
//	ffbench info
//	ffbench spmv -type float64 -p 67108859 -m 4096 -n 4096 -per-row 32
//	ffbench syrk -type int64 -p 1000003 -n 512 -k 512 -beta 1
//
// FFBLAS_NO_SIMD=1 forces the scalar lane width.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
