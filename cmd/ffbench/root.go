package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy/contrib/workerpool"
)

// fieldFlags select the field every subcommand runs over.
type fieldFlags struct {
	elem     string
	p        uint64
	balanced bool
	seed     string
	reps     int
	workers  int
}

func (ff *fieldFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&ff.elem, "type", "float64", "element type: int32, int64 or float64")
	fs.Uint64Var(&ff.p, "p", 67108859, "prime modulus")
	fs.BoolVar(&ff.balanced, "balanced", false, "use the balanced representation (-p/2, p/2]")
	fs.StringVar(&ff.seed, "seed", "ffbench", "seed for the input stream")
	fs.IntVar(&ff.reps, "reps", 5, "timed repetitions")
	fs.IntVar(&ff.workers, "workers", 1, "worker goroutines; 0 means GOMAXPROCS")
}

// pool returns nil for a single worker so kernels run inline.
func (ff *fieldFlags) pool() *workerpool.Pool {
	if ff.workers == 1 {
		return nil
	}
	return workerpool.New(ff.workers)
}

func newField[E field.Element](ff *fieldFlags) (*field.Modular[E], error) {
	if ff.balanced {
		return field.NewModularBalanced[E](ff.p)
	}
	return field.NewModular[E](ff.p)
}

// dispatch runs the matching instantiation of a generic subcommand body.
func dispatch(ff *fieldFlags, i32 func() error, i64 func() error, f64 func() error) error {
	switch ff.elem {
	case "int32":
		return i32()
	case "int64":
		return i64()
	case "float64":
		return f64()
	default:
		return fmt.Errorf("unknown element type %q", ff.elem)
	}
}

// timeIt runs fn reps times and returns the best wall time.
func timeIt(reps int, fn func()) time.Duration {
	best := time.Duration(1<<63 - 1)
	for range max(reps, 1) {
		start := time.Now()
		fn()
		best = min(best, time.Since(start))
	}
	return best
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ffbench",
		Short:         "Benchmark finite-field linear algebra kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInfoCmd(), newSpMVCmd(), newSyrkCmd())
	return root
}
