package field

// GenericField wraps a Field so kernels treat it as CategoryGeneric: every
// accumulation goes through Axpy and Add instead of raw machine arithmetic.
// It is mostly useful to cross-check the unparametric and vectorized kernels.
type GenericField[E Element] struct {
	Field[E]
}

// AsGeneric hides the category of f.
func AsGeneric[E Element](f Field[E]) GenericField[E] {
	return GenericField[E]{Field: f}
}

// Category reports CategoryGeneric.
func (GenericField[E]) Category() Category { return CategoryGeneric }
