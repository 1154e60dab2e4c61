package sync

// Result is the outcome of one guarded step. Call sites that must keep
// going past a failure (per shop, per kind, per record) collect Results
// instead of letting errors escape the loop.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the step succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// attempt runs fn and captures its outcome as a Result
func attempt[T any](fn func() (T, error)) Result[T] {
	value, err := fn()
	return Result[T]{Value: value, Err: err}
}
