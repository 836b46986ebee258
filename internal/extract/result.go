package extract

// Result is a best-effort value. A non-empty Diagnostic marks the value as
// degraded and says why.
type Result[T any] struct {
	Value      T
	Diagnostic string
}

func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

func Degraded[T any](v T, diagnostic string) Result[T] {
	return Result[T]{Value: v, Diagnostic: diagnostic}
}

func (r Result[T]) IsDegraded() bool { return r.Diagnostic != "" }
