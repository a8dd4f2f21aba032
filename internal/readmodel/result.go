// Package readmodel loads profile rows for the console pages and reports
// whether a load found data, found nothing, or failed.
package readmodel

// Status distinguishes an empty result from a failed one.
type Status int

const (
	Loaded Status = iota
	Empty
	Failed
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	default:
		return "failed"
	}
}

// Result is the outcome of one read.
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
}

func loaded[T any](data T) Result[T] {
	return Result[T]{Status: Loaded, Data: data}
}

func empty[T any]() Result[T] {
	return Result[T]{Status: Empty}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Status: Failed, Err: err}
}

func (r Result[T]) Loaded() bool { return r.Status == Loaded }
func (r Result[T]) Empty() bool  { return r.Status == Empty }
func (r Result[T]) Failed() bool { return r.Status == Failed }
