package oracle

import (
	"errors"

	"lexi-drafting-be/pkg/apperror"
)

// Status tags how an oracle call ended.
type Status int

const (
	StatusOK Status = iota
	StatusUnavailable
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one oracle operation. Value is only meaningful when Status is StatusOK.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

func (r Result[T]) OK() bool { return r.Status == StatusOK }

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

func unavailable[T any](err error) Result[T] {
	if !errors.Is(err, apperror.ErrOracleUnavailable) {
		err = errors.Join(apperror.ErrOracleUnavailable, err)
	}
	return Result[T]{Status: StatusUnavailable, Err: err}
}

func malformed[T any](err error) Result[T] {
	return Result[T]{Status: StatusMalformed, Err: errors.Join(apperror.ErrOracleMalformedResponse, err)}
}
