package model

import "errors"

// Rule pairs a violation predicate with the error reported when it holds.
type Rule[T any] struct {
	Violated func(T) bool
	Err      error
}

// Validate evaluates every rule against v and joins the errors of all
// violated rules. It returns nil when v satisfies the whole table.
func Validate[T any](v T, rules []Rule[T]) error {
	var errs []error
	for _, r := range rules {
		if r.Violated(v) {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
