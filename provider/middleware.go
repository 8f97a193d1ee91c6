package provider

import "slices"

// Middleware wraps a RequestResponse to add behavior around Execute.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares so the first one listed sees each call first.
// Chain(a, b)(p) is a(b(p)).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(rr RequestResponse[I, O]) RequestResponse[I, O] {
		for _, mw := range slices.Backward(middlewares) {
			rr = mw(rr)
		}
		return rr
	}
}
