package middleware

import "github.com/aretw0/arbor/pkg/ports"

// Middleware allows wrapping a KeyValue to add behavior.
type Middleware func(ports.KeyValue) ports.KeyValue

// Chain applies middlewares so that the first one listed is the outermost.
func Chain(next ports.KeyValue, middlewares ...Middleware) ports.KeyValue {
	for i := len(middlewares) - 1; i >= 0; i-- {
		next = middlewares[i](next)
	}
	return next
}
