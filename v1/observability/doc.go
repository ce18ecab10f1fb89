// Package observability defines the Observer hook that infrastructure
// packages call after every remote operation.
//
// Packages accept an Observer through a WithObserver method or their fx
// params. A nil observer is always allowed.
//
//	client = client.WithObserver(observability.NewLogObserver(log))
package observability
