// Package delivery defines the contract every transport-facing server
// (HTTP API, pub/sub worker, background sweeper) fulfills so main can
// start them uniformly.
package delivery

import "context"

// Delivery is implemented by each server the application exposes.
type Delivery interface {
	Serve(ctx context.Context) error
}
