// Package delivery defines the contract every transport adapter implements.
package delivery

import "context"

// Delivery is a serving surface of the application (HTTP today). Instances
// are collected by fx into a group and started together.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
