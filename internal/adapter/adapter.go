// Package adapter exposes the narrow surface of the local Bluetooth adapter
// used during remote service discovery.
package adapter

import (
	"context"
	"errors"
)

// ErrHostDown reports the adapter's distinguished connection-attempt failure:
// the remote device could not be reached at all. Callers check it with
// errors.Is to separate it from ordinary transport failures.
var ErrHostDown = errors.New("connection attempt failed: host is down")

// Client issues service discovery exchanges against the adapter. Every call
// maps to one request/response pair on the underlying transport.
type Client interface {
	// GetRemoteServiceHandles queries the remote device for the service
	// handles matching a category UUID.
	GetRemoteServiceHandles(ctx context.Context, address, uuid string) ([]uint32, error)

	// GetRemoteServiceRecord fetches the raw record bytes for one handle.
	GetRemoteServiceRecord(ctx context.Context, address string, handle uint32) ([]byte, error)

	// FinishRemoteServiceTransaction closes the discovery transaction for
	// the device. Called exactly once per resolution run.
	FinishRemoteServiceTransaction(ctx context.Context, address string) error
}
