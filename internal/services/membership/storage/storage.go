package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates no member is registered for the given address.
var ErrNotFound = errors.New("member not found")

// Member is one registered node in the swarm.
type Member struct {
	ID      int64
	Address string
	// IsActive defaults to true at registration.
	IsActive bool
	// HasLeft is reserved for a graceful-leave flow; nothing sets it yet.
	HasLeft bool
}

// Registry persists known member addresses and their status.
//
// Implementations carry no concurrency control of their own; the server
// serializes access around the existence-check-then-insert sequence.
type Registry interface {
	// MemberExists reports whether a row exists for the address.
	MemberExists(ctx context.Context, address string) (bool, error)
	// AddMember registers a new active member for the address.
	AddMember(ctx context.Context, address string) error
	// GetMember loads the member registered for the address, or ErrNotFound.
	GetMember(ctx context.Context, address string) (Member, error)
	Close() error
}
