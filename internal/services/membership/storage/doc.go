// Package storage defines persistence contracts for the member registry.
//
// The protocol handler uses these interfaces so connection handling stays
// testable without a concrete SQLite schema.
package storage
