// Package sqlite provides SQLite-backed persistence for the member registry.
//
// The registry file is the single source of truth for master-side
// membership; no in-memory cache sits in front of it.
package sqlite
