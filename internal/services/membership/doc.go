// Package membership implements the swarm peer-join subsystem: role
// resolution (master vs member), the line-based JOIN protocol, and the
// member registry the master keeps.
package membership
