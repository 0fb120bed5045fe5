//go:build invariants || race

package internal

// Invariants is enabled when built with the invariants or race build tags. It
// turns on the bounds and precondition assertions of the containers.
const Invariants = true
