// Package geometry maps calorimeter cell identifiers to absolute positions
// and, for region growing, to their neighbouring cells.
//
// Implementations are read-only once built and may be shared between
// goroutines processing different events.
package geometry
