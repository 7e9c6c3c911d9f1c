// Package pipeline runs the clustering engine over a stream of events.
//
// A Producer owns the clustering configuration and the shared geometry. Each
// event gets its own engine, so events can be processed concurrently with
// ProcessEvents while the geometry is only ever read.
package pipeline
