// Package hcal holds the hit records produced by hadronic calorimeter
// reconstruction and consumed by clustering.
//
// Hits are owned by the event. Downstream packages refer to a hit by its
// index in the event's hit slice (HitRef) and never keep hits beyond the
// event they belong to.
package hcal
