// Package aggregates defines domain-facing aggregate contracts and the error
// taxonomy shared by statistics aggregation and collection reordering.
//
// Contracts here avoid persistence details; they describe write boundaries
// where ordering invariants must hold atomically.
package aggregates
