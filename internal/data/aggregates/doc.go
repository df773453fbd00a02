// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose table-level repos from internal/data/repos
// and own transaction boundaries for invariant-critical writes, such as
// rewriting every position of an orderable collection in one transaction.
package aggregates
