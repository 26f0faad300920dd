// Package api holds the contracts shared across framepipe packages: the
// bounded ring contract, the diagnostic surface and the error taxonomy.
//
// Errors fall in three groups. Backpressure (free list empty, delivery queue
// empty or full) is never an error and is reported through ok flags and
// delivery counts. Configuration and allocation failures are returned from
// constructors. Contract violations carry ErrCodeInvalidUsage and match
// ErrInvalidUsage under errors.Is.
package api
