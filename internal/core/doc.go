// Package core hosts matrix wizard sessions for any number of clients.
//
// It sits between the transports (the HTTP API and the terminal client) and
// the wizard package, adding what a long-running process needs around a
// single-user state machine:
//
//   - Service: creates sessions under random IDs and serializes operations
//     on each one with a per-session mutex.
//   - SessionLimiter: caps the number of sessions held in memory.
//   - Reaper: evicts idle sessions to the store (see [Service.StartReaper]).
//   - Persistence: every successful operation is saved, so a session can be
//     resumed after eviction or a restart.
//   - AuditLog: a bounded record of session lifecycle events and the
//     transformations applied, queryable with [Service.GetAuditLog].
//
// # Operations
//
// Each session operation returns a [SessionView] carrying the state, the
// matrix, the raw drafts and the notifications the operation produced:
//
//	view, err := svc.Create(ctx)
//	view, err = svc.Next(ctx, view.ID)
//	view, err = svc.Select(ctx, view.ID, 2, 2)
//	view, err = svc.QuickInput(ctx, view.ID, "[[1, 2], [3, 4]]")
//	view, err = svc.Transform(ctx, view.ID, "r2", "r1", "3", "-")
//
// A failed operation leaves the session unchanged and still returns its
// view, so clients can show the error notification next to the matrix.
//
// # Error Handling
//
// Errors are mapped to user-friendly messages using [MapError]. Codes are
// grouped by concern:
//
//   - SEL: dimension selection and indices
//   - ENT: entry parsing
//   - MAT: matrix shape and literals
//   - TRN: elementary transformations
//   - WIZ: wizard navigation
//   - SES: session lookup and capacity
//   - DB, RATE: storage and throttling
package core
