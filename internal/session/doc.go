// Package session owns the process-wide authentication state.
//
// The state machine is split in three layers:
//
//   - Reduce is a pure function from (State, Action) to State.
//   - Store is the single owned container; it applies actions one at a time and
//     notifies subscribers. Concurrent operations are not deduplicated: whichever
//     completion is dispatched last wins.
//   - Service orchestrates backend calls, dispatches pending/fulfilled/rejected
//     actions and keeps the persisted token pair in step with the state it
//     produced.
//
// Navigation is not performed here. Callers receive the authenticated user and
// choose a landing page themselves.
package session
