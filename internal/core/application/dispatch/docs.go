// Package dispatch is the order dispatch and assignment engine.
//
// An Engine splits every submitted order into one work unit per skill group, queues the
// units FIFO per group and binds them to logged-in staff members of that group. Logins,
// logouts, completions and new submissions each name the groups they affect, and the
// engine re-runs assignment for exactly those groups within the same call. Nothing polls.
//
// Locking is fine-grained:
//   - every GroupQueue has its own mutex, which also guards the state of the work units
//     belonging to that group
//   - every staff member is guarded by its own mutex inside StaffAvailabilityRegistry
//   - every order is guarded by its own mutex inside OrderStatusTracker
//
// Locks are always taken in the order group queue, staff member, order. Logout releases
// the staff lock before it takes any group lock. Events are collected while locks are held
// and published to the bus only after every lock has been released.
package dispatch
