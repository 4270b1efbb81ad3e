// Package workunit models the unit of assignment: the subset of one order's items that
// belong to a single skill group.
//
// A WorkUnit moves through Queued -> Assigned -> Completed. An Assigned unit whose staff
// member logs out is reverted to Queued, keeping its original enqueue position so the
// dispatcher can put it back at the front of its group queue. Completed is terminal.
package workunit
