// Package services provides domain services that coordinate several aggregates and
// do not belong to any single one of them.
//
// The package includes:
//   - OrderSplitter: partitions an order into one work unit per skill group
//   - StaffSelector: ranks eligible staff members for the next work unit of a group
//
// Both services are stateless and deterministic, so the dispatch engine can call them
// while holding its queue locks.
package services
