// Package kernel provides the shared value objects of the dispatch domain.
//
// The package includes:
//   - UUID: identifier of work units, wrapping github.com/google/uuid
//   - OrderNumber: the unique, never reused identifier of an order
//   - OrderNumberSequence: a concurrency-safe, monotonic order number generator
//
// All values are immutable and their zero values are invalid, which lets
// constructors detect identifiers that were never set.
package kernel
