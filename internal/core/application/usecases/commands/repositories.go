// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every command runs against the dispatch engine first; the resulting order snapshots
// and directory entries are then persisted in one unit of work.
package commands

import (
	"context"

	"workload/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// StaffRepoFactory provides access to staff repository within a transaction.
	StaffRepoFactory interface {
		StaffRepository() ports.StaffRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// StaffUoW manages transactions for staff directory operations.
	StaffUoW interface {
		TxManager
		StaffRepoFactory
	}

	// StaffUoWFactory creates new staff unit of work instances.
	StaffUoWFactory interface {
		Create() StaffUoW
	}
)
