package queries

import (
	"context"
	"errors"
	"time"

	"workload/internal/pkg/guard"
)

var ErrGetQueueDepthsQueryIsNotConstructed = errors.New(
	"GetQueueDepthsQuery must be created via NewGetQueueDepthsQuery constructor",
)

// GetQueueDepthsQuery reports the backlog of every skill group queue.
type GetQueueDepthsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetQueueDepthsQuery() GetQueueDepthsQuery {
	return GetQueueDepthsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetQueueDepthsQuery) Validate() error {
	return q.guard.Validate(ErrGetQueueDepthsQueryIsNotConstructed)
}

// GetQueueDepthsQueryResponse describes one skill group queue.
type GetQueueDepthsQueryResponse struct {
	Group            string
	Depth            int
	Staffed          bool
	OldestEnqueuedAt *time.Time
}

// GetQueueDepthsQueryHandler answers GetQueueDepthsQuery.
type GetQueueDepthsQueryHandler struct {
	monitor QueueMonitor
}

func NewGetQueueDepthsQueryHandler(monitor QueueMonitor) GetQueueDepthsQueryHandler {
	return GetQueueDepthsQueryHandler{monitor: monitor}
}

// Handle returns one entry per group, sorted by group name.
func (h GetQueueDepthsQueryHandler) Handle(
	ctx context.Context,
	query GetQueueDepthsQuery,
) ([]GetQueueDepthsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	depths := h.monitor.QueueDepths(ctx)
	result := make([]GetQueueDepthsQueryResponse, 0, len(depths))
	for _, d := range depths {
		result = append(result, GetQueueDepthsQueryResponse{
			Group:            d.Group.String(),
			Depth:            d.Depth,
			Staffed:          d.Staffed,
			OldestEnqueuedAt: d.OldestEnqueuedAt,
		})
	}
	return result, nil
}
