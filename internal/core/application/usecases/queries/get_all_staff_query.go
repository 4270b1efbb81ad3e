package queries

import (
	"context"
	"errors"
	"time"

	"workload/internal/pkg/guard"
)

var ErrGetAllStaffQueryIsNotConstructed = errors.New(
	"GetAllStaffQuery must be created via NewGetAllStaffQuery constructor",
)

// GetAllStaffQuery lists every registered member with its availability and load.
type GetAllStaffQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAllStaffQuery() GetAllStaffQuery {
	return GetAllStaffQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllStaffQuery) Validate() error {
	return q.guard.Validate(ErrGetAllStaffQueryIsNotConstructed)
}

// GetAllStaffQueryResponse describes one member.
type GetAllStaffQueryResponse struct {
	ID            string
	Name          string
	Groups        []string
	LoggedIn      bool
	LoggedInAt    *time.Time
	AssignedUnits []string
}

// GetAllStaffQueryHandler answers GetAllStaffQuery.
type GetAllStaffQueryHandler struct {
	directory StaffDirectory
}

func NewGetAllStaffQueryHandler(directory StaffDirectory) GetAllStaffQueryHandler {
	return GetAllStaffQueryHandler{directory: directory}
}

// Handle returns the members sorted by id.
func (h GetAllStaffQueryHandler) Handle(ctx context.Context, query GetAllStaffQuery) ([]GetAllStaffQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	members := h.directory.Staff(ctx)
	result := make([]GetAllStaffQueryResponse, 0, len(members))
	for _, m := range members {
		resp := GetAllStaffQueryResponse{
			ID:            m.ID.String(),
			Name:          m.Name,
			Groups:        make([]string, 0, len(m.Groups)),
			LoggedIn:      m.LoggedIn,
			AssignedUnits: make([]string, 0, len(m.AssignedUnits)),
		}
		if m.LoggedIn {
			at := m.LoggedInAt
			resp.LoggedInAt = &at
		}
		for _, g := range m.Groups {
			resp.Groups = append(resp.Groups, g.String())
		}
		for _, id := range m.AssignedUnits {
			resp.AssignedUnits = append(resp.AssignedUnits, id.String())
		}
		result = append(result, resp)
	}
	return result, nil
}
