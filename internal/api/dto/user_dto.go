package dto

import (
	"github.com/userdir/directory-service/internal/directory"
	"github.com/userdir/directory-service/internal/domain"
	"github.com/userdir/directory-service/internal/validation"
)

// UserRecordRequest is the create/edit form payload. Keys match the field
// names reported in validation errors.
type UserRecordRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Location   string `json:"location"`
	Department string `json:"department"`
}

// Input converts the payload for the validator.
func (r UserRecordRequest) Input() validation.Input {
	return validation.Input{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Role:       r.Role,
		Location:   r.Location,
		Department: r.Department,
	}
}

// UserRecordResponse renders a record row.
type UserRecordResponse struct {
	Name       string            `json:"name"`
	FirstName  string            `json:"firstName"`
	LastName   string            `json:"lastName"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Role       domain.Role       `json:"role"`
	Location   string            `json:"location"`
	Department domain.Department `json:"department"`
}

// NewUserRecordResponse builds the row for rec.
func NewUserRecordResponse(rec domain.UserRecord) UserRecordResponse {
	return UserRecordResponse{
		Name:       rec.DisplayName(),
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Role:       rec.Role,
		Location:   rec.Location,
		Department: rec.Department,
	}
}

// ViewResponse renders the current page of the directory.
type ViewResponse struct {
	Items      []UserRecordResponse `json:"items"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	Total      int                  `json:"total"`
	SearchTerm string               `json:"searchTerm"`
	RoleFilter domain.RoleFilter    `json:"roleFilter"`
}

// NewViewResponse converts an engine view.
func NewViewResponse(view directory.View) ViewResponse {
	items := make([]UserRecordResponse, 0, len(view.Items))
	for _, rec := range view.Items {
		items = append(items, NewUserRecordResponse(rec))
	}
	return ViewResponse{
		Items:      items,
		Page:       view.Page,
		TotalPages: view.TotalPages,
		Total:      view.Total,
		SearchTerm: view.SearchTerm,
		RoleFilter: view.RoleFilter,
	}
}

// StagedDeleteResponse reports the delete awaiting confirmation.
type StagedDeleteResponse struct {
	Email  string `json:"email,omitempty"`
	Staged bool   `json:"staged"`
}

// OptionsResponse lists the accepted enum values for the form selects.
type OptionsResponse struct {
	Roles       []domain.Role       `json:"roles"`
	Departments []domain.Department `json:"departments"`
	RoleFilters []domain.RoleFilter `json:"roleFilters"`
}
