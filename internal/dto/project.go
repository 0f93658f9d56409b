package dto

import (
	"time"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines the input for creating a project.
type CreateProjectRequest struct {
	CompanyName   string          `json:"companyName" binding:"required,max=200"`
	ServiceIDs    []string        `json:"serviceIDs"`
	DateFrom      time.Time       `json:"dateFrom" binding:"required"`
	DateTo        time.Time       `json:"dateTo" binding:"required"`
	Location      string          `json:"location"`
	ContactPerson string          `json:"contactPerson"`
	Charges       decimal.Decimal `json:"charges" binding:"required"`
	Description   string          `json:"description"`
}

// UpdateProjectRequest defines the fields allowed to change on a project.
type UpdateProjectRequest struct {
	CompanyName   *string          `json:"companyName"`
	ServiceIDs    *[]string        `json:"serviceIDs"`
	DateFrom      *time.Time       `json:"dateFrom"`
	DateTo        *time.Time       `json:"dateTo"`
	Location      *string          `json:"location"`
	ContactPerson *string          `json:"contactPerson"`
	Charges       *decimal.Decimal `json:"charges"`
	Status        *string          `json:"status" binding:"omitempty,oneof=UPCOMING STARTED IN_PROGRESS PAUSED COMPLETED DELIVERED CANCELLED"`
	Description   *string          `json:"description"`
}

// ProjectResponse is the API representation of a project.
type ProjectResponse struct {
	ProjectID     string          `json:"projectID"`
	CompanyName   string          `json:"companyName"`
	ServiceIDs    []string        `json:"serviceIDs"`
	DateFrom      time.Time       `json:"dateFrom"`
	DateTo        time.Time       `json:"dateTo"`
	Location      string          `json:"location,omitempty"`
	ContactPerson string          `json:"contactPerson,omitempty"`
	Charges       decimal.Decimal `json:"charges"`
	Status        string          `json:"status"`
	IsPaid        bool            `json:"isPaid"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// AllocateTeamRequest assigns one user to a project.
type AllocateTeamRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// AllocationResponse is the API representation of a team allocation.
type AllocationResponse struct {
	AllocationID string    `json:"allocationID"`
	ProjectID    string    `json:"projectID"`
	UserID       string    `json:"userID"`
	AllocatedBy  string    `json:"allocatedBy"`
	AllocatedAt  time.Time `json:"allocatedAt"`
}

// CreateServiceRequest defines the input for adding a service offering.
type CreateServiceRequest struct {
	Name                string  `json:"name" binding:"required,max=100"`
	DepartmentAccountID *string `json:"departmentAccountID"`
}

// ServiceResponse is the API representation of a service offering.
type ServiceResponse struct {
	ServiceID           string  `json:"serviceID"`
	Name                string  `json:"name"`
	DepartmentAccountID *string `json:"departmentAccountID,omitempty"`
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status    string  `form:"status"`
	Search    string  `form:"search"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListProjectsResponse wraps a page of projects.
type ListProjectsResponse struct {
	Projects  []ProjectResponse `json:"projects"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToProjectResponse converts a domain project to its API representation.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:     p.ProjectID,
		CompanyName:   p.CompanyName,
		ServiceIDs:    p.ServiceIDs,
		DateFrom:      p.DateFrom,
		DateTo:        p.DateTo,
		Location:      p.Location,
		ContactPerson: p.ContactPerson,
		Charges:       p.Charges,
		Status:        string(p.Status),
		IsPaid:        p.IsPaid,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
	}
}

// ToProjectResponses converts a slice of domain projects.
func ToProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = ToProjectResponse(&projects[i])
	}
	return out
}

// ToAllocationResponse converts a domain allocation to its API representation.
func ToAllocationResponse(a *domain.ProjectAllocation) AllocationResponse {
	return AllocationResponse{
		AllocationID: a.AllocationID,
		ProjectID:    a.ProjectID,
		UserID:       a.UserID,
		AllocatedBy:  a.AllocatedBy,
		AllocatedAt:  a.AllocatedAt,
	}
}

// ToServiceResponse converts a domain service to its API representation.
func ToServiceResponse(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ServiceID:           s.ServiceID,
		Name:                s.Name,
		DepartmentAccountID: s.DepartmentAccountID,
	}
}

// ToServiceResponses converts a slice of domain services.
func ToServiceResponses(services []domain.Service) []ServiceResponse {
	out := make([]ServiceResponse, len(services))
	for i := range services {
		out[i] = ToServiceResponse(&services[i])
	}
	return out
}
