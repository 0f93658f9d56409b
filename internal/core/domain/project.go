package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the delivery state of a project.
type ProjectStatus string

const (
	ProjectUpcoming   ProjectStatus = "UPCOMING"
	ProjectStarted    ProjectStatus = "STARTED"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectPaused     ProjectStatus = "PAUSED"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectDelivered  ProjectStatus = "DELIVERED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

// Project is a client engagement. Charges is the total billed amount; IsPaid
// guards the one-shot payment split so it can never run twice.
type Project struct {
	ProjectID     string          `json:"projectID"`
	CompanyName   string          `json:"companyName"`
	ServiceIDs    []string        `json:"serviceIDs"`
	DateFrom      time.Time       `json:"dateFrom"`
	DateTo        time.Time       `json:"dateTo"`
	Location      string          `json:"location"`
	ContactPerson string          `json:"contactPerson"`
	Charges       decimal.Decimal `json:"charges"`
	Status        ProjectStatus   `json:"status"`
	IsPaid        bool            `json:"isPaid"`
	Description   string          `json:"description"`
	AuditFields
}

// Service is an offering the company sells (e.g. "Sound Engineering").
// DepartmentAccountID names the account that receives this service's share
// of the payment split; nil means the service has no revenue attribution yet.
type Service struct {
	ServiceID           string  `json:"serviceID"`
	Name                string  `json:"name"` // Unique
	DepartmentAccountID *string `json:"departmentAccountID,omitempty"`
}

// ProjectAllocation assigns a staff member to a project. (project, user) is unique.
type ProjectAllocation struct {
	AllocationID string    `json:"allocationID"`
	ProjectID    string    `json:"projectID"`
	UserID       string    `json:"userID"`
	AllocatedBy  string    `json:"allocatedBy"`
	AllocatedAt  time.Time `json:"allocatedAt"`
}
