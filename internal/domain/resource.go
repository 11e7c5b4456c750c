package domain

import "time"

// ResourceType represents the kind of allocatable item.
type ResourceType string

const (
	ResourceTypeRoom      ResourceType = "salle"
	ResourceTypeEquipment ResourceType = "materiel"
	ResourceTypeBudget    ResourceType = "budget"
	ResourceTypePersonnel ResourceType = "personnel"
	ResourceTypeTransport ResourceType = "transport"
)

// IsValid checks if the type is one of the allowed values.
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceTypeRoom, ResourceTypeEquipment, ResourceTypeBudget,
		ResourceTypePersonnel, ResourceTypeTransport:
		return true
	default:
		return false
	}
}

// ResourceStatus represents the availability of a resource.
type ResourceStatus string

const (
	ResourceStatusAvailable   ResourceStatus = "disponible"
	ResourceStatusReserved    ResourceStatus = "reserve"
	ResourceStatusInUse       ResourceStatus = "utilise"
	ResourceStatusUnavailable ResourceStatus = "indisponible"
)

// IsValid checks if the status is one of the allowed values.
func (s ResourceStatus) IsValid() bool {
	switch s {
	case ResourceStatusAvailable, ResourceStatusReserved,
		ResourceStatusInUse, ResourceStatusUnavailable:
		return true
	default:
		return false
	}
}

// Resource is a named allocatable item tied to an event. TotalCost is always
// derived as Quantity * CostPerUnit and never stored independently.
type Resource struct {
	ID          string
	EventID     string
	Name        string
	Type        ResourceType
	Quantity    float64
	Unit        string
	CostPerUnit float64
	TotalCost   float64
	Status      ResourceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
