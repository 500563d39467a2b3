package repository

import (
	"github.com/mountainthreads/rental-ops/internal/models"
)

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	// Create creates a new admin
	Create(admin *models.Admin) error

	// FindByID finds an admin by ID
	FindByID(id string) (*models.Admin, error)

	// FindByEmail finds an admin by email
	FindByEmail(email string) (*models.Admin, error)

	// Update updates an admin
	Update(admin *models.Admin) error
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// Create creates a new group
	Create(group *models.Group) error

	// FindByID finds a group by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Group, error)

	// FindBySlug finds a group by its public slug
	FindBySlug(slug string) (*models.Group, error)

	// SlugExists reports whether any group already uses slug
	SlugExists(slug string) (bool, error)

	// Update saves every column of a group
	Update(group *models.Group) error

	// Delete removes a group with its submissions and crews
	Delete(id string) error

	// List retrieves groups with filtering, sorting and optional pagination
	List(filter GroupFilter) ([]GroupSummary, int64, error)

	// CountSubmissions returns submission counts keyed by group ID
	CountSubmissions(groupIDs []string) (map[string]int64, error)

	// Stats aggregates the dashboard counters
	Stats() (*GroupStats, error)
}

// GroupSort names a supported ordering for group lists
type GroupSort string

const (
	SortNewest      GroupSort = "newest"
	SortOldest      GroupSort = "oldest"
	SortNameAsc     GroupSort = "name-asc"
	SortNameDesc    GroupSort = "name-desc"
	SortDeparture   GroupSort = "departure"
	SortSubmissions GroupSort = "submissions"
)

// GroupFilter holds filtering options for listing groups
type GroupFilter struct {
	Archived bool
	Search   string
	Status   *models.GroupStage
	Sort     GroupSort
	Page     int
	PageSize int
}

// GroupSummary is a group row together with its submission count
type GroupSummary struct {
	Group           models.Group
	SubmissionCount int64
}

// GroupStats holds the dashboard counters
type GroupStats struct {
	TotalGroups      int64
	ActiveGroups     int64
	ArchivedGroups   int64
	PendingPayment   int64
	PendingPickup    int64
	TotalSubmissions int64
}

// CrewRepository defines the interface for crew data access
type CrewRepository interface {
	// FindByID finds a crew by ID
	FindByID(id string) (*models.Crew, error)

	// Update updates a crew
	Update(crew *models.Crew) error

	// Delete detaches the crew's members and removes the crew
	Delete(id string) error
}

// SubmissionRepository defines the interface for form submission data access
type SubmissionRepository interface {
	// Create persists a submission, creating newCrew first and applying
	// rental to the owning group, all within a single transaction.
	Create(submission *models.FormSubmission, newCrew *models.Crew, rental *models.RentalDetails) error

	// FindByID finds a submission by ID with its crew
	FindByID(id string) (*models.FormSubmission, error)

	// FindByIdempotencyKey finds an earlier submission sent with the same key
	FindByIdempotencyKey(groupID, key string) (*models.FormSubmission, error)

	// Update saves a submission
	Update(submission *models.FormSubmission) error

	// Delete deletes a submission
	Delete(id string) error
}
