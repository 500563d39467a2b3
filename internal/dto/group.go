package dto

import (
	"strings"
	"time"

	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"github.com/mountainthreads/rental-ops/internal/utils"
)

// GroupDTO represents a rental group in API responses
type GroupDTO struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	LeaderName      string            `json:"leaderName"`
	LeaderEmail     string            `json:"leaderEmail"`
	ExpectedSize    *int              `json:"expectedSize"`
	RentalStartDate *models.Date      `json:"rentalStartDate"`
	RentalEndDate   *models.Date      `json:"rentalEndDate"`
	SkiResort       *string           `json:"skiResort"`
	Emails          []string          `json:"emails"`
	Notes           string            `json:"notes"`
	Paid            bool              `json:"paid"`
	PickedUp        bool              `json:"pickedUp"`
	Returned        bool              `json:"returned"`
	Archived        bool              `json:"archived"`
	Stage           models.GroupStage `json:"stage"`
	FormURL         string            `json:"formUrl"`
	LeaderFormURL   string            `json:"leaderFormUrl"`
	SubmissionCount int64             `json:"submissionCount"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// GroupDetailDTO is a group with its submissions and crews
type GroupDetailDTO struct {
	GroupDTO
	Submissions []SubmissionDTO `json:"submissions"`
	Crews       []CrewDTO       `json:"crews"`
}

// GroupListResponse is a page of groups
type GroupListResponse struct {
	Groups     []GroupDTO                `json:"groups"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// DashboardStatsDTO holds the dashboard counters
type DashboardStatsDTO struct {
	TotalGroups      int64      `json:"totalGroups"`
	ActiveGroups     int64      `json:"activeGroups"`
	ArchivedGroups   int64      `json:"archivedGroups"`
	PendingPayment   int64      `json:"pendingPayment"`
	PendingPickup    int64      `json:"pendingPickup"`
	TotalSubmissions int64      `json:"totalSubmissions"`
	RecentGroups     []GroupDTO `json:"recentGroups"`
}

// FormURL is the public member form link for a slug.
func FormURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/group/" + slug
}

// LeaderFormURL is the public leader form link for a slug.
func LeaderFormURL(baseURL, slug string) string {
	return FormURL(baseURL, slug) + "/leader"
}

// ToGroupDTO converts a group to DTO
func ToGroupDTO(group models.Group, submissionCount int64, baseURL string) GroupDTO {
	emails := group.Emails
	if emails == nil {
		emails = []string{}
	}

	return GroupDTO{
		ID:              group.ID,
		Name:            group.Name,
		Slug:            group.Slug,
		LeaderName:      group.LeaderName,
		LeaderEmail:     group.LeaderEmail,
		ExpectedSize:    group.ExpectedSize,
		RentalStartDate: group.RentalStartDate,
		RentalEndDate:   group.RentalEndDate,
		SkiResort:       group.SkiResort,
		Emails:          emails,
		Notes:           group.Notes,
		Paid:            group.Paid,
		PickedUp:        group.PickedUp,
		Returned:        group.Returned,
		Archived:        group.Archived,
		Stage:           group.Stage(),
		FormURL:         FormURL(baseURL, group.Slug),
		LeaderFormURL:   LeaderFormURL(baseURL, group.Slug),
		SubmissionCount: submissionCount,
		CreatedAt:       group.CreatedAt,
		UpdatedAt:       group.UpdatedAt,
	}
}

// ToGroupDetailDTO converts a group with preloaded relations to detailed DTO
func ToGroupDetailDTO(group models.Group, baseURL string) GroupDetailDTO {
	submissions := make([]SubmissionDTO, len(group.Submissions))
	for i, sub := range group.Submissions {
		submissions[i] = ToSubmissionDTO(sub)
	}

	crews := make([]CrewDTO, len(group.Crews))
	for i, crew := range group.Crews {
		crews[i] = ToCrewDTO(crew)
	}

	return GroupDetailDTO{
		GroupDTO:    ToGroupDTO(group, int64(len(group.Submissions)), baseURL),
		Submissions: submissions,
		Crews:       crews,
	}
}

// ToGroupDTOs converts list rows to DTOs
func ToGroupDTOs(rows []repository.GroupSummary, baseURL string) []GroupDTO {
	groups := make([]GroupDTO, len(rows))
	for i, row := range rows {
		groups[i] = ToGroupDTO(row.Group, row.SubmissionCount, baseURL)
	}
	return groups
}

// ToDashboardStatsDTO converts dashboard counters to DTO
func ToDashboardStatsDTO(stats repository.GroupStats, recent []repository.GroupSummary, baseURL string) DashboardStatsDTO {
	return DashboardStatsDTO{
		TotalGroups:      stats.TotalGroups,
		ActiveGroups:     stats.ActiveGroups,
		ArchivedGroups:   stats.ArchivedGroups,
		PendingPayment:   stats.PendingPayment,
		PendingPickup:    stats.PendingPickup,
		TotalSubmissions: stats.TotalSubmissions,
		RecentGroups:     ToGroupDTOs(recent, baseURL),
	}
}
