package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mountainthreads/rental-ops/internal/constants"
	"github.com/mountainthreads/rental-ops/internal/metrics"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"github.com/mountainthreads/rental-ops/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupNameRequired    = errors.New("group name is required")
	ErrLeaderNameRequired   = errors.New("leader name is required")
	ErrLeaderEmailRequired  = errors.New("leader email is required")
	ErrInvalidLeaderEmail   = errors.New("leader email is not a valid email address")
	ErrInvalidGroupEmail    = errors.New("group emails must be valid email addresses")
	ErrInvalidExpectedSize  = errors.New("expected size must be positive")
	ErrInvalidRentalDates   = errors.New("rental end date is before the start date")
	ErrInvalidGroupStatus   = errors.New("unknown group status filter")
	ErrInvalidGroupSort     = errors.New("unknown group sort")
	ErrReturnedNotArchived  = errors.New("a returned group cannot be unarchived; clear returned or restore it")
	ErrSlugGenerationFailed = errors.New("failed to find an unused slug")
)

const maxSlugAttempts = 1000

// GroupService provides business logic for the group lifecycle.
type GroupService struct {
	groupRepo repository.GroupRepository
	metrics   *metrics.Metrics
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository, m *metrics.Metrics) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		metrics:   m,
	}
}

// CreateGroupInput represents parameters to create a new group.
type CreateGroupInput struct {
	Name            string
	LeaderName      string
	LeaderEmail     string
	Emails          []string
	ExpectedSize    *int
	Notes           string
	RentalStartDate *models.Date
	RentalEndDate   *models.Date
	SkiResort       *string
}

// UpdateGroupInput is a partial update. Nil pointers leave a field alone; the
// Clear flags null out the optional columns.
type UpdateGroupInput struct {
	Name            *string
	Notes           *string
	Paid            *bool
	PickedUp        *bool
	Returned        *bool
	Archived        *bool
	Emails          *[]string
	LeaderName      *string
	LeaderEmail     *string
	ExpectedSize    *int
	RentalStartDate *models.Date
	RentalEndDate   *models.Date
	SkiResort       *string

	ClearExpectedSize    bool
	ClearRentalStartDate bool
	ClearRentalEndDate   bool
	ClearSkiResort       bool
}

// IsEmpty reports whether the patch touches nothing.
func (in UpdateGroupInput) IsEmpty() bool {
	return in.Name == nil && in.Notes == nil && in.Paid == nil && in.PickedUp == nil &&
		in.Returned == nil && in.Archived == nil && in.Emails == nil && in.LeaderName == nil &&
		in.LeaderEmail == nil && in.ExpectedSize == nil && in.RentalStartDate == nil &&
		in.RentalEndDate == nil && in.SkiResort == nil && !in.ClearExpectedSize &&
		!in.ClearRentalStartDate && !in.ClearRentalEndDate && !in.ClearSkiResort
}

// ListGroupsInput represents filters for the group lists.
type ListGroupsInput struct {
	Archived bool
	Search   string
	Status   string
	Sort     string
	Page     int
	PageSize int
}

// DashboardStats is the staff dashboard summary.
type DashboardStats struct {
	repository.GroupStats
	RecentGroups []repository.GroupSummary
}

// CreateGroup validates the input, derives a unique slug and stores the group.
func (s *GroupService) CreateGroup(input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	leaderName := strings.TrimSpace(input.LeaderName)
	leaderEmail := strings.TrimSpace(input.LeaderEmail)

	switch {
	case name == "":
		return nil, ErrGroupNameRequired
	case leaderName == "":
		return nil, ErrLeaderNameRequired
	case leaderEmail == "":
		return nil, ErrLeaderEmailRequired
	}
	if err := validate.Var(leaderEmail, "email"); err != nil {
		return nil, ErrInvalidLeaderEmail
	}

	emails, err := normalizeEmails(input.Emails)
	if err != nil {
		return nil, err
	}
	if input.ExpectedSize != nil && *input.ExpectedSize < 1 {
		return nil, ErrInvalidExpectedSize
	}
	if datesReversed(input.RentalStartDate, input.RentalEndDate) {
		return nil, ErrInvalidRentalDates
	}

	slug, err := s.uniqueSlug(utils.GenerateSlug(name))
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:            name,
		Slug:            slug,
		LeaderName:      leaderName,
		LeaderEmail:     leaderEmail,
		Emails:          emails,
		ExpectedSize:    input.ExpectedSize,
		Notes:           utils.SanitizeText(input.Notes),
		RentalStartDate: input.RentalStartDate,
		RentalEndDate:   input.RentalEndDate,
		SkiResort:       trimmedOrNil(input.SkiResort),
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// uniqueSlug tries base, base-1, base-2 ... until one is unused.
func (s *GroupService) uniqueSlug(base string) (string, error) {
	for n := 0; n < maxSlugAttempts; n++ {
		candidate := utils.SlugCandidate(base, n)
		exists, err := s.groupRepo.SlugExists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrSlugGenerationFailed
}

// GetGroup returns a group with its submissions (newest first) and crews.
func (s *GroupService) GetGroup(id string) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(id, "Submissions", "Crews")
	if err != nil {
		return nil, mapGroupError(err)
	}
	return group, nil
}

// GetGroupBySlug returns the group behind a public form link.
func (s *GroupService) GetGroupBySlug(slug string) (*models.Group, error) {
	group, err := s.groupRepo.FindBySlug(slug)
	if err != nil {
		return nil, mapGroupError(err)
	}
	return group, nil
}

// UpdateGroup applies an allow-listed partial update. Setting returned also
// archives the group; unarchiving a group that stays returned is rejected.
func (s *GroupService) UpdateGroup(id string, input UpdateGroupInput) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		return nil, mapGroupError(err)
	}

	if input.IsEmpty() {
		return group, nil
	}

	before := group.Stage()
	if err := applyGroupPatch(group, input); err != nil {
		return nil, err
	}

	if input.Returned != nil && *input.Returned {
		group.Archived = true
	}
	if group.Returned && !group.Archived {
		return nil, ErrReturnedNotArchived
	}
	if datesReversed(group.RentalStartDate, group.RentalEndDate) {
		return nil, ErrInvalidRentalDates
	}

	if err := s.groupRepo.Update(group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	s.recordTransition(before, group.Stage())
	return group, nil
}

func applyGroupPatch(group *models.Group, input UpdateGroupInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ErrGroupNameRequired
		}
		group.Name = name
	}
	if input.LeaderName != nil {
		leaderName := strings.TrimSpace(*input.LeaderName)
		if leaderName == "" {
			return ErrLeaderNameRequired
		}
		group.LeaderName = leaderName
	}
	if input.LeaderEmail != nil {
		leaderEmail := strings.TrimSpace(*input.LeaderEmail)
		if leaderEmail == "" {
			return ErrLeaderEmailRequired
		}
		if err := validate.Var(leaderEmail, "email"); err != nil {
			return ErrInvalidLeaderEmail
		}
		group.LeaderEmail = leaderEmail
	}
	if input.Emails != nil {
		emails, err := normalizeEmails(*input.Emails)
		if err != nil {
			return err
		}
		group.Emails = emails
	}
	if input.Notes != nil {
		group.Notes = utils.SanitizeText(*input.Notes)
	}
	if input.Paid != nil {
		group.Paid = *input.Paid
	}
	if input.PickedUp != nil {
		group.PickedUp = *input.PickedUp
	}
	if input.Returned != nil {
		group.Returned = *input.Returned
	}
	if input.Archived != nil {
		group.Archived = *input.Archived
	}

	switch {
	case input.ClearExpectedSize:
		group.ExpectedSize = nil
	case input.ExpectedSize != nil:
		if *input.ExpectedSize < 1 {
			return ErrInvalidExpectedSize
		}
		group.ExpectedSize = input.ExpectedSize
	}
	switch {
	case input.ClearRentalStartDate:
		group.RentalStartDate = nil
	case input.RentalStartDate != nil:
		group.RentalStartDate = input.RentalStartDate
	}
	switch {
	case input.ClearRentalEndDate:
		group.RentalEndDate = nil
	case input.RentalEndDate != nil:
		group.RentalEndDate = input.RentalEndDate
	}
	switch {
	case input.ClearSkiResort:
		group.SkiResort = nil
	case input.SkiResort != nil:
		group.SkiResort = trimmedOrNil(input.SkiResort)
	}
	return nil
}

// ArchiveGroup closes the group's public forms.
func (s *GroupService) ArchiveGroup(id string) (*models.Group, error) {
	archived := true
	return s.UpdateGroup(id, UpdateGroupInput{Archived: &archived})
}

// RestoreGroup reopens an archived group. A returned group cannot be active,
// so restoring one also clears its returned flag.
func (s *GroupService) RestoreGroup(id string) (*models.Group, error) {
	restored := false
	return s.UpdateGroup(id, UpdateGroupInput{Archived: &restored, Returned: &restored})
}

// DeleteGroup removes a group together with its submissions and crews.
func (s *GroupService) DeleteGroup(id string) error {
	if _, err := s.groupRepo.FindByID(id); err != nil {
		return mapGroupError(err)
	}

	if err := s.groupRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	return nil
}

// ListGroups returns the active or archived groups with submission counts.
func (s *GroupService) ListGroups(input ListGroupsInput) ([]repository.GroupSummary, int64, error) {
	filter := repository.GroupFilter{
		Archived: input.Archived,
		Search:   input.Search,
		Sort:     repository.SortNewest,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Status != "" {
		stage := models.GroupStage(input.Status)
		switch stage {
		case models.StageUnpaid, models.StagePaid, models.StagePickedUp, models.StageReturned:
			filter.Status = &stage
		default:
			return nil, 0, ErrInvalidGroupStatus
		}
	}

	if input.Sort != "" {
		sort := repository.GroupSort(input.Sort)
		switch sort {
		case repository.SortNewest, repository.SortOldest, repository.SortNameAsc,
			repository.SortNameDesc, repository.SortDeparture, repository.SortSubmissions:
			filter.Sort = sort
		default:
			return nil, 0, ErrInvalidGroupSort
		}
	}

	groups, total, err := s.groupRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, total, nil
}

// SubmissionCount returns how many submissions a group has.
func (s *GroupService) SubmissionCount(id string) (int64, error) {
	counts, err := s.groupRepo.CountSubmissions([]string{id})
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return counts[id], nil
}

// DashboardStats aggregates the counters shown on the staff dashboard.
func (s *GroupService) DashboardStats() (*DashboardStats, error) {
	stats, err := s.groupRepo.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	recent, _, err := s.groupRepo.List(repository.GroupFilter{
		Sort:     repository.SortNewest,
		Page:     1,
		PageSize: constants.RecentGroupsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent groups: %w", err)
	}

	return &DashboardStats{GroupStats: *stats, RecentGroups: recent}, nil
}

func (s *GroupService) recordTransition(before, after models.GroupStage) {
	if s.metrics == nil || before == after {
		return
	}
	s.metrics.GroupTransitions.WithLabelValues(string(after)).Inc()
}

func mapGroupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGroupNotFound
	}
	return fmt.Errorf("failed to find group: %w", err)
}

func normalizeEmails(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if err := validate.Var(e, "email"); err != nil {
			return nil, ErrInvalidGroupEmail
		}
		out = append(out, e)
	}
	return out, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func datesReversed(start, end *models.Date) bool {
	return start != nil && end != nil && end.Before(start.Time)
}
