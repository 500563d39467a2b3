package repository

import (
	"strings"

	"github.com/mountainthreads/rental-ops/internal/database"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a new group
func (r *GormGroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// FindByID finds a group by ID with optional preloading
func (r *GormGroupRepository) FindByID(id string, preload ...string) (*models.Group, error) {
	var group models.Group
	query := r.db

	for _, p := range preload {
		switch p {
		case "Submissions":
			query = query.Preload("Submissions", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC")
			}).Preload("Submissions.Crew")
		case "Crews":
			query = query.Preload("Crews", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC")
			})
		default:
			query = query.Preload(p)
		}
	}

	if err := query.Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindBySlug finds a group by its public slug
func (r *GormGroupRepository) FindBySlug(slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// SlugExists reports whether any group already uses slug
func (r *GormGroupRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Group{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves every column of a group
func (r *GormGroupRepository) Update(group *models.Group) error {
	return r.db.Omit(clause.Associations).Save(group).Error
}

// Delete removes a group with its submissions and crews in a transaction
func (r *GormGroupRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.FormSubmission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.Crew{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Group{}).Error
	})
}

// List retrieves groups with filtering, sorting and optional pagination
func (r *GormGroupRepository) List(filter GroupFilter) ([]GroupSummary, int64, error) {
	query := r.db.Model(&models.Group{}).Scopes(database.ActiveGroups(filter.Archived))

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(leader_name) LIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = applyStageFilter(query, *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.applySort(query, filter.Sort)
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	var groups []models.Group
	if err := listQuery.Find(&groups).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	counts, err := r.CountSubmissions(ids)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]GroupSummary, len(groups))
	for i, g := range groups {
		summaries[i] = GroupSummary{Group: g, SubmissionCount: counts[g.ID]}
	}
	return summaries, total, nil
}

func applyStageFilter(query *gorm.DB, stage models.GroupStage) *gorm.DB {
	switch stage {
	case models.StageUnpaid:
		return query.Where("paid = ?", false)
	case models.StagePaid:
		return query.Where("paid = ? AND picked_up = ?", true, false)
	case models.StagePickedUp:
		return query.Where("picked_up = ? AND returned = ?", true, false)
	case models.StageReturned:
		return query.Where("returned = ?", true)
	}
	return query
}

func (r *GormGroupRepository) applySort(query *gorm.DB, sort GroupSort) *gorm.DB {
	switch sort {
	case SortOldest:
		return query.Order("created_at ASC")
	case SortNameAsc:
		return query.Order("LOWER(name) ASC").Order("created_at DESC")
	case SortNameDesc:
		return query.Order("LOWER(name) DESC").Order("created_at DESC")
	case SortDeparture:
		return query.Order("CASE WHEN rental_start_date IS NULL THEN 1 ELSE 0 END, rental_start_date ASC").
			Order("created_at DESC")
	case SortSubmissions:
		countSubQuery := r.db.Model(&models.FormSubmission{}).
			Select("COUNT(*)").
			Where("form_submissions.group_id = ?", clause.Column{Table: "groups", Name: "id"})
		return query.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "(?) DESC",
			Vars:               []interface{}{countSubQuery},
			WithoutParentheses: true,
		}}).Order("created_at DESC")
	default:
		return query.Order("created_at DESC")
	}
}

// CountSubmissions returns submission counts keyed by group ID
func (r *GormGroupRepository) CountSubmissions(groupIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		GroupID string
		Count   int64
	}
	err := r.db.Model(&models.FormSubmission{}).
		Select("group_id, COUNT(*) AS count").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.GroupID] = row.Count
	}
	return counts, nil
}

// Stats aggregates the dashboard counters
func (r *GormGroupRepository) Stats() (*GroupStats, error) {
	var stats GroupStats
	groups := func() *gorm.DB { return r.db.Model(&models.Group{}) }

	counters := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalGroups, groups()},
		{&stats.ActiveGroups, groups().Scopes(database.ActiveGroups(false))},
		{&stats.ArchivedGroups, groups().Scopes(database.ActiveGroups(true))},
		{&stats.PendingPayment, groups().Where("archived = ? AND paid = ?", false, false)},
		{&stats.PendingPickup, groups().Where("archived = ? AND paid = ? AND picked_up = ?", false, true, false)},
		{&stats.TotalSubmissions, r.db.Model(&models.FormSubmission{})},
	}

	for _, c := range counters {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
