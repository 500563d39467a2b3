package repository

import (
	"github.com/mountainthreads/rental-ops/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Create persists a submission together with an optional new crew and the
// leader's rental details in one transaction.
func (r *GormSubmissionRepository) Create(submission *models.FormSubmission, newCrew *models.Crew, rental *models.RentalDetails) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if newCrew != nil {
			if err := tx.Create(newCrew).Error; err != nil {
				return err
			}
			submission.CrewID = &newCrew.ID
		}

		if rental != nil {
			if err := tx.Model(&models.Group{}).
				Where("id = ?", submission.GroupID).
				Updates(map[string]interface{}{
					"rental_start_date": rental.StartDate,
					"rental_end_date":   rental.EndDate,
					"ski_resort":        rental.SkiResort,
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(submission).Error; err != nil {
			return err
		}

		if newCrew != nil {
			submission.Crew = newCrew
		}
		return nil
	})
}

func (r *GormSubmissionRepository) FindByID(id string) (*models.FormSubmission, error) {
	var submission models.FormSubmission
	if err := r.db.Preload("Crew").Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *GormSubmissionRepository) FindByIdempotencyKey(groupID, key string) (*models.FormSubmission, error) {
	var submission models.FormSubmission
	if err := r.db.Preload("Crew").
		Where("group_id = ? AND idempotency_key = ?", groupID, key).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *GormSubmissionRepository) Update(submission *models.FormSubmission) error {
	return r.db.Omit(clause.Associations).Save(submission).Error
}

func (r *GormSubmissionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.FormSubmission{}).Error
}
