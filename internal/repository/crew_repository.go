package repository

import (
	"github.com/mountainthreads/rental-ops/internal/models"
	"gorm.io/gorm"
)

// GormCrewRepository is a GORM implementation of CrewRepository
type GormCrewRepository struct {
	db *gorm.DB
}

// NewCrewRepository creates a new CrewRepository
func NewCrewRepository(db *gorm.DB) CrewRepository {
	return &GormCrewRepository{db: db}
}

func (r *GormCrewRepository) FindByID(id string) (*models.Crew, error) {
	var crew models.Crew
	if err := r.db.Where("id = ?", id).First(&crew).Error; err != nil {
		return nil, err
	}
	return &crew, nil
}

func (r *GormCrewRepository) Update(crew *models.Crew) error {
	return r.db.Save(crew).Error
}

// Delete detaches the crew's members and removes the crew in a transaction
func (r *GormCrewRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FormSubmission{}).
			Where("crew_id = ?", id).
			Update("crew_id", nil).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Crew{}).Error
	})
}
