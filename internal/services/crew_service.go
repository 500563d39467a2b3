package services

import (
	"errors"
	"fmt"

	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"gorm.io/gorm"
)

var ErrCrewNotFound = errors.New("crew not found")

// CrewService manages crews after they have been created by submissions.
type CrewService struct {
	crewRepo repository.CrewRepository
}

// NewCrewService creates a new CrewService.
func NewCrewService(crewRepo repository.CrewRepository) *CrewService {
	return &CrewService{crewRepo: crewRepo}
}

// RenameCrew sets or clears (nil or blank) the crew name.
func (s *CrewService) RenameCrew(id string, name *string) (*models.Crew, error) {
	crew, err := s.findCrew(id)
	if err != nil {
		return nil, err
	}

	crew.Name = trimmedOrNil(name)
	if err := s.crewRepo.Update(crew); err != nil {
		return nil, fmt.Errorf("failed to update crew: %w", err)
	}

	return crew, nil
}

// DeleteCrew detaches every member and removes the crew.
func (s *CrewService) DeleteCrew(id string) error {
	if _, err := s.findCrew(id); err != nil {
		return err
	}

	if err := s.crewRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete crew: %w", err)
	}

	return nil
}

func (s *CrewService) findCrew(id string) (*models.Crew, error) {
	crew, err := s.crewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		return nil, fmt.Errorf("failed to find crew: %w", err)
	}
	return crew, nil
}
