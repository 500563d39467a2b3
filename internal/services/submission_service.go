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
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrGroupClosed          = errors.New("this group is no longer accepting submissions")
	ErrCrewNotInGroup       = errors.New("crew does not belong to this group")
	ErrNoSubmissionChanges  = errors.New("no updatable fields provided")
	ErrInvalidEmail         = errors.New("email is not a valid email address")
	ErrIdempotencyKeyLength = errors.New("idempotency key is too long")
)

// SubmissionService handles form submissions and crew assignment.
type SubmissionService struct {
	groupRepo      repository.GroupRepository
	crewRepo       repository.CrewRepository
	submissionRepo repository.SubmissionRepository
	metrics        *metrics.Metrics
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	groupRepo repository.GroupRepository,
	crewRepo repository.CrewRepository,
	submissionRepo repository.SubmissionRepository,
	m *metrics.Metrics,
) *SubmissionService {
	return &SubmissionService{
		groupRepo:      groupRepo,
		crewRepo:       crewRepo,
		submissionRepo: submissionRepo,
		metrics:        m,
	}
}

// SubmitInput is one person's form submission.
type SubmitInput struct {
	GroupID        string
	Email          *string
	Data           models.SubmissionData
	IsLeader       bool
	IsCrewLeader   bool
	CrewID         *string
	CrewName       *string
	PaysSeparately bool
	IdempotencyKey *string
}

// SubmitResult carries the stored row and whether this call created it.
type SubmitResult struct {
	Submission *models.FormSubmission
	Created    bool
}

// UpdateSubmissionInput is a partial update of a submission.
type UpdateSubmissionInput struct {
	Data           *models.SubmissionData
	CrewID         *string
	ClearCrew      bool
	PaysSeparately *bool
}

// Submit stores a submission. Leaders copy their rental details onto the
// group; crew leaders (or anyone naming a crew) open a new crew; everyone
// else may join an existing crew by id.
func (s *SubmissionService) Submit(input SubmitInput) (*SubmitResult, error) {
	group, err := s.groupRepo.FindByID(input.GroupID)
	if err != nil {
		return nil, mapGroupError(err)
	}

	if !group.AcceptsSubmissions() {
		if s.metrics != nil {
			s.metrics.RejectedSubmissions.Inc()
		}
		return nil, ErrGroupClosed
	}

	key := trimmedOrNil(input.IdempotencyKey)
	if key != nil {
		if len(*key) > constants.MaxIdempotencyKeyLength {
			return nil, ErrIdempotencyKeyLength
		}
		existing, err := s.submissionRepo.FindByIdempotencyKey(group.ID, *key)
		if err == nil {
			return &SubmitResult{Submission: existing, Created: false}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	data := input.Data
	if err := data.Validate(); err != nil {
		return nil, err
	}
	data.SizingNotes = utils.SanitizeText(data.SizingNotes)

	email := trimmedOrNil(input.Email)
	if email == nil && strings.TrimSpace(data.Email) != "" {
		e := strings.TrimSpace(data.Email)
		email = &e
	}
	if email != nil {
		if err := validate.Var(*email, "email"); err != nil {
			return nil, ErrInvalidEmail
		}
	}

	submission := &models.FormSubmission{
		GroupID:        group.ID,
		Email:          email,
		IsLeader:       input.IsLeader,
		IsCrewLeader:   input.IsCrewLeader,
		PaysSeparately: input.PaysSeparately,
		Data:           data,
		IdempotencyKey: key,
	}

	newCrew, err := s.resolveCrew(group.ID, input, submission)
	if err != nil {
		return nil, err
	}

	var rental *models.RentalDetails
	if input.IsLeader {
		rental = &models.RentalDetails{}
		if data.Rental != nil {
			rental = data.Rental
		}
	}

	if err := s.submissionRepo.Create(submission, newCrew, rental); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SubmissionsTotal.WithLabelValues(
			metrics.SubmissionRole(submission.IsLeader, submission.IsCrewLeader, submission.CrewID),
		).Inc()
		if newCrew != nil {
			s.metrics.CrewsCreated.Inc()
		}
	}

	return &SubmitResult{Submission: submission, Created: true}, nil
}

// resolveCrew applies the crew rules in order: reuse a supplied crew id,
// else open a crew for crew leaders or a named crew, else no crew.
func (s *SubmissionService) resolveCrew(groupID string, input SubmitInput, submission *models.FormSubmission) (*models.Crew, error) {
	if crewID := trimmedOrNil(input.CrewID); crewID != nil {
		crew, err := s.findCrewInGroup(*crewID, groupID)
		if err != nil {
			return nil, err
		}
		submission.CrewID = &crew.ID
		submission.Crew = crew
		return nil, nil
	}

	crewName := trimmedOrNil(input.CrewName)
	if input.IsCrewLeader || crewName != nil {
		return &models.Crew{GroupID: groupID, Name: crewName}, nil
	}

	return nil, nil
}

func (s *SubmissionService) findCrewInGroup(crewID, groupID string) (*models.Crew, error) {
	crew, err := s.crewRepo.FindByID(crewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotInGroup
		}
		return nil, fmt.Errorf("failed to find crew: %w", err)
	}
	if crew.GroupID != groupID {
		return nil, ErrCrewNotInGroup
	}
	return crew, nil
}

// UpdateSubmission edits a stored submission's data, crew or payment flag.
func (s *SubmissionService) UpdateSubmission(id string, input UpdateSubmissionInput) (*models.FormSubmission, error) {
	if input.Data == nil && input.CrewID == nil && !input.ClearCrew && input.PaysSeparately == nil {
		return nil, ErrNoSubmissionChanges
	}

	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	if input.Data != nil {
		data := *input.Data
		if err := data.Validate(); err != nil {
			return nil, err
		}
		data.SizingNotes = utils.SanitizeText(data.SizingNotes)
		submission.Data = data
	}

	switch {
	case input.ClearCrew:
		submission.CrewID = nil
		submission.Crew = nil
	case input.CrewID != nil:
		crew, err := s.findCrewInGroup(*input.CrewID, submission.GroupID)
		if err != nil {
			return nil, err
		}
		submission.CrewID = &crew.ID
		submission.Crew = crew
	}

	if input.PaysSeparately != nil {
		submission.PaysSeparately = *input.PaysSeparately
	}

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	return submission, nil
}

// DeleteSubmission removes a submission.
func (s *SubmissionService) DeleteSubmission(id string) error {
	if _, err := s.submissionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to find submission: %w", err)
	}

	if err := s.submissionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	return nil
}
