package dto

import (
	"time"

	"github.com/mountainthreads/rental-ops/internal/models"
)

// CrewDTO represents a crew in API responses
type CrewDTO struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionDTO represents a form submission in API responses
type SubmissionDTO struct {
	ID             string                `json:"id"`
	GroupID        string                `json:"groupId"`
	CrewID         *string               `json:"crewId"`
	Email          *string               `json:"email"`
	IsLeader       bool                  `json:"isLeader"`
	IsCrewLeader   bool                  `json:"isCrewLeader"`
	PaysSeparately bool                  `json:"paysSeparately"`
	Data           models.SubmissionData `json:"data"`
	Crew           *CrewDTO              `json:"crew,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// ToCrewDTO converts a crew to DTO
func ToCrewDTO(crew models.Crew) CrewDTO {
	return CrewDTO{
		ID:        crew.ID,
		GroupID:   crew.GroupID,
		Name:      crew.Name,
		CreatedAt: crew.CreatedAt,
	}
}

// ToSubmissionDTO converts a submission to DTO
func ToSubmissionDTO(sub models.FormSubmission) SubmissionDTO {
	out := SubmissionDTO{
		ID:             sub.ID,
		GroupID:        sub.GroupID,
		CrewID:         sub.CrewID,
		Email:          sub.Email,
		IsLeader:       sub.IsLeader,
		IsCrewLeader:   sub.IsCrewLeader,
		PaysSeparately: sub.PaysSeparately,
		Data:           sub.Data,
		CreatedAt:      sub.CreatedAt,
		UpdatedAt:      sub.UpdatedAt,
	}
	if sub.Crew != nil {
		crew := ToCrewDTO(*sub.Crew)
		out.Crew = &crew
	}
	return out
}
