package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormSubmission struct {
	ID             string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	GroupID        string         `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_submission_idempotency" json:"groupId"`
	CrewID         *string        `gorm:"type:varchar(36);index" json:"crewId"`
	Email          *string        `gorm:"type:varchar(255)" json:"email"`
	IsLeader       bool           `gorm:"not null;default:false" json:"isLeader"`
	IsCrewLeader   bool           `gorm:"not null;default:false" json:"isCrewLeader"`
	PaysSeparately bool           `gorm:"not null;default:false" json:"paysSeparately"`
	Data           SubmissionData `gorm:"type:text;serializer:json" json:"data"`
	IdempotencyKey *string        `gorm:"type:varchar(64);uniqueIndex:idx_submission_idempotency" json:"-"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Relations
	Crew *Crew `gorm:"foreignKey:CrewID;constraint:OnDelete:SET NULL" json:"crew,omitempty"`
}

func (s *FormSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
