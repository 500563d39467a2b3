package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupStage is the furthest lifecycle step a group has reached.
type GroupStage string

const (
	StageUnpaid   GroupStage = "unpaid"
	StagePaid     GroupStage = "paid"
	StagePickedUp GroupStage = "picked-up"
	StageReturned GroupStage = "returned"
	StageArchived GroupStage = "archived"
)

type Group struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	LeaderName      string    `gorm:"type:varchar(255)" json:"leaderName"`
	LeaderEmail     string    `gorm:"type:varchar(255)" json:"leaderEmail"`
	ExpectedSize    *int      `json:"expectedSize"`
	RentalStartDate *Date     `gorm:"type:date" json:"rentalStartDate"`
	RentalEndDate   *Date     `gorm:"type:date" json:"rentalEndDate"`
	SkiResort       *string   `gorm:"type:varchar(255)" json:"skiResort"`
	Emails          []string  `gorm:"type:text;serializer:json" json:"emails"`
	Notes           string    `gorm:"type:text" json:"notes"`
	Paid            bool      `gorm:"not null;default:false" json:"paid"`
	PickedUp        bool      `gorm:"not null;default:false" json:"pickedUp"`
	Returned        bool      `gorm:"not null;default:false" json:"returned"`
	Archived        bool      `gorm:"not null;default:false;index" json:"archived"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Relations
	Submissions []FormSubmission `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"submissions,omitempty"`
	Crews       []Crew           `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"crews,omitempty"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Emails == nil {
		g.Emails = []string{}
	}
	return nil
}

// Stage reports the lifecycle step from the status flags.
func (g *Group) Stage() GroupStage {
	switch {
	case g.Archived && !g.Returned:
		return StageArchived
	case g.Returned:
		return StageReturned
	case g.PickedUp:
		return StagePickedUp
	case g.Paid:
		return StagePaid
	default:
		return StageUnpaid
	}
}

// AcceptsSubmissions reports whether the public forms are open.
func (g *Group) AcceptsSubmissions() bool {
	return !g.Archived
}
