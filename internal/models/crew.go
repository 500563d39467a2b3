package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Crew groups submissions inside a Group that pay or are packed together.
type Crew struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	GroupID   string    `gorm:"type:varchar(36);not null;index" json:"groupId"`
	Name      *string   `gorm:"type:varchar(255)" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Crew) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
