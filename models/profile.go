package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Roles form a closed set; anything else is rejected at registration.
const (
	RoleStudent = "student"
	RoleDonor   = "donor"
	RoleAdmin   = "admin"
)

type Profile struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string          `gorm:"uniqueIndex;not null" json:"email"`
	Password  string          `gorm:"not null" json:"-"`
	FullName  string          `json:"full_name"`
	Role      string          `gorm:"size:16;not null" json:"role"`
	School    string          `json:"school,omitempty"`
	Grade     string          `json:"grade,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	Balance   decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
