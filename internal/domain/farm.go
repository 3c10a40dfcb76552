package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Farm is the tenancy unit: every operational record is scoped to one farm.
type Farm struct {
	FarmID    uuid.UUID `gorm:"column:farm_id;type:uuid;primaryKey" json:"farm_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	City      *string   `gorm:"column:city" json:"city"`
	State     *string   `gorm:"column:state" json:"state"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Farm) TableName() string {
	return "farms"
}

func (f *Farm) BeforeCreate(tx *gorm.DB) error {
	if f.FarmID == uuid.Nil {
		f.FarmID = uuid.New()
	}
	return nil
}

// FarmMember ties a user to a farm with a role (owner, manager, operator, viewer).
type FarmMember struct {
	MemberID  uuid.UUID `gorm:"column:member_id;type:uuid;primaryKey" json:"member_id"`
	FarmID    uuid.UUID `gorm:"column:farm_id;type:uuid;not null;index" json:"farm_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Role      string    `gorm:"column:role;not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (FarmMember) TableName() string {
	return "farm_members"
}

func (m *FarmMember) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	return nil
}
