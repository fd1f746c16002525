package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel mirrors the 'sessions' table. Rows past ExpiresAt are treated as absent.
type SessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"type:varchar(20);not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// All lists every model, in dependency order, for schema migration.
func All() []any {
	return []any{
		&UserModel{},
		&DsaPartnerModel{},
		&LoanApplicationModel{},
		&LeadModel{},
		&ContactQueryModel{},
		&SessionModel{},
	}
}
