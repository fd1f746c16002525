// Package model holds the GORM persistence models. Identifiers are UUIDv7
// values generated by the application before insert.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	MobileNumber string    `gorm:"type:varchar(20);not null"`
	City         *string   `gorm:"type:varchar(100)"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// DsaPartnerModel mirrors the 'dsa_partners' table. UserID references users.id.
type DsaPartnerModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_dsa_partners_user_id"`
	Experience      *string         `gorm:"type:varchar(100)"`
	Background      *string         `gorm:"type:text"`
	ProfilePicture  *string         `gorm:"type:varchar(500)"`
	CommissionRate  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TotalEarnings   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalLeads      int             `gorm:"not null"`
	SuccessfulLeads int             `gorm:"not null"`
	KycStatus       string          `gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (DsaPartnerModel) TableName() string {
	return "dsa_partners"
}

// DsaPartnerDetailRow is the result row of a partner joined with its user.
type DsaPartnerDetailRow struct {
	DsaPartnerModel
	Username     string
	Email        string
	FullName     string
	MobileNumber string
	City         *string
	IsActive     bool
}
