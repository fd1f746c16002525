package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanApplicationModel mirrors the 'loan_applications' table.
type LoanApplicationModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID         *uuid.UUID       `gorm:"type:uuid;index"`
	LoanType       string           `gorm:"type:varchar(50);not null"`
	Amount         *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Tenure         *int
	MonthlyIncome  *decimal.Decimal `gorm:"type:decimal(14,2)"`
	EmploymentType *string          `gorm:"type:varchar(50)"`
	Purpose        *string          `gorm:"type:text"`
	Documents      []string         `gorm:"type:jsonb;serializer:json"`
	InterestRate   decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	Status         string           `gorm:"type:varchar(20);not null"`
	AssignedDsaID  *uuid.UUID       `gorm:"type:uuid;index"`
	Remarks        *string          `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (LoanApplicationModel) TableName() string {
	return "loan_applications"
}

// LeadModel mirrors the 'leads' table.
type LeadModel struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name          string           `gorm:"type:varchar(255);not null"`
	MobileNumber  string           `gorm:"type:varchar(20);not null;index"`
	Email         *string          `gorm:"type:varchar(255)"`
	LoanType      string           `gorm:"type:varchar(50);not null"`
	Amount        *decimal.Decimal `gorm:"type:decimal(14,2)"`
	City          *string          `gorm:"type:varchar(100)"`
	Source        string           `gorm:"type:varchar(50);not null"`
	Status        string           `gorm:"type:varchar(20);not null"`
	AssignedDsaID *uuid.UUID       `gorm:"type:uuid;index"`
	AssignedAt    *time.Time
	ConvertedAt   *time.Time
	Remarks       *string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (LeadModel) TableName() string {
	return "leads"
}

// ContactQueryModel mirrors the 'contact_queries' table.
type ContactQueryModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	MobileNumber string    `gorm:"type:varchar(20);not null"`
	Email        *string   `gorm:"type:varchar(255)"`
	LoanType     *string   `gorm:"type:varchar(50)"`
	Message      string    `gorm:"type:text;not null"`
	Status       string    `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ContactQueryModel) TableName() string {
	return "contact_queries"
}
