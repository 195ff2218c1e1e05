package models

import "time"

// VerificationStatus is the terminal outcome of a document verification
// attempt, persisted on the user row.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "PENDING"
	StatusVerified VerificationStatus = "VERIFIED"
	StatusFailed   VerificationStatus = "FAILED"
)

// Role discriminates the two account kinds that go through verification.
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
)

type Users struct {
	ID                   uint               `gorm:"primaryKey" json:"id"`
	FullName             string             `json:"full_name"`
	Email                string             `gorm:"uniqueIndex" json:"email"`
	Password             string             `json:"-"`
	Role                 Role               `json:"role"`
	College              string             `json:"college"`
	Department           string             `json:"department"`
	BatchYear            int                `json:"batch_year"`
	CurrentCompany       string             `json:"current_company,omitempty"`
	CurrentPosition      string             `json:"current_position,omitempty"`
	VerificationDocument string             `json:"verification_document,omitempty"`
	VerificationStatus   VerificationStatus `gorm:"type:varchar(20);default:PENDING" json:"verification_status"`
	IsVerified           bool               `json:"is_verified"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}
