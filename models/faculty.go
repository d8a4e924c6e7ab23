package models

import (
	"time"

	"github.com/google/uuid"
)

// Institute identifies one of the foundation's institutes
type Institute string

const (
	Institute1 Institute = "institute1"
	Institute2 Institute = "institute2"
	Institute3 Institute = "institute3"
)

// Institutes lists every valid institute
var Institutes = []Institute{Institute1, Institute2, Institute3}

// Valid reports whether i is one of the known institutes
func (i Institute) Valid() bool {
	switch i {
	case Institute1, Institute2, Institute3:
		return true
	default:
		return false
	}
}

// Faculty represents a faculty member of one of the institutes
type Faculty struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Subject    string    `json:"subject" db:"subject"`
	Email      string    `json:"email" db:"email"`
	Institute  Institute `json:"institute" db:"institute"`
	Department string    `json:"department" db:"department"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the Faculty model
func (Faculty) TableName() string {
	return "faculty"
}

// NewFaculty creates a new Faculty instance
func NewFaculty(name, subject, email string, institute Institute, department string) *Faculty {
	now := time.Now().UTC()
	return &Faculty{
		ID:         uuid.New(),
		Name:       name,
		Subject:    subject,
		Email:      email,
		Institute:  institute,
		Department: department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
