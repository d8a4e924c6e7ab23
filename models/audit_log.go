package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionAdminCreated AuditAction = "admin_created"
	AuditActionAdminUpdated AuditAction = "admin_updated"
	AuditActionAdminDeleted AuditAction = "admin_deleted"
)

// AuditLog represents an audit trail entry for an administrative action
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ActorID    uuid.UUID       `json:"actorId" db:"actor_id"`
	ActorName  string          `json:"actorName" db:"actor_name"`
	Action     AuditAction     `json:"action" db:"action"`
	TargetID   uuid.UUID       `json:"targetId" db:"target_id"`
	TargetName string          `json:"targetName" db:"target_name"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"` // JSONB for flexible metadata
	RequestID  string          `json:"requestId,omitempty" db:"request_id"`
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(actorID uuid.UUID, actorName string, action AuditAction) *AuditLog {
	return &AuditLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		ActorName: actorName,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

// WithTarget sets the admin the action was applied to
func (a *AuditLog) WithTarget(targetID uuid.UUID, targetName string) *AuditLog {
	a.TargetID = targetID
	a.TargetName = targetName
	return a
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequest sets request metadata
func (a *AuditLog) WithRequest(requestID string) *AuditLog {
	a.RequestID = requestID
	return a
}
