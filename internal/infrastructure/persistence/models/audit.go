package models

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogModel maps one audit record. Rows are append-only, so there is no
// updated_at or version column.
type AuditLogModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Username   string     `gorm:"type:varchar(100);index"`
	PropertyID *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"type:varchar(50);not null;index"`
	Resource   string     `gorm:"type:varchar(50);not null;index"`
	ResourceID string     `gorm:"type:varchar(100)"`
	Details    string     `gorm:"type:jsonb"`
	IPAddress  string     `gorm:"type:varchar(45);index"`
	UserAgent  string     `gorm:"type:varchar(500)"`
	CreatedAt  time.Time  `gorm:"not null;index"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }

func (m *AuditLogModel) ToDomain() *audit.AuditLog {
	return &audit.AuditLog{
		ID:         m.ID,
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		Username:   m.Username,
		PropertyID: m.PropertyID,
		Action:     m.Action,
		Resource:   m.Resource,
		ResourceID: m.ResourceID,
		Details:    m.Details,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		CreatedAt:  m.CreatedAt,
	}
}

func AuditLogModelFromDomain(l *audit.AuditLog) *AuditLogModel {
	return &AuditLogModel{
		ID:         l.ID,
		TenantID:   l.TenantID,
		UserID:     l.UserID,
		Username:   l.Username,
		PropertyID: l.PropertyID,
		Action:     l.Action,
		Resource:   l.Resource,
		ResourceID: l.ResourceID,
		Details:    l.Details,
		IPAddress:  l.IPAddress,
		UserAgent:  l.UserAgent,
		CreatedAt:  l.CreatedAt,
	}
}
