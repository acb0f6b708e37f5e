package audit

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Common audit actions
const (
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLogout      = "logout"
	ActionExport      = "export"
	ActionGrant       = "grant"
	ActionRevoke      = "revoke"
)

// AuditLog is a single append-only record of who did what. Rows are never
// updated or deleted once written.
type AuditLog struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	UserID     *uuid.UUID
	Username   string
	PropertyID *uuid.UUID
	Action     string
	Resource   string
	ResourceID string
	Details    string // JSON blob with action-specific context
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// NewAuditLog creates an audit record for an action on a resource
func NewAuditLog(tenantID uuid.UUID, action, resource string) (*AuditLog, error) {
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Audit action cannot be empty")
	}
	if len(action) > 50 {
		return nil, shared.NewDomainError("INVALID_ACTION", "Audit action cannot exceed 50 characters")
	}
	if resource == "" {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Audit resource cannot be empty")
	}
	if len(resource) > 50 {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Audit resource cannot exceed 50 characters")
	}

	return &AuditLog{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Action:    action,
		Resource:  resource,
		CreatedAt: time.Now(),
	}, nil
}

// WithUser attaches the acting user
func (l *AuditLog) WithUser(userID uuid.UUID, username string) *AuditLog {
	l.UserID = &userID
	l.Username = username
	return l
}

// WithProperty attaches the property the action touched
func (l *AuditLog) WithProperty(propertyID uuid.UUID) *AuditLog {
	l.PropertyID = &propertyID
	return l
}

// WithResourceID attaches the affected resource's identifier
func (l *AuditLog) WithResourceID(resourceID string) *AuditLog {
	l.ResourceID = resourceID
	return l
}

// WithDetails attaches a JSON details blob
func (l *AuditLog) WithDetails(details string) *AuditLog {
	l.Details = details
	return l
}

// WithRequest attaches request metadata
func (l *AuditLog) WithRequest(ip, userAgent string) *AuditLog {
	l.IPAddress = ip
	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}
	l.UserAgent = userAgent
	return l
}

// IsFailedLogin reports whether the record is a failed login attempt
func (l *AuditLog) IsFailedLogin() bool {
	return l.Action == ActionLoginFailed
}

// IsDeletion reports whether the record is a delete action
func (l *AuditLog) IsDeletion() bool {
	return l.Action == ActionDelete
}
