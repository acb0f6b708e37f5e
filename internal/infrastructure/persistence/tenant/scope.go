// Package tenant provides multi-tenant database scoping for GORM.
//
// It registers callbacks that read the tenant ID from the request context and
// add a WHERE tenant_id = ? condition to queries, preventing cross-tenant
// data access at the persistence layer.
package tenant

import "errors"

// ErrTenantIDRequired is returned when tenant_id is required but not found
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when the tenant_id format is invalid
var ErrInvalidTenantID = errors.New("invalid tenant_id format")
