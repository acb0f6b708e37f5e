package tenant

import (
	"strings"

	"github.com/fnbcost/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantCallback injects a tenant_id condition into queries through GORM
// callbacks. The tenant is read from the statement context, where the HTTP
// tenant middleware placed it.
type TenantCallback struct {
	tenantColumn string
	required     bool
}

// NewTenantCallback creates a tenant callback handler
func NewTenantCallback(tenantColumn string, required bool) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &TenantCallback{tenantColumn: tenantColumn, required: required}
}

// RegisterCallbacks hooks the tenant filter into query, update, delete and
// row operations. Creates are left alone: tenant_id is set explicitly when
// entities are constructed.
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)
}

func (tc *TenantCallback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Unscoped {
		return
	}
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// hasTenantCondition reports whether the statement already filters on the
// tenant column, so repositories that scope explicitly are not double-filtered
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	// Raw SQL statements bypass the clause tree
	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tc.tenantColumn)
}

func (tc *TenantCallback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return tc.isTenantColumn(e.Column)
	case clause.IN:
		return tc.isTenantColumn(e.Column)
	case clause.AndConditions:
		return tc.anyContainsTenant(e.Exprs)
	case clause.OrConditions:
		return tc.anyContainsTenant(e.Exprs)
	}
	return false
}

func (tc *TenantCallback) isTenantColumn(column any) bool {
	col, ok := column.(clause.Column)
	return ok && col.Name == tc.tenantColumn
}

func (tc *TenantCallback) anyContainsTenant(exprs []clause.Expression) bool {
	for _, expr := range exprs {
		if tc.exprContainsTenant(expr) {
			return true
		}
	}
	return false
}

// EnableAutoTenantFilter registers automatic tenant_id filtering on the GORM
// instance. With required false, queries without a tenant in context pass
// through unfiltered; repositories for public endpoints depend on that.
func EnableAutoTenantFilter(db *gorm.DB, required bool) {
	NewTenantCallback("tenant_id", required).RegisterCallbacks(db)
}
