package persistence

import (
	"errors"
	"strings"

	"github.com/fnbcost/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFound converts gorm's record-not-found sentinel to the domain sentinel.
// Other errors pass through untouched.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// checkVersioned interprets the result of a version-guarded update. Zero rows
// means the row moved on under us.
func checkVersioned(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// checkDeleted interprets a delete result. Zero rows means the row never
// existed.
func checkDeleted(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// OrderClause builds an ORDER BY expression from caller-supplied sort
// parameters. Fields outside the whitelist fall back to the given default and
// any direction other than asc becomes DESC, so the output is always safe to
// interpolate.
func OrderClause(sortBy, sortOrder string, allowed map[string]bool, fallback string) string {
	field := strings.TrimSpace(sortBy)
	if field == "" || !allowed[field] {
		field = fallback
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "asc") {
		dir = "ASC"
	}
	return field + " " + dir
}

// Per-entity sort whitelists. Only columns listed here can appear in an ORDER
// BY built from request input.
var (
	UserSortFields = map[string]bool{
		"id":            true,
		"created_at":    true,
		"updated_at":    true,
		"username":      true,
		"email":         true,
		"display_name":  true,
		"status":        true,
		"last_login_at": true,
	}

	RoleSortFields = map[string]bool{
		"id":             true,
		"created_at":     true,
		"updated_at":     true,
		"code":           true,
		"name":           true,
		"sort_order":     true,
		"is_enabled":     true,
		"is_system_role": true,
	}

	PropertySortFields = map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"code":       true,
		"name":       true,
		"type":       true,
		"currency":   true,
		"is_active":  true,
	}

	OutletSortFields = map[string]bool{
		"id":          true,
		"created_at":  true,
		"updated_at":  true,
		"property_id": true,
		"code":        true,
		"name":        true,
		"is_active":   true,
	}

	CategorySortFields = map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"type":       true,
		"name":       true,
		"is_active":  true,
	}

	CostEntrySortFields = map[string]bool{
		"id":          true,
		"created_at":  true,
		"updated_at":  true,
		"property_id": true,
		"outlet_id":   true,
		"entry_date":  true,
		"cost_type":   true,
		"total":       true,
	}

	SummarySortFields = map[string]bool{
		"id":                       true,
		"created_at":               true,
		"updated_at":               true,
		"property_id":              true,
		"summary_date":             true,
		"actual_food_revenue":      true,
		"actual_beverage_revenue":  true,
		"actual_food_cost":         true,
		"actual_beverage_cost":     true,
		"actual_food_cost_pct":     true,
		"actual_beverage_cost_pct": true,
		"food_variance_pct":        true,
		"beverage_variance_pct":    true,
	}

	AuditLogSortFields = map[string]bool{
		"id":          true,
		"created_at":  true,
		"username":    true,
		"action":      true,
		"resource":    true,
		"property_id": true,
		"ip_address":  true,
	}

	PropertyAccessSortFields = map[string]bool{
		"id":          true,
		"created_at":  true,
		"updated_at":  true,
		"user_id":     true,
		"property_id": true,
		"level":       true,
		"is_active":   true,
	}
)
