package identity

// catalogEntry describes one grantable permission
type catalogEntry struct {
	resource    string
	action      string
	description string
}

// permissionCatalog is the fixed set of permissions roles can draw from
var permissionCatalog = []catalogEntry{
	{"property", "read", "View properties"},
	{"property", "write", "Create and update properties"},
	{"property", "delete", "Delete properties"},
	{"outlet", "read", "View outlets"},
	{"outlet", "write", "Create and update outlets"},
	{"outlet", "delete", "Delete outlets"},
	{"category", "read", "View cost categories"},
	{"category", "write", "Create and update cost categories"},
	{"category", "delete", "Delete cost categories"},
	{"cost_entry", "read", "View daily cost entries"},
	{"cost_entry", "write", "Record and update daily cost entries"},
	{"cost_entry", "delete", "Delete daily cost entries"},
	{"daily_summary", "read", "View daily financial summaries"},
	{"daily_summary", "write", "Record and update daily financial summaries"},
	{"daily_summary", "delete", "Delete daily financial summaries"},
	{"report", "read", "View budget and trend reports"},
	{"report", "export", "Export reports"},
	{"user", "read", "View users"},
	{"user", "write", "Create and update users"},
	{"user", "delete", "Delete users"},
	{"role", "read", "View roles"},
	{"role", "write", "Create and update roles"},
	{"role", "delete", "Delete roles"},
	{"access", "read", "View property access grants"},
	{"access", "write", "Grant and revoke property access"},
	{"audit", "read", "View the audit trail"},
	{"audit", "export", "Export the audit trail"},
	{"security", "read", "View security dashboards"},
}

// AllPermissions returns the full permission catalog
func AllPermissions() []Permission {
	permissions := make([]Permission, len(permissionCatalog))
	for i, entry := range permissionCatalog {
		permissions[i] = Permission{
			Code:        entry.resource + ":" + entry.action,
			Resource:    entry.resource,
			Action:      entry.action,
			Description: entry.description,
		}
	}
	return permissions
}
