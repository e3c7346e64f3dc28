package domain

// Permission tags gate protected operations. The set is closed and known at
// compile time; every protected endpoint declares the subset it requires.
const (
	PermissionUserBasic      = "UserBasic"
	PermissionUserManagement = "UserManagement"
	PermissionAuthFeatures   = "AuthFeatures"
	PermissionGetBlogs       = "GetBlogs"
)

// knownPermissions is the closed set of valid tags.
var knownPermissions = map[string]struct{}{
	PermissionUserBasic:      {},
	PermissionUserManagement: {},
	PermissionAuthFeatures:   {},
	PermissionGetBlogs:       {},
}

// DefaultSignupPermissions is what every new account gets, regardless of
// anything the signup payload claims. Escalation through signup is
// structurally impossible because the mapper never reads a permissions field.
func DefaultSignupPermissions() []string {
	return []string{PermissionAuthFeatures, PermissionGetBlogs}
}

// IsKnownPermission reports whether p belongs to the closed permission set.
func IsKnownPermission(p string) bool {
	_, ok := knownPermissions[p]
	return ok
}
