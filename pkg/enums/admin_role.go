package enums

// AdminRole scopes what an authenticated staff member may do.
type AdminRole string

const (
	AdminRoleManager AdminRole = "manager"
	AdminRoleKitchen AdminRole = "kitchen"
)

// Valid reports whether the value is a known admin role.
func (r AdminRole) Valid() bool {
	switch r {
	case AdminRoleManager, AdminRoleKitchen:
		return true
	}
	return false
}
