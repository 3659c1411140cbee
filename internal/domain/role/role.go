// internal/domain/role/role.go
package role

// Role is a user's functional category in the marketplace.
type Role string

const (
	Parent     Role = "parent"
	Babysitter Role = "babysitter"
	Admin      Role = "admin"

	// Unknown means no role signal was found anywhere. Consumers treat
	// unknown as a parent-like default rather than blocking.
	Unknown Role = ""
)

// Parse returns the role for s if s names one of the three known roles.
func Parse(s string) (Role, bool) {
	switch Role(s) {
	case Parent, Babysitter, Admin:
		return Role(s), true
	}
	return Unknown, false
}

// Known reports whether r is one of the three assignable roles.
func (r Role) Known() bool {
	return r == Parent || r == Babysitter || r == Admin
}

func (r Role) String() string {
	return string(r)
}
