package authz

import "fmt"

// Role is the privilege tier a user holds inside a container. The set is
// closed: exactly User, Moderator and Admin exist, ordered lowest to highest.
// Persistence layers map roles to strings at their own boundary via
// ParseRole and String; the rest of the application only handles Role values.
type Role int

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdmin
)

// DefaultRole is assigned when a member is added without an explicit role.
const DefaultRole = RoleUser

var roleNames = map[Role]string{
	RoleUser:      "User",
	RoleModerator: "Moderator",
	RoleAdmin:     "Admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Valid reports whether r is one of the three defined tiers.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r sits at or above min in the tier ordering.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// ParseRole converts a stored or submitted role name into a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleUser, fmt.Errorf("unknown role %q", s)
}

// MarshalText renders the role as its canonical name in JSON payloads.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
