package models

import "strings"

// Role is the dashboard role of an authenticated user
type Role string

const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleMember     Role = "MEMBER"
	RoleSDM        Role = "SDM" // sub-divisional magistrate
	RoleDM         Role = "DM"  // district magistrate
	RoleSP         Role = "SP"  // police superintendent
	RolePolice     Role = "POLICE"
	RoleAdmin      Role = "ADMIN"
	RoleUnknown    Role = ""
)

var roleAliases = map[string]Role{
	"superadmin":  RoleSuperadmin,
	"super_admin": RoleSuperadmin,
	"super-admin": RoleSuperadmin,
	"member":      RoleMember,
	"sdm":         RoleSDM,
	"dm":          RoleDM,
	"sp":          RoleSP,
	"police":      RolePolice,
	"admin":       RoleAdmin,
}

// ParseRole normalizes the backend's role spellings. Unrecognized values
// yield RoleUnknown rather than a guess.
func ParseRole(s string) Role {
	return roleAliases[strings.ToLower(strings.TrimSpace(s))]
}

// UnmarshalText normalizes roles read from JSON payloads
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// IsSupervisor reports whether the role reviews other people's work
func (r Role) IsSupervisor() bool {
	return r == RoleSDM || r == RoleDM || r == RoleSP
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r != RoleUnknown
}
