package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleMe    Role = "me"
	RoleOG    Role = "og"
)

// privilegedRoles is the only place that grants elevated capabilities.
// Unknown roles are treated like plain users.
var privilegedRoles = map[Role]bool{
	RoleAdmin: true,
	RoleMe:    true,
	RoleOG:    true,
}

// IsPrivileged reports whether the role may pin comments, gets the admin
// badge on its comments and is exempt from the daily question cap.
func IsPrivileged(role Role) bool {
	return privilegedRoles[NormalizeRole(string(role))]
}

func NormalizeRole(role string) Role {
	if role == "" {
		return RoleUser
	}
	return Role(role)
}
