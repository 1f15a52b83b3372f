package models

// Role is a user's role within the team referenced by TeamID. A user with
// no team still carries a role value, but it has no meaning until they join.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole validates a raw role string from a request body.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleMember:
		return Role(s), true
	}
	return "", false
}

// User represents a user entity. TeamID and Phone are optional: a nil
// TeamID means the user belongs to no team.
type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     Role    `json:"role"`
	Phone    *string `json:"phone,omitempty"`
	TeamID   *string `json:"teamId,omitempty"`
}

// InTeam reports whether the user belongs to the given team.
func (u *User) InTeam(teamID string) bool {
	return u.TeamID != nil && *u.TeamID == teamID
}
