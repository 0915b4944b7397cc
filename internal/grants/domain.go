package grants

// RoleRef identifies the role whose permissions are being edited.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActionGrant is one action type annotated with whether the role holds it.
// The list endpoint returns every action type, granted or not, so the
// editor always sees the full matrix.
type ActionGrant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Permission bool   `json:"permission"`
}

// RolePermissions is the full grant matrix for one role.
type RolePermissions struct {
	Role        RoleRef       `json:"role"`
	ActionTypes []ActionGrant `json:"actionType"`
}

// UserRef identifies the user whose role memberships are being edited.
type UserRef struct {
	ID        string `json:"id"`
	LoginID   string `json:"login_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RoleMembership is one role annotated with whether the user holds it.
type RoleMembership struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// UserRoles is the full membership matrix for one user.
type UserRoles struct {
	User  UserRef          `json:"user"`
	Roles []RoleMembership `json:"roles"`
}
