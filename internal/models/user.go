package models

// Role is a host user role.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
	RoleAuthor        Role = "author"
	RoleContributor   Role = "contributor"
	RoleSubscriber    Role = "subscriber"
)

// Roles lists every known role, most privileged first.
var Roles = []Role{RoleAdministrator, RoleEditor, RoleAuthor, RoleContributor, RoleSubscriber}

// User is an authenticated host user.
type User struct {
	ID    int64  `db:"id" json:"id"`
	Login string `db:"login" json:"login"`
	Role  Role   `db:"role" json:"role"`
}

// Anonymous is the user of a request that carried no credentials.
var Anonymous = User{}

// IsAnonymous reports whether u is the anonymous user.
func (u User) IsAnonymous() bool {
	return u.ID == 0
}
