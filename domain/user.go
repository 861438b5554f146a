package domain

// Roles a user account can hold.
const (
	RoleMaintainer = "maintainer"
	RoleMember     = "member"
)

type User struct {
	ID        int64  `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"password,omitempty" db:"password"`
	Role      string `json:"role" db:"role"`
	CreatedAt string `json:"created_at,omitempty" db:"created_at"`
}

// Caller carries the capabilities of whoever issued an operation.
type Caller struct {
	Maintainer bool
}

// CallerFor derives the capabilities granted by a role.
func CallerFor(role string) Caller {
	return Caller{Maintainer: role == RoleMaintainer}
}
