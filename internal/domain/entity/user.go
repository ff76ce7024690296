package entity

// UserType distinguishes employees from administrators.
type UserType string

const (
	UserTypeEmployee UserType = "Employee"
	UserTypeAdmin    UserType = "Admin"
)

// SessionUser is the authenticated user as read from the session store,
// serialized under the "user" key as {"type": ..., "email": ...}.
type SessionUser struct {
	Type  UserType `json:"type"`
	Email string   `json:"email"`
}

// IsAdmin returns true for administrator sessions.
func (u SessionUser) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}
