package domain

// UserRole distinguishes the actor categories the platform serves.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleStaff     UserRole = "STAFF"
	RoleClient    UserRole = "CLIENT"
	RoleCandidate UserRole = "CANDIDATE"
)

// User is the authenticated identity behind every request. Candidates carry
// the list of disciplines they have declared experience in; claim
// authorization is gated on that list.
type User struct {
	UserID      string   `json:"userID"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        UserRole `json:"role"`
	Disciplines []string `json:"disciplines,omitempty"`
	AuditFields
}

// HasDiscipline reports whether the user declared experience in the given
// discipline. Matching is exact; discipline codes are canonicalized upstream.
func (u *User) HasDiscipline(discipline string) bool {
	for _, d := range u.Disciplines {
		if d == discipline {
			return true
		}
	}
	return false
}
