package domain

import "time"

// Role type to distinguish between user roles
type Role string

const (
	RoleAdmin  Role = "admin"  // full read/write over all members
	RoleMember Role = "member" // read-only over the linked member
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User is a login credential of the studio.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // unique
	PasswordHash string    `json:"-"`        // never exposed
	Role         Role      `json:"role"`
	MemberID     *string   `json:"memberId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LoginSession is the record established by a successful login and held for the
// lifetime of the client session.
type LoginSession struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	MemberID string `json:"memberId,omitempty"`
	Token    string `json:"-"`
}

func (s *LoginSession) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// CanView reports whether the session may read the given member's data.
func (s *LoginSession) CanView(memberID string) bool {
	if s == nil {
		return false
	}
	if s.IsAdmin() {
		return true
	}
	return s.MemberID != "" && s.MemberID == memberID
}

// NewLoginSession builds the session record for an authenticated user.
func NewLoginSession(u *User, token string) *LoginSession {
	s := &LoginSession{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		Token:    token,
	}
	if u.MemberID != nil {
		s.MemberID = *u.MemberID
	}
	return s
}
