package domain

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account. Email is unique across users.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
}

func (u User) RecordID() int64 { return u.ID }

// Principal is the caller of a core operation. A zero UserID means anonymous.
type Principal struct {
	UserID int64
	Role   Role
}

// Anonymous returns the principal used for unauthenticated requests.
func Anonymous() Principal { return Principal{} }

func (p Principal) IsAnonymous() bool { return p.UserID == 0 }

func (p Principal) IsAdmin() bool { return !p.IsAnonymous() && p.Role == RoleAdmin }
