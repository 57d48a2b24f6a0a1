// Package user defines the account entity, the role taxonomy, and the
// repository interface for accessing accounts. The repository abstracts the
// persistence details so the application layer stays decoupled from the
// database.
package user

import "time"

// Role identifies the permission tier of an account.
type Role string

const (
	RoleTeamMember     Role = "team_member"
	RoleTeamLead       Role = "team_lead"
	RoleProjectManager Role = "project_manager"
)

// ParseRole normalizes a raw role string, defaulting unknown values to
// team_member so a bad claim can never escalate privileges.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleTeamLead:
		return RoleTeamLead
	case RoleProjectManager:
		return RoleProjectManager
	default:
		return RoleTeamMember
	}
}

// User represents an authenticated account in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	SheetName    string    `json:"sheetName,omitempty"` // Overrides Name as the owning tab title when set
	PasswordHash string    `json:"-"`                   // Never serialize password hash
	CreatedAt    time.Time `json:"createdAt"`
	Changed      time.Time `json:"changed"`
}

// Sheet returns the spreadsheet tab title this user's rows live under.
func (u *User) Sheet() string {
	if u.SheetName != "" {
		return u.SheetName
	}
	return u.Name
}

// Repository defines the operations for persisting User entities.
type Repository interface {
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	Store(u *User) error
	Update(u *User) error
	List() ([]*User, error)
	Count() (int, error)
}
