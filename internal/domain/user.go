package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated identity attached to a request by the auth
// middleware. The booking service trusts this pairing as given.
type Actor struct {
	AccountID int64
	Role      Role
}

// CanAccess is the single ownership predicate for bookings: the owning
// account or an admin.
func (a Actor) CanAccess(b *Booking) bool {
	return a.Role == RoleAdmin || a.AccountID == b.AccountID
}
