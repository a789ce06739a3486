package domain

import "time"

// Role is the marketplace side a user belongs to.
type Role string

// Marketplace roles.
const (
	RoleVendor   Role = "vendor"
	RoleSupplier Role = "supplier"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleVendor || r == RoleSupplier
}

// User is a vendor or supplier account. Location is nil until the user sets one.
type User struct {
	ID           int64
	Name         string
	BusinessName string
	Phone        string
	Email        string
	Role         Role
	IsVerified   bool
	Address      string
	Location     *Location
	CreatedAt    time.Time
}

// UserFilter narrows a user search.
type UserFilter struct {
	Role         Role
	VerifiedOnly bool
	ExcludeID    int64
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   int64
	Role Role
}
