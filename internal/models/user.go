// internal/models/user.go
package models

import "strings"

// User is an admin console account in table users.
type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email,omitempty" db:"email"`
	Password string `json:"-" db:"password"`
	Role     string `json:"role" db:"role"`
}

const DefaultUserRole = "viewer"

// UserForm is a self-registration record in table user_forms; login authenticates against it.
type UserForm struct {
	ID         int    `json:"id" db:"id"`
	FirstName  string `json:"firstName" db:"first_name"`
	MiddleName string `json:"middleName,omitempty" db:"middle_name"`
	LastName   string `json:"lastName" db:"last_name"`
	Gender     string `json:"gender" db:"gender"`
	DOB        string `json:"dob" db:"dob"`
	NationalID string `json:"nationalId,omitempty" db:"national_id"`
	Role       string `json:"role" db:"role"`
	Email      string `json:"email" db:"email"`
	Phone      string `json:"phone" db:"phone"`
	Street     string `json:"street,omitempty" db:"street"`
	City       string `json:"city,omitempty" db:"city"`
	State      string `json:"state,omitempty" db:"state"`
	PostalCode string `json:"postalCode,omitempty" db:"postal_code"`
	Country    string `json:"country,omitempty" db:"country"`
	Password   string `json:"-" db:"password"`
}

// UserDetails is a managed staff member in table user_management.
type UserDetails struct {
	ID        int    `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Gender    string `json:"gender" db:"gender"`
	DOB       string `json:"dob" db:"dob"`
	Role      string `json:"role" db:"role"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
	Password  string `json:"-" db:"password"`
	IsActive  bool   `json:"isActive" db:"is_active"`
}

func (u UserDetails) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SplitFullName returns the first two whitespace-separated parts of name.
// ok is false when fewer than two parts are present.
func SplitFullName(name string) (first, last string, ok bool) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
