package users

import (
	"fmt"
	"strings"
)

// User is the resource served by the API. Version starts at 1 and is bumped
// on every successful update.
type User struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email" gorm:"not null"`
	Role    string `json:"role"`
	Version int64  `json:"version" gorm:"not null;default:1"`
}

// TableName pins the gorm table to the one created by the migrations.
func (User) TableName() string {
	return "users"
}

// UserRequest is the body accepted by POST and PUT.
type UserRequest struct {
	Name  string `json:"name" jsonschema:"title=Name,minLength=1"`
	Email string `json:"email" jsonschema:"title=Email,format=email"`
	Role  string `json:"role,omitempty" jsonschema:"title=Role,example=Developer"`
}

// Validate performs the checks that hold regardless of any registry schema.
func (r UserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidUser)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: email %q is not an address", ErrInvalidUser, r.Email)
	}
	return nil
}

// toUser copies the request fields onto a user with the given id.
func (r UserRequest) toUser(id int64) User {
	return User{
		ID:    id,
		Name:  strings.TrimSpace(r.Name),
		Email: r.Email,
		Role:  r.Role,
	}
}

// SeedUsers returns the demo users loaded into a fresh MemoryStore.
func SeedUsers() []User {
	return []User{
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", Role: "Admin", Version: 1},
		{ID: 2, Name: "Bob Smith", Email: "bob@example.com", Role: "Developer", Version: 1},
		{ID: 3, Name: "Charlie Brown", Email: "charlie@example.com", Role: "Designer", Version: 1},
	}
}
