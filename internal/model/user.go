package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated actor. Identity is owned by the surrounding
// application; the ledger core only needs a stable actor ID and the privilege
// codes the route middleware checks.
type User struct {
	BaseModel
	Email      string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password   string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName   string      `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	IsActive   bool        `gorm:"default:true" json:"is_active"`
	Privileges []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`

	// Rotated on every login to enforce a single active session.
	TokenVersion string `gorm:"type:varchar(255);default:''" json:"-"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// PrivilegeCodes returns the flat privilege code list for JWT claims.
func (u *User) PrivilegeCodes() []string {
	codes := make([]string, len(u.Privileges))
	for i, p := range u.Privileges {
		codes[i] = p.Code
	}
	return codes
}

// UserResponse is the API shape of a user, without credentials.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	IsActive   bool      `json:"is_active"`
	Privileges []string  `json:"privileges"`
}

// ToResponse converts a User to its API shape.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		IsActive:   u.IsActive,
		Privileges: u.PrivilegeCodes(),
	}
}
