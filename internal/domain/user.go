package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleCustomer      Role = "CUSTOMER"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// User is a single record carrying a role tag. Role-specific attributes live
// alongside as nullable fields, operations branch on the tag explicitly.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  password
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time

	// customer attributes
	PhoneNumber *string
	IsActive    bool

	// administrator attributes
	EmployeeID *string
	Department *string
}

func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

type password struct {
	plaintext *string
	Hash      []byte
}

func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintext
	p.Hash = hash

	return nil
}

func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetById(ctx context.Context, id uuid.UUID) (*User, error)
}
