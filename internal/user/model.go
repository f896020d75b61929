package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	UserID    uuid.UUID
	FullName  *string
	Email     *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
