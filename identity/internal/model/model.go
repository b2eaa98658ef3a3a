package model

import "time"

type User struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	IdentityDocument string    `json:"identityDocument" db:"identity_document"`
	Address          string    `json:"address" db:"address"`
	Role             string    `json:"role" db:"role"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

type CreateUser struct {
	Name             string `json:"name" validate:"required,max=255"`
	Email            string `json:"email" validate:"required,email,max=255"`
	IdentityDocument string `json:"identityDocument" validate:"required,max=64"`
	Address          string `json:"address" validate:"max=500"`
	Role             string `json:"role" validate:"omitempty,oneof=admin user"`
}

type UpdateUser struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Role    *string `json:"role" validate:"omitempty,oneof=admin user"`
}

func (u UpdateUser) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
}
