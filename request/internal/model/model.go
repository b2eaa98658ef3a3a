package model

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// LoanRequest names its requester either by user id or by the denormalized
// name/document/address triple; approval resolves the latter to a user.
type LoanRequest struct {
	ID               int64     `json:"id" db:"id"`
	UserID           *int64    `json:"userId,omitempty" db:"user_id"`
	Name             string    `json:"name" db:"name"`
	IdentityDocument string    `json:"identityDocument" db:"identity_document"`
	Address          string    `json:"address" db:"address"`
	MaterialID       int64     `json:"materialId" db:"material_id"`
	HoldKey          string    `json:"-" db:"hold_key"`
	Reserved         bool      `json:"reserved" db:"reserved"`
	Status           Status    `json:"status" db:"status"`
	Notes            string    `json:"notes" db:"notes"`
	LoanID           *int64    `json:"loanId,omitempty" db:"loan_id"`
	RequestDate      time.Time `json:"requestDate" db:"request_date"`
	Deleted          bool      `json:"-" db:"-"`
}

type CreateRequest struct {
	UserID           int64  `json:"userId" validate:"required_without=IdentityDocument,gte=0"`
	Name             string `json:"name" validate:"max=255"`
	IdentityDocument string `json:"identityDocument" validate:"required_without=UserID,max=50"`
	Address          string `json:"address" validate:"max=255"`
	MaterialID       int64  `json:"materialId" validate:"required,gt=0"`
	Notes            string `json:"notes" validate:"max=1000"`
}

// UpdateRequest decides a pending request through PUT.
type UpdateRequest struct {
	Status Status  `json:"status" validate:"required,oneof=approved rejected"`
	Notes  *string `json:"notes" validate:"omitempty,max=1000"`
}

type Filter struct {
	Status           Status
	UserID           int64
	MaterialID       int64
	IdentityDocument string
}

// Stats counts the requests that are not deleted, per status.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
