package model

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
)

type Loan struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"userId" db:"user_id"`
	MaterialID int64      `json:"materialId" db:"material_id"`
	HoldKey    string     `json:"holdKey" db:"hold_key"`
	Status     Status     `json:"status" db:"status"`
	LoanDate   time.Time  `json:"loanDate" db:"loan_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	Deleted    bool       `json:"-" db:"-"`
}

func (l Loan) Overdue(now time.Time) bool {
	return l.Status == StatusActive && now.After(l.DueDate)
}

type CreateLoan struct {
	UserID     int64 `json:"userId" validate:"required,gt=0"`
	MaterialID int64 `json:"materialId" validate:"required,gt=0"`
}

// AdoptLoan creates the loan of an approved request from the copy hold the request reserved.
type AdoptLoan struct {
	UserID     int64  `json:"userId" validate:"required,gt=0"`
	MaterialID int64  `json:"materialId" validate:"required,gt=0"`
	HoldKey    string `json:"holdKey" validate:"required,startswith=request:,max=100"`
}

type UpdateLoan struct {
	Status Status `json:"status" validate:"required,eq=returned"`
}

type Filter struct {
	Status     Status
	UserID     int64
	MaterialID int64
	// OverdueAt selects active loans whose due date is before it.
	OverdueAt time.Time
}

type MaterialSummary struct {
	MaterialID         int64     `json:"materialId" db:"material_id"`
	LoanedCount        int       `json:"loanedCount" db:"loaned_count"`
	MostRecentLoanDate time.Time `json:"mostRecentLoanDate" db:"most_recent_loan_date"`
}
