package client

import (
	"time"

	"github.com/google/uuid"
)

type Material struct {
	ID              int64   `json:"id"`
	Identifier      string  `json:"identifier"`
	Kind            string  `json:"kind"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublicationYear int     `json:"publicationYear"`
	ArrivalYear     int     `json:"arrivalYear"`
	TotalCopies     int     `json:"totalCopies"`
	LoanedCopies    int     `json:"loanedCopies"`
	StayFactor      float64 `json:"stayFactor"`
}

type AdjustRequest struct {
	Delta   int    `json:"delta"`
	HoldKey string `json:"holdKey,omitempty"`
}

type HoldRef struct {
	HoldKey string `json:"holdKey"`
}

// Adjustment is the outcome of a copy-count change. Applied is false when a hold was already
// taken (or already released) under the same key and nothing changed.
type Adjustment struct {
	Material Material `json:"material"`
	Applied  bool     `json:"applied"`
}

type AvailableItem struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
}

type User struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	IdentityDocument string `json:"identityDocument"`
	Address          string `json:"address"`
	Email            string `json:"email"`
	Role             string `json:"role"`
}

type AdoptLoanRequest struct {
	UserID     int64  `json:"userId"`
	MaterialID int64  `json:"materialId"`
	HoldKey    string `json:"holdKey"`
}

type Loan struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	MaterialID int64      `json:"materialId"`
	HoldKey    string     `json:"holdKey"`
	Status     string     `json:"status"`
	LoanDate   time.Time  `json:"loanDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
}

type LoanSummary struct {
	MaterialID         int64     `json:"materialId"`
	LoanedCount        int       `json:"loanedCount"`
	MostRecentLoanDate time.Time `json:"mostRecentLoanDate"`
}

const (
	loanHoldPrefix    = "loan:"
	requestHoldPrefix = "request:"
)

// NewLoanHoldKey names the copy hold of a loan created directly, not through a request.
func NewLoanHoldKey() string {
	return loanHoldPrefix + uuid.NewString()
}

func NewRequestHoldKey() string {
	return requestHoldPrefix + uuid.NewString()
}

type Request struct {
	ID               int64     `json:"id"`
	UserID           *int64    `json:"userId,omitempty"`
	Name             string    `json:"name"`
	IdentityDocument string    `json:"identityDocument"`
	Address          string    `json:"address"`
	MaterialID       int64     `json:"materialId"`
	Reserved         bool      `json:"reserved"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	LoanID           *int64    `json:"loanId,omitempty"`
	RequestDate      time.Time `json:"requestDate"`
}
