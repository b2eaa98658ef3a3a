package model

import (
	"strings"
	"time"
)

// Date renders as a calendar date.
type Date struct {
	time.Time `json:",inline"`
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = date
	return
}

type AvailableItem struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
}

type OnLoanItem struct {
	MaterialID         int64   `json:"materialId"`
	Type               string  `json:"type"`
	Title              string  `json:"title"`
	Author             string  `json:"author"`
	LoanedCount        int     `json:"loanedCount"`
	MostRecentLoanDate Date    `json:"mostRecentLoanDate"`
	StayFactor         float64 `json:"stayFactor"`
}

// PeriodicalRequest is a loan request for a periodical with the requester and title filled in.
type PeriodicalRequest struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	RequestDate Date   `json:"requestDate"`
	UserID      *int64 `json:"userId,omitempty"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	MaterialID  int64  `json:"materialId"`
	Title       string `json:"title"`
	Notes       string `json:"notes"`
}
