package model

import (
	"time"
)

type Kind string

const (
	KindBook        Kind = "book"
	KindPeriodical  Kind = "periodical"
	KindProceedings Kind = "proceedings"
)

type Genre string

const (
	GenreChildren       Genre = "children"
	GenreScienceFiction Genre = "science-fiction"
	GenreAncientHistory Genre = "ancient-history"
)

type Frequency string

const (
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyBiannual  Frequency = "biannual"
	FrequencyAnnual    Frequency = "annual"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusExhausted Status = "exhausted"
)

// Material is the common record for every kind; Genre, Frequency and ConferenceName are only
// meaningful for books, periodicals and proceedings respectively.
type Material struct {
	ID              int64     `json:"id" db:"id"`
	Identifier      string    `json:"identifier" db:"identifier"`
	Kind            Kind      `json:"kind" db:"kind"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	Description     string    `json:"description,omitempty" db:"description"`
	Location        string    `json:"location,omitempty" db:"location"`
	PublicationYear int       `json:"publicationYear" db:"publication_year"`
	ArrivalYear     int       `json:"arrivalYear" db:"arrival_year"`
	Publisher       string    `json:"publisher" db:"publisher"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	LoanedCopies    int       `json:"loanedCopies" db:"loaned_copies"`
	Genre           Genre     `json:"genre,omitempty" db:"genre"`
	Frequency       Frequency `json:"publicationFrequency,omitempty" db:"publication_frequency"`
	ConferenceName  string    `json:"conferenceName,omitempty" db:"conference_name"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`

	AvailableCopies int     `json:"availableCopies" db:"-"`
	StayFactor      float64 `json:"stayFactor" db:"-"`
}

// Fill sets the derived fields.
func (m *Material) Fill() *Material {
	m.AvailableCopies = max(0, m.TotalCopies-m.LoanedCopies)
	m.StayFactor = StayFactor(*m)
	return m
}

type CreateMaterial struct {
	Identifier      string    `json:"identifier" validate:"required,max=64"`
	Kind            Kind      `json:"kind" validate:"required,oneof=book periodical proceedings"`
	Title           string    `json:"title" validate:"required,max=200"`
	Author          string    `json:"author" validate:"max=100"`
	Description     string    `json:"description" validate:"max=255"`
	Location        string    `json:"location" validate:"max=50"`
	PublicationYear int       `json:"publicationYear" validate:"gte=0"`
	ArrivalYear     int       `json:"arrivalYear" validate:"gte=0"`
	Publisher       string    `json:"publisher" validate:"max=100"`
	TotalCopies     int       `json:"totalCopies" validate:"required,gte=1"`
	Genre           Genre     `json:"genre" validate:"required_if=Kind book,omitempty,oneof=children science-fiction ancient-history"`
	Frequency       Frequency `json:"publicationFrequency" validate:"required_if=Kind periodical,omitempty,oneof=quarterly biannual annual"`
	ConferenceName  string    `json:"conferenceName" validate:"required_if=Kind proceedings,max=200"`
}

func (c CreateMaterial) Material() Material {
	m := Material{
		Identifier:      c.Identifier,
		Kind:            c.Kind,
		Title:           c.Title,
		Author:          c.Author,
		Description:     c.Description,
		Location:        c.Location,
		PublicationYear: c.PublicationYear,
		ArrivalYear:     c.ArrivalYear,
		Publisher:       c.Publisher,
		TotalCopies:     c.TotalCopies,
	}
	switch c.Kind {
	case KindBook:
		m.Genre = c.Genre
	case KindPeriodical:
		m.Frequency = c.Frequency
	case KindProceedings:
		m.ConferenceName = c.ConferenceName
	}
	return m
}

// UpdateMaterial is a partial update: nil fields are left untouched. Kind cannot change.
type UpdateMaterial struct {
	Identifier      *string    `json:"identifier" validate:"omitempty,min=1,max=64"`
	Title           *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Author          *string    `json:"author" validate:"omitempty,max=100"`
	Description     *string    `json:"description" validate:"omitempty,max=255"`
	Location        *string    `json:"location" validate:"omitempty,max=50"`
	PublicationYear *int       `json:"publicationYear" validate:"omitempty,gte=0"`
	ArrivalYear     *int       `json:"arrivalYear" validate:"omitempty,gte=0"`
	Publisher       *string    `json:"publisher" validate:"omitempty,max=100"`
	TotalCopies     *int       `json:"totalCopies" validate:"omitempty,gte=1"`
	Genre           *Genre     `json:"genre" validate:"omitempty,oneof=children science-fiction ancient-history"`
	Frequency       *Frequency `json:"publicationFrequency" validate:"omitempty,oneof=quarterly biannual annual"`
	ConferenceName  *string    `json:"conferenceName" validate:"omitempty,max=200"`
}

func (u UpdateMaterial) Apply(m *Material) {
	setIf(&m.Identifier, u.Identifier)
	setIf(&m.Title, u.Title)
	setIf(&m.Author, u.Author)
	setIf(&m.Description, u.Description)
	setIf(&m.Location, u.Location)
	setIf(&m.PublicationYear, u.PublicationYear)
	setIf(&m.ArrivalYear, u.ArrivalYear)
	setIf(&m.Publisher, u.Publisher)
	setIf(&m.TotalCopies, u.TotalCopies)
	switch m.Kind {
	case KindBook:
		setIf(&m.Genre, u.Genre)
	case KindPeriodical:
		setIf(&m.Frequency, u.Frequency)
	case KindProceedings:
		setIf(&m.ConferenceName, u.ConferenceName)
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

type Filter struct {
	Title   string
	Author  string
	Kind    Kind
	Subtype string
	Status  Status
	// Sorted orders by author, title instead of id.
	Sorted bool
}

type AdjustCopies struct {
	Delta   int    `json:"delta" validate:"oneof=-1 1"`
	HoldKey string `json:"holdKey" validate:"max=100"`
}

// HoldRef names a copy hold taken earlier through AdjustCopies.
type HoldRef struct {
	HoldKey string `json:"holdKey" validate:"required,max=100"`
}

type Adjustment struct {
	Material Material `json:"material"`
	Applied  bool     `json:"applied"`
}

type AvailableItem struct {
	ID        int64  `json:"id" db:"id"`
	Kind      Kind   `json:"kind" db:"kind"`
	Title     string `json:"title" db:"title"`
	Available int    `json:"available" db:"available"`
	Total     int    `json:"total" db:"total"`
}

type KindStats struct {
	Kind         Kind `json:"kind" db:"kind"`
	Materials    int  `json:"materials" db:"materials"`
	TotalCopies  int  `json:"totalCopies" db:"total_copies"`
	LoanedCopies int  `json:"loanedCopies" db:"loaned_copies"`
}
