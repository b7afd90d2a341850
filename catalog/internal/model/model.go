package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Genre struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name" validate:"required,max=200"`
}

func (g Genre) String() string { return g.Name }

type Language struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name" validate:"required,max=200"`
}

func (l Language) String() string { return l.Name }

type Author struct {
	ID          int    `json:"id" db:"id"`
	FirstName   string `json:"firstName" db:"first_name" validate:"required,max=100"`
	LastName    string `json:"lastName" db:"last_name" validate:"required,max=100"`
	DateOfBirth *Date  `json:"dateOfBirth" db:"date_of_birth"`
	DateOfDeath *Date  `json:"dateOfDeath" db:"date_of_death"`
}

func (a Author) String() string {
	return a.LastName + " " + a.FirstName
}

func (a Author) URL() string {
	return fmt.Sprintf("/catalog/author/%d", a.ID)
}

type Book struct {
	ID         int    `json:"id" db:"id"`
	Title      string `json:"title" db:"title" validate:"required,max=200"`
	Summary    string `json:"summary" db:"summary" validate:"required,max=1000"`
	ISBN       string `json:"isbn" db:"isbn" validate:"required,max=13"`
	AuthorID   *int   `json:"authorId" db:"author_id" validate:"omitempty,gt=0"`
	LanguageID *int   `json:"languageId" db:"language_id" validate:"omitempty,gt=0"`
	GenreIDs   []int  `json:"genreIds" db:"genre_ids" validate:"dive,gt=0"`
}

func (b Book) String() string { return b.Title }

func (b Book) URL() string {
	return fmt.Sprintf("/catalog/book/%d", b.ID)
}

// BookInstance is one loanable copy of a book.
type BookInstance struct {
	ID       uuid.UUID `json:"id" db:"id"`
	BookID   *int      `json:"bookId" db:"book_id" validate:"omitempty,gt=0"`
	Imprint  string    `json:"imprint" db:"imprint" validate:"required,max=200"`
	DueBack  *Date     `json:"dueBack" db:"due_back"`
	Status   Status    `json:"status" db:"status" validate:"required,oneof=m o a r"`
	Borrower *string   `json:"borrower" db:"borrower" validate:"omitempty,max=150"`
}

// IsOverdue reports whether the copy was due back before the calendar day of now.
func (bi BookInstance) IsOverdue(now time.Time) bool {
	return bi.DueBack != nil && bi.DueBack.Time.Before(DateOf(now).Time)
}

// Label renders the instance as "<id> (<book title>)".
func (bi BookInstance) Label(bookTitle string) string {
	if bookTitle == "" {
		return bi.ID.String()
	}
	return fmt.Sprintf("%s (%s)", bi.ID, bookTitle)
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type List[T any] struct {
	Paging `json:",inline"`
	Items  []T `json:"items"`
}

// MaxPageSize bounds a single page request.
const MaxPageSize = 1000

// Page is a 1-based page request; zero values mean "everything".
type Page struct {
	Page int
	Size int
}

func (p Page) Limited() bool {
	return p.Page > 0 && p.Size > 0
}

// Offset is the number of rows before the page. It saturates at math.MaxInt
// instead of overflowing.
func (p Page) Offset() int {
	if !p.Limited() {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Size
}

// NameFilter filters genres, languages and authors.
type NameFilter struct {
	IDs  []int
	Name string
	Page
}

type BookFilter struct {
	IDs        []int
	AuthorID   *int
	LanguageID *int
	GenreID    *int
	Title      string
	Page
}

type InstanceFilter struct {
	IDs      []uuid.UUID
	BookID   *int
	Status   *Status
	Borrower *string
	// DueFrom is inclusive, DueTo is exclusive.
	DueFrom    *Date
	DueTo      *Date
	HasDueBack *bool
	Page
}

func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
