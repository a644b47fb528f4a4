package api

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// --- Dates ---

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day.
type Date struct {
	time.Time
}

// NewDate builds a Date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses exactly "YYYY-MM-DD", ignoring surrounding space.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// parseWireDate also accepts a timestamp whose date part is followed by
// 'T' or a space, as some backends serialize dates that way.
func parseWireDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if n := len(DateLayout); len(s) > n && (s[n] == 'T' || s[n] == ' ') {
		s = s[:n]
	}
	return ParseDate(s)
}

// String returns "YYYY-MM-DD", or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := parseWireDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// --- References ---

// Ref points at another entity by id, as carried in request payloads.
type Ref struct {
	ID int64 `json:"id"`
}

// --- Author ---

// Author wrote one or more books.
type Author struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthDate Date   `json:"birthDate"`
	Country   string `json:"country"`
}

// AuthorInput is the create/update body for an author.
type AuthorInput struct {
	Name      string `json:"name"`
	BirthDate Date   `json:"birthDate"`
	Country   string `json:"country"`
}

// --- Publisher ---

// Publisher publishes books.
type Publisher struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	EstablishmentYear int    `json:"establishmentYear"`
	Address           string `json:"address"`
}

// PublisherInput is the create/update body for a publisher.
type PublisherInput struct {
	Name              string `json:"name"`
	EstablishmentYear int    `json:"establishmentYear"`
	Address           string `json:"address"`
}

// --- Category ---

// Category groups books. The backend refuses to delete one that is in use.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryInput is the create/update body for a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// --- Book ---

// Book carries its author, publisher and categories as nested objects.
type Book struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	PublicationYear int        `json:"publicationYear"`
	Stock           int        `json:"stock"`
	Author          Author     `json:"author"`
	Publisher       Publisher  `json:"publisher"`
	Categories      []Category `json:"categories"`
}

// CategoryNames joins the category names with ", ".
func (b Book) CategoryNames() string {
	names := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// BookInput is the create/update body for a book.
type BookInput struct {
	Name            string `json:"name"`
	PublicationYear int    `json:"publicationYear"`
	Stock           int    `json:"stock"`
	Author          Ref    `json:"author"`
	Publisher       Ref    `json:"publisher"`
	Categories      []Ref  `json:"categories"`
}

// --- Borrow ---

// BorrowRecord tracks one lending of a book. A nil ReturnDate means the book
// is still out.
type BorrowRecord struct {
	ID            int64  `json:"id"`
	BorrowerName  string `json:"borrowerName"`
	BorrowerMail  string `json:"borrowerMail"`
	BorrowingDate Date   `json:"borrowingDate"`
	ReturnDate    *Date  `json:"returnDate"`
	Book          Book   `json:"book"`
}

// Returned reports whether the book came back.
func (r BorrowRecord) Returned() bool {
	return r.ReturnDate != nil && !r.ReturnDate.IsZero()
}

// BorrowInput is the create/update body for a borrow record.
type BorrowInput struct {
	BorrowerName            string `json:"borrowerName"`
	BorrowerMail            string `json:"borrowerMail"`
	BorrowingDate           Date   `json:"borrowingDate"`
	ReturnDate              *Date  `json:"returnDate"`
	BookForBorrowingRequest Ref    `json:"bookForBorrowingRequest"`
}
