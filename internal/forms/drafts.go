package forms

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gravitrone/libris/internal/api"
)

// --- Author ---

// AuthorDraft is the editable state of the author form.
type AuthorDraft struct {
	Name      string
	BirthDate string
	Country   string
}

// AuthorToPayload validates d and builds the request body.
func AuthorToPayload(d AuthorDraft) (api.AuthorInput, error) {
	var v Validator
	v.Check(notBlank(d.Name), "name", "Please enter the author's name.")
	v.Check(notBlank(d.BirthDate), "birthDate", "Please enter a birth date.")
	birth, err := api.ParseDate(d.BirthDate)
	v.Check(err == nil, "birthDate", "Birth date must look like YYYY-MM-DD.")
	if err := v.Err(); err != nil {
		return api.AuthorInput{}, err
	}
	return api.AuthorInput{
		Name:      strings.TrimSpace(d.Name),
		BirthDate: birth,
		Country:   strings.TrimSpace(d.Country),
	}, nil
}

// AuthorFromEntity fills a draft from a stored author.
func AuthorFromEntity(a api.Author) AuthorDraft {
	return AuthorDraft{Name: a.Name, BirthDate: a.BirthDate.String(), Country: a.Country}
}

// --- Publisher ---

// PublisherDraft is the editable state of the publisher form.
type PublisherDraft struct {
	Name              string
	EstablishmentYear string
	Address           string
}

// PublisherToPayload validates d and builds the request body.
func PublisherToPayload(d PublisherDraft) (api.PublisherInput, error) {
	var v Validator
	v.Check(notBlank(d.Name), "name", "Please enter the publisher's name.")
	year, ok := parseInt(d.EstablishmentYear)
	v.Check(ok, "establishmentYear", "Establishment year must be a whole number.")
	if err := v.Err(); err != nil {
		return api.PublisherInput{}, err
	}
	return api.PublisherInput{
		Name:              strings.TrimSpace(d.Name),
		EstablishmentYear: year,
		Address:           strings.TrimSpace(d.Address),
	}, nil
}

// PublisherFromEntity fills a draft from a stored publisher.
func PublisherFromEntity(p api.Publisher) PublisherDraft {
	return PublisherDraft{
		Name:              p.Name,
		EstablishmentYear: strconv.Itoa(p.EstablishmentYear),
		Address:           p.Address,
	}
}

// --- Category ---

// CategoryDraft is the editable state of the category form.
type CategoryDraft struct {
	Name        string
	Description string
}

// CategoryToPayload validates d and builds the request body.
func CategoryToPayload(d CategoryDraft) (api.CategoryInput, error) {
	var v Validator
	v.Check(notBlank(d.Name), "name", "Please enter the category name.")
	if err := v.Err(); err != nil {
		return api.CategoryInput{}, err
	}
	return api.CategoryInput{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
	}, nil
}

// CategoryFromEntity fills a draft from a stored category.
func CategoryFromEntity(c api.Category) CategoryDraft {
	return CategoryDraft{Name: c.Name, Description: c.Description}
}

// --- Book ---

// BookDraft is the editable state of the book form. References are held as
// id strings, the way the selectors produce them.
type BookDraft struct {
	Name            string
	PublicationYear string
	Stock           string
	AuthorID        string
	PublisherID     string
	CategoryIDs     []string
}

// BookToPayload validates d and assembles the reference payload.
func BookToPayload(d BookDraft) (api.BookInput, error) {
	var v Validator
	v.Check(notBlank(d.Name), "name", "Please enter the book's name.")
	year, ok := parseInt(d.PublicationYear)
	v.Check(ok, "publicationYear", "Publication year must be a whole number.")
	stock, ok := parseInt(d.Stock)
	v.Check(ok, "stock", "Stock must be a whole number.")
	v.Check(stock >= 0, "stock", "Stock cannot be negative.")
	authorID, ok := parseID(d.AuthorID)
	v.Check(ok, "author", "Please select an author.")
	publisherID, ok := parseID(d.PublisherID)
	v.Check(ok, "publisher", "Please select a publisher.")

	v.Check(len(d.CategoryIDs) > 0, "categories", "Please select at least one category.")
	categories := make([]api.Ref, 0, len(d.CategoryIDs))
	for _, raw := range d.CategoryIDs {
		id, ok := parseID(raw)
		v.Check(ok, "categories", "Category selection is invalid.")
		categories = append(categories, api.Ref{ID: id})
	}

	if err := v.Err(); err != nil {
		return api.BookInput{}, err
	}
	return api.BookInput{
		Name:            strings.TrimSpace(d.Name),
		PublicationYear: year,
		Stock:           stock,
		Author:          api.Ref{ID: authorID},
		Publisher:       api.Ref{ID: publisherID},
		Categories:      categories,
	}, nil
}

// BookFromEntity fills a draft from a stored book, keeping category order.
func BookFromEntity(b api.Book) BookDraft {
	ids := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		ids = append(ids, FormatID(c.ID))
	}
	return BookDraft{
		Name:            b.Name,
		PublicationYear: strconv.Itoa(b.PublicationYear),
		Stock:           strconv.Itoa(b.Stock),
		AuthorID:        FormatID(b.Author.ID),
		PublisherID:     FormatID(b.Publisher.ID),
		CategoryIDs:     ids,
	}
}

// ToggleCategory adds id to the selection or removes it if present.
func (d *BookDraft) ToggleCategory(id string) {
	if idx := slices.Index(d.CategoryIDs, id); idx >= 0 {
		d.CategoryIDs = slices.Delete(slices.Clone(d.CategoryIDs), idx, idx+1)
		return
	}
	d.CategoryIDs = append(slices.Clone(d.CategoryIDs), id)
}

// HasCategory reports whether id is selected.
func (d BookDraft) HasCategory(id string) bool {
	return slices.Contains(d.CategoryIDs, id)
}

// --- Borrow ---

// BorrowDraft is the editable state of the borrow form.
type BorrowDraft struct {
	BookID        string
	BorrowerName  string
	BorrowerMail  string
	BorrowingDate string
	ReturnDate    string
}

// BorrowToPayload validates d in the order the form presents its problems:
// book, borrowing date, mail, name. An empty return date is sent as null.
func BorrowToPayload(d BorrowDraft) (api.BorrowInput, error) {
	var v Validator
	bookID, ok := parseID(d.BookID)
	v.Check(ok, "book", "Please select a book.")
	v.Check(notBlank(d.BorrowingDate), "borrowingDate", "Please enter the borrowing date.")
	borrowed, err := api.ParseDate(d.BorrowingDate)
	v.Check(err == nil, "borrowingDate", "Borrowing date must look like YYYY-MM-DD.")
	mail := strings.TrimSpace(d.BorrowerMail)
	v.Check(strings.Contains(mail, "@"), "borrowerMail", "Please enter a valid e-mail address.")
	name := strings.TrimSpace(d.BorrowerName)
	v.Check(len([]rune(name)) >= 2, "borrowerName", "Please enter a valid name.")

	var returned *api.Date
	if notBlank(d.ReturnDate) {
		date, err := api.ParseDate(d.ReturnDate)
		v.Check(err == nil, "returnDate", "Return date must look like YYYY-MM-DD.")
		returned = &date
	}

	if err := v.Err(); err != nil {
		return api.BorrowInput{}, err
	}
	return api.BorrowInput{
		BorrowerName:            name,
		BorrowerMail:            mail,
		BorrowingDate:           borrowed,
		ReturnDate:              returned,
		BookForBorrowingRequest: api.Ref{ID: bookID},
	}, nil
}

// PinBorrowIdentity keeps the book and borrower mail of original, which an
// edit may not change.
func PinBorrowIdentity(edited, original BorrowDraft) BorrowDraft {
	edited.BookID = original.BookID
	edited.BorrowerMail = original.BorrowerMail
	return edited
}

// BorrowFromEntity fills a draft from a stored borrow record.
func BorrowFromEntity(r api.BorrowRecord) BorrowDraft {
	d := BorrowDraft{
		BookID:        FormatID(r.Book.ID),
		BorrowerName:  r.BorrowerName,
		BorrowerMail:  r.BorrowerMail,
		BorrowingDate: r.BorrowingDate.String(),
	}
	if r.ReturnDate != nil {
		d.ReturnDate = r.ReturnDate.String()
	}
	return d
}
