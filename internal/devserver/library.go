// Package devserver is an in-memory library backend that speaks the same
// /api/v1 contract as the production service, server-side rules included:
// author and publisher deletes cascade, categories in use refuse deletion.
// It backs local runs and end-to-end tests.
package devserver

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/gravitrone/libris/internal/api"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

type bookRow struct {
	id          int64
	name        string
	year        int
	stock       int
	authorID    int64
	publisherID int64
	categoryIDs []int64
}

type borrowRow struct {
	id       int64
	name     string
	mail     string
	borrowed api.Date
	returned *api.Date
	bookID   int64
}

// Library holds every entity in memory. It is safe for concurrent use.
type Library struct {
	mu         sync.RWMutex
	nextID     int64
	authors    map[int64]api.Author
	publishers map[int64]api.Publisher
	categories map[int64]api.Category
	books      map[int64]bookRow
	borrows    map[int64]borrowRow
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		authors:    map[int64]api.Author{},
		publishers: map[int64]api.Publisher{},
		categories: map[int64]api.Category{},
		books:      map[int64]bookRow{},
		borrows:    map[int64]borrowRow{},
	}
}

func (l *Library) newID() int64 {
	l.nextID++
	return l.nextID
}

func sortedValues[V any](m map[int64]V) []V {
	out := make([]V, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[id])
	}
	return out
}

// --- Authors ---

func (l *Library) Authors() []api.Author {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedValues(l.authors)
}

func (l *Library) Author(id int64) (api.Author, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.authors[id]
	if !ok {
		return api.Author{}, ErrNotFound
	}
	return a, nil
}

func (l *Library) SaveAuthor(id int64, in api.AuthorInput) (api.Author, error) {
	if strings.TrimSpace(in.Name) == "" {
		return api.Author{}, invalid("author name is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if id == 0 {
		id = l.newID()
	} else if _, ok := l.authors[id]; !ok {
		return api.Author{}, ErrNotFound
	}
	a := api.Author{ID: id, Name: in.Name, BirthDate: in.BirthDate, Country: in.Country}
	l.authors[id] = a
	return a, nil
}

// DeleteAuthor removes the author with their books and those books' borrows.
func (l *Library) DeleteAuthor(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.authors[id]; !ok {
		return ErrNotFound
	}
	delete(l.authors, id)
	l.dropBooksLocked(func(b bookRow) bool { return b.authorID == id })
	return nil
}

// --- Publishers ---

func (l *Library) Publishers() []api.Publisher {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedValues(l.publishers)
}

func (l *Library) Publisher(id int64) (api.Publisher, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.publishers[id]
	if !ok {
		return api.Publisher{}, ErrNotFound
	}
	return p, nil
}

func (l *Library) SavePublisher(id int64, in api.PublisherInput) (api.Publisher, error) {
	if strings.TrimSpace(in.Name) == "" {
		return api.Publisher{}, invalid("publisher name is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if id == 0 {
		id = l.newID()
	} else if _, ok := l.publishers[id]; !ok {
		return api.Publisher{}, ErrNotFound
	}
	p := api.Publisher{ID: id, Name: in.Name, EstablishmentYear: in.EstablishmentYear, Address: in.Address}
	l.publishers[id] = p
	return p, nil
}

// DeletePublisher removes the publisher with its books and their borrows.
func (l *Library) DeletePublisher(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.publishers[id]; !ok {
		return ErrNotFound
	}
	delete(l.publishers, id)
	l.dropBooksLocked(func(b bookRow) bool { return b.publisherID == id })
	return nil
}

// --- Categories ---

func (l *Library) Categories() []api.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedValues(l.categories)
}

func (l *Library) Category(id int64) (api.Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.categories[id]
	if !ok {
		return api.Category{}, ErrNotFound
	}
	return c, nil
}

func (l *Library) SaveCategory(id int64, in api.CategoryInput) (api.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return api.Category{}, invalid("category name is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if id == 0 {
		id = l.newID()
	} else if _, ok := l.categories[id]; !ok {
		return api.Category{}, ErrNotFound
	}
	c := api.Category{ID: id, Name: in.Name, Description: in.Description}
	l.categories[id] = c
	return c, nil
}

// DeleteCategory reports false without deleting when a book still uses the
// category.
func (l *Library) DeleteCategory(id int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.categories[id]; !ok {
		return false, ErrNotFound
	}
	for _, b := range l.books {
		if slices.Contains(b.categoryIDs, id) {
			return false, nil
		}
	}
	delete(l.categories, id)
	return true, nil
}

// --- Books ---

func (l *Library) Books() []api.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rows := sortedValues(l.books)
	out := make([]api.Book, 0, len(rows))
	for _, row := range rows {
		out = append(out, l.hydrateBookLocked(row))
	}
	return out
}

func (l *Library) Book(id int64) (api.Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	row, ok := l.books[id]
	if !ok {
		return api.Book{}, ErrNotFound
	}
	return l.hydrateBookLocked(row), nil
}

func (l *Library) SaveBook(id int64, in api.BookInput) (api.Book, error) {
	if strings.TrimSpace(in.Name) == "" {
		return api.Book{}, invalid("book name is required")
	}
	if in.Stock < 0 {
		return api.Book{}, invalid("stock cannot be negative")
	}
	if len(in.Categories) == 0 {
		return api.Book{}, invalid("a book needs at least one category")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.authors[in.Author.ID]; !ok {
		return api.Book{}, invalid("author %d does not exist", in.Author.ID)
	}
	if _, ok := l.publishers[in.Publisher.ID]; !ok {
		return api.Book{}, invalid("publisher %d does not exist", in.Publisher.ID)
	}
	categoryIDs := make([]int64, 0, len(in.Categories))
	for _, ref := range in.Categories {
		if _, ok := l.categories[ref.ID]; !ok {
			return api.Book{}, invalid("category %d does not exist", ref.ID)
		}
		categoryIDs = append(categoryIDs, ref.ID)
	}

	if id == 0 {
		id = l.newID()
	} else if _, ok := l.books[id]; !ok {
		return api.Book{}, ErrNotFound
	}
	row := bookRow{
		id:          id,
		name:        in.Name,
		year:        in.PublicationYear,
		stock:       in.Stock,
		authorID:    in.Author.ID,
		publisherID: in.Publisher.ID,
		categoryIDs: categoryIDs,
	}
	l.books[id] = row
	return l.hydrateBookLocked(row), nil
}

// DeleteBook removes the book and its borrow records.
func (l *Library) DeleteBook(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.books[id]; !ok {
		return ErrNotFound
	}
	l.dropBooksLocked(func(b bookRow) bool { return b.id == id })
	return nil
}

func (l *Library) hydrateBookLocked(row bookRow) api.Book {
	b := api.Book{
		ID:              row.id,
		Name:            row.name,
		PublicationYear: row.year,
		Stock:           row.stock,
		Author:          l.authors[row.authorID],
		Publisher:       l.publishers[row.publisherID],
		Categories:      make([]api.Category, 0, len(row.categoryIDs)),
	}
	for _, id := range row.categoryIDs {
		b.Categories = append(b.Categories, l.categories[id])
	}
	return b
}

func (l *Library) dropBooksLocked(match func(bookRow) bool) {
	for id, b := range l.books {
		if !match(b) {
			continue
		}
		delete(l.books, id)
		for rid, r := range l.borrows {
			if r.bookID == id {
				delete(l.borrows, rid)
			}
		}
	}
}

// --- Borrows ---

func (l *Library) Borrows() []api.BorrowRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rows := sortedValues(l.borrows)
	out := make([]api.BorrowRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, l.hydrateBorrowLocked(row))
	}
	return out
}

func (l *Library) Borrow(id int64) (api.BorrowRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	row, ok := l.borrows[id]
	if !ok {
		return api.BorrowRecord{}, ErrNotFound
	}
	return l.hydrateBorrowLocked(row), nil
}

// SaveBorrow creates a record, or on update changes only the borrower name
// and the dates. Mail and book are fixed at creation.
func (l *Library) SaveBorrow(id int64, in api.BorrowInput) (api.BorrowRecord, error) {
	if strings.TrimSpace(in.BorrowerName) == "" {
		return api.BorrowRecord{}, invalid("borrower name is required")
	}
	if in.BorrowingDate.IsZero() {
		return api.BorrowRecord{}, invalid("borrowing date is required")
	}
	returned := in.ReturnDate
	if returned != nil && returned.IsZero() {
		returned = nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if id != 0 {
		row, ok := l.borrows[id]
		if !ok {
			return api.BorrowRecord{}, ErrNotFound
		}
		row.name = in.BorrowerName
		row.borrowed = in.BorrowingDate
		row.returned = returned
		l.borrows[id] = row
		return l.hydrateBorrowLocked(row), nil
	}

	if !strings.Contains(in.BorrowerMail, "@") {
		return api.BorrowRecord{}, invalid("borrower mail is invalid")
	}
	if _, ok := l.books[in.BookForBorrowingRequest.ID]; !ok {
		return api.BorrowRecord{}, invalid("book %d does not exist", in.BookForBorrowingRequest.ID)
	}
	row := borrowRow{
		id:       l.newID(),
		name:     in.BorrowerName,
		mail:     in.BorrowerMail,
		borrowed: in.BorrowingDate,
		returned: returned,
		bookID:   in.BookForBorrowingRequest.ID,
	}
	l.borrows[row.id] = row
	return l.hydrateBorrowLocked(row), nil
}

func (l *Library) DeleteBorrow(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.borrows[id]; !ok {
		return ErrNotFound
	}
	delete(l.borrows, id)
	return nil
}

func (l *Library) hydrateBorrowLocked(row borrowRow) api.BorrowRecord {
	r := api.BorrowRecord{
		ID:            row.id,
		BorrowerName:  row.name,
		BorrowerMail:  row.mail,
		BorrowingDate: row.borrowed,
		Book:          l.hydrateBookLocked(l.books[row.bookID]),
	}
	if row.returned != nil {
		d := *row.returned
		r.ReturnDate = &d
	}
	return r
}
