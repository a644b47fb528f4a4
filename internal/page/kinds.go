package page

import (
	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/forms"
	"github.com/gravitrone/libris/internal/notify"
	"github.com/gravitrone/libris/internal/store"
)

type (
	BookController      = Controller[api.Book, forms.BookDraft, api.BookInput]
	AuthorController    = Controller[api.Author, forms.AuthorDraft, api.AuthorInput]
	PublisherController = Controller[api.Publisher, forms.PublisherDraft, api.PublisherInput]
	CategoryController  = Controller[api.Category, forms.CategoryDraft, api.CategoryInput]
	BorrowController    = Controller[api.BorrowRecord, forms.BorrowDraft, api.BorrowInput]
)

// Search field names of the borrow screen.
const (
	SearchBook     = "book"
	SearchBorrower = "borrower"
)

var BookKind = Kind[api.Book, forms.BookDraft, api.BookInput]{
	Name:   "Book",
	Plural: "Books",
	ID:     func(b api.Book) int64 { return b.ID },
	Fields: []store.SearchField[api.Book]{
		{Name: "name", Value: func(b api.Book) string { return b.Name }},
	},
	FromEntity: forms.BookFromEntity,
	ToPayload:  forms.BookToPayload,
}

var AuthorKind = Kind[api.Author, forms.AuthorDraft, api.AuthorInput]{
	Name:   "Author",
	Plural: "Authors",
	ID:     func(a api.Author) int64 { return a.ID },
	Fields: []store.SearchField[api.Author]{
		{Name: "name", Value: func(a api.Author) string { return a.Name }},
	},
	FromEntity:    forms.AuthorFromEntity,
	ToPayload:     forms.AuthorToPayload,
	DeleteWarning: "Deleting this author also deletes all of their books and the borrow records of those books.",
}

var PublisherKind = Kind[api.Publisher, forms.PublisherDraft, api.PublisherInput]{
	Name:   "Publisher",
	Plural: "Publishers",
	ID:     func(p api.Publisher) int64 { return p.ID },
	Fields: []store.SearchField[api.Publisher]{
		{Name: "name", Value: func(p api.Publisher) string { return p.Name }},
	},
	FromEntity:    forms.PublisherFromEntity,
	ToPayload:     forms.PublisherToPayload,
	DeleteWarning: "Deleting this publisher also deletes all of its books and the borrow records of those books.",
}

var CategoryKind = Kind[api.Category, forms.CategoryDraft, api.CategoryInput]{
	Name:   "Category",
	Plural: "Categories",
	ID:     func(c api.Category) int64 { return c.ID },
	Fields: []store.SearchField[api.Category]{
		{Name: "name", Value: func(c api.Category) string { return c.Name }},
	},
	FromEntity:    forms.CategoryFromEntity,
	ToPayload:     forms.CategoryToPayload,
	DeleteWarning: "A category that is still used by books cannot be deleted.",
}

var BorrowKind = Kind[api.BorrowRecord, forms.BorrowDraft, api.BorrowInput]{
	Name:   "Borrow record",
	Plural: "Borrow records",
	ID:     func(r api.BorrowRecord) int64 { return r.ID },
	Fields: []store.SearchField[api.BorrowRecord]{
		{Name: SearchBook, Value: func(r api.BorrowRecord) string { return r.Book.Name }},
		{Name: SearchBorrower, Value: func(r api.BorrowRecord) string { return r.BorrowerName }},
	},
	FromEntity:     forms.BorrowFromEntity,
	ToPayload:      forms.BorrowToPayload,
	FetchDetail:    true,
	ReadOnlyOnEdit: []string{"book", "borrowerMail"},
	Pin:            forms.PinBorrowIdentity,
}

// --- Constructors ---

func NewBooks(c *api.Client, n notify.Notifier) *BookController {
	return New[api.Book, forms.BookDraft, api.BookInput](BookKind, c.Books(), n)
}

func NewAuthors(c *api.Client, n notify.Notifier) *AuthorController {
	return New[api.Author, forms.AuthorDraft, api.AuthorInput](AuthorKind, c.Authors(), n)
}

func NewPublishers(c *api.Client, n notify.Notifier) *PublisherController {
	return New[api.Publisher, forms.PublisherDraft, api.PublisherInput](PublisherKind, c.Publishers(), n)
}

// NewCategories reads the delete response body, so a category still in use
// is reported instead of silently kept.
func NewCategories(c *api.Client, n notify.Notifier) *CategoryController {
	return New[api.Category, forms.CategoryDraft, api.CategoryInput](CategoryKind, c.CategoriesWithGuard(), n)
}

func NewBorrows(c *api.Client, n notify.Notifier) *BorrowController {
	return New[api.BorrowRecord, forms.BorrowDraft, api.BorrowInput](BorrowKind, c.Borrows(), n)
}
