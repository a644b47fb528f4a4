package ui

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/forms"
	"github.com/gravitrone/libris/internal/notify"
	"github.com/gravitrone/libris/internal/page"
)

type (
	bookScreen      = Screen[api.Book, forms.BookDraft, api.BookInput]
	authorScreen    = Screen[api.Author, forms.AuthorDraft, api.AuthorInput]
	publisherScreen = Screen[api.Publisher, forms.PublisherDraft, api.PublisherInput]
	categoryScreen  = Screen[api.Category, forms.CategoryDraft, api.CategoryInput]
	borrowScreen    = Screen[api.BorrowRecord, forms.BorrowDraft, api.BorrowInput]
)

// Option sources of the reference selectors.
const (
	sourceAuthors    = "authors"
	sourcePublishers = "publishers"
	sourceCategories = "categories"
	sourceBooks      = "books"
)

const dateHint = "Dates use YYYY-MM-DD."

func textField[D any](key, label string, get func(D) string, set func(D, string) D) formField[D] {
	return formField[D]{key: key, label: label, kind: fieldText, get: get, set: set}
}

func selectField[D any](key, label, source string, get func(D) string, set func(D, string) D) formField[D] {
	return formField[D]{key: key, label: label, kind: fieldSelect, source: source, get: get, set: set}
}

func newBookScreen(ctx context.Context, client *api.Client, n notify.Notifier) bookScreen {
	spec := screenSpec[api.Book, forms.BookDraft, api.BookInput]{
		columns: BookColumns,
		row:     BookRow,
		label:   func(b api.Book) string { return b.Name },
		fields: []formField[forms.BookDraft]{
			textField("name", "Name",
				func(d forms.BookDraft) string { return d.Name },
				func(d forms.BookDraft, v string) forms.BookDraft { d.Name = v; return d }),
			textField("publicationYear", "Year",
				func(d forms.BookDraft) string { return d.PublicationYear },
				func(d forms.BookDraft, v string) forms.BookDraft { d.PublicationYear = v; return d }),
			textField("stock", "Stock",
				func(d forms.BookDraft) string { return d.Stock },
				func(d forms.BookDraft, v string) forms.BookDraft { d.Stock = v; return d }),
			selectField("author", "Author", sourceAuthors,
				func(d forms.BookDraft) string { return d.AuthorID },
				func(d forms.BookDraft, v string) forms.BookDraft { d.AuthorID = v; return d }),
			selectField("publisher", "Publisher", sourcePublishers,
				func(d forms.BookDraft) string { return d.PublisherID },
				func(d forms.BookDraft, v string) forms.BookDraft { d.PublisherID = v; return d }),
			{
				key:    "categories",
				label:  "Categories",
				kind:   fieldMulti,
				source: sourceCategories,
				get:    func(d forms.BookDraft) string { return "" },
				values: func(d forms.BookDraft) []string { return d.CategoryIDs },
				toggle: func(d forms.BookDraft, id string) forms.BookDraft { d.ToggleCategory(id); return d },
			},
		},
		loadOptions: bookOptions(client),
	}
	return newScreen(ctx, page.NewBooks(client, n), spec, n)
}

// bookOptions loads the three selector sources of the book form in
// parallel.
func bookOptions(client *api.Client) optionLoader {
	return func(ctx context.Context) (map[string][]forms.Option, error) {
		var (
			authors    []api.Author
			publishers []api.Publisher
			categories []api.Category
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			authors, err = client.Authors().List(gctx)
			return err
		})
		g.Go(func() (err error) {
			publishers, err = client.Publishers().List(gctx)
			return err
		})
		g.Go(func() (err error) {
			categories, err = client.Categories().List(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return map[string][]forms.Option{
			sourceAuthors:    forms.AuthorOptions(authors),
			sourcePublishers: forms.PublisherOptions(publishers),
			sourceCategories: forms.CategoryOptions(categories),
		}, nil
	}
}

func newAuthorScreen(ctx context.Context, client *api.Client, n notify.Notifier) authorScreen {
	spec := screenSpec[api.Author, forms.AuthorDraft, api.AuthorInput]{
		columns: AuthorColumns,
		row:     AuthorRow,
		label:   func(a api.Author) string { return a.Name },
		fields: []formField[forms.AuthorDraft]{
			textField("name", "Name",
				func(d forms.AuthorDraft) string { return d.Name },
				func(d forms.AuthorDraft, v string) forms.AuthorDraft { d.Name = v; return d }),
			textField("birthDate", "Birth date",
				func(d forms.AuthorDraft) string { return d.BirthDate },
				func(d forms.AuthorDraft, v string) forms.AuthorDraft { d.BirthDate = v; return d }),
			textField("country", "Country",
				func(d forms.AuthorDraft) string { return d.Country },
				func(d forms.AuthorDraft, v string) forms.AuthorDraft { d.Country = v; return d }),
		},
		formHint: dateHint,
	}
	return newScreen(ctx, page.NewAuthors(client, n), spec, n)
}

func newPublisherScreen(ctx context.Context, client *api.Client, n notify.Notifier) publisherScreen {
	spec := screenSpec[api.Publisher, forms.PublisherDraft, api.PublisherInput]{
		columns: PublisherColumns,
		row:     PublisherRow,
		label:   func(p api.Publisher) string { return p.Name },
		fields: []formField[forms.PublisherDraft]{
			textField("name", "Name",
				func(d forms.PublisherDraft) string { return d.Name },
				func(d forms.PublisherDraft, v string) forms.PublisherDraft { d.Name = v; return d }),
			textField("establishmentYear", "Founded",
				func(d forms.PublisherDraft) string { return d.EstablishmentYear },
				func(d forms.PublisherDraft, v string) forms.PublisherDraft { d.EstablishmentYear = v; return d }),
			textField("address", "Address",
				func(d forms.PublisherDraft) string { return d.Address },
				func(d forms.PublisherDraft, v string) forms.PublisherDraft { d.Address = v; return d }),
		},
	}
	return newScreen(ctx, page.NewPublishers(client, n), spec, n)
}

func newCategoryScreen(ctx context.Context, client *api.Client, n notify.Notifier) categoryScreen {
	spec := screenSpec[api.Category, forms.CategoryDraft, api.CategoryInput]{
		columns: CategoryColumns,
		row:     CategoryRow,
		label:   func(c api.Category) string { return c.Name },
		fields: []formField[forms.CategoryDraft]{
			textField("name", "Name",
				func(d forms.CategoryDraft) string { return d.Name },
				func(d forms.CategoryDraft, v string) forms.CategoryDraft { d.Name = v; return d }),
			textField("description", "Description",
				func(d forms.CategoryDraft) string { return d.Description },
				func(d forms.CategoryDraft, v string) forms.CategoryDraft { d.Description = v; return d }),
		},
	}
	return newScreen(ctx, page.NewCategories(client, n), spec, n)
}

func newBorrowScreen(ctx context.Context, client *api.Client, n notify.Notifier) borrowScreen {
	spec := screenSpec[api.BorrowRecord, forms.BorrowDraft, api.BorrowInput]{
		columns: BorrowColumns,
		row:     BorrowRow,
		label: func(r api.BorrowRecord) string {
			return r.BorrowerName + " / " + r.Book.Name
		},
		fields: []formField[forms.BorrowDraft]{
			selectField("book", "Book", sourceBooks,
				func(d forms.BorrowDraft) string { return d.BookID },
				func(d forms.BorrowDraft, v string) forms.BorrowDraft { d.BookID = v; return d }),
			textField("borrowerName", "Borrower",
				func(d forms.BorrowDraft) string { return d.BorrowerName },
				func(d forms.BorrowDraft, v string) forms.BorrowDraft { d.BorrowerName = v; return d }),
			textField("borrowerMail", "E-mail",
				func(d forms.BorrowDraft) string { return d.BorrowerMail },
				func(d forms.BorrowDraft, v string) forms.BorrowDraft { d.BorrowerMail = v; return d }),
			textField("borrowingDate", "Borrowed on",
				func(d forms.BorrowDraft) string { return d.BorrowingDate },
				func(d forms.BorrowDraft, v string) forms.BorrowDraft { d.BorrowingDate = v; return d }),
			textField("returnDate", "Returned on",
				func(d forms.BorrowDraft) string { return d.ReturnDate },
				func(d forms.BorrowDraft, v string) forms.BorrowDraft { d.ReturnDate = v; return d }),
		},
		loadOptions: func(ctx context.Context) (map[string][]forms.Option, error) {
			books, err := client.Books().List(ctx)
			if err != nil {
				return nil, err
			}
			return map[string][]forms.Option{sourceBooks: forms.BookOptions(books)}, nil
		},
		formHint: dateHint + " Leave the return date empty while the book is out.",
	}
	return newScreen(ctx, page.NewBorrows(client, n), spec, n)
}
