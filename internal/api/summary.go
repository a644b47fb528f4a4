package api

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// RecentLimit is how many recent books and borrows the dashboard shows.
const RecentLimit = 5

// Summary is the dashboard view of the library.
type Summary struct {
	TotalBooks      int
	TotalAuthors    int
	TotalCategories int
	TotalBorrows    int
	RecentBooks     []Book
	RecentBorrows   []BorrowRecord
}

// FetchSummary loads books, authors, categories and borrows in parallel. The
// recent lists hold the last RecentLimit items of the server order, newest
// first.
func (c *Client) FetchSummary(ctx context.Context) (*Summary, error) {
	var (
		books      []Book
		authors    []Author
		categories []Category
		borrows    []BorrowRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		books, err = c.Books().List(gctx)
		return err
	})
	g.Go(func() (err error) {
		authors, err = c.Authors().List(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = c.Categories().List(gctx)
		return err
	})
	g.Go(func() (err error) {
		borrows, err = c.Borrows().List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		TotalBooks:      len(books),
		TotalAuthors:    len(authors),
		TotalCategories: len(categories),
		TotalBorrows:    len(borrows),
		RecentBooks:     lastReversed(books, RecentLimit),
		RecentBorrows:   lastReversed(borrows, RecentLimit),
	}, nil
}

func lastReversed[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[len(items)-n:]
	}
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}
