package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/forms"
	"github.com/gravitrone/libris/internal/ui/components"
)

// categoryCellRunes is where the joined category names get cut.
const categoryCellRunes = 17

// Column sets and row renderers, shared by the TUI screens and the CLI.
var (
	BookColumns = []components.TableColumn{
		{Header: "ID", Width: 4, Align: lipgloss.Right},
		{Header: "Name", Width: 22},
		{Header: "Year", Width: 5},
		{Header: "Stock", Width: 5, Align: lipgloss.Right},
		{Header: "Author", Width: 16},
		{Header: "Publisher", Width: 16},
		{Header: "Categories", Width: 20},
	}
	AuthorColumns = []components.TableColumn{
		{Header: "ID", Width: 4, Align: lipgloss.Right},
		{Header: "Name", Width: 24},
		{Header: "Born", Width: 10},
		{Header: "Country", Width: 16},
	}
	PublisherColumns = []components.TableColumn{
		{Header: "ID", Width: 4, Align: lipgloss.Right},
		{Header: "Name", Width: 24},
		{Header: "Founded", Width: 7},
		{Header: "Address", Width: 24},
	}
	CategoryColumns = []components.TableColumn{
		{Header: "ID", Width: 4, Align: lipgloss.Right},
		{Header: "Name", Width: 20},
		{Header: "Description", Width: 30},
	}
	BorrowColumns = []components.TableColumn{
		{Header: "ID", Width: 4, Align: lipgloss.Right},
		{Header: "", Width: 1},
		{Header: "Borrower", Width: 18},
		{Header: "E-mail", Width: 20},
		{Header: "Book", Width: 20},
		{Header: "Borrowed", Width: 10},
		{Header: "Returned", Width: 10},
	}
)

func BookRow(b api.Book) []string {
	return []string{
		forms.FormatID(b.ID),
		b.Name,
		strconv.Itoa(b.PublicationYear),
		strconv.Itoa(b.Stock),
		b.Author.Name,
		b.Publisher.Name,
		CategoryCell(b),
	}
}

func AuthorRow(a api.Author) []string {
	return []string{forms.FormatID(a.ID), a.Name, a.BirthDate.String(), a.Country}
}

func PublisherRow(p api.Publisher) []string {
	return []string{forms.FormatID(p.ID), p.Name, strconv.Itoa(p.EstablishmentYear), p.Address}
}

func CategoryRow(c api.Category) []string {
	return []string{forms.FormatID(c.ID), c.Name, c.Description}
}

// BorrowRow marks records whose book is still out with "●".
func BorrowRow(r api.BorrowRecord) []string {
	mark := "●"
	if r.Returned() {
		mark = ""
	}
	return []string{
		forms.FormatID(r.ID),
		mark,
		r.BorrowerName,
		r.BorrowerMail,
		r.Book.Name,
		r.BorrowingDate.String(),
		ReturnCell(r),
	}
}

// CategoryCell joins the category names and cuts long lists.
func CategoryCell(b api.Book) string {
	return components.Ellipsize(b.CategoryNames(), categoryCellRunes)
}

// ReturnCell shows "-" while the book is out.
func ReturnCell(r api.BorrowRecord) string {
	if !r.Returned() {
		return "-"
	}
	return r.ReturnDate.String()
}

// Rows renders items with row.
func Rows[T any](items []T, row func(T) []string) [][]string {
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, row(item))
	}
	return out
}
