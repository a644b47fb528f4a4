package forms

import (
	"fmt"

	"github.com/gravitrone/libris/internal/api"
)

// Option is one choice in a reference selector.
type Option struct {
	Value string
	Label string
}

func AuthorOptions(authors []api.Author) []Option {
	out := make([]Option, 0, len(authors))
	for _, a := range authors {
		out = append(out, Option{Value: FormatID(a.ID), Label: a.Name})
	}
	return out
}

func PublisherOptions(publishers []api.Publisher) []Option {
	out := make([]Option, 0, len(publishers))
	for _, p := range publishers {
		out = append(out, Option{Value: FormatID(p.ID), Label: p.Name})
	}
	return out
}

func CategoryOptions(categories []api.Category) []Option {
	out := make([]Option, 0, len(categories))
	for _, c := range categories {
		out = append(out, Option{Value: FormatID(c.ID), Label: c.Name})
	}
	return out
}

// BookOptions labels each book with its author so same-titled editions can
// be told apart.
func BookOptions(books []api.Book) []Option {
	out := make([]Option, 0, len(books))
	for _, b := range books {
		label := b.Name
		if b.Author.Name != "" {
			label = fmt.Sprintf("%s (%s)", b.Name, b.Author.Name)
		}
		out = append(out, Option{Value: FormatID(b.ID), Label: label})
	}
	return out
}

// LabelFor returns the label of value, or value itself when no option
// matches.
func LabelFor(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
