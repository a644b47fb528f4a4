package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/forms"
	"github.com/gravitrone/libris/internal/page"
	"github.com/gravitrone/libris/internal/store"
	"github.com/gravitrone/libris/internal/ui"
	"github.com/gravitrone/libris/internal/ui/components"
)

// detail is one labelled line of `get` output.
type detail struct {
	label string
	value string
}

// entityCommand describes one `libris <plural>` command group.
type entityCommand[T any, D any, In any] struct {
	use      string
	kind     page.Kind[T, D, In]
	resource func(*api.Client) page.Resource[T, In]
	columns  []components.TableColumn
	row      func(T) []string
	details  func(T) []detail
}

func (e entityCommand[T, D, In]) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   e.use,
		Short: "List, show and delete " + e.plural(),
	}
	cmd.AddCommand(e.listCmd())
	cmd.AddCommand(e.getCmd())
	cmd.AddCommand(e.deleteCmd())
	return cmd
}

func (e entityCommand[T, D, In]) plural() string {
	return strings.ToLower(e.kind.Plural)
}

func (e entityCommand[T, D, In]) singular() string {
	return strings.ToLower(e.kind.Name)
}

func (e entityCommand[T, D, In]) listCmd() *cobra.Command {
	var search, by string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + e.plural() + ", newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, done, err := newClient()
			if err != nil {
				return err
			}
			defer done()
			items, err := e.resource(client).List(cmd.Context())
			if err != nil {
				return failed("list "+e.plural(), err)
			}

			list := store.New(e.kind.ID, e.kind.Fields...)
			list.Load(items)
			if by != "" && !list.SetSearchField(by) {
				return fmt.Errorf("unknown search field %q: want %s", by, strings.Join(list.SearchFields(), " or "))
			}
			list.ApplySearch(search)

			out := cmd.OutOrStdout()
			matches := list.Filtered()
			if len(matches) == 0 {
				fmt.Fprintf(out, "no %s found\n", e.plural())
				return nil
			}
			fmt.Fprint(out, components.PlainTable(e.columns, ui.Rows(matches, e.row)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive substring filter")
	if len(e.kind.Fields) > 1 {
		names := make([]string, len(e.kind.Fields))
		for i, f := range e.kind.Fields {
			names[i] = f.Name
		}
		cmd.Flags().StringVar(&by, "by", names[0], "field to search ("+strings.Join(names, "|")+")")
	}
	return cmd
}

func (e entityCommand[T, D, In]) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + e.singular(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, done, err := newClient()
			if err != nil {
				return err
			}
			defer done()
			item, err := e.resource(client).Get(cmd.Context(), id)
			if err != nil {
				return failed(fmt.Sprintf("get %s %d", e.singular(), id), err)
			}

			lines := e.details(item)
			width := 0
			for _, l := range lines {
				width = max(width, len(l.label)+1)
			}
			out := cmd.OutOrStdout()
			for _, l := range lines {
				fmt.Fprintf(out, "%-*s  %s\n", width, l.label+":", components.SanitizeOneLine(l.value))
			}
			return nil
		},
	}
}

func (e entityCommand[T, D, In]) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one " + e.singular(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %s %d?", e.singular(), id), e.kind.DeleteWarning)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "cancelled")
					return nil
				}
			}

			client, done, err := newClient()
			if err != nil {
				return err
			}
			defer done()
			if err := e.resource(client).Delete(cmd.Context(), id); err != nil {
				return failed(fmt.Sprintf("delete %s %d", e.singular(), id), err)
			}
			fmt.Fprintf(out, "%s %d deleted\n", e.kind.Name, id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on in. A non-terminal stdin is refused so
// scripts have to pass --yes.
func confirm(in io.Reader, out io.Writer, question, warning string) (bool, error) {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errors.New("stdin is not a terminal: pass --yes to delete")
	}
	if warning != "" {
		fmt.Fprintf(out, "! %s\n", warning)
	}
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// --- Commands ---

// BooksCmd returns the `libris books` command group.
func BooksCmd() *cobra.Command {
	return entityCommand[api.Book, forms.BookDraft, api.BookInput]{
		use:      "books",
		kind:     page.BookKind,
		resource: func(c *api.Client) page.Resource[api.Book, api.BookInput] { return c.Books() },
		columns:  ui.BookColumns,
		row:      ui.BookRow,
		details: func(b api.Book) []detail {
			return []detail{
				{"ID", forms.FormatID(b.ID)},
				{"Name", b.Name},
				{"Year", strconv.Itoa(b.PublicationYear)},
				{"Stock", strconv.Itoa(b.Stock)},
				{"Author", b.Author.Name},
				{"Publisher", b.Publisher.Name},
				{"Categories", b.CategoryNames()},
			}
		},
	}.command()
}

// AuthorsCmd returns the `libris authors` command group.
func AuthorsCmd() *cobra.Command {
	return entityCommand[api.Author, forms.AuthorDraft, api.AuthorInput]{
		use:      "authors",
		kind:     page.AuthorKind,
		resource: func(c *api.Client) page.Resource[api.Author, api.AuthorInput] { return c.Authors() },
		columns:  ui.AuthorColumns,
		row:      ui.AuthorRow,
		details: func(a api.Author) []detail {
			return []detail{
				{"ID", forms.FormatID(a.ID)},
				{"Name", a.Name},
				{"Born", a.BirthDate.String()},
				{"Country", a.Country},
			}
		},
	}.command()
}

// PublishersCmd returns the `libris publishers` command group.
func PublishersCmd() *cobra.Command {
	return entityCommand[api.Publisher, forms.PublisherDraft, api.PublisherInput]{
		use:      "publishers",
		kind:     page.PublisherKind,
		resource: func(c *api.Client) page.Resource[api.Publisher, api.PublisherInput] { return c.Publishers() },
		columns:  ui.PublisherColumns,
		row:      ui.PublisherRow,
		details: func(p api.Publisher) []detail {
			return []detail{
				{"ID", forms.FormatID(p.ID)},
				{"Name", p.Name},
				{"Founded", strconv.Itoa(p.EstablishmentYear)},
				{"Address", p.Address},
			}
		},
	}.command()
}

// CategoriesCmd returns the `libris categories` command group.
func CategoriesCmd() *cobra.Command {
	return entityCommand[api.Category, forms.CategoryDraft, api.CategoryInput]{
		use:      "categories",
		kind:     page.CategoryKind,
		resource: func(c *api.Client) page.Resource[api.Category, api.CategoryInput] { return c.CategoriesWithGuard() },
		columns:  ui.CategoryColumns,
		row:      ui.CategoryRow,
		details: func(c api.Category) []detail {
			return []detail{
				{"ID", forms.FormatID(c.ID)},
				{"Name", c.Name},
				{"Description", c.Description},
			}
		},
	}.command()
}

// BorrowsCmd returns the `libris borrows` command group. `list --by` picks
// between the book and borrower search fields.
func BorrowsCmd() *cobra.Command {
	return entityCommand[api.BorrowRecord, forms.BorrowDraft, api.BorrowInput]{
		use:      "borrows",
		kind:     page.BorrowKind,
		resource: func(c *api.Client) page.Resource[api.BorrowRecord, api.BorrowInput] { return c.Borrows() },
		columns:  ui.BorrowColumns,
		row:      ui.BorrowRow,
		details: func(r api.BorrowRecord) []detail {
			return []detail{
				{"ID", forms.FormatID(r.ID)},
				{"Book", r.Book.Name},
				{"Borrower", r.BorrowerName},
				{"E-mail", r.BorrowerMail},
				{"Borrowed", r.BorrowingDate.String()},
				{"Returned", ui.ReturnCell(r)},
			}
		},
	}.command()
}
