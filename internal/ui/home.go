package ui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/notify"
	"github.com/gravitrone/libris/internal/ui/components"
)

type summaryLoadedMsg struct {
	summary *api.Summary
	err     error
}

var (
	recentBookColumns = []components.TableColumn{
		{Header: "Name", Width: 24},
		{Header: "Author", Width: 18},
		{Header: "Categories", Width: 20},
	}
	recentBorrowColumns = []components.TableColumn{
		{Header: "Borrower", Width: 18},
		{Header: "Book", Width: 22},
		{Header: "Borrowed", Width: 10},
		{Header: "Returned", Width: 10},
	}
)

// HomeModel is the dashboard: totals plus the newest books and borrows.
type HomeModel struct {
	ctx      context.Context
	client   *api.Client
	notifier notify.Notifier
	summary  *api.Summary
	loading  bool
	width    int
}

func NewHomeModel(ctx context.Context, client *api.Client, n notify.Notifier) HomeModel {
	if n == nil {
		n = notify.Discard
	}
	return HomeModel{ctx: ctx, client: client, notifier: n}
}

func (m HomeModel) Init() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		summary, err := client.FetchSummary(ctx)
		return summaryLoadedMsg{summary: summary, err: err}
	}
}

func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if !api.Quiet(msg.err) {
				m.notifier.Notify("Could not load the dashboard: "+api.Classify(msg.err).UserMessage(), notify.Error)
			}
			return m, nil
		}
		m.summary = msg.summary
	case tea.KeyMsg:
		if isKey(msg, "r") && !m.loading {
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m HomeModel) View() string {
	if m.summary == nil {
		body := MutedStyle.Render("Loading the library...") + "\n\n" + components.InfoRow("Server", m.client.BaseURL())
		return components.Box(body, m.width)
	}
	s := m.summary

	totals := components.Table("Library", []components.TableRow{
		{Label: "Books", Value: strconv.Itoa(s.TotalBooks)},
		{Label: "Authors", Value: strconv.Itoa(s.TotalAuthors)},
		{Label: "Categories", Value: strconv.Itoa(s.TotalCategories)},
		{Label: "Borrows", Value: strconv.Itoa(s.TotalBorrows)},
	}, m.width)

	inner := components.BoxContentWidth(m.width)
	books := MutedStyle.Render("No books yet.")
	if len(s.RecentBooks) > 0 {
		books = components.TableGrid(recentBookColumns, Rows(s.RecentBooks, func(b api.Book) []string {
			return []string{b.Name, b.Author.Name, CategoryCell(b)}
		}), inner)
	}
	borrows := MutedStyle.Render("No borrow records yet.")
	if len(s.RecentBorrows) > 0 {
		borrows = components.TableGrid(recentBorrowColumns, Rows(s.RecentBorrows, func(r api.BorrowRecord) []string {
			return []string{r.BorrowerName, r.Book.Name, r.BorrowingDate.String(), ReturnCell(r)}
		}), inner)
	}

	return strings.Join([]string{
		totals,
		components.TitledBox("Recent books", books, m.width),
		components.TitledBox("Recent borrows", borrows, m.width),
	}, "\n")
}

func (m HomeModel) Hints() []string {
	return []string{components.Hint("r", "refresh")}
}
