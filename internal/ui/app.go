package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/config"
	"github.com/gravitrone/libris/internal/notify"
	"github.com/gravitrone/libris/internal/ui/components"
)

// --- Tab Constants ---

const (
	tabHome = iota
	tabBooks
	tabAuthors
	tabPublishers
	tabCategories
	tabBorrows
	tabCount
)

var tabNames = []string{"Home", "Books", "Authors", "Publishers", "Categories", "Borrows"}

// toastDuration is how long a notification stays on screen.
const toastDuration = 3 * time.Second

// --- Messages ---

type clearToastMsg struct{ seq int }

type appToast struct {
	kind notify.Kind
	text string
}

// --- App Model ---

// App is the root TUI model that routes between tabs.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	queue  *notify.Queue

	tab         int
	tabNav      bool
	width       int
	height      int
	helpOpen    bool
	quitConfirm bool
	toast       *appToast
	toastSeq    int
	toastAfter  time.Duration

	home       HomeModel
	books      bookScreen
	authors    authorScreen
	publishers publisherScreen
	categories categoryScreen
	borrows    borrowScreen
}

// NewApp creates the root application model. Every screen reports into one
// notification queue that the app drains into toasts.
func NewApp(client *api.Client, cfg *config.Config) App {
	ctx, cancel := context.WithCancel(context.Background())
	queue := &notify.Queue{}
	vim := cfg != nil && cfg.VimKeys
	return App{
		ctx:        ctx,
		cancel:     cancel,
		queue:      queue,
		tab:        tabHome,
		tabNav:     true,
		toastAfter: toastDuration,
		home:       NewHomeModel(ctx, client, queue),
		books:      newBookScreen(ctx, client, queue).WithVimKeys(vim),
		authors:    newAuthorScreen(ctx, client, queue).WithVimKeys(vim),
		publishers: newPublisherScreen(ctx, client, queue).WithVimKeys(vim),
		categories: newCategoryScreen(ctx, client, queue).WithVimKeys(vim),
		borrows:    newBorrowScreen(ctx, client, queue).WithVimKeys(vim),
	}
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.home.width = msg.Width
		a.books = a.books.Resize(msg.Width, msg.Height)
		a.authors = a.authors.Resize(msg.Width, msg.Height)
		a.publishers = a.publishers.Resize(msg.Width, msg.Height)
		a.categories = a.categories.Resize(msg.Width, msg.Height)
		a.borrows = a.borrows.Resize(msg.Width, msg.Height)
		return a, nil

	case clearToastMsg:
		if msg.seq == a.toastSeq {
			a.toast = nil
		}
		return a, nil

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a.quit()
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if isKey(msg, "ctrl+c") {
			return a.requestQuit()
		}
		if a.activeCapturing() {
			break
		}

		// Global keys
		if isKey(msg, "?") {
			a.helpOpen = true
			return a, nil
		}
		if isQuit(msg) {
			return a.requestQuit()
		}
		if idx, ok := tabIndexForKey(msg.String()); ok {
			return a.switchTab(idx)
		}

		// Arrow tab navigation until the user enters content with Down.
		if a.tabNav {
			switch {
			case isKey(msg, "left"):
				return a.switchTab((a.tab - 1 + tabCount) % tabCount)
			case isKey(msg, "right"):
				return a.switchTab((a.tab + 1) % tabCount)
			case isDown(msg):
				a.tabNav = false
				return a, nil
			}
			// Any other key exits tab nav so the active tab can handle it.
			a.tabNav = false
		} else if isUp(msg) && a.activeAtTop() {
			a.tabNav = true
			return a, nil
		}
		return a.withToast(a.updateActive(msg))
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		return a.withToast(a.updateActive(msg))
	}
	return a.withToast(a.broadcast(msg))
}

// updateActive hands a key press to the visible tab only.
func (a App) updateActive(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.tab {
	case tabHome:
		a.home, cmd = a.home.Update(msg)
	case tabBooks:
		a.books, cmd = a.books.Update(msg)
	case tabAuthors:
		a.authors, cmd = a.authors.Update(msg)
	case tabPublishers:
		a.publishers, cmd = a.publishers.Update(msg)
	case tabCategories:
		a.categories, cmd = a.categories.Update(msg)
	case tabBorrows:
		a.borrows, cmd = a.borrows.Update(msg)
	}
	return a, cmd
}

// broadcast delivers a result message to every tab. Result messages are
// typed by entity, so only the tab that asked reacts; a reply still lands
// after the user has switched away.
func (a App) broadcast(msg tea.Msg) (App, tea.Cmd) {
	cmds := make([]tea.Cmd, 6)
	a.home, cmds[0] = a.home.Update(msg)
	a.books, cmds[1] = a.books.Update(msg)
	a.authors, cmds[2] = a.authors.Update(msg)
	a.publishers, cmds[3] = a.publishers.Update(msg)
	a.categories, cmds[4] = a.categories.Update(msg)
	a.borrows, cmds[5] = a.borrows.Update(msg)
	return a, tea.Batch(cmds...)
}

// withToast shows the newest queued notification, if any.
func (a App) withToast(next App, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	msgs := next.queue.Drain()
	if len(msgs) == 0 {
		return next, cmd
	}
	last := msgs[len(msgs)-1]
	toastCmd := next.setToast(last.Kind, last.Text)
	return next, tea.Batch(cmd, toastCmd)
}

func (a *App) setToast(kind notify.Kind, text string) tea.Cmd {
	a.toastSeq++
	a.toast = &appToast{kind: kind, text: components.SanitizeOneLine(text)}
	seq := a.toastSeq
	return tea.Tick(a.toastAfter, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

func (a App) requestQuit() (tea.Model, tea.Cmd) {
	if a.hasUnsaved() {
		a.quitConfirm = true
		return a, nil
	}
	return a.quit()
}

// quit cancels in-flight requests before leaving.
func (a App) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	return a, tea.Quit
}

func (a App) switchTab(newTab int) (tea.Model, tea.Cmd) {
	if newTab == a.tab {
		return a, nil
	}
	a.tab = newTab
	return a, a.initTab(newTab)
}

// initTab reloads a tab whenever it is shown.
func (a App) initTab(tab int) tea.Cmd {
	switch tab {
	case tabHome:
		return a.home.Init()
	case tabBooks:
		return a.books.Init()
	case tabAuthors:
		return a.authors.Init()
	case tabPublishers:
		return a.publishers.Init()
	case tabCategories:
		return a.categories.Init()
	case tabBorrows:
		return a.borrows.Init()
	}
	return nil
}

func (a App) activeCapturing() bool {
	switch a.tab {
	case tabBooks:
		return a.books.Capturing()
	case tabAuthors:
		return a.authors.Capturing()
	case tabPublishers:
		return a.publishers.Capturing()
	case tabCategories:
		return a.categories.Capturing()
	case tabBorrows:
		return a.borrows.Capturing()
	}
	return false
}

func (a App) activeAtTop() bool {
	switch a.tab {
	case tabBooks:
		return a.books.AtTop()
	case tabAuthors:
		return a.authors.AtTop()
	case tabPublishers:
		return a.publishers.AtTop()
	case tabCategories:
		return a.categories.AtTop()
	case tabBorrows:
		return a.borrows.AtTop()
	}
	return true
}

func (a App) hasUnsaved() bool {
	return a.books.HasDraft() ||
		a.authors.HasDraft() ||
		a.publishers.HasDraft() ||
		a.categories.HasDraft() ||
		a.borrows.HasDraft()
}

// --- View ---

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = components.ConfirmDialog("Quit", "You have an unsaved form. Quit anyway?", "", a.width)
	case a.helpOpen:
		content = a.renderHelp()
	default:
		content = a.activeView()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s%s", banner, tabs, content, hints, feedback)
}

func (a App) activeView() string {
	switch a.tab {
	case tabBooks:
		return a.books.View()
	case tabAuthors:
		return a.authors.View()
	case tabPublishers:
		return a.publishers.View()
	case tabCategories:
		return a.categories.View()
	case tabBorrows:
		return a.borrows.View()
	}
	return a.home.View()
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		switch {
		case i == a.tab && a.tabNav:
			segments = append(segments, TabNavStyle.Render(label))
		case i == a.tab:
			segments = append(segments, TabActiveStyle.Render(label))
		default:
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{components.Hint("y", "quit"), components.Hint("n", "stay")}
	}
	if a.helpOpen {
		return []string{components.Hint("esc", "close")}
	}
	hints := a.tabHints()
	if !a.activeCapturing() {
		hints = append(hints,
			components.Hint("1-6", "tabs"),
			components.Hint("?", "help"),
			components.Hint("q", "quit"),
		)
	}
	return hints
}

func (a App) tabHints() []string {
	switch a.tab {
	case tabBooks:
		return a.books.Hints()
	case tabAuthors:
		return a.authors.Hints()
	case tabPublishers:
		return a.publishers.Hints()
	case tabCategories:
		return a.categories.Hints()
	case tabBorrows:
		return a.borrows.Hints()
	}
	return a.home.Hints()
}

func (a App) renderHelp() string {
	lines := []string{MutedStyle.Render("esc to close"), ""}
	for _, hint := range a.tabHints() {
		lines = append(lines, "  "+hint)
	}
	lines = append(lines,
		"",
		"  "+components.Hint("←/→", "switch tab from the tab bar"),
		"  "+components.Hint("↑", "back to the tab bar from the first row"),
	)
	return components.Indent(components.TitledBox("Help", strings.Join(lines, "\n"), a.width), 1)
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	switch a.toast.kind {
	case notify.Error:
		return components.ErrorBox("Error", a.toast.text, a.width)
	case notify.Success:
		return components.SuccessBox(a.toast.text, a.width)
	}
	return components.TitledBox("Info", a.toast.text, a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	prefix := strings.Repeat(" ", (width-maxWidth)/2)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func tabIndexForKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	return idx, idx < tabCount
}
