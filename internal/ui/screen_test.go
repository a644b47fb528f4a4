package ui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/devserver"
	"github.com/gravitrone/libris/internal/notify"
	"github.com/gravitrone/libris/internal/page"
	"github.com/gravitrone/libris/internal/ui/components"
)

func seededBackend(t *testing.T) (*devserver.Library, *api.Client) {
	t.Helper()
	lib := devserver.NewLibrary()
	require.NoError(t, devserver.Seed(lib))
	srv := httptest.NewServer(devserver.New(lib))
	t.Cleanup(srv.Close)
	return lib, api.NewClient(srv.URL + "/api/v1")
}

// drain runs cmd and every command it leads to, feeding each result back
// through update. Toast timers and quit are dropped.
func drain[M any](m M, cmd tea.Cmd, update func(M, tea.Msg) (M, tea.Cmd)) M {
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
		case clearToastMsg, tea.QuitMsg:
		default:
			var more tea.Cmd
			m, more = update(m, msg)
			pending = append(pending, more)
		}
	}
	return m
}

func screenUpdate[T any, D any, In any](s Screen[T, D, In], msg tea.Msg) (Screen[T, D, In], tea.Cmd) {
	return s.Update(msg)
}

// press sends keys to s and drains the commands they start.
func press[T any, D any, In any](s Screen[T, D, In], keys ...tea.KeyMsg) Screen[T, D, In] {
	for _, k := range keys {
		var cmd tea.Cmd
		s, cmd = s.Update(k)
		s = drain(s, cmd, screenUpdate[T, D, In])
	}
	return s
}

func typed(text string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(text))
	for _, r := range text {
		if r == ' ' {
			keys = append(keys, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		keys = append(keys, runeKey(r))
	}
	return keys
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func loaded[T any, D any, In any](t *testing.T, s Screen[T, D, In]) Screen[T, D, In] {
	t.Helper()
	s = s.Resize(140, 60)
	s = drain(s, s.Init(), screenUpdate[T, D, In])
	require.False(t, s.ctl.Loading())
	return s
}

func lastNote(t *testing.T, rec *notify.Recorder) notify.Message {
	t.Helper()
	msg, ok := rec.Last()
	require.True(t, ok, "expected a notification")
	return msg
}

func TestScreenLoadsNewestFirst(t *testing.T) {
	_, client := seededBackend(t)
	s := loaded(t, newBookScreen(context.Background(), client, nil))

	require.Equal(t, 2, s.ctl.List().Len())
	first, _ := s.ctl.List().At(0)
	assert.Equal(t, "The Dispossessed", first.Name)

	view := components.SanitizeText(s.View())
	assert.Contains(t, view, "Books (2)")
	assert.Contains(t, view, "The Dispossessed")
}

func TestScreenCreateAuthorWithKeys(t *testing.T) {
	lib, client := seededBackend(t)
	var rec notify.Recorder
	s := loaded(t, newAuthorScreen(context.Background(), client, &rec))

	s = press(s, runeKey('n'))
	require.Equal(t, page.CreateOpen, s.ctl.State())
	assert.True(t, s.Capturing())
	assert.True(t, s.HasDraft())

	s = press(s, typed("Sabahattin Ali")...)
	s = press(s, keyTab)
	s = press(s, typed("1907-02-25")...)
	s = press(s, keyTab)
	s = press(s, typed("Turkey")...)
	assert.Contains(t, components.SanitizeText(s.View()), "New author")

	s = press(s, keyEnter)
	assert.Equal(t, page.Closed, s.ctl.State())
	first, _ := s.ctl.List().At(0)
	assert.Equal(t, "Sabahattin Ali", first.Name)
	assert.Len(t, lib.Authors(), 3)
	assert.Equal(t, notify.Message{Text: "Author created.", Kind: notify.Success}, lastNote(t, &rec))
}

func TestScreenEraseAndCancel(t *testing.T) {
	_, client := seededBackend(t)
	s := loaded(t, newCategoryScreen(context.Background(), client, nil))

	s = press(s, runeKey('n'))
	s = press(s, typed("Dramx")...)
	s = press(s, tea.KeyMsg{Type: tea.KeyBackspace})
	s = press(s, runeKey('a'))
	assert.Equal(t, "Drama", s.ctl.Draft().Name)

	s = press(s, keyEsc)
	assert.Equal(t, page.Closed, s.ctl.State())
	assert.False(t, s.Capturing())
	assert.Equal(t, 3, s.ctl.List().Len())
}

func TestScreenBorrowBadMailStaysOpen(t *testing.T) {
	lib, client := seededBackend(t)
	var rec notify.Recorder
	s := loaded(t, newBorrowScreen(context.Background(), client, &rec))

	s = press(s, runeKey('n'))
	require.NotEmpty(t, s.options[sourceBooks])
	s = press(s, keyRight)
	assert.NotEmpty(t, s.ctl.Draft().BookID)

	s = press(s, keyTab)
	s = press(s, typed("Zeynep")...)
	s = press(s, keyTab)
	s = press(s, typed("not-an-email")...)
	s = press(s, keyTab)
	s = press(s, typed("2024-05-01")...)
	s = press(s, keyEnter)

	assert.Equal(t, page.CreateOpen, s.ctl.State())
	require.NotNil(t, s.problem)
	assert.Equal(t, "borrowerMail", s.problem.Field)
	assert.Equal(t, "borrowerMail", s.spec.fields[s.focus].key)
	assert.Len(t, lib.Borrows(), 2)
	assert.Equal(t, 2, s.ctl.List().Len())
	assert.Equal(t, notify.Message{Text: "Please enter a valid e-mail address.", Kind: notify.Error}, lastNote(t, &rec))
	assert.Contains(t, components.SanitizeText(s.View()), "Please enter a valid e-mail address.")
}

func TestScreenBookNeedsCategory(t *testing.T) {
	lib, client := seededBackend(t)
	s := loaded(t, newBookScreen(context.Background(), client, nil))

	s = press(s, runeKey('n'))
	s = press(s, typed("Masumiyet Müzesi")...)
	s = press(s, keyTab)
	s = press(s, typed("2008")...)
	s = press(s, keyTab)
	s = press(s, typed("5")...)
	s = press(s, keyTab, keyRight, keyTab, keyRight, keyTab)
	s = press(s, keyEnter)

	require.NotNil(t, s.problem)
	assert.Equal(t, "categories", s.problem.Field)
	assert.Len(t, lib.Books(), 2)

	s = press(s, keySpace)
	assert.Nil(t, s.problem)
	s = press(s, keyEnter)

	assert.Equal(t, page.Closed, s.ctl.State())
	books := lib.Books()
	require.Len(t, books, 3)
	created := books[2]
	assert.Equal(t, "Masumiyet Müzesi", created.Name)
	assert.Equal(t, "Orhan Pamuk", created.Author.Name)
	assert.Equal(t, "Yapı Kredi Yayınları", created.Publisher.Name)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "Novel", created.Categories[0].Name)

	top, _ := s.ctl.List().At(0)
	assert.Equal(t, created.ID, top.ID)
}

func TestScreenBorrowEditLocksBookAndMail(t *testing.T) {
	lib, client := seededBackend(t)
	var rec notify.Recorder
	s := loaded(t, newBorrowScreen(context.Background(), client, &rec))

	open, _ := s.ctl.List().At(0)
	require.False(t, open.Returned())

	s = press(s, runeKey('e'))
	require.Equal(t, page.EditOpen, s.ctl.State())
	assert.True(t, s.ctl.ReadOnly("book"))
	assert.True(t, s.ctl.ReadOnly("borrowerMail"))

	before := s.ctl.Draft().BookID
	s = press(s, keyRight)
	assert.Equal(t, before, s.ctl.Draft().BookID)

	s = press(s, keyTab, keyTab)
	s = press(s, typed("x")...)
	assert.Equal(t, open.BorrowerMail, s.ctl.Draft().BorrowerMail)
	assert.Contains(t, components.SanitizeText(s.View()), "(locked)")

	s = press(s, keyTab, keyTab)
	s = press(s, typed("2024-05-02")...)
	s = press(s, keyEnter)

	assert.Equal(t, page.Closed, s.ctl.State())
	top, _ := s.ctl.List().At(0)
	assert.True(t, top.Returned())
	assert.Equal(t, "Borrow record updated.", lastNote(t, &rec).Text)
	stored, err := lib.Borrow(open.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReturnDate)
	assert.Equal(t, "2024-05-02", stored.ReturnDate.String())
}

func TestScreenCategoryDeleteOutcomes(t *testing.T) {
	_, client := seededBackend(t)
	var rec notify.Recorder
	s := loaded(t, newCategoryScreen(context.Background(), client, &rec))
	before := s.ctl.List().All()

	novel, _ := s.ctl.List().At(2)
	require.Equal(t, "Novel", novel.Name)
	s = press(s, keyDown, keyDown, runeKey('d'))
	require.Equal(t, page.DeleteConfirmOpen, s.ctl.State())
	assert.Contains(t, components.SanitizeText(s.View()), `Delete "Novel"?`)

	s = press(s, runeKey('y'))
	assert.Equal(t, page.Closed, s.ctl.State())
	assert.Equal(t, before, s.ctl.List().All())
	assert.Equal(t, notify.Error, lastNote(t, &rec).Kind)
	assert.Equal(t, api.ErrCategoryInUse.Message, lastNote(t, &rec).Text)

	s = press(s, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, runeKey('d'), runeKey('y'))
	assert.Equal(t, 2, s.ctl.List().Len())
	assert.Equal(t, "Category deleted.", lastNote(t, &rec).Text)
}

func TestScreenDeleteWarningAndKeep(t *testing.T) {
	lib, client := seededBackend(t)
	s := loaded(t, newAuthorScreen(context.Background(), client, nil))

	s = press(s, runeKey('d'))
	view := components.SanitizeText(s.View())
	assert.Contains(t, view, "also deletes all of their books")

	s = press(s, runeKey('n'))
	assert.Equal(t, page.Closed, s.ctl.State())
	assert.Len(t, lib.Authors(), 2)
}

func TestScreenSearchAndField(t *testing.T) {
	_, client := seededBackend(t)
	s := loaded(t, newBorrowScreen(context.Background(), client, nil))

	s = press(s, runeKey('/'))
	assert.True(t, s.Capturing())
	s = press(s, typed("KAR")...)
	assert.Len(t, s.ctl.List().Filtered(), 1)
	assert.Contains(t, components.SanitizeText(s.View()), "/ book: KAR")

	s = press(s, keyEnter)
	assert.False(t, s.Capturing())
	assert.Len(t, s.ctl.List().Filtered(), 1)

	s = press(s, keyEsc)
	assert.Len(t, s.ctl.List().Filtered(), 2)

	s = press(s, runeKey('f'))
	assert.Equal(t, page.SearchBorrower, s.ctl.List().SearchField())
	s = press(s, runeKey('/'))
	s = press(s, typed("mehmet")...)
	require.Len(t, s.ctl.List().Filtered(), 1)
	only, _ := s.ctl.List().At(0)
	assert.Equal(t, "Mehmet Kaya", only.BorrowerName)

	s = press(s, keyEsc)
	assert.Empty(t, s.ctl.List().SearchTerm())
}

func TestScreenEmptySearchMessage(t *testing.T) {
	_, client := seededBackend(t)
	s := loaded(t, newPublisherScreen(context.Background(), client, nil))
	s = press(s, runeKey('/'))
	s = press(s, typed("zzz")...)
	assert.Contains(t, components.SanitizeText(s.View()), `No publishers match "zzz".`)
}

func TestScreenNetworkFailureNotifies(t *testing.T) {
	srv := httptest.NewServer(devserver.New(devserver.NewLibrary()))
	client := api.NewClient(srv.URL + "/api/v1")
	srv.Close()

	var rec notify.Recorder
	s := loaded(t, newAuthorScreen(context.Background(), client, &rec))
	assert.False(t, s.loaded)
	note := lastNote(t, &rec)
	assert.Equal(t, notify.Error, note.Kind)
	assert.Equal(t, api.NetworkMessage, note.Text)
}

func TestScreenVimKeys(t *testing.T) {
	_, client := seededBackend(t)
	s := loaded(t, newCategoryScreen(context.Background(), client, nil))

	s = press(s, runeKey('j'))
	assert.Equal(t, 0, s.cursor.Index)

	s = s.WithVimKeys(true)
	s = press(s, runeKey('j'), runeKey('j'))
	assert.Equal(t, 2, s.cursor.Index)
	s = press(s, runeKey('k'))
	assert.Equal(t, 1, s.cursor.Index)
}

func TestScreenHintsFollowState(t *testing.T) {
	_, client := seededBackend(t)
	s := loaded(t, newBorrowScreen(context.Background(), client, nil))
	joined := components.SanitizeText(strings.Join(s.Hints(), " "))
	assert.Contains(t, joined, "search by")

	s = press(s, runeKey('n'))
	joined = components.SanitizeText(strings.Join(s.Hints(), " "))
	assert.Contains(t, joined, "save")
	assert.Contains(t, joined, "choose")
	assert.Contains(t, components.SanitizeText(s.View()), "Leave the return date empty")
}
