package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/forms"
	"github.com/gravitrone/libris/internal/notify"
	"github.com/gravitrone/libris/internal/page"
	"github.com/gravitrone/libris/internal/ui/components"
)

// --- Form Fields ---

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
	fieldMulti
)

// formField binds one draft field to an input. key matches the validation
// field names and the read-only field names of the page kind.
type formField[D any] struct {
	key    string
	label  string
	kind   fieldKind
	source string // options source of select and multi fields

	get func(D) string
	set func(D, string) D

	values func(D) []string
	toggle func(D, string) D
}

type optionLoader func(ctx context.Context) (map[string][]forms.Option, error)

// screenSpec is everything that differs between two entity tabs.
type screenSpec[T any, D any, In any] struct {
	columns     []components.TableColumn
	row         func(T) []string
	fields      []formField[D]
	loadOptions optionLoader
	label       func(T) string
	formHint    string
}

// --- Messages ---

type listLoadedMsg[T any] struct {
	items []T
	err   error
}

type detailLoadedMsg[T any] struct {
	entity T
	err    error
}

type savedMsg[T any, In any] struct {
	sub   page.Submission[In]
	saved T
	err   error
}

type deletedMsg[T any] struct {
	id  int64
	err error
}

type optionsLoadedMsg[T any] struct {
	options map[string][]forms.Option
	err     error
}

// --- Screen Model ---

// Screen is one entity tab: a searchable table plus the create, edit and
// delete modals of its controller.
type Screen[T any, D any, In any] struct {
	ctx      context.Context
	ctl      *page.Controller[T, D, In]
	spec     screenSpec[T, D, In]
	notifier notify.Notifier
	cursor   *components.Cursor

	vim       bool
	searching bool
	busy      bool
	loaded    bool
	focus     int
	pick      int
	options   map[string][]forms.Option
	problem   *api.Error

	width  int
	height int
}

func newScreen[T any, D any, In any](ctx context.Context, ctl *page.Controller[T, D, In], spec screenSpec[T, D, In], n notify.Notifier) Screen[T, D, In] {
	if n == nil {
		n = notify.Discard
	}
	return Screen[T, D, In]{
		ctx:      ctx,
		ctl:      ctl,
		spec:     spec,
		notifier: n,
		cursor:   components.NewCursor(10),
		options:  map[string][]forms.Option{},
	}
}

// Init reloads the list.
func (s Screen[T, D, In]) Init() tea.Cmd {
	s.ctl.BeginReload()
	ctl, ctx := s.ctl, s.ctx
	return func() tea.Msg {
		items, err := ctl.ExecuteReload(ctx)
		return listLoadedMsg[T]{items: items, err: err}
	}
}

// Capturing reports whether the screen wants every key, so the app must not
// treat letters as global shortcuts.
func (s Screen[T, D, In]) Capturing() bool {
	return s.searching || s.ctl.IsOpen()
}

// HasDraft reports whether a create or edit form is open.
func (s Screen[T, D, In]) HasDraft() bool {
	state := s.ctl.State()
	return state == page.CreateOpen || state == page.EditOpen
}

// AtTop reports whether the cursor is on the first row.
func (s Screen[T, D, In]) AtTop() bool {
	return s.cursor.Index == 0
}

// WithVimKeys enables j/k and h/l alongside the arrow keys.
func (s Screen[T, D, In]) WithVimKeys(on bool) Screen[T, D, In] {
	s.vim = on
	return s
}

func (s Screen[T, D, In]) Resize(width, height int) Screen[T, D, In] {
	s.width = width
	s.height = height
	s.cursor.SetPageSize(max(3, height-24))
	return s
}

func (s Screen[T, D, In]) Update(msg tea.Msg) (Screen[T, D, In], tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[T]:
		if err := s.ctl.CompleteReload(msg.items, msg.err); err == nil {
			s.loaded = true
		}
		s.syncCursor()
		return s, nil

	case detailLoadedMsg[T]:
		s.busy = false
		if err := s.ctl.CompleteEdit(msg.entity, msg.err); err != nil {
			return s, nil
		}
		cmd := s.openForm()
		return s, cmd

	case savedMsg[T, In]:
		s.busy = false
		if err := s.ctl.CompleteSubmit(msg.sub, msg.saved, msg.err); err != nil {
			return s, nil
		}
		s.problem = nil
		s.cursor.Reset()
		s.syncCursor()
		return s, nil

	case deletedMsg[T]:
		s.busy = false
		_ = s.ctl.CompleteDelete(msg.id, msg.err)
		s.syncCursor()
		return s, nil

	case optionsLoadedMsg[T]:
		if msg.err != nil {
			if !api.Quiet(msg.err) {
				s.notifier.Notify("Could not load the form choices: "+api.Classify(msg.err).UserMessage(), notify.Error)
			}
			return s, nil
		}
		s.options = msg.options
		s.pick = s.currentPick()
		return s, nil

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch s.ctl.State() {
		case page.CreateOpen, page.EditOpen:
			return s.handleFormKeys(msg)
		case page.DeleteConfirmOpen:
			return s.handleConfirmKeys(msg)
		}
		if s.searching {
			return s.handleSearchKeys(msg), nil
		}
		return s.handleListKeys(msg)
	}
	return s, nil
}

// --- Key Handling ---

func (s Screen[T, D, In]) handleListKeys(msg tea.KeyMsg) (Screen[T, D, In], tea.Cmd) {
	switch {
	case isDown(msg), s.vim && isKey(msg, "j"):
		s.cursor.Down()
	case isUp(msg), s.vim && isKey(msg, "k"):
		s.cursor.Up()
	case isKey(msg, "/"):
		s.searching = true
	case isBack(msg):
		if s.ctl.List().SearchTerm() != "" {
			s.ctl.List().ApplySearch("")
			s.cursor.Reset()
			s.syncCursor()
		}
	case isKey(msg, "f"):
		s.cycleSearchField()
	case isKey(msg, "r"):
		return s, s.Init()
	case isKey(msg, "n"):
		if s.ctl.OpenCreate() {
			cmd := s.openForm()
			return s, cmd
		}
	case isKey(msg, "e"), isEnter(msg):
		return s.beginEdit()
	case isKey(msg, "d"):
		if e, ok := s.selected(); ok {
			s.ctl.OpenDelete(e)
		}
	}
	return s, nil
}

func (s Screen[T, D, In]) handleSearchKeys(msg tea.KeyMsg) Screen[T, D, In] {
	list := s.ctl.List()
	term := list.SearchTerm()
	switch {
	case isBack(msg):
		s.searching = false
		term = ""
	case isEnter(msg), isDown(msg):
		s.searching = false
		return s
	case isErase(msg):
		if r := []rune(term); len(r) > 0 {
			term = string(r[:len(r)-1])
		}
	default:
		text, ok := typedText(msg)
		if !ok {
			return s
		}
		term += text
	}
	list.ApplySearch(term)
	s.cursor.Reset()
	s.syncCursor()
	return s
}

func (s Screen[T, D, In]) handleFormKeys(msg tea.KeyMsg) (Screen[T, D, In], tea.Cmd) {
	fields := s.spec.fields
	switch {
	case isBack(msg):
		s.ctl.Cancel()
		s.problem = nil
		return s, nil
	case isSave(msg):
		return s.beginSubmit()
	case isNextField(msg):
		s.focus = (s.focus + 1) % len(fields)
		s.pick = s.currentPick()
		return s, nil
	case isPrevField(msg):
		s.focus = (s.focus - 1 + len(fields)) % len(fields)
		s.pick = s.currentPick()
		return s, nil
	}

	f := fields[s.focus]
	if s.ctl.ReadOnly(f.key) {
		return s, nil
	}
	draft := s.ctl.Draft()
	opts := s.options[f.source]

	switch f.kind {
	case fieldText:
		value := f.get(draft)
		if isErase(msg) {
			if r := []rune(value); len(r) > 0 {
				value = string(r[:len(r)-1])
			}
		} else if text, ok := typedText(msg); ok {
			value += text
		} else {
			return s, nil
		}
		s.ctl.SetDraft(f.set(draft, value))

	case fieldSelect:
		if len(opts) == 0 {
			return s, nil
		}
		switch {
		case f.get(draft) == "" && (s.isRight(msg) || s.isLeft(msg)):
			s.pick = 0
		case s.isRight(msg):
			s.pick = (s.pick + 1) % len(opts)
		case s.isLeft(msg):
			s.pick = (s.pick - 1 + len(opts)) % len(opts)
		default:
			return s, nil
		}
		s.ctl.SetDraft(f.set(draft, opts[s.pick].Value))

	case fieldMulti:
		if len(opts) == 0 {
			return s, nil
		}
		switch {
		case s.isRight(msg):
			s.pick = (s.pick + 1) % len(opts)
		case s.isLeft(msg):
			s.pick = (s.pick - 1 + len(opts)) % len(opts)
		case isSpace(msg):
			s.ctl.SetDraft(f.toggle(draft, opts[s.pick].Value))
		}
	}
	if s.problem != nil && s.problem.Field == f.key {
		s.problem = nil
	}
	return s, nil
}

func (s Screen[T, D, In]) handleConfirmKeys(msg tea.KeyMsg) (Screen[T, D, In], tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		id, ok := s.ctl.BeginDelete()
		if !ok {
			return s, nil
		}
		s.busy = true
		ctl, ctx := s.ctl, s.ctx
		return s, func() tea.Msg {
			return deletedMsg[T]{id: id, err: ctl.ExecuteDelete(ctx, id)}
		}
	case isKey(msg, "n"), isBack(msg):
		s.ctl.Cancel()
	}
	return s, nil
}

// isLeft and isRight move through selector options; h and l work too when
// vim keys are on.
func (s Screen[T, D, In]) isLeft(msg tea.KeyMsg) bool {
	return isKey(msg, "left") || (s.vim && isKey(msg, "h"))
}

func (s Screen[T, D, In]) isRight(msg tea.KeyMsg) bool {
	return isKey(msg, "right") || (s.vim && isKey(msg, "l"))
}

// --- Actions ---

func (s Screen[T, D, In]) beginEdit() (Screen[T, D, In], tea.Cmd) {
	e, ok := s.selected()
	if !ok {
		return s, nil
	}
	if !s.ctl.NeedsDetail() {
		if err := s.ctl.OpenEdit(s.ctx, e); err != nil {
			return s, nil
		}
		cmd := s.openForm()
		return s, cmd
	}
	s.busy = true
	ctl, ctx, id := s.ctl, s.ctx, s.ctl.Kind().ID(e)
	return s, func() tea.Msg {
		fetched, err := ctl.ExecuteFetch(ctx, id)
		return detailLoadedMsg[T]{entity: fetched, err: err}
	}
}

func (s Screen[T, D, In]) beginSubmit() (Screen[T, D, In], tea.Cmd) {
	sub, err := s.ctl.BeginSubmit()
	if err != nil {
		s.problem = api.Classify(err)
		for i, f := range s.spec.fields {
			if f.key == s.problem.Field {
				s.focus = i
				s.pick = s.currentPick()
			}
		}
		return s, nil
	}
	s.busy = true
	ctl, ctx := s.ctl, s.ctx
	return s, func() tea.Msg {
		saved, err := ctl.ExecuteSubmit(ctx, sub)
		return savedMsg[T, In]{sub: sub, saved: saved, err: err}
	}
}

// openForm resets form focus and loads the reference choices, if any.
func (s *Screen[T, D, In]) openForm() tea.Cmd {
	s.focus = 0
	s.problem = nil
	s.pick = s.currentPick()
	if s.spec.loadOptions == nil {
		return nil
	}
	load, ctx := s.spec.loadOptions, s.ctx
	return func() tea.Msg {
		options, err := load(ctx)
		return optionsLoadedMsg[T]{options: options, err: err}
	}
}

func (s *Screen[T, D, In]) cycleSearchField() {
	list := s.ctl.List()
	names := list.SearchFields()
	if len(names) < 2 {
		return
	}
	for i, name := range names {
		if name == list.SearchField() {
			list.SetSearchField(names[(i+1)%len(names)])
			break
		}
	}
	s.cursor.Reset()
	s.syncCursor()
}

func (s Screen[T, D, In]) selected() (T, bool) {
	return s.ctl.List().At(s.cursor.Index)
}

func (s *Screen[T, D, In]) syncCursor() {
	s.cursor.SetLen(s.ctl.List().Len())
}

// currentPick is the option index of the focused field's value.
func (s Screen[T, D, In]) currentPick() int {
	if len(s.spec.fields) == 0 {
		return 0
	}
	f := s.spec.fields[s.focus]
	if f.kind != fieldSelect {
		return 0
	}
	value := f.get(s.ctl.Draft())
	for i, o := range s.options[f.source] {
		if o.Value == value {
			return i
		}
	}
	return 0
}

// --- View ---

func (s Screen[T, D, In]) View() string {
	switch s.ctl.State() {
	case page.CreateOpen, page.EditOpen:
		return s.renderForm()
	case page.DeleteConfirmOpen:
		return s.renderConfirm()
	}
	return s.renderList()
}

func (s Screen[T, D, In]) renderList() string {
	kind := s.ctl.Kind()
	list := s.ctl.List()

	var b strings.Builder
	if s.searching || list.SearchTerm() != "" {
		b.WriteString(components.SearchPrompt(list.SearchField(), list.SearchTerm(), s.searching))
		b.WriteString("\n\n")
	}

	switch {
	case s.ctl.Loading() && !s.loaded:
		b.WriteString(MutedStyle.Render("Loading " + strings.ToLower(kind.Plural) + "..."))
	case list.Len() == 0 && list.SearchTerm() != "":
		b.WriteString(MutedStyle.Render(fmt.Sprintf("No %s match %q.", strings.ToLower(kind.Plural), list.SearchTerm())))
	case list.Len() == 0:
		b.WriteString(MutedStyle.Render(fmt.Sprintf("No %s yet. Press n to add one.", strings.ToLower(kind.Plural))))
	default:
		start, end := s.cursor.Window()
		rows := Rows(list.Filtered()[start:end], s.spec.row)
		b.WriteString(components.TableGridWithActiveRow(s.spec.columns, rows, components.BoxContentWidth(s.width), s.cursor.Index-start))
	}

	title := fmt.Sprintf("%s (%d)", kind.Plural, list.Len())
	if s.ctl.Loading() && s.loaded {
		title += " refreshing"
	}
	return components.TitledBox(title, b.String(), s.width)
}

func (s Screen[T, D, In]) renderForm() string {
	kind := s.ctl.Kind()
	draft := s.ctl.Draft()

	lines := make([]string, 0, len(s.spec.fields)+2)
	for i, f := range s.spec.fields {
		focused := i == s.focus
		problem := ""
		if s.problem != nil && s.problem.Field == f.key {
			problem = s.problem.Message
		}
		lines = append(lines, components.FormField(f.label, s.fieldValue(f, draft, focused), focused, s.ctl.ReadOnly(f.key), problem))
	}
	if s.spec.formHint != "" {
		lines = append(lines, "", components.FormHint(s.spec.formHint))
	}
	if s.busy {
		lines = append(lines, "", MutedStyle.Render("Saving..."))
	}

	title := "New " + strings.ToLower(kind.Name)
	if s.ctl.State() == page.EditOpen {
		title = "Edit " + strings.ToLower(kind.Name)
	}
	return components.ActiveTitledBox(title, strings.Join(lines, "\n"), s.width)
}

func (s Screen[T, D, In]) fieldValue(f formField[D], draft D, focused bool) string {
	opts := s.options[f.source]
	switch f.kind {
	case fieldSelect:
		value := f.get(draft)
		if value == "" {
			if focused && len(opts) > 0 {
				return "< choose with left/right >"
			}
			return ""
		}
		label := forms.LabelFor(opts, value)
		if focused && !s.ctl.ReadOnly(f.key) {
			return "< " + label + " >"
		}
		return label
	case fieldMulti:
		if len(opts) == 0 {
			return ""
		}
		chosen := map[string]bool{}
		for _, v := range f.values(draft) {
			chosen[v] = true
		}
		parts := make([]string, 0, len(opts))
		for i, o := range opts {
			box := "[ ]"
			if chosen[o.Value] {
				box = "[x]"
			}
			item := box + " " + o.Label
			if focused && i == s.pick {
				item = AccentStyle.Render("›") + item
			}
			parts = append(parts, item)
		}
		return strings.Join(parts, "  ")
	}
	return f.get(draft)
}

func (s Screen[T, D, In]) renderConfirm() string {
	kind := s.ctl.Kind()
	target, _ := s.ctl.Target()
	title := "Delete " + strings.ToLower(kind.Name)
	message := fmt.Sprintf("Delete %q?", s.spec.label(target))
	return components.ConfirmDialog(title, message, s.ctl.DeleteWarning(), s.width)
}

// Hints lists the keys that do something in the current state.
func (s Screen[T, D, In]) Hints() []string {
	switch s.ctl.State() {
	case page.CreateOpen, page.EditOpen:
		hints := []string{
			components.Hint("tab", "next field"),
			components.Hint("enter", "save"),
			components.Hint("esc", "cancel"),
		}
		if kind := s.spec.fields[s.focus].kind; kind != fieldText {
			hints = append(hints, components.Hint("←/→", "choose"))
			if kind == fieldMulti {
				hints = append(hints, components.Hint("space", "toggle"))
			}
		}
		return hints
	case page.DeleteConfirmOpen:
		return []string{components.Hint("y", "delete"), components.Hint("n", "keep")}
	}
	if s.searching {
		return []string{components.Hint("enter", "done"), components.Hint("esc", "clear")}
	}
	hints := []string{
		components.Hint("↑/↓", "move"),
		components.Hint("/", "search"),
		components.Hint("n", "new"),
		components.Hint("e", "edit"),
		components.Hint("d", "delete"),
		components.Hint("r", "reload"),
	}
	if len(s.ctl.List().SearchFields()) > 1 {
		hints = append(hints, components.Hint("f", "search by"))
	}
	return hints
}
