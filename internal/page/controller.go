// Package page drives one entity screen: it owns the list store, the modal
// state and the draft being edited, and turns every outcome into exactly one
// notification.
//
// Each user action comes in two shapes. The synchronous form (Submit,
// ConfirmDelete, Reload, OpenEdit) is what the CLI and tests use. The TUI
// uses the Begin/Execute/Complete split instead: Execute performs only the
// network call and touches no controller state, so it can run inside a
// tea.Cmd while Begin and Complete run on the update loop.
package page

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/notify"
	"github.com/gravitrone/libris/internal/store"
)

// State is the modal state of a screen.
type State int

const (
	Closed State = iota
	CreateOpen
	EditOpen
	DeleteConfirmOpen
)

func (s State) String() string {
	switch s {
	case CreateOpen:
		return "create"
	case EditOpen:
		return "edit"
	case DeleteConfirmOpen:
		return "delete-confirm"
	}
	return "closed"
}

var (
	// ErrNotOpen is returned when an action needs a modal that is not open.
	ErrNotOpen = errors.New("no form is open")
	// ErrBusy is returned when a modal is opened over another one.
	ErrBusy = errors.New("another form is already open")
)

// Resource is the remote CRUD surface a controller talks to.
type Resource[T any, In any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, input In) (T, error)
	Update(ctx context.Context, id int64, input In) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Kind configures a controller for one entity type.
type Kind[T any, D any, In any] struct {
	// Name is the singular display name, e.g. "Book".
	Name   string
	Plural string
	ID     func(T) int64
	Fields []store.SearchField[T]

	FromEntity func(T) D
	ToPayload  func(D) (In, error)

	// FetchDetail makes OpenEdit load the entity by id before editing.
	FetchDetail bool
	// DeleteWarning is shown on the delete confirmation.
	DeleteWarning string
	// ReadOnlyOnEdit names draft fields that cannot change after creation.
	ReadOnlyOnEdit []string
	// Pin copies the ReadOnlyOnEdit fields of original over edited before an
	// update is validated.
	Pin func(edited, original D) D
}

// Submission is a validated create or update waiting to be sent.
type Submission[In any] struct {
	Create  bool
	ID      int64
	Payload In
}

// Controller is the modal state machine of one entity screen.
type Controller[T any, D any, In any] struct {
	kind     Kind[T, D, In]
	res      Resource[T, In]
	notifier notify.Notifier
	list     *store.List[T]

	state   State
	target  T
	draft   D
	loading bool
}

// New builds a controller. A nil notifier discards notifications.
func New[T any, D any, In any](kind Kind[T, D, In], res Resource[T, In], n notify.Notifier) *Controller[T, D, In] {
	if n == nil {
		n = notify.Discard
	}
	return &Controller[T, D, In]{
		kind:     kind,
		res:      res,
		notifier: n,
		list:     store.New(kind.ID, kind.Fields...),
	}
}

// --- Accessors ---

func (c *Controller[T, D, In]) Kind() Kind[T, D, In]  { return c.kind }
func (c *Controller[T, D, In]) List() *store.List[T]  { return c.list }
func (c *Controller[T, D, In]) State() State          { return c.state }
func (c *Controller[T, D, In]) Loading() bool         { return c.loading }
func (c *Controller[T, D, In]) Draft() D              { return c.draft }
func (c *Controller[T, D, In]) SetDraft(d D)          { c.draft = d }
func (c *Controller[T, D, In]) IsOpen() bool          { return c.state != Closed }
func (c *Controller[T, D, In]) DeleteWarning() string { return c.kind.DeleteWarning }

// Target returns the entity being edited or deleted.
func (c *Controller[T, D, In]) Target() (T, bool) {
	if c.state != EditOpen && c.state != DeleteConfirmOpen {
		var zero T
		return zero, false
	}
	return c.target, true
}

// ReadOnly reports whether field is locked in the current form.
func (c *Controller[T, D, In]) ReadOnly(field string) bool {
	if c.state != EditOpen {
		return false
	}
	for _, f := range c.kind.ReadOnlyOnEdit {
		if f == field {
			return true
		}
	}
	return false
}

// --- Modal transitions ---

// OpenCreate opens an empty form. It reports false unless the screen was
// closed.
func (c *Controller[T, D, In]) OpenCreate() bool {
	if c.state != Closed {
		return false
	}
	var zero D
	c.draft = zero
	c.state = CreateOpen
	return true
}

// OpenEdit opens the edit form for e, fetching the entity first when the kind
// asks for it. A failed fetch notifies and leaves the screen closed.
func (c *Controller[T, D, In]) OpenEdit(ctx context.Context, e T) error {
	if c.state != Closed {
		return ErrBusy
	}
	if !c.kind.FetchDetail {
		c.CompleteEdit(e, nil)
		return nil
	}
	fetched, err := c.ExecuteFetch(ctx, c.kind.ID(e))
	return c.CompleteEdit(fetched, err)
}

// NeedsDetail reports whether editing goes through ExecuteFetch.
func (c *Controller[T, D, In]) NeedsDetail() bool {
	return c.kind.FetchDetail
}

// ExecuteFetch loads one entity for editing.
func (c *Controller[T, D, In]) ExecuteFetch(ctx context.Context, id int64) (T, error) {
	return c.res.Get(ctx, id)
}

// CompleteEdit opens the edit form on e, or notifies err.
func (c *Controller[T, D, In]) CompleteEdit(e T, err error) error {
	if err != nil {
		c.notifyError(fmt.Sprintf("Could not load the %s", c.lower()), err)
		return err
	}
	c.target = e
	c.draft = c.kind.FromEntity(e)
	c.state = EditOpen
	return nil
}

// OpenDelete asks for confirmation before deleting e. The draft is left
// alone.
func (c *Controller[T, D, In]) OpenDelete(e T) {
	c.target = e
	c.state = DeleteConfirmOpen
}

// Cancel closes any open modal and discards the draft.
func (c *Controller[T, D, In]) Cancel() {
	c.close()
}

// --- Submit ---

// Submit validates the draft, sends it, and merges the result.
func (c *Controller[T, D, In]) Submit(ctx context.Context) error {
	sub, err := c.BeginSubmit()
	if err != nil {
		return err
	}
	saved, err := c.ExecuteSubmit(ctx, sub)
	return c.CompleteSubmit(sub, saved, err)
}

// BeginSubmit validates the draft. A validation failure is notified and the
// form stays open. On edit, read-only fields keep the stored values whatever
// the draft says.
func (c *Controller[T, D, In]) BeginSubmit() (Submission[In], error) {
	if c.state != CreateOpen && c.state != EditOpen {
		return Submission[In]{}, ErrNotOpen
	}
	if c.state == EditOpen && c.kind.Pin != nil {
		c.draft = c.kind.Pin(c.draft, c.kind.FromEntity(c.target))
	}
	payload, err := c.kind.ToPayload(c.draft)
	if err != nil {
		c.notifyError("", err)
		return Submission[In]{}, err
	}
	sub := Submission[In]{Create: c.state == CreateOpen, Payload: payload}
	if !sub.Create {
		sub.ID = c.kind.ID(c.target)
	}
	return sub, nil
}

// ExecuteSubmit sends a validated submission.
func (c *Controller[T, D, In]) ExecuteSubmit(ctx context.Context, sub Submission[In]) (T, error) {
	if sub.Create {
		return c.res.Create(ctx, sub.Payload)
	}
	return c.res.Update(ctx, sub.ID, sub.Payload)
}

// CompleteSubmit merges saved into the list and closes the form, or
// notifies err and keeps the form open.
func (c *Controller[T, D, In]) CompleteSubmit(sub Submission[In], saved T, err error) error {
	if err != nil {
		c.notifyError(fmt.Sprintf("Could not save the %s", c.lower()), err)
		return err
	}
	if sub.Create {
		c.list.RecordCreated(saved)
		c.notifier.Notify(c.kind.Name+" created.", notify.Success)
	} else {
		c.list.RecordUpdated(saved)
		c.notifier.Notify(c.kind.Name+" updated.", notify.Success)
	}
	c.close()
	return nil
}

// --- Delete ---

// ConfirmDelete deletes the entity awaiting confirmation.
func (c *Controller[T, D, In]) ConfirmDelete(ctx context.Context) error {
	id, ok := c.BeginDelete()
	if !ok {
		return ErrNotOpen
	}
	return c.CompleteDelete(id, c.ExecuteDelete(ctx, id))
}

// BeginDelete returns the id awaiting confirmation.
func (c *Controller[T, D, In]) BeginDelete() (int64, bool) {
	if c.state != DeleteConfirmOpen {
		return 0, false
	}
	return c.kind.ID(c.target), true
}

// ExecuteDelete sends the delete.
func (c *Controller[T, D, In]) ExecuteDelete(ctx context.Context, id int64) error {
	return c.res.Delete(ctx, id)
}

// CompleteDelete drops id from the list on success and notifies either way.
// The confirmation closes in every outcome.
func (c *Controller[T, D, In]) CompleteDelete(id int64, err error) error {
	defer c.close()
	if err != nil {
		c.notifyError(fmt.Sprintf("Could not delete the %s", c.lower()), err)
		return err
	}
	c.list.RecordDeleted(id)
	c.notifier.Notify(c.kind.Name+" deleted.", notify.Success)
	return nil
}

// --- Reload ---

// Reload fetches the full list and replaces the store contents.
func (c *Controller[T, D, In]) Reload(ctx context.Context) error {
	c.BeginReload()
	items, err := c.ExecuteReload(ctx)
	return c.CompleteReload(items, err)
}

// BeginReload raises the loading flag.
func (c *Controller[T, D, In]) BeginReload() {
	c.loading = true
}

// ExecuteReload lists the collection.
func (c *Controller[T, D, In]) ExecuteReload(ctx context.Context) ([]T, error) {
	return c.res.List(ctx)
}

// CompleteReload loads items, or notifies err and keeps the current list.
// The loading flag is reset in both cases.
func (c *Controller[T, D, In]) CompleteReload(items []T, err error) error {
	c.loading = false
	if err != nil {
		c.notifyError(fmt.Sprintf("Could not load %s", strings.ToLower(c.kind.Plural)), err)
		return err
	}
	c.list.Load(items)
	return nil
}

// --- Helpers ---

func (c *Controller[T, D, In]) close() {
	var zeroT T
	var zeroD D
	c.state = Closed
	c.target = zeroT
	c.draft = zeroD
}

func (c *Controller[T, D, In]) lower() string {
	return strings.ToLower(c.kind.Name)
}

// notifyError sends one error notification. Server failures get prefix so
// the user knows which action failed; the other kinds carry their own text.
// Canceled requests stay silent.
func (c *Controller[T, D, In]) notifyError(prefix string, err error) {
	if api.Quiet(err) {
		return
	}
	apiErr := api.Classify(err)
	msg := apiErr.UserMessage()
	if apiErr.Kind == api.KindServer && prefix != "" {
		msg = prefix + ": " + msg
	}
	c.notifier.Notify(msg, notify.Error)
}
