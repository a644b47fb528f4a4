// Package forms converts between the editable string drafts behind every
// entity form and the typed request payloads of the api package. All checks
// run here, before any request is made.
package forms

import (
	"strconv"
	"strings"

	"github.com/gravitrone/libris/internal/api"
)

type fieldError struct {
	field   string
	message string
}

// Validator collects field failures in the order they were checked.
type Validator struct {
	errs []fieldError
}

// Check records message for field when ok is false. Only the first failure
// per field is kept.
func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	for _, e := range v.errs {
		if e.field == field {
			return
		}
	}
	v.errs = append(v.errs, fieldError{field: field, message: message})
}

// Valid reports whether every check passed.
func (v *Validator) Valid() bool {
	return len(v.errs) == 0
}

// Fields maps each failing field to its message.
func (v *Validator) Fields() map[string]string {
	out := make(map[string]string, len(v.errs))
	for _, e := range v.errs {
		out[e.field] = e.message
	}
	return out
}

// Err returns the first failure as a validation error, or nil.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	first := v.errs[0]
	return api.NewValidationError(first.field, first.message)
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// parseInt reads a whole number, tolerating surrounding space.
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// parseID reads a positive entity id.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id, err == nil && id > 0
}

// FormatID renders an id for a draft; zero renders empty.
func FormatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
