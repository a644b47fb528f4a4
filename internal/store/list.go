// Package store holds the in-memory list state of one screen: every entity
// the backend returned, the active search, and the filtered view derived from
// both. It never performs I/O; callers feed it server results.
package store

import (
	"slices"
	"strings"
)

// SearchField names a display field the list can be filtered on.
type SearchField[T any] struct {
	Name  string
	Value func(T) string
}

// List keeps all and filtered consistent under load, search and mutations.
// Ordering is recency-first: the most recently created or edited entity is
// at index 0.
type List[T any] struct {
	id       func(T) int64
	fields   []SearchField[T]
	field    int
	term     string
	all      []T
	filtered []T
}

// New builds a list. The first field is the default search field; at least
// one field is required.
func New[T any](id func(T) int64, fields ...SearchField[T]) *List[T] {
	if id == nil {
		panic("store: id accessor is required")
	}
	if len(fields) == 0 {
		panic("store: at least one search field is required")
	}
	return &List[T]{id: id, fields: fields}
}

// Load replaces the contents with items in reverse of server order and
// clears the search term.
func (l *List[T]) Load(items []T) {
	all := slices.Clone(items)
	slices.Reverse(all)
	l.all = all
	l.term = ""
	l.refilter()
}

// ApplySearch filters on the active field by case-insensitive substring.
func (l *List[T]) ApplySearch(term string) {
	l.term = term
	l.refilter()
}

// SetSearchField switches the active field by name and clears the term.
// It reports false for an unknown name and leaves the state untouched.
func (l *List[T]) SetSearchField(name string) bool {
	for i, f := range l.fields {
		if f.Name == name {
			l.field = i
			l.term = ""
			l.refilter()
			return true
		}
	}
	return false
}

// RecordCreated puts a new entity at the front.
func (l *List[T]) RecordCreated(item T) {
	l.all = slices.Insert(l.all, 0, item)
	l.refilter()
}

// RecordUpdated replaces the entity with the same id and moves it to the
// front. An unknown id is treated as a creation.
func (l *List[T]) RecordUpdated(item T) {
	id := l.id(item)
	if idx := l.indexOf(id); idx >= 0 {
		l.all = slices.Delete(l.all, idx, idx+1)
	}
	l.all = slices.Insert(l.all, 0, item)
	l.refilter()
}

// RecordDeleted drops the entity with the given id from both views.
func (l *List[T]) RecordDeleted(id int64) {
	match := func(item T) bool { return l.id(item) == id }
	l.all = slices.DeleteFunc(l.all, match)
	l.filtered = slices.DeleteFunc(l.filtered, match)
}

// All returns a copy of every entity, recency-first.
func (l *List[T]) All() []T {
	return slices.Clone(l.all)
}

// Filtered returns a copy of the entities matching the search.
func (l *List[T]) Filtered() []T {
	return slices.Clone(l.filtered)
}

// At returns the filtered entity at idx.
func (l *List[T]) At(idx int) (T, bool) {
	if idx < 0 || idx >= len(l.filtered) {
		var zero T
		return zero, false
	}
	return l.filtered[idx], true
}

// Find looks an entity up by id in the full list.
func (l *List[T]) Find(id int64) (T, bool) {
	if idx := l.indexOf(id); idx >= 0 {
		return l.all[idx], true
	}
	var zero T
	return zero, false
}

// Len is the size of the full list.
func (l *List[T]) Len() int {
	return len(l.all)
}

// SearchTerm is the active search text.
func (l *List[T]) SearchTerm() string {
	return l.term
}

// SearchField is the name of the active search field.
func (l *List[T]) SearchField() string {
	return l.fields[l.field].Name
}

// SearchFields lists the configured field names in order.
func (l *List[T]) SearchFields() []string {
	names := make([]string, len(l.fields))
	for i, f := range l.fields {
		names[i] = f.Name
	}
	return names
}

func (l *List[T]) indexOf(id int64) int {
	return slices.IndexFunc(l.all, func(item T) bool { return l.id(item) == id })
}

func (l *List[T]) refilter() {
	if l.term == "" {
		l.filtered = slices.Clone(l.all)
		return
	}
	needle := strings.ToLower(l.term)
	value := l.fields[l.field].Value
	filtered := make([]T, 0, len(l.all))
	for _, item := range l.all {
		if strings.Contains(strings.ToLower(value(item)), needle) {
			filtered = append(filtered, item)
		}
	}
	l.filtered = filtered
}
