package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// The backend answers a category delete with 200 and a text body either way,
// so the outcome is read from the body.
const (
	CategoryInUseMarker   = "kayıtlı kitap mevcut"
	CategoryDeletedMarker = "silme işlemi başarılı"
)

// CategoryDeleteResult is the outcome of DeleteCategory.
type CategoryDeleteResult int

const (
	CategoryDeleteUnknown CategoryDeleteResult = iota
	CategoryDeleted
	CategoryInUse
)

func (r CategoryDeleteResult) String() string {
	switch r {
	case CategoryDeleted:
		return "deleted"
	case CategoryInUse:
		return "in-use"
	}
	return "unknown"
}

// ErrCategoryInUse is returned by CategoryDeleter when books still reference
// the category.
var ErrCategoryInUse = &Error{
	Kind:    KindRefused,
	Message: "This category cannot be deleted: books in the catalogue still use it.",
}

// DeleteCategory deletes a category and reports whether the backend actually
// removed it or refused because books depend on it.
func (c *Client) DeleteCategory(ctx context.Context, id int64) (CategoryDeleteResult, error) {
	data, err := c.del(ctx, fmt.Sprintf("/categories/%d", id))
	if err != nil {
		return CategoryDeleteUnknown, err
	}
	return classifyCategoryDelete(data), nil
}

func classifyCategoryDelete(body []byte) CategoryDeleteResult {
	text := string(body)
	var quoted string
	if err := json.Unmarshal(body, &quoted); err == nil {
		text = quoted
	}
	switch {
	case strings.Contains(text, CategoryInUseMarker):
		return CategoryInUse
	case strings.Contains(text, CategoryDeletedMarker):
		return CategoryDeleted
	}
	return CategoryDeleteUnknown
}

// CategoryDeleter adapts the categories resource so Delete fails with
// ErrCategoryInUse when the backend refuses.
type CategoryDeleter struct {
	*Resource[Category, CategoryInput]
}

// CategoriesWithGuard returns the categories resource with body-aware deletes.
func (c *Client) CategoriesWithGuard() CategoryDeleter {
	return CategoryDeleter{Resource: c.Categories()}
}

// Delete removes the category or returns ErrCategoryInUse.
func (d CategoryDeleter) Delete(ctx context.Context, id int64) error {
	result, err := d.client.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	switch result {
	case CategoryDeleted:
		return nil
	case CategoryInUse:
		return ErrCategoryInUse
	}
	return &Error{Kind: KindServer, Status: 200, Message: "The category could not be deleted.", Err: errors.New("unrecognised delete response")}
}
