package api

import (
	"context"
	"fmt"
)

// Resource is the typed CRUD surface for one entity kind.
type Resource[T any, In any] struct {
	client     *Client
	path       string
	decodeList func([]byte) ([]T, error)
}

func newResource[T any, In any](c *Client, path string) *Resource[T, In] {
	return &Resource[T, In]{client: c, path: path, decodeList: decodeList[T]}
}

// Path returns the collection path, e.g. "/books".
func (r *Resource[T, In]) Path() string {
	return r.path
}

// List fetches the whole collection in server order.
func (r *Resource[T, In]) List(ctx context.Context) ([]T, error) {
	data, err := r.client.get(ctx, r.path)
	if err != nil {
		return nil, err
	}
	return r.decodeList(data)
}

// Get fetches one entity by id.
func (r *Resource[T, In]) Get(ctx context.Context, id int64) (T, error) {
	data, err := r.client.get(ctx, r.itemPath(id))
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeOne[T](data)
}

// Create posts a new entity and returns the stored version.
func (r *Resource[T, In]) Create(ctx context.Context, input In) (T, error) {
	data, err := r.client.post(ctx, r.path, input)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeOne[T](data)
}

// Update replaces an entity and returns the stored version.
func (r *Resource[T, In]) Update(ctx context.Context, id int64, input In) (T, error) {
	data, err := r.client.put(ctx, r.itemPath(id), input)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeOne[T](data)
}

// Delete removes an entity. The response body is ignored.
func (r *Resource[T, In]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.del(ctx, r.itemPath(id))
	return err
}

func (r *Resource[T, In]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// --- Resource Accessors ---

// Books returns the /books resource.
func (c *Client) Books() *Resource[Book, BookInput] {
	r := newResource[Book, BookInput](c, "/books")
	r.decodeList = decodeBookList
	return r
}

// Authors returns the /authors resource.
func (c *Client) Authors() *Resource[Author, AuthorInput] {
	return newResource[Author, AuthorInput](c, "/authors")
}

// Publishers returns the /publishers resource.
func (c *Client) Publishers() *Resource[Publisher, PublisherInput] {
	return newResource[Publisher, PublisherInput](c, "/publishers")
}

// Categories returns the /categories resource.
func (c *Client) Categories() *Resource[Category, CategoryInput] {
	return newResource[Category, CategoryInput](c, "/categories")
}

// Borrows returns the /borrows resource.
func (c *Client) Borrows() *Resource[BorrowRecord, BorrowInput] {
	return newResource[BorrowRecord, BorrowInput](c, "/borrows")
}

// decodeBookList accepts both a bare array and the {"bookList": [...]} wrapper.
func decodeBookList(data []byte) ([]Book, error) {
	var wrapped struct {
		BookList []Book `json:"bookList"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.BookList != nil {
		return wrapped.BookList, nil
	}
	return decodeList[Book](data)
}
