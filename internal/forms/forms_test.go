package forms

import (
	"errors"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/libris/internal/api"
)

func sampleBook() api.Book {
	return api.Book{
		ID:              11,
		Name:            "The Dispossessed",
		PublicationYear: 1974,
		Stock:           2,
		Author:          api.Author{ID: 3, Name: "Ursula K. Le Guin"},
		Publisher:       api.Publisher{ID: 8, Name: "Harper & Row"},
		Categories:      []api.Category{{ID: 5, Name: "Sci-Fi"}, {ID: 2, Name: "Utopia"}},
	}
}

func validationField(t *testing.T, err error) string {
	t.Helper()
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr), "expected *api.Error, got %T", err)
	assert.Equal(t, api.KindValidation, apiErr.Kind)
	return apiErr.Field
}

func TestBookRoundTripKeepsReferences(t *testing.T) {
	book := sampleBook()

	payload, err := BookToPayload(BookFromEntity(book))
	require.NoError(t, err)

	assert.Equal(t, api.Ref{ID: 3}, payload.Author)
	assert.Equal(t, api.Ref{ID: 8}, payload.Publisher)
	assert.Equal(t, []api.Ref{{ID: 5}, {ID: 2}}, payload.Categories)
	assert.Equal(t, 1974, payload.PublicationYear)
	assert.Equal(t, 2, payload.Stock)
	assert.Equal(t, "The Dispossessed", payload.Name)
}

func TestBookFromEntityStringifies(t *testing.T) {
	d := BookFromEntity(sampleBook())
	assert.Equal(t, BookDraft{
		Name:            "The Dispossessed",
		PublicationYear: "1974",
		Stock:           "2",
		AuthorID:        "3",
		PublisherID:     "8",
		CategoryIDs:     []string{"5", "2"},
	}, d)
}

func TestBookToPayloadRejectsEmptyCategories(t *testing.T) {
	d := BookFromEntity(sampleBook())
	d.CategoryIDs = nil

	_, err := BookToPayload(d)
	require.Error(t, err)
	assert.Equal(t, "categories", validationField(t, err))
	assert.Equal(t, "Please select at least one category.", api.Classify(err).UserMessage())
}

func TestBookToPayloadValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*BookDraft)
		field string
	}{
		{"blank name", func(d *BookDraft) { d.Name = "  " }, "name"},
		{"year not numeric", func(d *BookDraft) { d.PublicationYear = "nineteen" }, "publicationYear"},
		{"stock not numeric", func(d *BookDraft) { d.Stock = "" }, "stock"},
		{"negative stock", func(d *BookDraft) { d.Stock = "-1" }, "stock"},
		{"no author", func(d *BookDraft) { d.AuthorID = "" }, "author"},
		{"bad publisher id", func(d *BookDraft) { d.PublisherID = "x" }, "publisher"},
		{"bad category id", func(d *BookDraft) { d.CategoryIDs = []string{"5", "zero"} }, "categories"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := BookFromEntity(sampleBook())
			tc.edit(&d)
			_, err := BookToPayload(d)
			require.Error(t, err)
			assert.Equal(t, tc.field, validationField(t, err))
		})
	}
}

func TestBookToPayloadTrimsNumbers(t *testing.T) {
	d := BookFromEntity(sampleBook())
	d.Stock = " 0 "
	d.PublicationYear = " 2001"
	payload, err := BookToPayload(d)
	require.NoError(t, err)
	assert.Equal(t, 0, payload.Stock)
	assert.Equal(t, 2001, payload.PublicationYear)
}

func TestToggleCategory(t *testing.T) {
	d := BookDraft{CategoryIDs: []string{"1", "2"}}
	original := d.CategoryIDs

	d.ToggleCategory("2")
	assert.Equal(t, []string{"1"}, d.CategoryIDs)
	assert.Equal(t, []string{"1", "2"}, original)

	d.ToggleCategory("7")
	assert.Equal(t, []string{"1", "7"}, d.CategoryIDs)
	assert.True(t, d.HasCategory("7"))
	assert.False(t, d.HasCategory("2"))
}

func TestAuthorPayload(t *testing.T) {
	in, err := AuthorToPayload(AuthorDraft{Name: " Orhan Pamuk ", BirthDate: "1952-06-07", Country: "Turkey"})
	require.NoError(t, err)
	assert.Equal(t, "Orhan Pamuk", in.Name)
	assert.Equal(t, api.NewDate(1952, time.June, 7), in.BirthDate)

	_, err = AuthorToPayload(AuthorDraft{Name: "X"})
	assert.Equal(t, "birthDate", validationField(t, err))

	_, err = AuthorToPayload(AuthorDraft{Name: "X", BirthDate: "07/06/1952"})
	assert.Equal(t, "birthDate", validationField(t, err))

	_, err = AuthorToPayload(AuthorDraft{BirthDate: "1952-06-07"})
	assert.Equal(t, "name", validationField(t, err))
}

func TestAuthorFromEntity(t *testing.T) {
	d := AuthorFromEntity(api.Author{ID: 1, Name: "A", BirthDate: api.NewDate(1900, time.January, 2), Country: "TR"})
	assert.Equal(t, AuthorDraft{Name: "A", BirthDate: "1900-01-02", Country: "TR"}, d)
}

func TestPublisherPayload(t *testing.T) {
	in, err := PublisherToPayload(PublisherFromEntity(api.Publisher{ID: 4, Name: "Can", EstablishmentYear: 1981, Address: "Istanbul"}))
	require.NoError(t, err)
	assert.Equal(t, api.PublisherInput{Name: "Can", EstablishmentYear: 1981, Address: "Istanbul"}, in)

	_, err = PublisherToPayload(PublisherDraft{Name: "Can", EstablishmentYear: "1981.5"})
	assert.Equal(t, "establishmentYear", validationField(t, err))
}

func TestCategoryPayload(t *testing.T) {
	in, err := CategoryToPayload(CategoryDraft{Name: "Fiction", Description: " made up "})
	require.NoError(t, err)
	assert.Equal(t, api.CategoryInput{Name: "Fiction", Description: "made up"}, in)

	_, err = CategoryToPayload(CategoryDraft{})
	assert.Equal(t, "name", validationField(t, err))
}

func validBorrow() BorrowDraft {
	return BorrowDraft{
		BookID:        "11",
		BorrowerName:  "  Ayşe Yılmaz ",
		BorrowerMail:  " ayse@example.com ",
		BorrowingDate: "2024-03-01",
	}
}

func TestBorrowPayloadNullReturnDate(t *testing.T) {
	in, err := BorrowToPayload(validBorrow())
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", in.BorrowerName)
	assert.Equal(t, "ayse@example.com", in.BorrowerMail)
	assert.Equal(t, api.Ref{ID: 11}, in.BookForBorrowingRequest)
	assert.Nil(t, in.ReturnDate)

	raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"returnDate":null`)
}

func TestBorrowPayloadWithReturnDate(t *testing.T) {
	d := validBorrow()
	d.ReturnDate = "2024-03-15"
	in, err := BorrowToPayload(d)
	require.NoError(t, err)
	require.NotNil(t, in.ReturnDate)
	assert.Equal(t, "2024-03-15", in.ReturnDate.String())
}

func TestBorrowValidationOrder(t *testing.T) {
	_, err := BorrowToPayload(BorrowDraft{BorrowerMail: "not-an-email"})
	assert.Equal(t, "book", validationField(t, err))

	_, err = BorrowToPayload(BorrowDraft{BookID: "1", BorrowerMail: "not-an-email"})
	assert.Equal(t, "borrowingDate", validationField(t, err))

	d := validBorrow()
	d.BorrowerMail = "not-an-email"
	_, err = BorrowToPayload(d)
	assert.Equal(t, "borrowerMail", validationField(t, err))
	assert.Equal(t, "Please enter a valid e-mail address.", api.Classify(err).UserMessage())

	d = validBorrow()
	d.BorrowerName = " A "
	_, err = BorrowToPayload(d)
	assert.Equal(t, "borrowerName", validationField(t, err))

	d = validBorrow()
	d.ReturnDate = "soon"
	_, err = BorrowToPayload(d)
	assert.Equal(t, "returnDate", validationField(t, err))
}

func TestDatesWithTrailingCharactersAreRejected(t *testing.T) {
	d := validBorrow()
	d.BorrowingDate = "2024-01-015"
	_, err := BorrowToPayload(d)
	assert.Equal(t, "borrowingDate", validationField(t, err))

	d = validBorrow()
	d.ReturnDate = "2024-03-15x"
	_, err = BorrowToPayload(d)
	assert.Equal(t, "returnDate", validationField(t, err))

	_, err = AuthorToPayload(AuthorDraft{Name: "X", BirthDate: "1990-05-12xyz"})
	assert.Equal(t, "birthDate", validationField(t, err))
}

func TestPinBorrowIdentity(t *testing.T) {
	original := validBorrow()
	edited := original
	edited.BookID = "12"
	edited.BorrowerMail = "other@example.com"
	edited.ReturnDate = "2024-03-20"

	pinned := PinBorrowIdentity(edited, original)
	assert.Equal(t, original.BookID, pinned.BookID)
	assert.Equal(t, original.BorrowerMail, pinned.BorrowerMail)
	assert.Equal(t, "2024-03-20", pinned.ReturnDate)
}

func TestBorrowFromEntity(t *testing.T) {
	ret := api.NewDate(2024, time.April, 2)
	r := api.BorrowRecord{
		ID:            1,
		BorrowerName:  "Ali",
		BorrowerMail:  "ali@example.com",
		BorrowingDate: api.NewDate(2024, time.March, 30),
		ReturnDate:    &ret,
		Book:          api.Book{ID: 9},
	}
	assert.Equal(t, BorrowDraft{
		BookID:        "9",
		BorrowerName:  "Ali",
		BorrowerMail:  "ali@example.com",
		BorrowingDate: "2024-03-30",
		ReturnDate:    "2024-04-02",
	}, BorrowFromEntity(r))

	r.ReturnDate = nil
	assert.Equal(t, "", BorrowFromEntity(r).ReturnDate)
}

func TestValidatorKeepsFirstFailurePerField(t *testing.T) {
	var v Validator
	v.Check(false, "a", "first")
	v.Check(false, "a", "second")
	v.Check(true, "b", "ignored")
	v.Check(false, "c", "third")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"a": "first", "c": "third"}, v.Fields())
	assert.Equal(t, "invalid a: first", v.Err().Error())
}

func TestOptions(t *testing.T) {
	books := []api.Book{{ID: 1, Name: "Dune", Author: api.Author{Name: "Herbert"}}, {ID: 2, Name: "Anon"}}
	opts := BookOptions(books)
	assert.Equal(t, []Option{{Value: "1", Label: "Dune (Herbert)"}, {Value: "2", Label: "Anon"}}, opts)
	assert.Equal(t, "Anon", LabelFor(opts, "2"))
	assert.Equal(t, "7", LabelFor(opts, "7"))

	assert.Equal(t, []Option{{Value: "3", Label: "Sci-Fi"}}, CategoryOptions([]api.Category{{ID: 3, Name: "Sci-Fi"}}))
	assert.Len(t, AuthorOptions([]api.Author{{ID: 1}, {ID: 2}}), 2)
	assert.Len(t, PublisherOptions(nil), 0)
}
