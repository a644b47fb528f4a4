package devserver

import (
	"time"

	"github.com/gravitrone/libris/internal/api"
)

// Seed fills l with a small sample catalogue.
func Seed(l *Library) error {
	pamuk, err := l.SaveAuthor(0, api.AuthorInput{Name: "Orhan Pamuk", BirthDate: api.NewDate(1952, time.June, 7), Country: "Turkey"})
	if err != nil {
		return err
	}
	leGuin, err := l.SaveAuthor(0, api.AuthorInput{Name: "Ursula K. Le Guin", BirthDate: api.NewDate(1929, time.October, 21), Country: "USA"})
	if err != nil {
		return err
	}
	yky, err := l.SavePublisher(0, api.PublisherInput{Name: "Yapı Kredi Yayınları", EstablishmentYear: 1945, Address: "Istanbul"})
	if err != nil {
		return err
	}
	harper, err := l.SavePublisher(0, api.PublisherInput{Name: "Harper & Row", EstablishmentYear: 1817, Address: "New York"})
	if err != nil {
		return err
	}
	novel, err := l.SaveCategory(0, api.CategoryInput{Name: "Novel", Description: "Long-form fiction"})
	if err != nil {
		return err
	}
	scifi, err := l.SaveCategory(0, api.CategoryInput{Name: "Science Fiction", Description: "Speculative futures"})
	if err != nil {
		return err
	}
	if _, err := l.SaveCategory(0, api.CategoryInput{Name: "Poetry", Description: "Unused, can be deleted"}); err != nil {
		return err
	}

	snow, err := l.SaveBook(0, api.BookInput{
		Name: "Kar", PublicationYear: 2002, Stock: 4,
		Author: api.Ref{ID: pamuk.ID}, Publisher: api.Ref{ID: yky.ID},
		Categories: []api.Ref{{ID: novel.ID}},
	})
	if err != nil {
		return err
	}
	dispossessed, err := l.SaveBook(0, api.BookInput{
		Name: "The Dispossessed", PublicationYear: 1974, Stock: 2,
		Author: api.Ref{ID: leGuin.ID}, Publisher: api.Ref{ID: harper.ID},
		Categories: []api.Ref{{ID: novel.ID}, {ID: scifi.ID}},
	})
	if err != nil {
		return err
	}

	returned := api.NewDate(2024, time.March, 20)
	if _, err := l.SaveBorrow(0, api.BorrowInput{
		BorrowerName: "Ayşe Yılmaz", BorrowerMail: "ayse@example.com",
		BorrowingDate: api.NewDate(2024, time.March, 1), ReturnDate: &returned,
		BookForBorrowingRequest: api.Ref{ID: snow.ID},
	}); err != nil {
		return err
	}
	_, err = l.SaveBorrow(0, api.BorrowInput{
		BorrowerName: "Mehmet Kaya", BorrowerMail: "mehmet@example.com",
		BorrowingDate: api.NewDate(2024, time.April, 12),
		BookForBorrowingRequest: api.Ref{ID: dispossessed.ID},
	})
	return err
}
