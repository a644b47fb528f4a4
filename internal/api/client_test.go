package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL + "/api/v1")
	return srv, client
}

func jsonBody(data any) []byte {
	b, _ := json.Marshal(data)
	return b
}

func TestGetBookDecodesNestedReferences(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/books/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write(jsonBody(map[string]any{
			"id":              7,
			"name":            "Dune",
			"publicationYear": 1965,
			"stock":           3,
			"author":          map[string]any{"id": 2, "name": "Frank Herbert", "birthDate": "1920-10-08", "country": "US"},
			"publisher":       map[string]any{"id": 4, "name": "Chilton", "establishmentYear": 1904},
			"categories": []map[string]any{
				{"id": 1, "name": "Sci-Fi"},
				{"id": 5, "name": "Classic"},
			},
		}))
	})

	book, err := client.Books().Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), book.ID)
	assert.Equal(t, "Dune", book.Name)
	assert.Equal(t, int64(2), book.Author.ID)
	assert.Equal(t, NewDate(1920, time.October, 8), book.Author.BirthDate)
	assert.Equal(t, int64(4), book.Publisher.ID)
	require.Len(t, book.Categories, 2)
	assert.Equal(t, "Sci-Fi, Classic", book.CategoryNames())
}

func TestCreateBookSendsReferencePayload(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/books", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, map[string]any{"id": float64(2)}, body["author"])
		assert.Equal(t, map[string]any{"id": float64(4)}, body["publisher"])
		assert.Equal(t, []any{map[string]any{"id": float64(1)}, map[string]any{"id": float64(5)}}, body["categories"])
		assert.Equal(t, float64(1965), body["publicationYear"])

		w.WriteHeader(http.StatusCreated)
		w.Write(jsonBody(map[string]any{"id": 9, "name": body["name"]}))
	})

	book, err := client.Books().Create(context.Background(), BookInput{
		Name:            "Dune",
		PublicationYear: 1965,
		Stock:           3,
		Author:          Ref{ID: 2},
		Publisher:       Ref{ID: 4},
		Categories:      []Ref{{ID: 1}, {ID: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), book.ID)
}

func TestUpdateUsesPutOnItemPath(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/authors/3", r.URL.Path)
		var body AuthorInput
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Write(jsonBody(map[string]any{"id": 3, "name": body.Name, "birthDate": body.BirthDate.String(), "country": body.Country}))
	})

	author, err := client.Authors().Update(context.Background(), 3, AuthorInput{
		Name:      "Ursula K. Le Guin",
		BirthDate: NewDate(1929, time.October, 21),
		Country:   "US",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", author.Name)
	assert.Equal(t, "1929-10-21", author.BirthDate.String())
}

func TestListBooksAcceptsWrappedBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonBody(map[string]any{
			"bookList": []map[string]any{{"id": 1, "name": "A"}, {"id": 2, "name": "B"}},
		}))
	})

	books, err := client.Books().List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "B", books[1].Name)
}

func TestListBooksAcceptsBareArray(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonBody([]map[string]any{{"id": 1, "name": "A"}}))
	})

	books, err := client.Books().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestServerErrorMessageFromBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(jsonBody(map[string]any{"message": "stock must be positive"}))
	})

	_, err := client.Books().Create(context.Background(), BookInput{Name: "x"})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "stock must be positive", apiErr.UserMessage())
}

func TestServerErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Borrows().Delete(context.Background(), 1)
	apiErr := Classify(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Contains(t, apiErr.UserMessage(), "500")
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	slow := client.WithTimeout(50 * time.Millisecond)
	_, err := slow.Categories().List(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Equal(t, NetworkMessage, Classify(err).UserMessage())
}

func TestCanceledRequestIsNotANetworkError(t *testing.T) {
	release := make(chan struct{})
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := client.Books().List(ctx)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCanceled))
	assert.True(t, Quiet(err))
}

func TestConnectionRefusedIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	_, err := client.Authors().List(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
}

func TestRequestCarriesRequestID(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("X-Request-ID"))
		mu.Unlock()
		w.Write([]byte("[]"))
	})

	_, err := client.Publishers().List(context.Background())
	require.NoError(t, err)
	_, err = client.Publishers().List(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 36)
	assert.NotEqual(t, seen[0], seen[1])
}

func TestRequestRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client.SetTracer(provider.Tracer("test"))

	_, err := client.Categories().Get(context.Background(), 12)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /categories/12", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())
}

func TestClientConcurrentCreates(t *testing.T) {
	var count atomic.Int32
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/v1/categories" {
			count.Add(1)
			w.WriteHeader(http.StatusCreated)
			w.Write(jsonBody(map[string]any{"id": 1, "name": "stress"}))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Categories().Create(context.Background(), CategoryInput{Name: "stress"})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}

func TestClientHandlesMalformedJSON(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	})

	_, err := client.Authors().Get(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestNewDefaultClientUsesDefaultBaseURL(t *testing.T) {
	var gotURL string
	client := NewDefaultClient()
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"id":1,"name":"Poetry"}`)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := client.Categories().Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/categories/1", gotURL)
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://example.test/api/v1/")
	assert.Equal(t, "http://example.test/api/v1", client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}
