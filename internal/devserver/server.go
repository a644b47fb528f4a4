package devserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"

	"github.com/gravitrone/libris/internal/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Category delete replies, as the production backend words them.
const (
	categoryInUseReply   = "Bu kategoriye ait " + api.CategoryInUseMarker + ". Silme işlemi yapılamaz."
	categoryDeletedReply = "Kategori " + api.CategoryDeletedMarker + "."
)

// Option configures a Server.
type Option func(*Server)

// WithLogger logs one line per request.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithWrappedBookList answers GET /books with {"bookList": [...]}.
func WithWrappedBookList() Option {
	return func(s *Server) { s.wrapBooks = true }
}

// Server exposes a Library over HTTP.
type Server struct {
	lib       *Library
	logger    *slog.Logger
	wrapBooks bool
	router    chi.Router
}

// New builds the /api/v1 router for lib.
func New(lib *Library, opts ...Option) *Server {
	s := &Server{lib: lib, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Route("/api/v1", func(r chi.Router) {
		mount(r, s, "/authors", lib.Authors, lib.Author, lib.SaveAuthor, lib.DeleteAuthor)
		mount(r, s, "/publishers", lib.Publishers, lib.Publisher, lib.SavePublisher, lib.DeletePublisher)
		mount(r, s, "/borrows", lib.Borrows, lib.Borrow, lib.SaveBorrow, lib.DeleteBorrow)
		mount(r, s, "/categories", lib.Categories, lib.Category, lib.SaveCategory, nil)
		r.Delete("/categories/{id}", s.deleteCategory)

		books := lib.Books
		mount(r, s, "/books", nil, lib.Book, lib.SaveBook, lib.DeleteBook)
		r.Get("/books", func(w http.ResponseWriter, _ *http.Request) {
			if s.wrapBooks {
				s.writeJSON(w, http.StatusOK, map[string][]api.Book{"bookList": books()})
				return
			}
			s.writeJSON(w, http.StatusOK, books())
		})
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// mount registers the CRUD routes of one collection. A nil list or del
// leaves that route to the caller.
func mount[T any, In any](
	r chi.Router,
	s *Server,
	path string,
	list func() []T,
	get func(int64) (T, error),
	save func(int64, In) (T, error),
	del func(int64) error,
) {
	item := path + "/{id}"
	if list != nil {
		r.Get(path, func(w http.ResponseWriter, _ *http.Request) {
			s.writeJSON(w, http.StatusOK, list())
		})
	}
	r.Get(item, func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.pathID(w, r)
		if !ok {
			return
		}
		v, err := get(id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, v)
	})
	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		var in In
		if !s.decode(w, r, &in) {
			return
		}
		v, err := save(0, in)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, v)
	})
	r.Put(item, func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.pathID(w, r)
		if !ok {
			return
		}
		var in In
		if !s.decode(w, r, &in) {
			return
		}
		v, err := save(id, in)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, v)
	})
	if del != nil {
		r.Delete(item, func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.pathID(w, r)
			if !ok {
				return
			}
			if err := del(id); err != nil {
				s.writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// deleteCategory always answers 200 with a text body; the body says whether
// the category was removed.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	deleted, err := s.lib.DeleteCategory(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if deleted {
		_, _ = io.WriteString(w, categoryDeletedReply)
		return
	}
	_, _ = io.WriteString(w, categoryInUseReply)
}

// --- Helpers ---

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"message": msg})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		s.writeMessage(w, http.StatusNotFound, "record not found")
	case errors.Is(err, ErrInvalid):
		s.writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", r.Header.Get("X-Request-ID"),
		)
	})
}

// ListenAndServe serves h on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
