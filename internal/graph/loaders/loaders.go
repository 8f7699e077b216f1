// Package loaders holds the per-request batch loaders behind Book.author and
// Author.books. Every key requested while one level of the query is resolved
// ends up in a single batch call.
package loaders

import (
	"context"
	"time"

	authorModel "bookstore-graphql/internal/domains/author/model"
	bookModel "bookstore-graphql/internal/domains/book/model"
	"bookstore-graphql/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vikstrous/dataloadgen"
)

// Loader names, used in logs and metrics
const (
	BookAuthorLoader  = "book_author"
	AuthorBooksLoader = "author_books"
)

// Source is the batch side of the book service
type Source interface {
	AuthorsForBooks(ctx context.Context, books []bookModel.BookRef) (map[uuid.UUID]*authorModel.Author, error)
	BooksForAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID][]*bookModel.Book, error)
}

// BatchObserver receives one call per executed batch
type BatchObserver interface {
	ObserveBatch(loader string, keys int, elapsed time.Duration, err error)
}

// Config tunes batching
type Config struct {
	// Wait is how long a loader collects keys before dispatching
	Wait time.Duration
	// BatchCapacity caps keys per batch; 0 means unlimited
	BatchCapacity int
	// SlowBatchThreshold logs a warning for batches slower than this; 0 disables it
	SlowBatchThreshold time.Duration
}

// Loaders is created once per request so results are never shared across requests
type Loaders struct {
	BookAuthor  *dataloadgen.Loader[bookModel.BookRef, *authorModel.Author]
	AuthorBooks *dataloadgen.Loader[uuid.UUID, []*bookModel.Book]

	src Source
	cfg Config
	obs BatchObserver
}

// New builds a fresh set of loaders. obs may be nil.
func New(src Source, cfg Config, obs BatchObserver) *Loaders {
	l := &Loaders{src: src, cfg: cfg, obs: obs}

	var opts []dataloadgen.Option
	if cfg.Wait > 0 {
		opts = append(opts, dataloadgen.WithWait(cfg.Wait))
	}
	if cfg.BatchCapacity > 0 {
		opts = append(opts, dataloadgen.WithBatchCapacity(cfg.BatchCapacity))
	}

	l.BookAuthor = dataloadgen.NewLoader(l.fetchAuthors, opts...)
	l.AuthorBooks = dataloadgen.NewLoader(l.fetchBooks, opts...)
	return l
}

// fetchAuthors resolves Book.author for every collected book.
// A book whose author row is gone gets NotFound(Author) for its own slot only.
func (l *Loaders) fetchAuthors(ctx context.Context, refs []bookModel.BookRef) ([]*authorModel.Author, []error) {
	start := time.Now()
	byBook, err := l.src.AuthorsForBooks(ctx, refs)
	l.observe(BookAuthorLoader, len(refs), time.Since(start), err)

	out := make([]*authorModel.Author, len(refs))
	errs := make([]error, len(refs))
	if err != nil {
		fill(errs, err)
		return out, errs
	}

	for i, ref := range refs {
		author, ok := byBook[ref.ID]
		if !ok {
			errs[i] = apperror.NotFound(apperror.ResourceAuthor, ref.AuthorID)
			continue
		}
		out[i] = author
	}
	return out, errs
}

// fetchBooks resolves Author.books for every collected author
func (l *Loaders) fetchBooks(ctx context.Context, authorIDs []uuid.UUID) ([][]*bookModel.Book, []error) {
	start := time.Now()
	byAuthor, err := l.src.BooksForAuthors(ctx, authorIDs)
	l.observe(AuthorBooksLoader, len(authorIDs), time.Since(start), err)

	out := make([][]*bookModel.Book, len(authorIDs))
	errs := make([]error, len(authorIDs))
	if err != nil {
		fill(errs, err)
		return out, errs
	}

	for i, id := range authorIDs {
		books := byAuthor[id]
		if books == nil {
			books = []*bookModel.Book{}
		}
		out[i] = books
	}
	return out, errs
}

func (l *Loaders) observe(loader string, keys int, elapsed time.Duration, err error) {
	if l.obs != nil {
		l.obs.ObserveBatch(loader, keys, elapsed, err)
	}
	if err != nil {
		log.Error().Err(err).Str("loader", loader).Int("keys", keys).Msg("batch load failed")
		return
	}
	if l.cfg.SlowBatchThreshold > 0 && elapsed > l.cfg.SlowBatchThreshold {
		log.Warn().
			Str("loader", loader).
			Int("keys", keys).
			Dur("elapsed", elapsed).
			Dur("threshold", l.cfg.SlowBatchThreshold).
			Msg("slow batch load")
	}
}

func fill(errs []error, err error) {
	for i := range errs {
		errs[i] = err
	}
}

type ctxKey struct{}

// NewContext returns ctx carrying l
func NewContext(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// For returns the request's loaders, or nil when none were attached
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(ctxKey{}).(*Loaders)
	return l
}

// Middleware attaches a fresh set of loaders to every request
func Middleware(src Source, cfg Config, obs BatchObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := New(src, cfg, obs)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), l))
		c.Next()
	}
}
