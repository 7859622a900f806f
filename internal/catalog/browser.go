package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Mode selects where filtering runs.
type Mode string

const (
	// ModeLocal fetches the full catalog and filters in-process.
	ModeLocal Mode = "local"
	// ModeServer delegates selector and query to the upstream API.
	ModeServer Mode = "server"
)

// ParseMode returns the mode named by s, defaulting to ModeServer.
func ParseMode(s string) Mode {
	if Mode(s) == ModeLocal {
		return ModeLocal
	}
	return ModeServer
}

// Browser holds one visitor's browsing state: the active filter criteria and
// the last successfully fetched book list. A fetch that fails, or that
// completes after a newer browse was issued, leaves the prior list untouched.
type Browser struct {
	source Source
	mode   Mode
	logger *zap.Logger

	seq atomic.Uint64

	mu       sync.Mutex
	selector Category
	query    string
	books    []Book
}

func NewBrowser(source Source, mode Mode, logger *zap.Logger) *Browser {
	return &Browser{
		source:   source,
		mode:     mode,
		logger:   logger,
		selector: All,
	}
}

// Browse applies the given criteria and returns the current book list.
// Stale completions lose: each call takes a monotonic sequence number, and a
// fetch whose number is no longer current is discarded on arrival.
func (b *Browser) Browse(ctx context.Context, token string, selector Category, query string) []Book {
	if !selector.ValidSelector() {
		selector = All
	}
	id := b.seq.Add(1)

	var fetched []Book
	var err error
	switch b.mode {
	case ModeLocal:
		fetched, err = b.source.FilterBooks(ctx, token, All, "")
		if err == nil {
			fetched = Filter(fetched, selector, query)
		}
	default:
		fetched, err = b.source.FilterBooks(ctx, token, selector, query)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if id != b.seq.Load() {
		b.logger.Debug("discarding stale catalog fetch",
			zap.Uint64("seq", id),
			zap.Uint64("current", b.seq.Load()),
		)
		return cloneBooks(b.books)
	}

	b.selector = selector
	b.query = query

	if err != nil {
		b.logger.Warn("catalog fetch failed, keeping previous results",
			zap.String("category", string(selector)),
			zap.String("query", query),
			zap.Error(err),
		)
		return cloneBooks(b.books)
	}

	b.books = fetched
	return cloneBooks(b.books)
}

// Books returns the last successfully fetched list.
func (b *Browser) Books() []Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneBooks(b.books)
}

// Criteria returns the active selector and query.
func (b *Browser) Criteria() (Category, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selector, b.query
}

// Detail fetches a single book by id from the upstream API.
func (b *Browser) Detail(ctx context.Context, token, id string) (Book, error) {
	return b.source.GetBook(ctx, token, id)
}

func cloneBooks(books []Book) []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}
