package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBrowser_ServerMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	source := NewMockSource(ctrl)
	browser := NewBrowser(source, ModeServer, zap.NewNop())

	books := testBooks()

	t.Run("delegates criteria upstream", func(t *testing.T) {
		source.EXPECT().
			FilterBooks(gomock.Any(), "tok", SciFi, "du").
			Return(books[:1], nil)

		got := browser.Browse(context.Background(), "tok", SciFi, "du")
		assert.Equal(t, books[:1], got)

		selector, query := browser.Criteria()
		assert.Equal(t, SciFi, selector)
		assert.Equal(t, "du", query)
	})

	t.Run("fetch error keeps previous results", func(t *testing.T) {
		source.EXPECT().
			FilterBooks(gomock.Any(), "tok", Mystery, "").
			Return(nil, errors.New("boom"))

		got := browser.Browse(context.Background(), "tok", Mystery, "")
		assert.Equal(t, books[:1], got)
		assert.Equal(t, books[:1], browser.Books())
	})

	t.Run("invalid selector falls back to All", func(t *testing.T) {
		source.EXPECT().
			FilterBooks(gomock.Any(), "tok", All, "").
			Return(books, nil)

		browser.Browse(context.Background(), "tok", Category("Cooking"), "")
		selector, _ := browser.Criteria()
		assert.Equal(t, All, selector)
	})
}

func TestBrowser_LocalMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	source := NewMockSource(ctrl)
	browser := NewBrowser(source, ModeLocal, zap.NewNop())

	// Local mode always asks for the whole catalog and filters in-process.
	source.EXPECT().
		FilterBooks(gomock.Any(), "tok", All, "").
		Return(testBooks(), nil)

	got := browser.Browse(context.Background(), "tok", Classics, "hamlet")
	assert.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

// A slow fetch that completes after a newer browse was issued must not
// overwrite the newer result.
func TestBrowser_StaleCompletionDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	source := NewMockSource(ctrl)
	browser := NewBrowser(source, ModeServer, zap.NewNop())

	books := testBooks()
	started := make(chan struct{})
	release := make(chan struct{})
	slowDone := make(chan []Book, 1)

	source.EXPECT().
		FilterBooks(gomock.Any(), "tok", SciFi, "").
		DoAndReturn(func(context.Context, string, Category, string) ([]Book, error) {
			close(started)
			<-release
			return books[:1], nil
		})
	source.EXPECT().
		FilterBooks(gomock.Any(), "tok", Classics, "").
		Return(books[1:2], nil)

	go func() {
		slowDone <- browser.Browse(context.Background(), "tok", SciFi, "")
	}()
	<-started

	// The newer request completes first.
	got := browser.Browse(context.Background(), "tok", Classics, "")
	assert.Equal(t, books[1:2], got)

	close(release)
	stale := <-slowDone

	// The stale completion reports the newer state and did not clobber it.
	assert.Equal(t, books[1:2], stale)
	assert.Equal(t, books[1:2], browser.Books())

	selector, _ := browser.Criteria()
	assert.Equal(t, Classics, selector)
}

func TestBrowser_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	source := NewMockSource(ctrl)
	browser := NewBrowser(source, ModeServer, zap.NewNop())

	want := testBooks()[0]
	source.EXPECT().GetBook(gomock.Any(), "tok", "a").Return(want, nil)

	got, err := browser.Detail(context.Background(), "tok", "a")
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}
