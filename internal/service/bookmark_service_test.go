package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"linknote/internal/model"
)

type fakeBookmarkStore struct {
	bookmarks map[string]model.Bookmark
}

func newFakeBookmarkStore() *fakeBookmarkStore {
	return &fakeBookmarkStore{bookmarks: map[string]model.Bookmark{}}
}

func (f *fakeBookmarkStore) ListByUser(_ context.Context, userID string, offset int, limit int) ([]model.Bookmark, int, error) {
	owned := make([]model.Bookmark, 0)
	for _, b := range f.bookmarks {
		if b.UserID == userID {
			owned = append(owned, b)
		}
	}

	total := len(owned)
	if offset >= total {
		return []model.Bookmark{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (f *fakeBookmarkStore) Search(_ context.Context, userID string, query string, offset int, limit int) ([]model.Bookmark, int, error) {
	needle := strings.ToLower(query)
	matched := make([]model.Bookmark, 0)
	for _, b := range f.bookmarks {
		if b.UserID != userID {
			continue
		}
		haystack := strings.ToLower(b.Title + " " + b.URL + " " + b.Note)
		if strings.Contains(haystack, needle) {
			matched = append(matched, b)
		}
	}
	return matched, len(matched), nil
}

func (f *fakeBookmarkStore) FindByID(_ context.Context, id string) (model.Bookmark, error) {
	b, ok := f.bookmarks[id]
	if !ok {
		return model.Bookmark{}, model.ErrBookmarkNotFound
	}
	return b, nil
}

func (f *fakeBookmarkStore) Create(_ context.Context, b model.Bookmark) (model.Bookmark, error) {
	b.ID = uuid.NewString()
	f.bookmarks[b.ID] = b
	return b, nil
}

func (f *fakeBookmarkStore) Update(_ context.Context, b model.Bookmark) (model.Bookmark, error) {
	if _, ok := f.bookmarks[b.ID]; !ok {
		return model.Bookmark{}, model.ErrBookmarkNotFound
	}
	f.bookmarks[b.ID] = b
	return b, nil
}

func (f *fakeBookmarkStore) Delete(_ context.Context, id string) error {
	if _, ok := f.bookmarks[id]; !ok {
		return model.ErrBookmarkNotFound
	}
	delete(f.bookmarks, id)
	return nil
}

func TestBookmarkServiceCreateValidation(t *testing.T) {
	t.Parallel()

	svc := NewBookmarkService(newFakeBookmarkStore())
	userID := uuid.NewString()

	t.Run("accepts title of 255 chars", func(t *testing.T) {
		req := model.CreateBookmarkRequest{
			Title: strings.Repeat("a", 255),
			URL:   "https://example.com",
		}
		created, err := svc.Create(context.Background(), userID, req)
		require.NoError(t, err)
		require.Equal(t, req.Title, created.Title)
	})

	t.Run("rejects title of 256 chars", func(t *testing.T) {
		req := model.CreateBookmarkRequest{
			Title: strings.Repeat("a", 256),
			URL:   "https://example.com",
		}
		_, err := svc.Create(context.Background(), userID, req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		require.Equal(t, "title", verr.Fields[0].Field)
	})

	t.Run("rejects empty title and malformed URL together", func(t *testing.T) {
		req := model.CreateBookmarkRequest{Title: "   ", URL: "not a url"}
		_, err := svc.Create(context.Background(), userID, req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 2)
	})

	t.Run("rejects note over 500 chars", func(t *testing.T) {
		req := model.CreateBookmarkRequest{
			Title: "Example",
			URL:   "https://example.com",
			Note:  strings.Repeat("n", 501),
		}
		_, err := svc.Create(context.Background(), userID, req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "note", verr.Fields[0].Field)
	})

	t.Run("accepts note of exactly 500 chars", func(t *testing.T) {
		req := model.CreateBookmarkRequest{
			Title: "Example",
			URL:   "https://example.com",
			Note:  strings.Repeat("n", 500),
		}
		_, err := svc.Create(context.Background(), userID, req)
		require.NoError(t, err)
	})

	t.Run("derives favicon from the URL host", func(t *testing.T) {
		req := model.CreateBookmarkRequest{
			Title: "Example",
			URL:   "https://example.com/some/page?x=1",
		}
		created, err := svc.Create(context.Background(), userID, req)
		require.NoError(t, err)
		require.Equal(t, "https://www.google.com/s2/favicons?domain=example.com&sz=64", created.FaviconURL)
	})
}

func TestBookmarkServiceOwnership(t *testing.T) {
	t.Parallel()

	store := newFakeBookmarkStore()
	svc := NewBookmarkService(store)

	ownerID := uuid.NewString()
	otherID := uuid.NewString()

	created, err := svc.Create(context.Background(), ownerID, model.CreateBookmarkRequest{
		Title: "Example",
		URL:   "https://example.com",
	})
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.Get(context.Background(), ownerID, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, got.ID)
	})

	t.Run("non-owner read reports not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), otherID, created.ID)
		require.ErrorIs(t, err, model.ErrBookmarkNotFound)
	})

	t.Run("non-owner delete reports not found and keeps the row", func(t *testing.T) {
		err := svc.Delete(context.Background(), otherID, created.ID)
		require.ErrorIs(t, err, model.ErrBookmarkNotFound)

		_, err = store.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
	})

	t.Run("non-owner update reports not found", func(t *testing.T) {
		_, err := svc.Update(context.Background(), otherID, created.ID, model.UpdateBookmarkRequest{
			Title: "Hijacked",
			URL:   "https://example.org",
		})
		require.ErrorIs(t, err, model.ErrBookmarkNotFound)
	})

	t.Run("malformed id reports not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), ownerID, "definitely-not-a-uuid")
		require.ErrorIs(t, err, model.ErrBookmarkNotFound)
	})
}

func TestBookmarkServiceSearch(t *testing.T) {
	t.Parallel()

	store := newFakeBookmarkStore()
	svc := NewBookmarkService(store)

	userA := uuid.NewString()
	userB := uuid.NewString()

	_, err := svc.Create(context.Background(), userA, model.CreateBookmarkRequest{
		Title: "Gopher blog",
		URL:   "https://go.dev/blog",
		Note:  "weekly reading",
	})
	require.NoError(t, err)

	t.Run("requires a query", func(t *testing.T) {
		_, _, err := svc.Search(context.Background(), userA, "  ", 1, 20)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "q", verr.Fields[0].Field)
	})

	t.Run("scopes results to the searching user", func(t *testing.T) {
		results, pagination, err := svc.Search(context.Background(), userB, "gopher", 1, 20)
		require.NoError(t, err)
		require.Empty(t, results)
		require.Equal(t, 0, pagination.Total)
	})

	t.Run("finds matches for the owner", func(t *testing.T) {
		results, pagination, err := svc.Search(context.Background(), userA, "gopher", 1, 20)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, 1, pagination.Total)
	})
}

func TestBookmarkServicePagination(t *testing.T) {
	t.Parallel()

	store := newFakeBookmarkStore()
	svc := NewBookmarkService(store)
	userID := uuid.NewString()

	for i := 0; i < 25; i++ {
		_, err := svc.Create(context.Background(), userID, model.CreateBookmarkRequest{
			Title: "Example",
			URL:   "https://example.com",
		})
		require.NoError(t, err)
	}

	bookmarks, pagination, err := svc.List(context.Background(), userID, 2, 10)
	require.NoError(t, err)
	require.Len(t, bookmarks, 10)
	require.Equal(t, 2, pagination.Page)
	require.Equal(t, 25, pagination.Total)
	require.Equal(t, 3, pagination.TotalPages)

	t.Run("defaults page and limit", func(t *testing.T) {
		_, pagination, err := svc.List(context.Background(), userID, 0, 0)
		require.NoError(t, err)
		require.Equal(t, 1, pagination.Page)
		require.Equal(t, 20, pagination.Limit)
	})
}
