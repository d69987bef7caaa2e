package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"linknote/internal/model"
)

const (
	maxTitleLen = 255
	maxNoteLen  = 500

	defaultPageLimit = 20
	maxPageLimit     = 100
)

type bookmarkStore interface {
	ListByUser(ctx context.Context, userID string, offset int, limit int) ([]model.Bookmark, int, error)
	Search(ctx context.Context, userID string, query string, offset int, limit int) ([]model.Bookmark, int, error)
	FindByID(ctx context.Context, id string) (model.Bookmark, error)
	Create(ctx context.Context, b model.Bookmark) (model.Bookmark, error)
	Update(ctx context.Context, b model.Bookmark) (model.Bookmark, error)
	Delete(ctx context.Context, id string) error
}

type BookmarkService struct {
	store bookmarkStore
}

func NewBookmarkService(store bookmarkStore) *BookmarkService {
	return &BookmarkService{store: store}
}

func (s *BookmarkService) List(ctx context.Context, userID string, page int, limit int) ([]model.Bookmark, *model.Pagination, error) {
	page, limit = normalizePage(page, limit)

	bookmarks, total, err := s.store.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	return bookmarks, model.NewPagination(page, limit, total), nil
}

func (s *BookmarkService) Search(ctx context.Context, userID string, query string, page int, limit int) ([]model.Bookmark, *model.Pagination, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, &ValidationError{Fields: []model.FieldError{
			{Field: "q", Message: "Search query is required"},
		}}
	}

	page, limit = normalizePage(page, limit)

	bookmarks, total, err := s.store.Search(ctx, userID, query, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	return bookmarks, model.NewPagination(page, limit, total), nil
}

func (s *BookmarkService) Get(ctx context.Context, userID string, id string) (model.Bookmark, error) {
	return s.loadOwned(ctx, userID, id)
}

func (s *BookmarkService) Create(ctx context.Context, userID string, req model.CreateBookmarkRequest) (model.Bookmark, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateBookmarkInput(title, req.URL, req.Note); err != nil {
		return model.Bookmark{}, err
	}

	return s.store.Create(ctx, model.Bookmark{
		UserID:     userID,
		Title:      title,
		URL:        req.URL,
		Note:       req.Note,
		FaviconURL: faviconURL(req.URL),
	})
}

func (s *BookmarkService) Update(ctx context.Context, userID string, id string, req model.UpdateBookmarkRequest) (model.Bookmark, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateBookmarkInput(title, req.URL, req.Note); err != nil {
		return model.Bookmark{}, err
	}

	existing, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return model.Bookmark{}, err
	}

	existing.Title = title
	existing.URL = req.URL
	existing.Note = req.Note
	existing.FaviconURL = faviconURL(req.URL)

	return s.store.Update(ctx, existing)
}

func (s *BookmarkService) Delete(ctx context.Context, userID string, id string) error {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

// loadOwned fetches a bookmark and hides rows owned by other users behind
// the same not-found error, so existence never leaks across owners. A
// malformed id is equivalent to an unknown one.
func (s *BookmarkService) loadOwned(ctx context.Context, userID string, id string) (model.Bookmark, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Bookmark{}, model.ErrBookmarkNotFound
	}

	bookmark, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Bookmark{}, err
	}

	if bookmark.UserID != userID {
		return model.Bookmark{}, model.ErrBookmarkNotFound
	}

	return bookmark, nil
}

func validateBookmarkInput(title string, rawURL string, note string) error {
	var fields []model.FieldError

	if n := utf8.RuneCountInString(title); n < 1 || n > maxTitleLen {
		fields = append(fields, model.FieldError{Field: "title", Message: "Title is required (max 255 chars)"})
	}

	if !validWebURL(rawURL) {
		fields = append(fields, model.FieldError{Field: "url", Message: "Valid URL is required"})
	}

	if utf8.RuneCountInString(note) > maxNoteLen {
		fields = append(fields, model.FieldError{Field: "note", Message: "Note max 500 chars"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// faviconURL points at Google's favicon service for the bookmark's host.
// Icons are never fetched server-side.
func faviconURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}

	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=64", parsed.Hostname())
}

func normalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
