package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linknote/internal/model"
)

const bookmarkColumns = `id, user_id, title, url, note, favicon_url, created_at, updated_at`

type BookmarkRepository struct {
	pool *pgxpool.Pool
}

func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string, offset int, limit int) ([]model.Bookmark, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookmarkColumns+`
		 FROM bookmarks
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks, err := scanBookmarks(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

// Search matches a case-insensitive substring against title, url, and note,
// scoped to the owner's rows.
func (r *BookmarkRepository) Search(ctx context.Context, userID string, query string, offset int, limit int) ([]model.Bookmark, int, error) {
	pattern := "%" + escapeLike(query) + "%"

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookmarks
		 WHERE user_id = $1
		   AND (title ILIKE $2 OR url ILIKE $2 OR note ILIKE $2)`,
		userID, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookmarkColumns+`
		 FROM bookmarks
		 WHERE user_id = $1
		   AND (title ILIKE $2 OR url ILIKE $2 OR note ILIKE $2)
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`, userID, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks, err := scanBookmarks(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

func (r *BookmarkRepository) FindByID(ctx context.Context, id string) (model.Bookmark, error) {
	var b model.Bookmark
	err := r.pool.QueryRow(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = $1`, id).
		Scan(&b.ID, &b.UserID, &b.Title, &b.URL, &b.Note, &b.FaviconURL, &b.CreatedAt, &b.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bookmark{}, model.ErrBookmarkNotFound
	}
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("find bookmark by id: %w", err)
	}
	return b, nil
}

func (r *BookmarkRepository) Create(ctx context.Context, b model.Bookmark) (model.Bookmark, error) {
	var created model.Bookmark
	err := r.pool.QueryRow(ctx,
		`INSERT INTO bookmarks (user_id, title, url, note, favicon_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+bookmarkColumns,
		b.UserID, b.Title, b.URL, b.Note, b.FaviconURL).
		Scan(&created.ID, &created.UserID, &created.Title, &created.URL, &created.Note,
			&created.FaviconURL, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("create bookmark: %w", err)
	}
	return created, nil
}

func (r *BookmarkRepository) Update(ctx context.Context, b model.Bookmark) (model.Bookmark, error) {
	var updated model.Bookmark
	err := r.pool.QueryRow(ctx,
		`UPDATE bookmarks
		 SET title = $2, url = $3, note = $4, favicon_url = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+bookmarkColumns,
		b.ID, b.Title, b.URL, b.Note, b.FaviconURL).
		Scan(&updated.ID, &updated.UserID, &updated.Title, &updated.URL, &updated.Note,
			&updated.FaviconURL, &updated.CreatedAt, &updated.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bookmark{}, model.ErrBookmarkNotFound
	}
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("update bookmark: %w", err)
	}
	return updated, nil
}

func (r *BookmarkRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookmarkNotFound
	}
	return nil
}

func scanBookmarks(rows pgx.Rows) ([]model.Bookmark, error) {
	bookmarks := make([]model.Bookmark, 0)
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.URL, &b.Note,
			&b.FaviconURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in user input so a query of "%"
// cannot match every row.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
