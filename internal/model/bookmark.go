package model

import "time"

type Bookmark struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Note       string    `json:"note,omitempty"`
	FaviconURL string    `json:"favicon_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
