// Package client is a credentialed HTTP client for the LinkNote API. It
// plays the role of the web frontend's data layer: cookies ride along
// automatically via a jar, and create/update inputs are checked against the
// same bounds the backend enforces before a request is ever sent. The
// backend remains the source of truth.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"linknote/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// APIError is a non-2xx response decoded from the envelope.
type APIError struct {
	Status  int
	Message string
	Code    string
	Fields  []model.FieldError
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar: jar,
			// Login redirects are surfaced to the caller, not followed into
			// the frontend.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// SetSessionCookies seeds the jar with an existing token pair, e.g. one
// minted out-of-band after a completed browser login.
func (c *Client) SetSessionCookies(accessToken string, refreshToken string) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}

	c.http.Jar.SetCookies(base, []*http.Cookie{
		{Name: "accessToken", Value: accessToken, Path: "/"},
		{Name: "refreshToken", Value: refreshToken, Path: "/"},
	})
	return nil
}

func (c *Client) Me(ctx context.Context) (model.Profile, error) {
	var profile model.Profile
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &profile)
	return profile, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) ListBookmarks(ctx context.Context, page int, limit int) ([]model.Bookmark, *model.Pagination, error) {
	var bookmarks []model.Bookmark
	pagination, err := c.doPaged(ctx, "/bookmarks"+pageQuery(page, limit), &bookmarks)
	return bookmarks, pagination, err
}

func (c *Client) SearchBookmarks(ctx context.Context, query string, page int, limit int) ([]model.Bookmark, *model.Pagination, error) {
	var bookmarks []model.Bookmark
	path := "/bookmarks/search" + pageQuery(page, limit) + "&q=" + url.QueryEscape(query)
	pagination, err := c.doPaged(ctx, path, &bookmarks)
	return bookmarks, pagination, err
}

func (c *Client) GetBookmark(ctx context.Context, id string) (model.Bookmark, error) {
	var bookmark model.Bookmark
	err := c.do(ctx, http.MethodGet, "/bookmarks/"+url.PathEscape(id), nil, &bookmark)
	return bookmark, err
}

func (c *Client) CreateBookmark(ctx context.Context, req model.CreateBookmarkRequest) (model.Bookmark, error) {
	if err := checkBookmarkInput(req.Title, req.URL, req.Note); err != nil {
		return model.Bookmark{}, err
	}

	var bookmark model.Bookmark
	err := c.do(ctx, http.MethodPost, "/bookmarks", req, &bookmark)
	return bookmark, err
}

func (c *Client) UpdateBookmark(ctx context.Context, id string, req model.UpdateBookmarkRequest) (model.Bookmark, error) {
	if err := checkBookmarkInput(req.Title, req.URL, req.Note); err != nil {
		return model.Bookmark{}, err
	}

	var bookmark model.Bookmark
	err := c.do(ctx, http.MethodPut, "/bookmarks/"+url.PathEscape(id), req, &bookmark)
	return bookmark, err
}

func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookmarks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (model.Profile, error) {
	var profile model.Profile
	err := c.do(ctx, http.MethodPut, "/users/me", req, &profile)
	return profile, err
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/users/me", nil, nil)
}

func (c *Client) do(ctx context.Context, method string, path string, payload any, out any) error {
	envelope, err := c.roundTrip(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if out != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		if err != nil {
			return fmt.Errorf("re-encode data: %w", err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

func (c *Client) doPaged(ctx context.Context, path string, out any) (*model.Pagination, error) {
	envelope, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		if err != nil {
			return nil, fmt.Errorf("re-encode data: %w", err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return envelope.Pagination, nil
}

func (c *Client) roundTrip(ctx context.Context, method string, path string, payload any) (*model.APIResponse, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope model.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: envelope.Message,
			Code:    envelope.Error,
			Fields:  envelope.Errors,
		}
	}

	return &envelope, nil
}

// checkBookmarkInput mirrors the backend's validation bounds so obviously
// bad input fails fast without a round trip.
func checkBookmarkInput(title string, rawURL string, note string) error {
	var fields []model.FieldError

	if n := utf8.RuneCountInString(strings.TrimSpace(title)); n < 1 || n > 255 {
		fields = append(fields, model.FieldError{Field: "title", Message: "Title is required (max 255 chars)"})
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		fields = append(fields, model.FieldError{Field: "url", Message: "Valid URL is required"})
	}

	if utf8.RuneCountInString(note) > 500 {
		fields = append(fields, model.FieldError{Field: "note", Message: "Note max 500 chars"})
	}

	if len(fields) > 0 {
		return &APIError{Status: 0, Message: "Validation failed", Fields: fields}
	}
	return nil
}

func pageQuery(page int, limit int) string {
	return "?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
}
