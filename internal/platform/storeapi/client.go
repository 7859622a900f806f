// Package storeapi is the HTTP client for the upstream book-store API. It
// implements the catalog source and the auth client, so the rest of the
// service depends on those ports rather than on this package.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"powerbooks/internal/auth"
	"powerbooks/internal/catalog"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(baseURL, userAgent string, rps int, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// filterRequest matches POST /books/filter
type filterRequest struct {
	Category    string `json:"category"`
	SearchValue string `json:"searchValue"`
}

// loginRequest matches POST /api/auth/login
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FilterBooks asks the upstream catalog for books matching the selector and
// query. The "All" selector is sent as-is; the upstream treats it as no
// category filter.
func (c *Client) FilterBooks(ctx context.Context, token string, selector catalog.Category, query string) ([]catalog.Book, error) {
	body := filterRequest{Category: string(selector), SearchValue: query}

	var books []catalog.Book
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/books/filter", token, body, &books, true); err != nil {
		return nil, err
	}
	if books == nil {
		books = []catalog.Book{}
	}
	return books, nil
}

// GetBook fetches a single book by id. A 404 maps to catalog.ErrNotFound.
func (c *Client) GetBook(ctx context.Context, token string, id string) (catalog.Book, error) {
	u := fmt.Sprintf("%s/books/%s", c.baseURL, url.PathEscape(id))

	var book catalog.Book
	if err := c.do(ctx, http.MethodGet, u, token, nil, &book, true); err != nil {
		return catalog.Book{}, err
	}
	return book, nil
}

// Login exchanges credentials for an identity. Logins are never retried; a
// flaky network must not replay a credential check.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Identity, error) {
	body := loginRequest{Email: email, Password: password}

	var id auth.Identity
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/auth/login", "", body, &id, false); err != nil {
		return auth.Identity{}, err
	}
	return id, nil
}

func (c *Client) do(ctx context.Context, method, url, token string, body, target interface{}, retry bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	maxRetries := c.maxRetries
	if !retry {
		maxRetries = 0
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader *bytes.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(target)
			resp.Body.Close()
			return err
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return catalog.ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		default:
			resp.Body.Close()
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
