package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"feedback-board/backend/app/dto"
)

// APIError is a non-success answer from the server.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		if field == "" {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%d: %s", e.Status, strings.Join(parts, "; "))
}

// Client talks to the web application the way a browser would, keeping the
// session cookie in a jar, but asks for JSON.
type Client struct {
	base     *url.URL
	http     *http.Client
	Username string
}

func NewClient(base string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https: %q", base)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: u,
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) (*http.Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400:
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var ev dto.ErrorView
		if json.NewDecoder(resp.Body).Decode(&ev) == nil {
			if ev.Error != "" {
				apiErr.Message = ev.Error
			}
			apiErr.Fields = ev.Fields
		}
		return resp, apiErr
	case out != nil && resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return resp, nil
}

func (c *Client) profilePath() string { return "/users/" + url.PathEscape(c.Username) }

func feedbackPath(id uint, action string) string {
	return "/feedback/" + strconv.FormatUint(uint64(id), 10) + "/" + action
}

// Login signs in and remembers the username for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.do(ctx, http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusSeeOther {
		return fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}
	// already signed in sessions redirect to their own profile
	loc := resp.Header.Get("Location")
	name, ok := strings.CutPrefix(loc, "/users/")
	if !ok || name == "" {
		return fmt.Errorf("login: unexpected redirect %q", loc)
	}
	if c.Username, err = url.PathUnescape(name); err != nil {
		return err
	}
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", url.Values{}, nil)
	c.Username = ""
	return err
}

func (c *Client) Profile(ctx context.Context) (dto.UserView, error) {
	var v dto.UserView
	if c.Username == "" {
		return v, errors.New("not signed in")
	}
	_, err := c.do(ctx, http.MethodGet, c.profilePath(), nil, &v)
	return v, err
}

func (c *Client) AddFeedback(ctx context.Context, title, content string) error {
	_, err := c.do(ctx, http.MethodPost, c.profilePath()+"/feedback/add", url.Values{
		"title":   {title},
		"content": {content},
	}, nil)
	return err
}

func (c *Client) UpdateFeedback(ctx context.Context, id uint, title, content string) error {
	_, err := c.do(ctx, http.MethodPost, feedbackPath(id, "update"), url.Values{
		"title":   {title},
		"content": {content},
	}, nil)
	return err
}

func (c *Client) DeleteFeedback(ctx context.Context, id uint) error {
	_, err := c.do(ctx, http.MethodPost, feedbackPath(id, "delete"), url.Values{}, nil)
	return err
}
