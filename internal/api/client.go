package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"menu-admin/internal/model"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 15 * time.Second

	// maxErrorBody bounds how much of an error response is kept on *Error.
	maxErrorBody = 512
)

// Backend is the set of remote operations the client-side store depends on.
type Backend interface {
	FetchMenus(ctx context.Context) ([]model.Menu, error)
	CreateMenu(ctx context.Context, in model.NewMenu) (model.Menu, error)
	AddMenuItem(ctx context.Context, in model.NewMenuItem) (model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, in model.ItemRename) (model.ItemPatch, error)
	DeleteMenuItem(ctx context.Context, id string) (string, error)
}

// Client talks to the remote menus API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a client for baseURL (e.g. "http://localhost:3001/api").
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url must be http(s): %q", baseURL)
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) FetchMenus(ctx context.Context) ([]model.Menu, error) {
	var out []model.Menu
	if err := c.do(ctx, OpFetchMenus, http.MethodGet, "/menus", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Menu{}
	}
	return out, nil
}

func (c *Client) CreateMenu(ctx context.Context, in model.NewMenu) (model.Menu, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := model.Validate(in); err != nil {
		return model.Menu{}, err
	}
	var out model.Menu
	if err := c.do(ctx, OpCreateMenu, http.MethodPost, "/menus", in, &out); err != nil {
		return model.Menu{}, err
	}
	return out, nil
}

// AddMenuItem posts the item to the menus collection; the backend tells items
// from menus by the presence of menuId.
func (c *Client) AddMenuItem(ctx context.Context, in model.NewMenuItem) (model.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := model.Validate(in); err != nil {
		return model.MenuItem{}, err
	}
	var out model.MenuItem
	if err := c.do(ctx, OpAddItem, http.MethodPost, "/menus", in, &out); err != nil {
		return model.MenuItem{}, err
	}
	return out, nil
}

// UpdateMenuItem returns the reply as a patch, so fields the server leaves out
// are not mistaken for zero values.
func (c *Client) UpdateMenuItem(ctx context.Context, id string, in model.ItemRename) (model.ItemPatch, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := model.Validate(in); err != nil {
		return model.ItemPatch{}, err
	}
	var out model.ItemPatch
	if err := c.do(ctx, OpUpdateItem, http.MethodPut, "/menus/"+url.PathEscape(id), in, &out); err != nil {
		return model.ItemPatch{}, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

// DeleteMenuItem returns the deleted id; the response body is ignored.
func (c *Client) DeleteMenuItem(ctx context.Context, id string) (string, error) {
	if err := c.do(ctx, OpDeleteItem, http.MethodDelete, "/menus/"+url.PathEscape(id), nil, nil); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", FailureMessage(op), err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", FailureMessage(op), err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed", zap.String("op", op), zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s: %w", FailureMessage(op), err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", FailureMessage(op), err)
	}
	return nil
}
