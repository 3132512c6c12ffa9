package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menu-admin/internal/mockapi"
	"menu-admin/internal/model"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr bool
		want    string
	}{
		{name: "empty", in: "  ", wantErr: true},
		{name: "no scheme", in: "localhost:3001", wantErr: true},
		{name: "trailing slash trimmed", in: "http://localhost:3001/api/", want: "http://localhost:3001/api"},
		{name: "https", in: "https://menus.example.com", want: "https://menus.example.com"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := New(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.in, err)
			}
			if c.BaseURL() != tt.want {
				t.Fatalf("base url: got %q want %q", c.BaseURL(), tt.want)
			}
		})
	}

	if _, err := New(""); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL, got %v", err)
	}
}

func TestClient_AgainstMockAPI(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := httptest.NewServer(mockapi.NewRouter(mockapi.NewMemory(), nil, nil))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	menus, err := c.FetchMenus(ctx)
	if err != nil || menus == nil || len(menus) != 0 {
		t.Fatalf("initial fetch: %v %#v", err, menus)
	}

	menu, err := c.CreateMenu(ctx, model.NewMenu{Name: "  Main  "})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	if menu.Name != "Main" {
		t.Fatalf("expected trimmed name, got %q", menu.Name)
	}

	it, err := c.AddMenuItem(ctx, model.NewMenuItem{Name: "Root", MenuID: menu.ID})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if it.ParentID != nil || it.MenuID != menu.ID {
		t.Fatalf("unexpected item: %+v", it)
	}

	upd, err := c.UpdateMenuItem(ctx, it.ID, model.ItemRename{Name: "Home"})
	if err != nil || upd.Name == nil || *upd.Name != "Home" || upd.ID != it.ID {
		t.Fatalf("update: %v %+v", err, upd)
	}

	id, err := c.DeleteMenuItem(ctx, it.ID)
	if err != nil || id != it.ID {
		t.Fatalf("delete: %v %q", err, id)
	}

	_, err = c.DeleteMenuItem(ctx, it.ID)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound || apiErr.Message() != "failed to delete menu item" {
		t.Fatalf("expected 404 api error, got %v", err)
	}
}

func TestClient_ValidatesBeforeSending(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c, _ := New(srv.URL)
	ctx := context.Background()
	if _, err := c.AddMenuItem(ctx, model.NewMenuItem{Name: "   ", MenuID: "m"}); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}
	if _, err := c.AddMenuItem(ctx, model.NewMenuItem{Name: "x"}); err == nil || !strings.Contains(err.Error(), "menuId") {
		t.Fatalf("expected missing menuId error, got %v", err)
	}
	if _, err := c.UpdateMenuItem(ctx, "i", model.ItemRename{}); err == nil {
		t.Fatalf("expected blank rename to be rejected")
	}
	if hits != 0 {
		t.Fatalf("expected no requests, got %d", hits)
	}
}

func TestClient_WireFormat(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, contentType string
		body                      map[string]any
	}
	var got []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		got = append(got, seen{r.Method, r.URL.Path, r.Header.Get("Content-Type"), body})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"item-1","name":"n","menuId":"m","parentId":null,"depth":0,"order":0,"children":[]}`))
	}))
	t.Cleanup(srv.Close)

	c, _ := New(srv.URL + "/api")
	ctx := context.Background()
	parent := "item-0"
	if _, err := c.AddMenuItem(ctx, model.NewMenuItem{Name: "n", MenuID: "m", ParentID: &parent, Depth: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := c.UpdateMenuItem(ctx, "item 1", model.ItemRename{Name: "n"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0].method != http.MethodPost || got[0].path != "/api/menus" || got[0].contentType != "application/json" {
		t.Fatalf("unexpected add request: %+v", got[0])
	}
	if got[0].body["menuId"] != "m" || got[0].body["parentId"] != "item-0" || got[0].body["depth"] != float64(1) {
		t.Fatalf("unexpected add body: %+v", got[0].body)
	}
	if _, hasID := got[0].body["id"]; hasID {
		t.Fatalf("add payload must not carry an id")
	}
	if got[1].method != http.MethodPut || got[1].path != "/api/menus/item 1" {
		t.Fatalf("unexpected update request: %+v", got[1])
	}
}

func TestClient_TransportErrorWraps(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := New(url)
	_, err := c.FetchMenus(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "failed to fetch menus: ") {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if StatusCode(err) != 0 {
		t.Fatalf("transport errors carry no status")
	}
}

func TestClient_UpdateReplyIsPatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"B2"}`))
	}))
	t.Cleanup(srv.Close)

	c, _ := New(srv.URL)
	patch, err := c.UpdateMenuItem(context.Background(), "b", model.ItemRename{Name: "B2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if patch.ID != "b" {
		t.Fatalf("expected id filled from the request, got %q", patch.ID)
	}
	if patch.Name == nil || *patch.Name != "B2" {
		t.Fatalf("expected name in patch, got %+v", patch)
	}
	if patch.MenuID != nil || patch.HasParent || patch.Depth != nil || patch.Order != nil {
		t.Fatalf("expected absent fields to stay unset, got %+v", patch)
	}
}
