package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	e := cmd.ExecuteContext(ctx)
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type apiFixture struct {
	url   string
	mem   *mockapi.Memory
	menu  model.Menu
	users model.MenuItem
	roles model.MenuItem
}

// newAPI isolates the config dir and serves a seeded in-memory API.
func newAPI(t *testing.T) apiFixture {
	t.Helper()
	t.Setenv("MENU_ADMIN_CONFIG_DIR", t.TempDir())
	t.Setenv("MENU_ADMIN_API_URL", "")
	t.Setenv("MENU_ADMIN_FORMAT", "")
	t.Setenv("MENU_ADMIN_LOG_LEVEL", "error")

	mem := mockapi.NewMemory()
	menu := mem.CreateMenu(model.NewMenu{Name: "Main"})
	users, err := mem.AddItem(model.NewMenuItem{Name: "Users", MenuID: menu.ID})
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	roles, err := mem.AddItem(model.NewMenuItem{Name: "Roles", MenuID: menu.ID, ParentID: &users.ID, Depth: 1})
	if err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	srv := httptest.NewServer(mockapi.NewRouter(mem, nil, nil))
	t.Cleanup(srv.Close)
	return apiFixture{url: srv.URL, mem: mem, menu: menu, users: users, roles: roles}
}

func (f apiFixture) mustEnv(t *testing.T, args ...string) map[string]any {
	t.Helper()
	args = append([]string{"--api-url", f.url}, args...)
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: menu-admin %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	if meta, ok := env["meta"]; ok && meta != nil {
		if _, ok := meta.(map[string]any); !ok {
			t.Fatalf("expected meta to be object; got %T", meta)
		}
	}
	return env
}

func TestOutputContract_JSONEnvelope(t *testing.T) {
	f := newAPI(t)

	f.mustEnv(t, "menus", "list")
	f.mustEnv(t, "menus", "list", "--cached")
	f.mustEnv(t, "menus", "show", f.menu.ID)
	f.mustEnv(t, "menus", "tree", f.menu.ID)
	f.mustEnv(t, "items", "show", f.roles.ID)
	f.mustEnv(t, "config")
	f.mustEnv(t, "docs")
	f.mustEnv(t, "docs", "keys")
}

func TestMenusList_CachedAfterFetch(t *testing.T) {
	f := newAPI(t)

	cold := f.mustEnv(t, "menus", "list", "--cached")
	if got := cold["data"].([]any); len(got) != 0 {
		t.Fatalf("expected empty cache before any fetch, got %v", got)
	}
	if meta := cold["meta"].(map[string]any); meta["fetchedAt"] != nil {
		t.Fatalf("expected no fetchedAt, got %v", meta["fetchedAt"])
	}

	f.mustEnv(t, "menus", "list")

	warm := f.mustEnv(t, "menus", "list", "--cached")
	menus := warm["data"].([]any)
	if len(menus) != 1 {
		t.Fatalf("expected 1 cached menu, got %d", len(menus))
	}
	if name := menus[0].(map[string]any)["name"]; name != "Main" {
		t.Fatalf("cached menu name: got %v", name)
	}
	if meta := warm["meta"].(map[string]any); meta["cached"] != true || meta["fetchedAt"] == nil {
		t.Fatalf("unexpected meta: %v", meta)
	}
}

func TestMenusCreateAndShow(t *testing.T) {
	f := newAPI(t)

	created := f.mustEnv(t, "menus", "create", "--name", "  Admin  ")
	data := created["data"].(map[string]any)
	id, _ := data["id"].(string)
	if !strings.HasPrefix(id, "menu-") || data["name"] != "Admin" {
		t.Fatalf("unexpected created menu: %v", data)
	}

	shown := f.mustEnv(t, "menus", "show", id)
	items, ok := shown["data"].(map[string]any)["items"].([]any)
	if !ok || len(items) != 0 {
		t.Fatalf("expected empty items list, got %#v", shown["data"])
	}

	main := f.mustEnv(t, "menus", "show", f.menu.ID)
	roots := main["data"].(map[string]any)["items"].([]any)
	if len(roots) != 1 {
		t.Fatalf("expected one root item, got %d", len(roots))
	}
	kids := roots[0].(map[string]any)["children"].([]any)
	if len(kids) != 1 || kids[0].(map[string]any)["name"] != "Roles" {
		t.Fatalf("expected Roles nested under Users, got %v", kids)
	}
}

func TestMenusTree_VisibleRows(t *testing.T) {
	f := newAPI(t)

	rowNames := func(env map[string]any) []string {
		var out []string
		for _, r := range env["data"].([]any) {
			out = append(out, r.(map[string]any)["name"].(string))
		}
		return out
	}

	got := rowNames(f.mustEnv(t, "menus", "tree", f.menu.ID))
	if strings.Join(got, ",") != "Main,Users" {
		t.Fatalf("default rows: got %v", got)
	}

	got = rowNames(f.mustEnv(t, "menus", "tree", f.menu.ID, "--expand-all"))
	if strings.Join(got, ",") != "Main,Users,Roles" {
		t.Fatalf("expanded rows: got %v", got)
	}
}

func TestMenusTree_TextFormat(t *testing.T) {
	f := newAPI(t)
	t.Setenv("MENU_ADMIN_TUI_GLYPHS", "ascii")

	stdout, stderr, err := runCLI(t, []string{"--api-url", f.url, "--format", "text", "menus", "tree", f.menu.ID, "--expand-all"})
	if err != nil {
		t.Fatalf("tree: %v\nstderr:\n%s", err, stderr)
	}
	out := string(stdout)
	for _, want := range []string{"Main", "Users", "`- * Roles", "[" + f.roles.ID + "]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in text output:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"data"`) {
		t.Fatalf("text output should not contain the envelope:\n%s", out)
	}
}

func TestMenus_UnknownMenu(t *testing.T) {
	f := newAPI(t)

	for _, args := range [][]string{
		{"menus", "show", "menu-nope"},
		{"menus", "tree", "menu-nope"},
		{"items", "add", "--menu", "menu-nope", "--name", "x"},
	} {
		_, stderr, err := runCLI(t, append([]string{"--api-url", f.url}, args...))
		var nf notFoundError
		if !errors.As(err, &nf) || nf.kind != "menu" {
			t.Fatalf("%v: expected menu not found, got %v", args, err)
		}
		if !strings.Contains(string(stderr), "menu not found: menu-nope") {
			t.Fatalf("%v: stderr: %s", args, stderr)
		}
	}
}

func TestItemsAdd(t *testing.T) {
	f := newAPI(t)

	top := f.mustEnv(t, "items", "add", "--menu", f.menu.ID, "--name", "Reports")
	data := top["data"].(map[string]any)
	if data["parentId"] != nil || data["depth"] != float64(0) || data["menuId"] != f.menu.ID {
		t.Fatalf("unexpected top-level item: %v", data)
	}

	// Passing the menu id as parent also adds at the top level.
	viaMenu := f.mustEnv(t, "items", "add", "--menu", f.menu.ID, "--parent", f.menu.ID, "--name", "Audit")
	if viaMenu["data"].(map[string]any)["parentId"] != nil {
		t.Fatalf("expected nil parentId, got %v", viaMenu["data"])
	}

	child := f.mustEnv(t, "items", "add", "--menu", f.menu.ID, "--parent", f.roles.ID, "--name", "Permissions")
	data = child["data"].(map[string]any)
	if data["parentId"] != f.roles.ID || data["depth"] != float64(2) {
		t.Fatalf("unexpected child item: %v", data)
	}

	got := f.mem.Menus()[0].Items
	if len(got) != 5 {
		t.Fatalf("expected 5 items on the server, got %d", len(got))
	}
}

func TestItemsAdd_Rejects(t *testing.T) {
	f := newAPI(t)

	_, _, err := runCLI(t, []string{"--api-url", f.url, "items", "add", "--menu", f.menu.ID, "--name", "x", "--parent", "item-nope"})
	var nf notFoundError
	if !errors.As(err, &nf) || nf.kind != "item" {
		t.Fatalf("expected item not found, got %v", err)
	}

	_, _, err = runCLI(t, []string{"--api-url", f.url, "items", "add", "--menu", f.menu.ID, "--name", "   "})
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected empty name error, got %v", err)
	}
	if n := len(f.mem.Menus()[0].Items); n != 2 {
		t.Fatalf("expected no new items, got %d", n)
	}
}

func TestItemsShow_ParentName(t *testing.T) {
	f := newAPI(t)

	env := f.mustEnv(t, "items", "show", f.roles.ID)
	if name := env["data"].(map[string]any)["name"]; name != "Roles" {
		t.Fatalf("name: got %v", name)
	}
	if pn := env["meta"].(map[string]any)["parentName"]; pn != "Users" {
		t.Fatalf("parentName: got %v", pn)
	}

	env = f.mustEnv(t, "items", "show", f.users.ID)
	if pn := env["meta"].(map[string]any)["parentName"]; pn != "" {
		t.Fatalf("root item parentName: got %v", pn)
	}
	kids := env["data"].(map[string]any)["children"].([]any)
	if len(kids) != 1 {
		t.Fatalf("expected subtree with one child, got %v", kids)
	}
}

func TestItems_MenuIDIsNotAnItem(t *testing.T) {
	f := newAPI(t)

	_, _, err := runCLI(t, []string{"--api-url", f.url, "items", "show", f.menu.ID})
	var nai notAnItemError
	if !errors.As(err, &nai) {
		t.Fatalf("expected notAnItemError, got %v", err)
	}
}

func TestItemsUpdate(t *testing.T) {
	f := newAPI(t)

	env := f.mustEnv(t, "items", "update", f.roles.ID, "--name", "Role Groups")
	data := env["data"].(map[string]any)
	if data["name"] != "Role Groups" || data["id"] != f.roles.ID {
		t.Fatalf("unexpected updated item: %v", data)
	}

	_, _, err := runCLI(t, []string{"--api-url", f.url, "items", "update", f.roles.ID, "--name", ""})
	if err == nil {
		t.Fatalf("expected empty name to fail")
	}

	_, _, err = runCLI(t, []string{"--api-url", f.url, "items", "update", "item-nope", "--name", "x"})
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestItemsDelete(t *testing.T) {
	f := newAPI(t)

	// Not a terminal and no --yes: refuse.
	_, _, err := runCLI(t, []string{"--api-url", f.url, "items", "delete", f.users.ID})
	if !errors.Is(err, errConfirmRequired) {
		t.Fatalf("expected errConfirmRequired, got %v", err)
	}
	if n := len(f.mem.Menus()[0].Items); n != 2 {
		t.Fatalf("expected nothing deleted, got %d items", n)
	}

	env := f.mustEnv(t, "items", "delete", f.users.ID, "--yes")
	data := env["data"].(map[string]any)
	if data["deleted"] != f.users.ID || data["descendants"] != float64(1) {
		t.Fatalf("unexpected delete result: %v", data)
	}
	if n := len(f.mem.Menus()[0].Items); n != 0 {
		t.Fatalf("expected item and descendants gone, got %d items", n)
	}

	_, _, err = runCLI(t, []string{"--api-url", f.url, "items", "delete", f.users.ID, "-y"})
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestAPIUnreachable(t *testing.T) {
	t.Setenv("MENU_ADMIN_CONFIG_DIR", t.TempDir())
	t.Setenv("MENU_ADMIN_LOG_LEVEL", "error")

	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, stderr, err := runCLI(t, []string{"--api-url", url, "menus", "list"})
	if err == nil {
		t.Fatalf("expected error for unreachable API")
	}
	if len(stderr) == 0 {
		t.Fatalf("expected error on stderr")
	}
}

func TestConfigGetSet(t *testing.T) {
	t.Setenv("MENU_ADMIN_CONFIG_DIR", t.TempDir())

	stdout, stderr, err := runCLI(t, []string{"config", "set", "api-url", "http://localhost:4000/"})
	if err != nil {
		t.Fatalf("config set: %v\nstderr:\n%s", err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v := env["data"].(map[string]any)["value"]; v != "http://localhost:4000" {
		t.Fatalf("set value: got %v", v)
	}

	stdout, _, err = runCLI(t, []string{"config", "get", "api-url"})
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	env = nil
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v := env["data"].(map[string]any)["value"]; v != "http://localhost:4000" {
		t.Fatalf("get value: got %v", v)
	}

	if _, _, err := runCLI(t, []string{"config", "set", "log-level", "loud"}); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "get", "nope"}); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestDocs(t *testing.T) {
	t.Setenv("MENU_ADMIN_CONFIG_DIR", t.TempDir())

	stdout, _, err := runCLI(t, []string{"docs", "keys", "--raw"})
	if err != nil {
		t.Fatalf("docs --raw: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "#") {
		t.Fatalf("expected raw markdown, got:\n%s", stdout)
	}

	t.Setenv("MENU_ADMIN_MD_STYLE", "notty")
	stdout, _, err = runCLI(t, []string{"docs", "overview", "--render", "--width", "60"})
	if err != nil {
		t.Fatalf("docs --render: %v", err)
	}
	if !strings.Contains(string(stdout), "menu-admin") {
		t.Fatalf("expected rendered docs, got:\n%s", stdout)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}

func TestMockAPI_StopsWithContext(t *testing.T) {
	t.Setenv("MENU_ADMIN_CONFIG_DIR", t.TempDir())
	t.Setenv("MENU_ADMIN_LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, stderr, err := runCLIContext(t, ctx, []string{"mock-api", "--port", "0", "--seed"})
	if err != nil {
		t.Fatalf("mock-api: %v\nstderr:\n%s", err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\nstdout:\n%s", err, stdout)
	}
	url, _ := env["data"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "http://127.0.0.1:") {
		t.Fatalf("unexpected url: %q", url)
	}
}
