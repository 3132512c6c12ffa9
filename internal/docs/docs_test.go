package docs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"api", "keys", "overview"}, Topics()); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	body, ok := Get(" Keys ")
	if !ok || !strings.Contains(body, "# Keys") {
		t.Fatalf("expected keys topic, got %v", ok)
	}
	for _, bad := range []string{"", "missing", "../docs", "content/keys"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestRender_NoTTY(t *testing.T) {
	t.Parallel()

	body, _ := Get("overview")
	out, err := Render(body, 80, "notty")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "menu-admin") || !strings.Contains(out, "mock-api") {
		t.Fatalf("unexpected render output: %q", out)
	}
	if out, err := Render("  ", 80, "notty"); err != nil || out != "" {
		t.Fatalf("expected empty output, got %q %v", out, err)
	}
}

func TestStyle_Env(t *testing.T) {
	t.Setenv("MENU_ADMIN_MD_STYLE", "light")
	if got := Style(); got != "light" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("MENU_ADMIN_MD_STYLE", "")
	t.Setenv("COLORFGBG", "15;0")
	if got := Style(); got != "dark" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("COLORFGBG", "0;15")
	if got := Style(); got != "light" {
		t.Fatalf("got %q", got)
	}
}
