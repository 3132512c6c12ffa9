package main

import (
	"os"
	"strings"

	"menu-admin/internal/cli"
)

func isMenuID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "menu-") && len(s) > len("menu-")
}

// rewriteDirectMenuArgs makes `menu-admin <menu-id>` behave like
// `menu-admin menus tree <menu-id>`. Cobra takes the first positional as a
// subcommand, so argv is rewritten before parsing.
func rewriteDirectMenuArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--api-url":   true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "menus", "tree")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Positionals after "--" never reach subcommands, so the
			// subcommand goes in front of it.
			if i+1 < len(argv) && isMenuID(argv[i+1]) {
				return rewrite(i)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isMenuID(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectMenuArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
