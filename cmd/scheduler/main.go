package main

import (
	"os"
	"strings"

	"scheduler-cli/internal/cli"
)

// taskVerbs may be used without the "tasks" prefix: `scheduler add ...`.
var taskVerbs = map[string]string{
	"add":          "add",
	"ls":           "list",
	"list":         "list",
	"edit":         "edit",
	"done":         "done",
	"undone":       "undone",
	"star":         "star",
	"unstar":       "unstar",
	"rm":           "rm",
	"complete-all": "complete-all",
}

// rewriteTaskShortcutArgs turns `scheduler <verb> ...` into `scheduler tasks <verb> ...`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`scheduler --pretty ls`), so
// the first positional token is located rather than assuming argv[1].
func rewriteTaskShortcutArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config": true,
		"--format": true,
	}

	rewrite := func(i int) []string {
		verb, ok := taskVerbs[strings.TrimSpace(argv[i])]
		if !ok {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "tasks", verb)
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			// Unknown flags are skipped without consuming a value.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		return rewrite(i)
	}
	return argv
}

func main() {
	os.Args = rewriteTaskShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
