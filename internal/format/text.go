package format

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"scheduler-cli/internal/model"
)

// WriteText writes a human-oriented rendering. Tasks become an aligned table;
// anything else falls back to "key: value" lines.
func WriteText(w io.Writer, v any) error {
	switch t := v.(type) {
	case []model.Task:
		return writeTaskTable(w, t)
	case model.Task:
		return writeTaskTable(w, []model.Task{t})
	case *model.Task:
		if t == nil {
			return nil
		}
		return writeTaskTable(w, []model.Task{*t})
	}

	x, err := jsonTree(v)
	if err != nil {
		return err
	}
	switch t := x.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s: %v\n", k, t[k]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, it := range t {
			if _, err := fmt.Fprintln(w, it); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, t)
		return err
	}
}

func writeTaskTable(w io.Writer, tasks []model.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tFAV\tCREATED\tMESSAGE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			mark(t.Completed),
			mark(t.Favorite),
			t.Created.Local().Format("2006-01-02 15:04"),
			strings.TrimSpace(t.Message),
		)
	}
	return tw.Flush()
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return "-"
}
