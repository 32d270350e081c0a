// Package export renders task reports as markdown, csv or pdf.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/store"
	"scheduler-cli/internal/taskutil"

	"github.com/jung-kurt/gofpdf"
)

const (
	Markdown = "markdown"
	CSV      = "csv"
	PDF      = "pdf"
)

var Formats = []string{Markdown, CSV, PDF}

type RenderOptions struct {
	Title string
	// Now stamps the report header. Zero means time.Now.
	Now time.Time
}

type WriteOptions struct {
	Format    string
	Overwrite bool
	RenderOptions
}

type WriteResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
	Tasks int    `json:"tasks"`
}

// Render produces the report bytes. Tasks are grouped the same way the TUI lists them.
func Render(tasks []model.Task, format string, opt RenderOptions) ([]byte, error) {
	tasks = taskutil.SortByGroup(tasks)
	if strings.TrimSpace(opt.Title) == "" {
		opt.Title = "Tasks"
	}
	if opt.Now.IsZero() {
		opt.Now = time.Now()
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", Markdown:
		return []byte(RenderMarkdown(tasks, opt)), nil
	case CSV:
		return RenderCSV(tasks)
	case PDF:
		return RenderPDF(tasks, opt)
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// Write renders and writes the report to path.
func Write(tasks []model.Task, path string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --out")
	}
	path = filepath.Clean(path)

	b, err := Render(tasks, opt.Format, opt.RenderOptions)
	if err != nil {
		return WriteResult{}, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return WriteResult{}, err
		}
	}
	if err := writeFile(path, b, opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Path: path, Bytes: len(b), Tasks: len(tasks)}, nil
}

func RenderMarkdown(tasks []model.Task, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + opt.Title)
	writeLn("")
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	writeLn(fmt.Sprintf("_%d tasks, %d completed. Generated %s._", len(tasks), done, opt.Now.Format(time.RFC3339)))

	section := func(name string, completed bool) {
		var rows []model.Task
		for _, t := range tasks {
			if t.Completed == completed {
				rows = append(rows, t)
			}
		}
		if len(rows) == 0 {
			return
		}
		writeLn("")
		writeLn("## " + name)
		writeLn("")
		for _, t := range rows {
			box := "[ ]"
			if t.Completed {
				box = "[x]"
			}
			line := "- " + box + " " + escapeMarkdown(t.Message)
			if t.Favorite {
				line += " ★"
			}
			writeLn(line + " <sub>" + t.Created.Local().Format("2006-01-02") + "</sub>")
		}
	}
	section("Active", false)
	section("Completed", true)
	return buf.String()
}

func RenderCSV(tasks []model.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "message", "completed", "favorite", "created"})
	for _, t := range tasks {
		_ = w.Write([]string{
			t.ID,
			t.Message,
			strconv.FormatBool(t.Completed),
			strconv.FormatBool(t.Favorite),
			t.Created.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func RenderPDF(tasks []model.Task, opt RenderOptions) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator keeps accented messages readable.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(opt.Title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, opt.Now.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fav := ""
		if t.Favorite {
			fav = " *"
		}
		line := fmt.Sprintf("%s %s%s  (%s)", box, t.Message, fav, t.Created.Local().Format("2006-01-02"))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)
	return r.Replace(strings.TrimSpace(s))
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return store.WriteFileAtomic(path, b, 0o644)
}
