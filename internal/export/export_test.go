package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scheduler-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []model.Task {
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: "a", Message: "Old done", Completed: true, Created: base},
		{ID: "b", Message: "Star *me*", Favorite: true, Created: base.Add(time.Hour)},
		{ID: "c", Message: "Plain", Created: base.Add(2 * time.Hour)},
	}
}

func TestRenderMarkdown_GroupsActiveBeforeCompleted(t *testing.T) {
	b, err := Render(fixture(), Markdown, RenderOptions{Title: "Mine", Now: time.Unix(0, 0)})
	require.NoError(t, err)
	md := string(b)

	assert.True(t, strings.HasPrefix(md, "# Mine\n"))
	assert.Contains(t, md, "3 tasks, 1 completed")
	assert.Contains(t, md, `- [ ] Star \*me\* ★`)

	active := strings.Index(md, "## Active")
	completed := strings.Index(md, "## Completed")
	require.True(t, active >= 0 && completed > active)
	// Favorites lead the active group.
	assert.Less(t, strings.Index(md, "Star"), strings.Index(md, "Plain"))
	assert.Greater(t, strings.Index(md, "[x] Old done"), completed)
}

func TestRenderCSV(t *testing.T) {
	b, err := Render(fixture(), CSV, RenderOptions{})
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"id", "message", "completed", "favorite", "created"}, rows[0])
	assert.Equal(t, "b", rows[1][0])
	assert.Equal(t, "true", rows[3][2])
}

func TestRenderPDF_ProducesDocument(t *testing.T) {
	b, err := Render(fixture(), PDF, RenderOptions{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(nil, "docx", RenderOptions{})
	assert.Error(t, err)
}

func TestWrite_RefusesOverwriteUnlessAsked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tasks.csv")

	res, err := Write(fixture(), path, WriteOptions{Format: CSV})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Tasks)
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, res.Bytes, st.Size())

	_, err = Write(fixture(), path, WriteOptions{Format: CSV})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--overwrite")

	_, err = Write(fixture(), path, WriteOptions{Format: CSV, Overwrite: true})
	require.NoError(t, err)
}

func TestWrite_MissingPath(t *testing.T) {
	_, err := Write(nil, " ", WriteOptions{})
	assert.Error(t, err)
}
