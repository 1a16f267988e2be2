// file: internal/backup/export_test.go
// version: 1.0.0
// guid: 4b6c8d0e-2f3a-4b7c-9d1e-3f5a7b9c1d2e

package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/models"
)

func TestExportImportRoundTrip(t *testing.T) {
	source := database.NewMockStore()
	_, err := source.CreateNote(&models.Note{
		Title:      "Shopping",
		Content:    "buy milk #urgent",
		Categories: []string{"home/groceries"},
		Hashtags:   []string{"urgent"},
	})
	require.NoError(t, err)
	_, err = source.CreateNote(&models.Note{Title: "Second", Content: "more text"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export", "notes.json")
	n, err := ExportNotesToFile(source, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	target := database.NewMockStore()
	created, updated, err := ImportFile(target, path)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Zero(t, updated)

	count, err := target.CountNotes()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Referenced categories get materialized
	cat, err := target.GetCategoryByPath("home/groceries")
	require.NoError(t, err)
	assert.NotNil(t, cat)

	// Re-importing the same dump updates instead of duplicating
	created, updated, err = ImportFile(target, path)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 2, updated)
	count, err = target.CountNotes()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestParseNotesFile_BareArrayAndSingleObject(t *testing.T) {
	dir := t.TempDir()

	arrayPath := filepath.Join(dir, "array.json")
	require.NoError(t, os.WriteFile(arrayPath, []byte(`[{"title":"a","content":"x"},{"title":"b","content":"y"}]`), 0644))
	notes, err := ParseNotesFile(arrayPath)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	objectPath := filepath.Join(dir, "one.json")
	require.NoError(t, os.WriteFile(objectPath, []byte(`{"title":"solo","content":"z"}`), 0644))
	notes, err = ParseNotesFile(objectPath)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "solo", notes[0].Title)
}

func TestParseNotesFile_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting-notes.md")
	content := "# Weekly sync\n\nDiscussed the roadmap #planning #q3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	notes, err := ParseNotesFile(path)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Weekly sync", notes[0].Title)
	assert.Contains(t, notes[0].Content, "roadmap")
	assert.Equal(t, []string{"planning", "q3"}, notes[0].Hashtags)
}

func TestParseNotesFile_MarkdownWithoutHeading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch.md")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0644))

	notes, err := ParseNotesFile(path)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "scratch", notes[0].Title, "filename becomes the title")
	assert.Equal(t, "just some text", notes[0].Content)
}

func TestParseNotesFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseNotesFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	badType := filepath.Join(dir, "notes.xml")
	require.NoError(t, os.WriteFile(badType, []byte("<notes/>"), 0644))
	_, err = ParseNotesFile(badType)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0644))
	_, err = ParseNotesFile(empty)
	assert.Error(t, err)
}
