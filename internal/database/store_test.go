// file: internal/database/store_test.go
// version: 1.2.0
// guid: 4d6e8f0a-2b3c-4d7e-9f1a-3b5c7d9e1f2a

package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstrand/notekeeper/internal/models"
)

// setupStores creates one instance of every backend against a temp dir.
// The same assertions run against all of them.
func setupStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := NewSQLiteStore(filepath.Join(dir, "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	pebbleStore, err := NewPebbleStore(filepath.Join(dir, "pebble"))
	require.NoError(t, err)
	t.Cleanup(func() { pebbleStore.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"pebble": pebbleStore,
		"mock":   NewMockStore(),
	}
}

func TestNoteCRUD(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			created, err := store.CreateNote(&models.Note{
				Title:      "Shopping",
				Content:    "buy milk #urgent",
				Categories: []string{"home/groceries"},
				Hashtags:   []string{"urgent"},
			})
			require.NoError(t, err)
			require.NotEmpty(t, created.ID, "ULID should be generated")
			assert.False(t, created.CreatedAt.IsZero())
			assert.False(t, created.UpdatedAt.IsZero())

			fetched, err := store.GetNoteByID(created.ID)
			require.NoError(t, err)
			require.NotNil(t, fetched)
			assert.Equal(t, "Shopping", fetched.Title)
			assert.Equal(t, []string{"home/groceries"}, fetched.Categories)
			assert.Equal(t, []string{"urgent"}, fetched.Hashtags)
			assert.Nil(t, fetched.LastRevisitedAt)

			count, err := store.CountNotes()
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			// Update replaces fields and bumps UpdatedAt
			updated, err := store.UpdateNote(created.ID, &models.Note{
				Title:    "Shopping list",
				Content:  "buy milk and bread",
				Hashtags: []string{"errands"},
			})
			require.NoError(t, err)
			assert.Equal(t, created.ID, updated.ID)
			assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
			assert.Empty(t, updated.Categories)

			fetched, err = store.GetNoteByID(created.ID)
			require.NoError(t, err)
			require.NotNil(t, fetched)
			assert.Equal(t, "Shopping list", fetched.Title)
			assert.Equal(t, []string{"errands"}, fetched.Hashtags)
			assert.Empty(t, fetched.Categories)

			require.NoError(t, store.DeleteNote(created.ID))
			fetched, err = store.GetNoteByID(created.ID)
			require.NoError(t, err)
			assert.Nil(t, fetched, "deleted note should be gone")

			assert.Error(t, store.DeleteNote(created.ID))
		})
	}
}

func TestGetNoteByID_Missing(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			note, err := store.GetNoteByID("01JUNKJUNKJUNKJUNKJUNKJUNK")
			require.NoError(t, err)
			assert.Nil(t, note)
		})
	}
}

func TestUpdateNote_Missing(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.UpdateNote("01JUNKJUNKJUNKJUNKJUNKJUNK", &models.Note{Title: "x"})
			assert.Error(t, err)
		})
	}
}

func TestGetAllNotes_OrderAndPaging(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			var ids []string
			for _, title := range []string{"first", "second", "third"} {
				n, err := store.CreateNote(&models.Note{Title: title})
				require.NoError(t, err)
				ids = append(ids, n.ID)
				time.Sleep(5 * time.Millisecond)
			}

			all, err := store.GetAllNotes(0, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "third", all[0].Title, "most recently updated first")
			assert.Equal(t, "first", all[2].Title)

			page, err := store.GetAllNotes(2, 1)
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "second", page[0].Title)

			// Touching an old note moves it to the front
			_, err = store.UpdateNote(ids[0], &models.Note{Title: "first touched"})
			require.NoError(t, err)
			all, err = store.GetAllNotes(0, 0)
			require.NoError(t, err)
			assert.Equal(t, "first touched", all[0].Title)
		})
	}
}

func TestGetNotesByCategoryAndHashtag(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.CreateNote(&models.Note{
				Title:      "groceries",
				Categories: []string{"home/groceries"},
				Hashtags:   []string{"urgent"},
			})
			require.NoError(t, err)
			_, err = store.CreateNote(&models.Note{
				Title:      "standup",
				Categories: []string{"work"},
				Hashtags:   []string{"urgent", "meeting"},
			})
			require.NoError(t, err)

			byCat, err := store.GetNotesByCategory("home/groceries")
			require.NoError(t, err)
			require.Len(t, byCat, 1)
			assert.Equal(t, "groceries", byCat[0].Title)

			byTag, err := store.GetNotesByHashtag("urgent")
			require.NoError(t, err)
			assert.Len(t, byTag, 2)

			byTag, err = store.GetNotesByHashtag("URGENT")
			require.NoError(t, err)
			assert.Len(t, byTag, 2, "hashtag lookup is case-insensitive")

			byTag, err = store.GetNotesByHashtag("nonexistent")
			require.NoError(t, err)
			assert.Empty(t, byTag)
		})
	}
}

func TestCategoryCRUD(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			created, err := store.CreateCategory("work/projects")
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.NotZero(t, created.ID)

			// Creating the same path again returns the existing row
			again, err := store.CreateCategory("work/projects")
			require.NoError(t, err)
			assert.Equal(t, created.ID, again.ID)

			_, err = store.CreateCategory("home")
			require.NoError(t, err)

			all, err := store.GetAllCategories()
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "home", all[0].Path, "sorted by path")

			count, err := store.CountCategories()
			require.NoError(t, err)
			assert.Equal(t, 2, count)

			byPath, err := store.GetCategoryByPath("work/projects")
			require.NoError(t, err)
			require.NotNil(t, byPath)
			assert.Equal(t, created.ID, byPath.ID)

			missing, err := store.GetCategoryByPath("nope")
			require.NoError(t, err)
			assert.Nil(t, missing)

			require.NoError(t, store.DeleteCategory("home"))
			assert.Error(t, store.DeleteCategory("home"))
		})
	}
}

func TestDeleteCategory_DetachesNotes(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.CreateCategory("work")
			require.NoError(t, err)
			note, err := store.CreateNote(&models.Note{
				Title:      "tagged",
				Categories: []string{"work", "home"},
			})
			require.NoError(t, err)

			require.NoError(t, store.DeleteCategory("work"))

			fetched, err := store.GetNoteByID(note.ID)
			require.NoError(t, err)
			require.NotNil(t, fetched)
			assert.Equal(t, []string{"home"}, fetched.Categories)

			byCat, err := store.GetNotesByCategory("work")
			require.NoError(t, err)
			assert.Empty(t, byCat)
		})
	}
}

func TestGetHashtagCounts(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.CreateNote(&models.Note{Title: "a", Hashtags: []string{"urgent", "work"}})
			require.NoError(t, err)
			_, err = store.CreateNote(&models.Note{Title: "b", Hashtags: []string{"urgent"}})
			require.NoError(t, err)

			counts, err := store.GetHashtagCounts()
			require.NoError(t, err)
			require.Len(t, counts, 2)
			assert.Equal(t, models.HashtagCount{Tag: "urgent", Count: 2}, counts[0])
			assert.Equal(t, models.HashtagCount{Tag: "work", Count: 1}, counts[1])
		})
	}
}

func TestPreferences(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			value, err := store.GetPreference("missing")
			require.NoError(t, err)
			assert.Equal(t, "", value)

			require.NoError(t, store.SetPreference("revisit_intervals", "1,7,30"))
			value, err = store.GetPreference("revisit_intervals")
			require.NoError(t, err)
			assert.Equal(t, "1,7,30", value)

			require.NoError(t, store.SetPreference("revisit_intervals", "2,14"))
			value, err = store.GetPreference("revisit_intervals")
			require.NoError(t, err)
			assert.Equal(t, "2,14", value)
		})
	}
}

func TestReset(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.CreateNote(&models.Note{Title: "gone soon"})
			require.NoError(t, err)
			_, err = store.CreateCategory("temp")
			require.NoError(t, err)

			require.NoError(t, store.Reset())

			count, err := store.CountNotes()
			require.NoError(t, err)
			assert.Zero(t, count)
			count, err = store.CountCategories()
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestInitializeStore(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, InitializeStore("sqlite", filepath.Join(dir, "notes.db")))
	require.NotNil(t, GlobalStore)
	require.NoError(t, CloseStore())
	assert.Nil(t, GlobalStore)

	require.NoError(t, InitializeStore("pebble", filepath.Join(dir, "pebble")))
	require.NotNil(t, GlobalStore)
	require.NoError(t, CloseStore())

	assert.Error(t, InitializeStore("mongodb", "wherever"))
}
