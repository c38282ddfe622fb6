package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kesaramb/infographedia/core/dna"
)

func testDoc(title string) *dna.DNA {
	return &dna.DNA{
		Content: dna.Content{
			Title: title,
			Data:  []dna.DataPoint{{Label: "A", Value: dna.Number(42)}},
			Sources: []dna.Source{
				{Name: "Example", URL: "https://example.com", AccessedAt: "2026-02-01"},
			},
		},
		Presentation: dna.Presentation{
			Theme:      dna.ThemeMinimalist,
			ChartType:  dna.ChartStatCard,
			Layout:     dna.LayoutCentered,
			Colors:     dna.Colors{Primary: "#333333", Background: "#ffffff", Text: "#1a1a1a"},
			Components: []dna.ComponentSlot{{Type: "title"}, {Type: "stat-card"}, {Type: "source-badge"}},
		},
	}
}

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "posts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetPost(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SavePost(ctx, testDoc("One Number"), "user-1", "", []string{"a query"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "user-1", saved.AuthorID)
	assert.Empty(t, saved.ParentID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.GetPost(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "One Number", got.DNA.Content.Title)
	assert.Equal(t, []string{"a query"}, got.SearchQueries)
	assert.Equal(t, 42.0, *got.DNA.Content.Data[0].Value)
}

func TestGetPostNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePostWithParent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	root, err := s.SavePost(ctx, testDoc("Original"), "user-1", "", nil)
	require.NoError(t, err)

	child, err := s.SavePost(ctx, testDoc("Iterated"), "user-1", root.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, root.ID, child.ParentID)

	got, err := s.GetPost(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, got.ParentID)
	assert.Empty(t, got.SearchQueries)
}

func TestListPosts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := s.SavePost(ctx, testDoc(title), "user-1", "", nil)
		require.NoError(t, err)
	}

	posts, err := s.ListPosts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	limited, err := s.ListPosts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListPostsEmpty(t *testing.T) {
	s := openTestStore(t)

	posts, err := s.ListPosts(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "posts.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
