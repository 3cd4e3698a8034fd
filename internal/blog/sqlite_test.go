package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotSchema = `
CREATE TABLE directus_files (id TEXT PRIMARY KEY, filename_disk TEXT);
CREATE TABLE blogs (
	id INTEGER PRIMARY KEY,
	title TEXT,
	content TEXT,
	author TEXT,
	category TEXT,
	status TEXT NOT NULL,
	date_created TEXT,
	picture TEXT REFERENCES directus_files(id)
);
INSERT INTO directus_files VALUES ('f1', 'cover.png');
INSERT INTO blogs VALUES (1, 'Oldest', 'a', 'Ada', 'News', 'published', '2024-01-01T09:00:00Z', NULL);
INSERT INTO blogs VALUES (2, 'Draft', 'b', 'Ada', 'News', 'draft', '2024-06-01T09:00:00Z', NULL);
INSERT INTO blogs VALUES (3, 'Newest', 'c', NULL, NULL, 'published', '2024-03-01 09:00:00', 'f1');
INSERT INTO blogs VALUES (4, NULL, NULL, NULL, NULL, 'archived', NULL, NULL);
`

func newSnapshot(t *testing.T) *SQLiteSource {
	t.Helper()
	ctx := context.Background()
	s, err := NewSQLiteSource(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// One connection, so every statement sees the same in-memory database.
	s.DB().SetMaxOpenConns(1)
	_, err = s.DB().ExecContext(ctx, snapshotSchema)
	require.NoError(t, err)
	return s
}

func TestSQLiteSourcePublished(t *testing.T) {
	s := newSnapshot(t)

	posts, err := s.Published(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, int64(3), posts[0].ID)
	assert.Equal(t, "Newest", posts[0].Title)
	assert.Equal(t, "Anonymous", posts[0].DisplayAuthor())
	require.NotNil(t, posts[0].Picture)
	assert.Equal(t, "cover.png", posts[0].Picture.FilenameDisk)
	assert.True(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Equal(posts[0].DateCreated))

	assert.Equal(t, int64(1), posts[1].ID)
	assert.Nil(t, posts[1].Picture)
	assert.Equal(t, StatusPublished, posts[1].Status)
}

func TestSQLiteSourceMissingTables(t *testing.T) {
	s, err := NewSQLiteSource(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Published(context.Background())
	assert.ErrorContains(t, err, "querying posts")
}

func TestSQLiteSourceFilterPipeline(t *testing.T) {
	s := newSnapshot(t)

	var src Source = s
	posts, err := src.Published(context.Background())
	require.NoError(t, err)

	got := Filter(posts, "OLD")
	require.Len(t, got, 1)
	assert.Equal(t, "Oldest", got[0].Title)
}
