package blog

import (
	"context"
	"fmt"
	"time"
)

// Source returns published posts, newest first.
type Source interface {
	Published(ctx context.Context) ([]Post, error)
}

// Table names in the hosted backend.
const (
	postsTable = "blogs"
	filesTable = "directus_files"
)

// publishedQuery is shared by the SQL sources. The placeholder is filled in
// per driver.
const publishedQuery = `SELECT b.id, b.title, b.content, b.author, b.category, b.status, b.date_created, f.filename_disk
FROM ` + postsTable + ` b
LEFT JOIN ` + filesTable + ` f ON f.id = b.picture
WHERE b.status = %s
ORDER BY b.date_created DESC`

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts the timestamp renderings of Postgres, PostgREST and
// SQLite. Values without a zone are UTC.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
