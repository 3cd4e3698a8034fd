package blog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const driverSqlite = "sqlite"

// SQLiteSource reads posts from a local snapshot of the backend tables.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the snapshot at dsn (a file path or ":memory:").
func NewSQLiteSource(ctx context.Context, dsn string) (*SQLiteSource, error) {
	db, err := sql.Open(driverSqlite, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// DB exposes the underlying handle, for loading snapshots.
func (s *SQLiteSource) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Published implements Source.
func (s *SQLiteSource) Published(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(publishedQuery, "?"), StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var (
			p                                          Post
			title, content, author, category, filename sql.NullString
			created                                    sql.NullString
		)
		if err := rows.Scan(&p.ID, &title, &content, &author, &category, &p.Status, &created, &filename); err != nil {
			return nil, fmt.Errorf("reading posts: %w", err)
		}
		p.Title, p.Content, p.Author, p.Category = title.String, content.String, author.String, category.String
		if created.Valid && created.String != "" {
			if p.DateCreated, err = parseTimestamp(created.String); err != nil {
				return nil, fmt.Errorf("post %d: %w", p.ID, err)
			}
		}
		if filename.Valid {
			p.Picture = &Picture{FilenameDisk: filename.String}
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading posts: %w", err)
	}
	log.Debug().Int("posts", len(posts)).Msg("posts queried")
	return posts, nil
}
