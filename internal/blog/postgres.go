package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PostgresSource reads posts straight from the backend database.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects to the database at dsn and checks the
// connection.
func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	config.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Published implements Source.
func (s *PostgresSource) Published(ctx context.Context) ([]Post, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(publishedQuery, "$1"), StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}

	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Post, error) {
		var (
			p                                Post
			title, content, author, category *string
			created                          *time.Time
			filename                         *string
		)
		if err := row.Scan(&p.ID, &title, &content, &author, &category, &p.Status, &created, &filename); err != nil {
			return p, err
		}
		p.Title, p.Content, p.Author, p.Category = deref(title), deref(content), deref(author), deref(category)
		if created != nil {
			p.DateCreated = *created
		}
		if filename != nil {
			p.Picture = &Picture{FilenameDisk: *filename}
		}
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading posts: %w", err)
	}
	log.Debug().Int("posts", len(posts)).Msg("posts queried")
	return posts, nil
}
