package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bfv/blogkit/internal/blog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Data source kinds accepted by --source.
const (
	sourceREST     = "rest"
	sourcePostgres = "postgres"
	sourceSQLite   = "sqlite"
)

// postsOptions carries the resolved flags of the posts command.
type postsOptions struct {
	source   string
	search   string
	settings Settings
}

// NewPostsCmd builds and returns the 'posts' cobra command.
func NewPostsCmd() *cobra.Command {
	var (
		source   string
		search   string
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List published blog posts, newest first",
		Long: `Posts fetches the published posts and prints them, optionally filtered by a
case-insensitive search over title, content, author and category.

Sources:
  rest      the hosted backend REST API (supabase.url, supabase.anon_key)
  postgres  the backend database directly (database.url)
  sqlite    a local snapshot of the blog tables (database.snapshot)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("database.snapshot", cmd.Flags().Lookup("snapshot")); err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			return runPosts(cmd.Context(), postsOptions{
				source:   source,
				search:   search,
				settings: settings,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&source, "source", sourceREST, "Data source: rest, postgres or sqlite")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show posts containing this text")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "SQLite snapshot file for --source sqlite")
	return cmd
}

// runPosts is the entry point for the posts command.
func runPosts(ctx context.Context, opts postsOptions, stdout io.Writer) error {
	log.Debug().Str("source", opts.source).Str("search", opts.search).Msg("posts started")

	src, closeSource, err := openSource(ctx, opts.source, opts.settings)
	if err != nil {
		return err
	}
	defer closeSource()

	posts, err := src.Published(ctx)
	if err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}
	filtered := blog.Filter(posts, opts.search)
	log.Debug().Int("posts", len(posts)).Int("matching", len(filtered)).Msg("posts filtered")

	printPosts(stdout, len(posts), filtered, opts.search, opts.settings.Supabase.URL)
	return nil
}

// openSource builds the data source named by kind. The returned func
// releases it.
func openSource(ctx context.Context, kind string, s Settings) (blog.Source, func(), error) {
	switch strings.ToLower(kind) {
	case sourceREST, "":
		src, err := blog.NewRESTSource(s.Supabase.URL, s.Supabase.AnonKey, nil)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	case sourcePostgres:
		if s.Database.URL == "" {
			return nil, nil, ErrMissingDSN
		}
		src, err := blog.NewPostgresSource(ctx, s.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	case sourceSQLite:
		if s.Database.Snapshot == "" {
			return nil, nil, fmt.Errorf("snapshot file is required (use --snapshot or database.snapshot)")
		}
		src, err := blog.NewSQLiteSource(ctx, s.Database.Snapshot)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q (expected rest, postgres or sqlite)", kind)
}

// printPosts renders posts as text cards.
func printPosts(w io.Writer, total int, posts []blog.Post, search, baseURL string) {
	noun := "articles"
	if total == 1 {
		noun = "article"
	}
	fmt.Fprintf(w, "%d %s available\n", total, noun)

	if len(posts) == 0 {
		if search != "" {
			fmt.Fprintln(w, "\nNo results found")
			fmt.Fprintln(w, "Try searching for something else or clear your search.")
		} else {
			fmt.Fprintln(w, "\nNo blog posts yet")
			fmt.Fprintln(w, "Check back later for new content.")
		}
		return
	}

	for _, p := range posts {
		fmt.Fprintf(w, "\n%s\n", p.DisplayTitle())

		meta := []string{p.DisplayAuthor()}
		if d := p.FormattedDate(); d != "" {
			meta = append(meta, d)
		}
		if p.Category != "" {
			meta = append(meta, p.Category)
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(meta, " | "))

		if ex := p.Excerpt(blog.ExcerptLength); ex != "" {
			fmt.Fprintf(w, "  %s\n", ex)
		}
		if u := p.PictureURL(baseURL); u != "" {
			fmt.Fprintf(w, "  picture: %s\n", u)
		}
	}
}
