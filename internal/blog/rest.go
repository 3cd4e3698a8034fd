package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrMissingSettings is returned when the backend URL or API key is empty.
var ErrMissingSettings = errors.New("missing Supabase settings (url and anon key are required)")

// RESTSource reads posts through the backend's REST interface.
type RESTSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRESTSource returns a source for the backend at baseURL authenticated
// with the public API key. A nil client uses a client with a 30s timeout.
func NewRESTSource(baseURL, apiKey string, client *http.Client) (*RESTSource, error) {
	if baseURL == "" || apiKey == "" {
		return nil, ErrMissingSettings
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}, nil
}

// restPost mirrors the row shape returned by the REST interface.
type restPost struct {
	ID          int64    `json:"id"`
	Title       *string  `json:"title"`
	Content     *string  `json:"content"`
	Author      *string  `json:"author"`
	Category    *string  `json:"category"`
	Status      string   `json:"status"`
	DateCreated *string  `json:"date_created"`
	Picture     *Picture `json:"picture"`
}

// restError is the error body of the REST interface.
type restError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Published implements Source.
func (s *RESTSource) Published(ctx context.Context) ([]Post, error) {
	q := url.Values{}
	q.Set("select", "*,picture:"+filesTable+"(filename_disk)")
	q.Set("status", "eq."+StatusPublished)
	q.Set("order", "date_created.desc")
	endpoint := s.baseURL + "/rest/v1/" + postsTable + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("url", endpoint).Msg("fetching posts")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var re restError
		if json.Unmarshal(body, &re) == nil && re.Message != "" {
			return nil, fmt.Errorf("fetching posts: %s (status %d)", re.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("fetching posts: unexpected status %s", resp.Status)
	}

	var rows []restPost
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}

	posts := make([]Post, 0, len(rows))
	for _, r := range rows {
		p := Post{
			ID:       r.ID,
			Title:    deref(r.Title),
			Content:  deref(r.Content),
			Author:   deref(r.Author),
			Category: deref(r.Category),
			Status:   r.Status,
			Picture:  r.Picture,
		}
		if r.DateCreated != nil {
			if p.DateCreated, err = parseTimestamp(*r.DateCreated); err != nil {
				return nil, fmt.Errorf("post %d: %w", r.ID, err)
			}
		}
		posts = append(posts, p)
	}
	log.Debug().Int("posts", len(posts)).Msg("posts fetched")
	return posts, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
