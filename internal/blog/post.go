// Package blog fetches published posts from a data source and filters them
// for display.
package blog

import (
	"strings"
	"time"
	"unicode/utf8"
)

// StatusPublished is the only status shown to readers.
const StatusPublished = "published"

// ExcerptLength is the default excerpt size in characters.
const ExcerptLength = 150

// Post is one blog entry.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	DateCreated time.Time `json:"date_created"`
	Picture     *Picture  `json:"picture,omitempty"`
}

// Picture links a post to a file in the pictures storage bucket.
type Picture struct {
	FilenameDisk string `json:"filename_disk"`
}

// DisplayTitle returns the title or "Untitled".
func (p Post) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled"
	}
	return p.Title
}

// DisplayAuthor returns the author or "Anonymous".
func (p Post) DisplayAuthor() string {
	if p.Author == "" {
		return "Anonymous"
	}
	return p.Author
}

// FormattedDate renders the creation date as "January 2, 2006".
func (p Post) FormattedDate() string {
	if p.DateCreated.IsZero() {
		return ""
	}
	return p.DateCreated.Format("January 2, 2006")
}

// Excerpt returns the first max characters of the content, followed by "..."
// when the content is longer.
func (p Post) Excerpt(max int) string {
	if utf8.RuneCountInString(p.Content) <= max {
		return p.Content
	}
	runes := []rune(p.Content)
	return string(runes[:max]) + "..."
}

// PictureURL returns the public storage URL of the post picture, or "" when
// the post has none.
func (p Post) PictureURL(baseURL string) string {
	if p.Picture == nil || p.Picture.FilenameDisk == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/storage/v1/object/public/pictures/" + p.Picture.FilenameDisk
}
