package blog

import "strings"

// Filter returns the posts whose title, content, author or category contain
// term, ignoring case. An empty term returns posts unchanged.
func Filter(posts []Post, term string) []Post {
	if term == "" {
		return posts
	}
	needle := strings.ToLower(term)
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Post, needle string) bool {
	for _, field := range []string{p.Title, p.Content, p.Author, p.Category} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
