// Package ingest turns admin-submitted titles, descriptions and files into the
// derived fields stored on content rows.
package ingest

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[-\s_]+`)
)

// Slugify lower-cases title, drops everything but ASCII word characters,
// whitespace and hyphens, then joins the remaining words with single hyphens.
func Slugify(title string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(title), "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugExistsFunc reports whether slug is already taken for an entity type.
type SlugExistsFunc func(slug string) (bool, error)

// AssignSlug returns nil when title has no slug-able characters. Otherwise
// it returns the bare slug when free, or the slug with a random -NNN suffix.
// The suffixed candidate is not re-checked; callers rely on the unique index
// and retry.
func AssignSlug(title string, exists SlugExistsFunc) (*string, error) {
	base := Slugify(title)
	if base == "" {
		return nil, nil
	}

	taken, err := exists(base)
	if err != nil {
		return nil, fmt.Errorf("check slug %q: %w", base, err)
	}
	if !taken {
		return &base, nil
	}

	suffixed := fmt.Sprintf("%s-%d", base, 100+rand.Intn(900))
	return &suffixed, nil
}
