package media

import (
	"net/url"
	"strings"

	"github.com/showgo/player/internal/domain"
)

// URLBuilder turns playlist filenames into absolute fetch URLs
type URLBuilder struct {
	base string
}

// NewURLBuilder creates a builder for the session's media base URL
func NewURLBuilder(mediaBaseURL string) *URLBuilder {
	return &URLBuilder{base: strings.TrimSuffix(mediaBaseURL, "/")}
}

// MediaURL returns the absolute URL for an item. Filenames are stored
// verbatim on the server and must be percent-encoded as a single path
// segment.
func (b *URLBuilder) MediaURL(item domain.MediaItem) string {
	return b.base + "/" + url.PathEscape(item.Filename)
}
