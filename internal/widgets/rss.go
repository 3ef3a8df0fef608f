package widgets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// maxHeadlines caps the ticker length; old feeds can carry hundreds of
// entries and the crawl would never finish scrolling
const maxHeadlines = 15

// RSSProvider fetches ticker headlines from a syndication feed
type RSSProvider struct {
	logger *zap.Logger
	parser *gofeed.Parser
}

// NewRSSProvider creates a provider with its own parser and HTTP client
func NewRSSProvider(logger *zap.Logger) *RSSProvider {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: widgetTimeout}
	return &RSSProvider{logger: logger, parser: parser}
}

// Fetch parses the feed and keeps the newest headlines
func (p *RSSProvider) Fetch(ctx context.Context, feedURL string, speed domain.ScrollSpeed) (domain.RSSView, error) {
	if feedURL == "" {
		return domain.RSSView{}, errors.New("no feed URL configured")
	}

	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return domain.RSSView{}, fmt.Errorf("failed to parse feed %q: %w", feedURL, err)
	}

	items := make([]domain.RSSItem, 0, maxHeadlines)
	for _, entry := range feed.Items {
		if entry == nil || entry.Title == "" {
			continue
		}
		items = append(items, domain.RSSItem{Title: entry.Title, Link: entry.Link})
		if len(items) == maxHeadlines {
			break
		}
	}

	p.logger.Debug("Feed fetched",
		zap.String("feed", feed.Title),
		zap.Int("headlines", len(items)))
	return domain.RSSView{Enabled: true, Speed: speed, Items: items}, nil
}
