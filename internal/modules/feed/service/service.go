package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/feed/domain"
	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/config"
	errs "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/errors"
	"github.com/mmcdole/gofeed"
	"github.com/samber/oops"
)

const userAgent = "TechCrunch-News-Bot/1.0"

// Service handles fetching and parsing the RSS feed
type Service struct {
	cfg    *config.Config
	httpc  *http.Client
	parser *gofeed.Parser
}

// New creates a new feed service
func New(cfg *config.Config) *Service {
	return &Service{
		cfg: cfg,
		httpc: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeout) * time.Second,
		},
		parser: gofeed.NewParser(),
	}
}

// Fetch retrieves the raw feed document over HTTP
func (s *Service) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.FeedURL, nil)
	if err != nil {
		return "", oops.With("feed_url", s.cfg.FeedURL).Wrap(errors.Join(errs.ErrFeedFetch, err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", oops.With("feed_url", s.cfg.FeedURL).Wrap(errors.Join(errs.ErrFeedFetch, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", oops.With("feed_url", s.cfg.FeedURL, "status_code", resp.StatusCode).Wrap(errs.ErrFeedFetch)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", oops.With("feed_url", s.cfg.FeedURL).Wrap(errors.Join(errs.ErrFeedFetch, err))
	}

	return string(body), nil
}

// Parse converts a raw feed document into entries, preserving document order
func (s *Service) Parse(raw string) ([]domain.Entry, error) {
	parsed, err := s.parser.ParseString(raw)
	if err != nil {
		return nil, oops.With("feed_url", s.cfg.FeedURL).Wrap(errors.Join(errs.ErrFeedParse, err))
	}

	entries := make([]domain.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, itemToEntry(item))
	}

	return entries, nil
}

// Load fetches the feed and parses it into entries
func (s *Service) Load(ctx context.Context) ([]domain.Entry, error) {
	raw, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}

	slog.Debug("Feed loaded", "feed_url", s.cfg.FeedURL, "entries", len(entries))
	return entries, nil
}

func itemToEntry(item *gofeed.Item) domain.Entry {
	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return domain.Entry{
		Title:       item.Title,
		Link:        item.Link,
		Categories:  domain.NormalizeCategories(item.Categories),
		PublishedAt: published,
	}
}
