package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/news-content-service/internal/models"
	"github.com/rs/zerolog"
)

// Store reads and writes the flat-file shadow representation of articles,
// one file per (channel, slug) under root/{channelId}/{slug}.md. It is not
// authoritative: reads tolerate stale or missing files, and writes are a
// best-effort backup the caller may ignore failures from.
type Store struct {
	root string
	log  zerolog.Logger
}

// NewStore creates a markdown store rooted at dir
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{
		root: dir,
		log:  log.With().Str("component", "markdown_store").Logger(),
	}
}

func (s *Store) path(channelID, slug string) string {
	return filepath.Join(s.root, channelID, slug+".md")
}

// Read loads and parses a single document
func (s *Store) Read(ctx context.Context, channelID, slug string) (*models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(channelID, slug)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, models.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	fm, body, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return normalize(channelID, slug, fm, body, info.ModTime()), nil
}

// Write serializes an article and persists it to the channel's directory.
// The write goes through a temp file and a rename so a concurrent reader
// never sees a half-written document.
func (s *Store) Write(ctx context.Context, article *models.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := serializeDocument(article)
	if err != nil {
		return err
	}

	dir := filepath.Join(s.root, article.ChannelID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create channel dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, article.Slug+".md.tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	path := s.path(article.ChannelID, article.Slug)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename into place: %w", err)
	}

	s.log.Debug().
		Str("channel", article.ChannelID).
		Str("slug", article.Slug).
		Msg("Article exported to markdown")
	return nil
}

// Delete removes the shadow file for an article. A missing file is fine; the
// shadow store may always be behind the primary.
func (s *Store) Delete(ctx context.Context, channelID, slug string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.path(channelID, slug)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", s.path(channelID, slug), err)
	}
	return nil
}

// List loads all documents in a channel's directory, newest publish date
// first. Files that fail to parse are skipped and logged; one bad document
// must not take down the whole listing. A missing channel directory is an
// empty channel.
func (s *Store) List(ctx context.Context, channelID string) ([]*models.Article, error) {
	dir := filepath.Join(s.root, channelID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.Article{}, nil
		}
		return nil, fmt.Errorf("read channel dir %s: %w", dir, err)
	}

	articles := []*models.Article{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		slug := strings.TrimSuffix(entry.Name(), ".md")
		article, err := s.Read(ctx, channelID, slug)
		if err != nil {
			s.log.Warn().Err(err).
				Str("channel", channelID).
				Str("file", entry.Name()).
				Msg("Skipping unparseable markdown document")
			continue
		}
		articles = append(articles, article)
	}

	sort.Slice(articles, func(i, j int) bool {
		return publishTime(articles[j]).Before(publishTime(articles[i]))
	})
	return articles, nil
}

func publishTime(a *models.Article) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}
