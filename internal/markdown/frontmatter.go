package markdown

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/news-content-service/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	delimiter = "---"

	// Defaults applied when front-matter fields are missing.
	defaultCategory = "Berita"
	defaultAuthor   = "Redaksi"

	excerptLimit = 150
)

// frontMatter is the structured metadata block of a markdown document.
// List-valued keys (tags, metaKeywords) are comma-separated on one line, so
// they are modeled as strings and split on read.
type frontMatter struct {
	Title           string `yaml:"title,omitempty"`
	Excerpt         string `yaml:"excerpt,omitempty"`
	Author          string `yaml:"author,omitempty"`
	Category        string `yaml:"category,omitempty"`
	Tags            string `yaml:"tags,omitempty"`
	Image           string `yaml:"image,omitempty"`
	ImageAlt        string `yaml:"imageAlt,omitempty"`
	Status          string `yaml:"status,omitempty"`
	Featured        bool   `yaml:"featured,omitempty"`
	PublishedAt     string `yaml:"publishedAt,omitempty"`
	MetaTitle       string `yaml:"metaTitle,omitempty"`
	MetaDescription string `yaml:"metaDescription,omitempty"`
	MetaKeywords    string `yaml:"metaKeywords,omitempty"`
}

// parseDocument splits a markdown document into its front-matter block and
// body. A document without an opening delimiter is treated as body-only; the
// normalization defaults fill in the metadata. Unparseable front-matter is an
// error so list operations can skip the one bad file.
func parseDocument(data []byte) (*frontMatter, string, error) {
	text := string(data)

	if !strings.HasPrefix(text, delimiter+"\n") {
		return &frontMatter{}, text, nil
	}

	rest := text[len(delimiter)+1:]
	end := strings.Index(rest, "\n"+delimiter+"\n")
	if end < 0 {
		return nil, "", fmt.Errorf("front-matter not terminated")
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return nil, "", fmt.Errorf("invalid front-matter: %w", err)
	}

	body := rest[end+len(delimiter)+2:]
	body = strings.TrimPrefix(body, "\n")
	return &fm, body, nil
}

// serializeDocument renders an article back to front-matter + body.
func serializeDocument(article *models.Article) ([]byte, error) {
	fm := frontMatter{
		Title:           article.Title,
		Excerpt:         article.Excerpt,
		Author:          article.Author,
		Category:        article.Category,
		Tags:            strings.Join(article.Tags, ", "),
		Image:           article.ImageURL,
		ImageAlt:        article.ImageAlt,
		Status:          article.Status,
		Featured:        article.Featured,
		MetaTitle:       article.MetaTitle,
		MetaDescription: article.MetaDescription,
		MetaKeywords:    strings.Join(article.MetaKeywords, ", "),
	}
	if article.PublishedAt != nil {
		fm.PublishedAt = article.PublishedAt.UTC().Format(time.RFC3339)
	}

	block, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("serialize front-matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(block)
	b.WriteString(delimiter + "\n\n")
	b.WriteString(article.Content)
	return []byte(b.String()), nil
}

// normalize turns a parsed document into the canonical article shape,
// applying the documented defaults for missing fields: title derived from the
// slug, excerpt derived from the content, fixed default category and author.
func normalize(channelID, slug string, fm *frontMatter, body string, modTime time.Time) *models.Article {
	article := &models.Article{
		ChannelID: channelID,
		Slug:      slug,
		Title:     fm.Title,
		Excerpt:   fm.Excerpt,
		Content:   body,
		Author:    fm.Author,
		Category:  fm.Category,
		Tags:      splitList(fm.Tags),
		ImageURL:  fm.Image,
		ImageAlt:  fm.ImageAlt,
		Status:    fm.Status,
		Featured:  fm.Featured,

		MetaTitle:       fm.MetaTitle,
		MetaDescription: fm.MetaDescription,
		MetaKeywords:    splitList(fm.MetaKeywords),

		CreatedAt: modTime,
		UpdatedAt: modTime,
	}

	if article.Title == "" {
		article.Title = titleFromSlug(slug)
	}
	if article.Excerpt == "" {
		article.Excerpt = excerptFromContent(body, excerptLimit)
	}
	if article.Category == "" {
		article.Category = defaultCategory
	}
	if article.Author == "" {
		article.Author = defaultAuthor
	}
	if article.Status == "" {
		// Exported files only exist for articles that made it to disk;
		// without a status they are treated as published.
		article.Status = models.StatusPublished
	}

	if fm.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, fm.PublishedAt); err == nil {
			article.PublishedAt = &t
		}
	}
	if article.PublishedAt == nil && article.Status == models.StatusPublished {
		t := modTime
		article.PublishedAt = &t
	}

	return article
}

// splitList splits a comma-separated front-matter value into its items.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// titleFromSlug derives a display title from a URL slug:
// "banjir-kebumen" -> "Banjir Kebumen".
func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// excerptFromContent truncates content to roughly limit characters on a word
// boundary. The limit counts runes, not bytes, so a hard cut inside a run of
// multi-byte text cannot produce invalid UTF-8.
func excerptFromContent(content string, limit int) string {
	text := strings.Join(strings.Fields(content), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := limit
	for i := limit - 1; i > 0; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " .,;:") + "..."
}
