package models

import (
	"time"
)

// Article statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[string]bool{
	StatusDraft:     true,
	StatusPublished: true,
}

// Article is the canonical article shape served to all consumers, regardless
// of which backend produced it. The natural key is (ChannelID, Slug); ID is a
// surrogate used for version rows.
type Article struct {
	ID              string     `json:"id"`
	ChannelID       string     `json:"channel_id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	Author          string     `json:"author"`
	AuthorID        *string    `json:"author_id,omitempty"`
	Category        string     `json:"category"`
	Tags            []string   `json:"tags"`
	ImageURL        string     `json:"image_url"`
	ImageAlt        string     `json:"image_alt"`
	Status          string     `json:"status"`
	Featured        bool       `json:"featured"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	ScheduledFor    *time.Time `json:"scheduled_for,omitempty"`
	ViewCount       int64      `json:"view_count"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	MetaKeywords    []string   `json:"meta_keywords,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ArticleVersion is an immutable snapshot of an article's mutable content
// fields as they were before the update that created the version. Version
// numbers are 1-based and gapless per article.
type ArticleVersion struct {
	ID                int64     `json:"id"`
	ArticleID         string    `json:"article_id"`
	VersionNumber     int       `json:"version_number"`
	Title             string    `json:"title"`
	Excerpt           string    `json:"excerpt"`
	Content           string    `json:"content"`
	Category          string    `json:"category"`
	Tags              []string  `json:"tags"`
	ImageURL          string    `json:"image_url"`
	ImageAlt          string    `json:"image_alt"`
	ChangeDescription string    `json:"change_description"`
	CreatedAt         time.Time `json:"created_at"`
}

// ArticleInput carries the fields an admin caller supplies on create.
type ArticleInput struct {
	ChannelID       string     `json:"channel_id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	Author          string     `json:"author"`
	AuthorID        *string    `json:"author_id,omitempty"`
	Category        string     `json:"category"`
	Tags            []string   `json:"tags"`
	ImageURL        string     `json:"image_url"`
	ImageAlt        string     `json:"image_alt"`
	Status          string     `json:"status"`
	Featured        bool       `json:"featured"`
	ScheduledFor    *time.Time `json:"scheduled_for,omitempty"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	MetaKeywords    []string   `json:"meta_keywords,omitempty"`
}

// ArticleUpdate is a partial update: nil pointer fields (and nil slices) are
// left unchanged. ChangeDescription is recorded on the version snapshot taken
// before the update is applied.
type ArticleUpdate struct {
	Title             *string    `json:"title,omitempty"`
	Excerpt           *string    `json:"excerpt,omitempty"`
	Content           *string    `json:"content,omitempty"`
	Author            *string    `json:"author,omitempty"`
	AuthorID          *string    `json:"author_id,omitempty"`
	Category          *string    `json:"category,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	ImageURL          *string    `json:"image_url,omitempty"`
	ImageAlt          *string    `json:"image_alt,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Featured          *bool      `json:"featured,omitempty"`
	ScheduledFor      *time.Time `json:"scheduled_for,omitempty"`
	MetaTitle         *string    `json:"meta_title,omitempty"`
	MetaDescription   *string    `json:"meta_description,omitempty"`
	MetaKeywords      []string   `json:"meta_keywords,omitempty"`
	ChangeDescription string     `json:"change_description,omitempty"`
}

// Apply merges a partial update into the article and returns the resulting
// state; the receiver is not modified. Omitted (nil) fields keep their prior
// values. The first transition to published stamps PublishedAt with now;
// republishing keeps the original timestamp.
func (a *Article) Apply(upd *ArticleUpdate, now time.Time) *Article {
	next := *a
	next.Tags = append([]string(nil), a.Tags...)
	next.MetaKeywords = append([]string(nil), a.MetaKeywords...)

	if upd.Title != nil {
		next.Title = *upd.Title
	}
	if upd.Excerpt != nil {
		next.Excerpt = *upd.Excerpt
	}
	if upd.Content != nil {
		next.Content = *upd.Content
	}
	if upd.Author != nil {
		next.Author = *upd.Author
	}
	if upd.AuthorID != nil {
		next.AuthorID = upd.AuthorID
	}
	if upd.Category != nil {
		next.Category = *upd.Category
	}
	if upd.Tags != nil {
		next.Tags = upd.Tags
	}
	if upd.ImageURL != nil {
		next.ImageURL = *upd.ImageURL
	}
	if upd.ImageAlt != nil {
		next.ImageAlt = *upd.ImageAlt
	}
	if upd.Status != nil {
		next.Status = *upd.Status
	}
	if upd.Featured != nil {
		next.Featured = *upd.Featured
	}
	if upd.ScheduledFor != nil {
		next.ScheduledFor = upd.ScheduledFor
	}
	if upd.MetaTitle != nil {
		next.MetaTitle = *upd.MetaTitle
	}
	if upd.MetaDescription != nil {
		next.MetaDescription = *upd.MetaDescription
	}
	if upd.MetaKeywords != nil {
		next.MetaKeywords = upd.MetaKeywords
	}

	if next.Status == StatusPublished && next.PublishedAt == nil {
		published := now
		next.PublishedAt = &published
	}

	next.UpdatedAt = now
	return &next
}

// Snapshot copies the mutable content fields into a version row holding the
// article's state as it is right now.
func (a *Article) Snapshot(versionNumber int, changeDescription string, now time.Time) *ArticleVersion {
	return &ArticleVersion{
		ArticleID:         a.ID,
		VersionNumber:     versionNumber,
		Title:             a.Title,
		Excerpt:           a.Excerpt,
		Content:           a.Content,
		Category:          a.Category,
		Tags:              append([]string(nil), a.Tags...),
		ImageURL:          a.ImageURL,
		ImageAlt:          a.ImageAlt,
		ChangeDescription: changeDescription,
		CreatedAt:         now,
	}
}

// SearchFilter is the faceted query input. Zero values mean "no constraint";
// results are always scoped to published articles.
type SearchFilter struct {
	ChannelID string     `json:"channel_id,omitempty"`
	Query     string     `json:"query,omitempty"`
	Category  string     `json:"category,omitempty"`
	Author    string     `json:"author,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Featured  *bool      `json:"featured,omitempty"`
}

// SearchResult is one page of advanced-search results plus the total match
// count computed with the same predicates, so pagination UIs stay consistent.
type SearchResult struct {
	Articles []*Article `json:"articles"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PerPage  int        `json:"per_page"`
}
