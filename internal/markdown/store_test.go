package markdown

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/news-content-service/internal/models"
	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), zerolog.Nop())
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	publishedAt := time.Date(2025, 11, 3, 8, 30, 0, 0, time.UTC)
	original := &models.Article{
		ChannelID:   "ambal",
		Slug:        "banjir-kebumen",
		Title:       "Banjir Rendam Tiga Desa",
		Excerpt:     "Update: tiga desa terendam, warga dievakuasi",
		Content:     "# Banjir\n\nHujan deras sejak Senin malam.\n\n---\n\nLaporan warga menyusul.",
		Author:      "Tim Redaksi",
		Category:    "Peristiwa",
		Tags:        []string{"banjir", "kebumen", "cuaca"},
		ImageURL:    "https://cdn.example.com/banjir.jpg",
		ImageAlt:    "Jalan desa terendam air",
		Status:      models.StatusPublished,
		Featured:    true,
		PublishedAt: &publishedAt,
	}

	if err := store.Write(ctx, original); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	parsed, err := store.Read(ctx, "ambal", "banjir-kebumen")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if parsed.Title != original.Title {
		t.Errorf("Title = %q, want %q", parsed.Title, original.Title)
	}
	if parsed.Excerpt != original.Excerpt {
		t.Errorf("Excerpt = %q, want %q", parsed.Excerpt, original.Excerpt)
	}
	if parsed.Content != original.Content {
		t.Errorf("Content = %q, want %q", parsed.Content, original.Content)
	}
	if parsed.Category != original.Category {
		t.Errorf("Category = %q, want %q", parsed.Category, original.Category)
	}
	if !reflect.DeepEqual(parsed.Tags, original.Tags) {
		t.Errorf("Tags = %v, want %v", parsed.Tags, original.Tags)
	}
	if parsed.ImageURL != original.ImageURL || parsed.ImageAlt != original.ImageAlt {
		t.Errorf("Image = (%q, %q), want (%q, %q)", parsed.ImageURL, parsed.ImageAlt, original.ImageURL, original.ImageAlt)
	}
	if parsed.Status != models.StatusPublished || !parsed.Featured {
		t.Errorf("Status/Featured = (%q, %v), want (published, true)", parsed.Status, parsed.Featured)
	}
	if parsed.PublishedAt == nil || !parsed.PublishedAt.Equal(publishedAt) {
		t.Errorf("PublishedAt = %v, want %v", parsed.PublishedAt, publishedAt)
	}
}

func TestStore_ReadAppliesDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// A body-only document with no front-matter at all.
	dir := filepath.Join(store.root, "ambal")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "Hujan deras mengguyur wilayah Kebumen selatan sejak Senin malam dan menyebabkan " +
		"sejumlah desa di Kecamatan Ambal terendam banjir hingga setinggi lutut orang dewasa."
	if err := os.WriteFile(filepath.Join(dir, "banjir-kebumen.md"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	article, err := store.Read(ctx, "ambal", "banjir-kebumen")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if article.Title != "Banjir Kebumen" {
		t.Errorf("Title = %q, want %q (derived from slug)", article.Title, "Banjir Kebumen")
	}
	if article.Category != "Berita" {
		t.Errorf("Category = %q, want default %q", article.Category, "Berita")
	}
	if article.Author != "Redaksi" {
		t.Errorf("Author = %q, want default %q", article.Author, "Redaksi")
	}
	if article.Excerpt == "" || len(article.Excerpt) > 160 {
		t.Errorf("Excerpt = %q (len %d), want non-empty truncated to ~150", article.Excerpt, len(article.Excerpt))
	}
	if article.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty default", article.ImageURL)
	}
	if article.Content != body {
		t.Errorf("Content not preserved verbatim")
	}
}

func TestStore_ReadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Read(context.Background(), "ambal", "nope")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Read missing = %v, want ErrNotFound", err)
	}
}

func TestStore_ListSkipsMalformed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, slug := range []string{"first", "second"} {
		article := &models.Article{ChannelID: "ambal", Slug: slug, Title: slug, Content: "body"}
		if err := store.Write(ctx, article); err != nil {
			t.Fatalf("Write %s failed: %v", slug, err)
		}
	}

	// Unterminated front-matter: parse must fail for this one file only.
	bad := filepath.Join(store.root, "ambal", "broken.md")
	if err := os.WriteFile(bad, []byte("---\ntitle: broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	articles, err := store.List(ctx, "ambal")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("List returned %d articles, want 2 (bad file skipped)", len(articles))
	}
}

func TestStore_ListOrdersByPublishDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	for i, slug := range []string{"oldest", "middle", "newest"} {
		published := base.Add(time.Duration(i) * 24 * time.Hour)
		article := &models.Article{
			ChannelID:   "ambal",
			Slug:        slug,
			Title:       slug,
			Content:     "body",
			Status:      models.StatusPublished,
			PublishedAt: &published,
		}
		if err := store.Write(ctx, article); err != nil {
			t.Fatalf("Write %s failed: %v", slug, err)
		}
	}

	articles, err := store.List(ctx, "ambal")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"newest", "middle", "oldest"}
	for i, slug := range want {
		if articles[i].Slug != slug {
			t.Errorf("articles[%d].Slug = %q, want %q", i, articles[i].Slug, slug)
		}
	}
}

func TestStore_ListMissingChannel(t *testing.T) {
	store := newTestStore(t)

	articles, err := store.List(context.Background(), "no-such-channel")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("List returned %d articles, want 0", len(articles))
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	article := &models.Article{ChannelID: "ambal", Slug: "gone", Title: "Gone", Content: "body"}
	if err := store.Write(ctx, article); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := store.Delete(ctx, "ambal", "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Read(ctx, "ambal", "gone"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Read after delete = %v, want ErrNotFound", err)
	}

	// Deleting a missing shadow file is not an error.
	if err := store.Delete(ctx, "ambal", "gone"); err != nil {
		t.Errorf("Second delete = %v, want nil", err)
	}
}

func TestTitleFromSlug(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"banjir-kebumen", "Banjir Kebumen"},
		{"pilkada-2024-hasil", "Pilkada 2024 Hasil"},
		{"single", "Single"},
	}
	for _, tt := range tests {
		if got := titleFromSlug(tt.slug); got != tt.want {
			t.Errorf("titleFromSlug(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}

func TestExcerptFromContent(t *testing.T) {
	short := "A short body."
	if got := excerptFromContent(short, 150); got != short {
		t.Errorf("short content: got %q, want unchanged", got)
	}

	long := ""
	for i := 0; i < 40; i++ {
		long += "word "
	}
	got := excerptFromContent(long, 150)
	if len(got) > 160 {
		t.Errorf("excerpt too long: %d chars", len(got))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("excerpt %q does not end with ellipsis", got)
	}
}

func TestExcerptFromContent_MultiByteRunes(t *testing.T) {
	// An unbroken run of 3-byte runes: a byte-indexed cut would split one.
	got := excerptFromContent(strings.Repeat("日", 200), 150)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 153 {
		t.Errorf("excerpt has %d runes, want 150 + ellipsis", n)
	}

	// Word boundaries still win when present.
	mixed := strings.Repeat("banjir 日本語 ", 30)
	got = excerptFromContent(mixed, 150)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) > 153 {
		t.Errorf("excerpt has %d runes, want at most 153", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt %q does not end with ellipsis", got)
	}
}
