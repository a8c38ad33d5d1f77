package repository

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/news-content-service/internal/models"
)

func TestStoreErr(t *testing.T) {
	if storeErr("op", nil) != nil {
		t.Error("nil error must map to nil")
	}

	err := storeErr("get article", sql.ErrNoRows)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("sql.ErrNoRows mapped to %v, want ErrNotFound", err)
	}

	err = storeErr("create article", &pq.Error{Code: uniqueViolation})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("unique violation mapped to %v, want ErrConflict", err)
	}

	cause := errors.New("connection refused")
	err = storeErr("list articles", cause)
	if !errors.Is(err, models.ErrUnavailable) {
		t.Errorf("driver failure mapped to %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Error("original cause must stay in the chain")
	}
	if !strings.Contains(err.Error(), "list articles") {
		t.Errorf("error %q missing the operation name", err.Error())
	}

	// Other pq codes are availability problems, not conflicts.
	err = storeErr("create article", &pq.Error{Code: "57014"})
	if !errors.Is(err, models.ErrUnavailable) {
		t.Errorf("non-unique pq error mapped to %v, want ErrUnavailable", err)
	}
}

func TestBuildPredicates_EmptyFilter(t *testing.T) {
	where, args := buildPredicates(&models.SearchFilter{})

	if where != "status = 'published'" {
		t.Errorf("where = %q, want published scope only", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildPredicates_AllFacets(t *testing.T) {
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	featured := true

	where, args := buildPredicates(&models.SearchFilter{
		ChannelID: "ambal",
		Query:     "banjir",
		Category:  "Peristiwa",
		Author:    "Redaksi",
		StartDate: &start,
		EndDate:   &end,
		Featured:  &featured,
	})

	if len(args) != 7 {
		t.Fatalf("got %d args, want 7", len(args))
	}
	for _, fragment := range []string{
		"status = 'published'",
		"channel_id = $1",
		"plainto_tsquery('english', $2)",
		"category = $3",
		"author ILIKE $4",
		"published_at >= $5",
		"published_at <= $6",
		"featured = $7",
	} {
		if !strings.Contains(where, fragment) {
			t.Errorf("where %q missing %q", where, fragment)
		}
	}
	if args[3] != "%Redaksi%" {
		t.Errorf("author arg = %v, want wrapped pattern", args[3])
	}
}

func TestBuildPredicates_PlaceholdersStayDense(t *testing.T) {
	// Skipping facets must not leave gaps in placeholder numbering.
	where, args := buildPredicates(&models.SearchFilter{
		Category: "Peristiwa",
		Author:   "Redaksi",
	})

	if len(args) != 2 {
		t.Fatalf("got %d args, want 2", len(args))
	}
	if !strings.Contains(where, "category = $1") || !strings.Contains(where, "author ILIKE $2") {
		t.Errorf("where = %q, want dense $1/$2 placeholders", where)
	}
}

func TestSubstringPredicate_PerTermOr(t *testing.T) {
	// "Banjir di Kebumen" matches the ranked query banjir & kebumen; a single
	// pattern %banjir kebumen% would not match it. Each term must get its own
	// OR-ed contains-match so the degraded mode stays a superset.
	clause, args := substringPredicate("banjir kebumen", []interface{}{"ambal"})

	if len(args) != 3 {
		t.Fatalf("got %d args, want channel + 2 term patterns", len(args))
	}
	if args[1] != "%banjir%" || args[2] != "%kebumen%" {
		t.Errorf("term patterns = %v, %v, want %%banjir%% and %%kebumen%%", args[1], args[2])
	}
	want := "(title ILIKE $2 OR excerpt ILIKE $2 OR content ILIKE $2) OR " +
		"(title ILIKE $3 OR excerpt ILIKE $3 OR content ILIKE $3)"
	if clause != want {
		t.Errorf("clause = %q, want %q", clause, want)
	}
}

func TestSubstringPredicate_Empty(t *testing.T) {
	clause, args := substringPredicate("   ", []interface{}{"ambal"})
	if clause != "" {
		t.Errorf("clause = %q, want empty for a blank query", clause)
	}
	if len(args) != 1 {
		t.Errorf("got %d args, want the channel arg only", len(args))
	}
}

func TestSubstringPredicate_EscapesMetacharacters(t *testing.T) {
	_, args := substringPredicate("100%", []interface{}{""})
	if len(args) != 2 || args[1] != `%100\%%` {
		t.Errorf("args = %v, want escaped pattern", args)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
