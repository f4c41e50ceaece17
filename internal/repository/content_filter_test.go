package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/kstack-dev/content-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func statusPtr(s domain.ContentStatus) *domain.ContentStatus { return &s }

func TestBuildSearchPredicateEmptyFilter(t *testing.T) {
	where, args := buildSearchPredicate(domain.KindFaq, ContentFilter{})
	if where != "" {
		t.Fatalf("expected empty where clause, got %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildSearchPredicateSearchTerm(t *testing.T) {
	where, args := buildSearchPredicate(domain.KindFaq, ContentFilter{
		SearchTerm: strPtr("  HeLLo  "),
	})
	if !strings.Contains(where, "EXISTS (SELECT 1 FROM faq_translations t") {
		t.Fatalf("expected subquery on the kind's translation table, got %q", where)
	}
	if !strings.Contains(where, "LOWER(t.title) LIKE $1") || !strings.Contains(where, "LOWER(t.body) LIKE $1") {
		t.Fatalf("expected title and body matched by one placeholder, got %q", where)
	}
	if len(args) != 1 || args[0] != "%hello%" {
		t.Fatalf("expected lowercased trimmed pattern, got %v", args)
	}
}

func TestBuildSearchPredicateSearchWithLocale(t *testing.T) {
	where, args := buildSearchPredicate(domain.KindNews, ContentFilter{
		SearchTerm: strPtr("launch"),
		Locale:     "ko",
	})
	if !strings.Contains(where, "t.locale=$2") {
		t.Fatalf("expected locale inside the subquery, got %q", where)
	}
	if len(args) != 2 || args[1] != "ko" {
		t.Fatalf("expected locale arg, got %v", args)
	}
}

func TestBuildSearchPredicateLocaleAloneIgnored(t *testing.T) {
	where, args := buildSearchPredicate(domain.KindNews, ContentFilter{Locale: "ko"})
	if where != "" || len(args) != 0 {
		t.Fatalf("locale without a search term must not constrain, got %q %v", where, args)
	}
}

func TestBuildSearchPredicateStatus(t *testing.T) {
	where, args := buildSearchPredicate(domain.KindFaq, ContentFilter{
		Status: statusPtr(domain.StatusPublished),
	})
	if where != "WHERE e.status=$1" {
		t.Fatalf("unexpected clause %q", where)
	}
	if len(args) != 1 {
		t.Fatalf("expected one arg, got %v", args)
	}
}

func TestBuildSearchPredicateDefaultStatusSkipped(t *testing.T) {
	where, args := buildSearchPredicate(domain.KindFaq, ContentFilter{
		Status: statusPtr(domain.StatusDefault),
	})
	if where != "" || len(args) != 0 {
		t.Fatalf("DEFAULT status must not filter, got %q %v", where, args)
	}
}

func TestBuildSearchPredicateDateRangeRequiresBothBounds(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildSearchPredicate(domain.KindCareer, ContentFilter{CreatedFrom: &from})
	if where != "" || len(args) != 0 {
		t.Fatalf("lone lower bound must not filter, got %q %v", where, args)
	}

	where, args = buildSearchPredicate(domain.KindCareer, ContentFilter{CreatedFrom: &from, CreatedTo: &to})
	if where != "WHERE e.created_at >= $1 AND e.created_at <= $2" {
		t.Fatalf("unexpected clause %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("expected two args, got %v", args)
	}
}

func TestBuildSearchPredicateCombinedNumbering(t *testing.T) {
	where, args := buildSearchPredicate(domain.KindBulletinBoard, ContentFilter{
		SearchTerm: strPtr("notice"),
		Locale:     "en",
		Status:     statusPtr(domain.StatusDraft),
		Category:   strPtr("general"),
	})
	for _, fragment := range []string{"LIKE $1", "t.locale=$2", "e.status=$3", "e.category=$4"} {
		if !strings.Contains(where, fragment) {
			t.Fatalf("expected %q in %q", fragment, where)
		}
	}
	if len(args) != 4 {
		t.Fatalf("expected four args, got %v", args)
	}
	if !strings.HasPrefix(where, "WHERE ") || strings.Count(where, " AND ") < 2 {
		t.Fatalf("expected conjoined predicate, got %q", where)
	}
}
