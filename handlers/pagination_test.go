package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParsePaginationDefaults(t *testing.T) {
	p := ParsePagination(paginationContext(t, ""))

	if p.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Before != nil {
		t.Errorf("Before = %v, want nil", p.Before)
	}
}

func TestParsePaginationLimit(t *testing.T) {
	p := ParsePagination(paginationContext(t, "limit=25"))
	if p.Limit != 25 {
		t.Errorf("Limit = %d, want 25", p.Limit)
	}
}

func TestParsePaginationLimitCapped(t *testing.T) {
	p := ParsePagination(paginationContext(t, "limit=9999"))
	if p.Limit != MaxLimit {
		t.Errorf("Limit = %d, want capped at %d", p.Limit, MaxLimit)
	}
}

func TestParsePaginationInvalidLimit(t *testing.T) {
	for _, q := range []string{"limit=abc", "limit=-5", "limit=0"} {
		p := ParsePagination(paginationContext(t, q))
		if p.Limit != DefaultLimit {
			t.Errorf("query %q: Limit = %d, want default %d", q, p.Limit, DefaultLimit)
		}
	}
}

func TestParsePaginationBefore(t *testing.T) {
	ts := time.Date(2026, 6, 14, 19, 30, 0, 0, time.UTC)
	p := ParsePagination(paginationContext(t, "before="+ts.Format(time.RFC3339Nano)))

	if p.Before == nil {
		t.Fatal("Before should be parsed")
	}
	if !p.Before.Equal(ts) {
		t.Errorf("Before = %v, want %v", p.Before, ts)
	}
}

func TestParsePaginationInvalidBefore(t *testing.T) {
	p := ParsePagination(paginationContext(t, "before=yesterday"))
	if p.Before != nil {
		t.Errorf("Before = %v, want nil for unparseable cursor", p.Before)
	}
}
