package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/robertorzech/budget/internal/core"
	"github.com/robertorzech/budget/internal/ledger"
	"github.com/robertorzech/budget/internal/log"
	"github.com/robertorzech/budget/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *ledger.Ledger) {
	t.Helper()
	led := ledger.New(context.Background(), storage.NewMemoryStore())
	logger := log.New(log.DefaultConfig())
	srv := NewServer(":0", led, logger)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv, led
}

func get(srv *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(srv *Server, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Paliwo") {
		t.Error("index should list the default categories")
	}
	if !strings.Contains(body, string(core.MonthKeyOf(time.Now()))) {
		t.Error("index should offer the current month")
	}
}

func TestIndexRejectsUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := get(srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", rec.Code)
	}
}

func TestCreateExpense(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postForm(srv, "/expenses", url.Values{
		"category":    {"Paliwo"},
		"description": {"Tankowanie"},
		"amount":      {"150,00"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /expenses = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("HX-Trigger") == "" {
		t.Error("expected HX-Trigger header after create")
	}

	overview := get(srv, "/ui/month-overview")
	if overview.Code != http.StatusOK {
		t.Fatalf("GET /ui/month-overview = %d, want 200", overview.Code)
	}
	if !strings.Contains(overview.Body.String(), "150,00") {
		t.Error("overview should include the new expense amount")
	}
}

func TestCreateExpenseRejects(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing category", url.Values{"amount": {"10"}}},
		{"bad amount", url.Values{"category": {"Paliwo"}, "amount": {"abc"}}},
		{"negative amount", url.Values{"category": {"Paliwo"}, "amount": {"-5"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(srv, "/expenses", tt.form)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("POST /expenses = %d, want 422", rec.Code)
			}
		})
	}
}

func TestCreateExpenseMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := get(srv, "/expenses"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /expenses = %d, want 405", rec.Code)
	}
}

func TestDeleteExpenseRefreshesOverview(t *testing.T) {
	srv, led := newTestServer(t)

	e, err := led.AddExpense(context.Background(), "Apteka", "Leki", "30,00")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	before := get(srv, "/ui/month-overview")
	if !strings.Contains(before.Body.String(), "30,00") {
		t.Fatal("overview should show the expense before delete")
	}

	rec := postForm(srv, "/expenses/delete", url.Values{"id": {strconv.FormatInt(e.ID, 10)}})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /expenses/delete = %d, want 200", rec.Code)
	}

	after := get(srv, "/ui/month-overview")
	if strings.Contains(after.Body.String(), "30,00") {
		t.Error("cached overview should be invalidated after delete")
	}
}

func TestDeleteExpenseBadID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postForm(srv, "/expenses/delete", url.Values{"id": {"abc"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /expenses/delete = %d, want 400", rec.Code)
	}
}

func TestMonthOverviewIgnoresBadMonthParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(srv, "/ui/month-overview?month=banana")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET with bad month = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "month-overview") {
		t.Error("should fall back to the current month overview")
	}
}

func TestCategoryHistory(t *testing.T) {
	srv, led := newTestServer(t)

	if _, err := led.AddExpense(context.Background(), "Paliwo", "Tankowanie", "150"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	rec := get(srv, "/ui/category?name=Paliwo")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /ui/category = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Tankowanie") || !strings.Contains(body, "150,00") {
		t.Errorf("history should list the expense, got: %s", body)
	}

	if rec := get(srv, "/ui/category"); rec.Code != http.StatusBadRequest {
		t.Errorf("GET /ui/category without name = %d, want 400", rec.Code)
	}
}

func TestCreateCategory(t *testing.T) {
	srv, led := newTestServer(t)

	rec := postForm(srv, "/categories", url.Values{"name": {"Wakacje"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /categories = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	found := false
	for _, c := range led.Categories() {
		if c.Name == "Wakacje" {
			found = true
			if c.Icon != core.NewCategoryIcon {
				t.Errorf("icon = %q, want %q", c.Icon, core.NewCategoryIcon)
			}
		}
	}
	if !found {
		t.Error("new category should be in the list")
	}

	if rec := postForm(srv, "/categories", url.Values{"name": {"   "}}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank category = %d, want 422", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := get(srv, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
	if rec := get(srv, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(srv, "/")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < requestsPerMinute; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over the limit should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("other clients should be unaffected")
	}
}
