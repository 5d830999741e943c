package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"nassets/internal/budget"
	"nassets/internal/core"
)

type stubAuth struct {
	user core.User
	err  error
}

func (s *stubAuth) UserByToken(ctx context.Context, token string, now time.Time) (core.User, error) {
	if s.err != nil {
		return core.User{}, s.err
	}
	return s.user, nil
}

type stubItems struct {
	incomes  []core.Income
	expenses []core.Expense
	savings  []core.Saving
}

func (s *stubItems) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	return s.incomes, nil
}

func (s *stubItems) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.expenses, nil
}

func (s *stubItems) ListSavings(ctx context.Context, userID int64) ([]core.Saving, error) {
	return s.savings, nil
}

func newTestServer(t *testing.T, items *stubItems) *Server {
	t.Helper()
	srv := NewServer(Options{
		Addr:               ":0",
		Budget:             budget.NewService(items),
		Auth:               &stubAuth{user: core.User{ID: 7, Username: "tester", IsActive: true}},
		SessionTTL:         time.Hour,
		RateLimitPerMinute: 1000,
	})
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
	})
	return srv
}

func doRequest(srv *Server, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCalendarRequiresAuth(t *testing.T) {
	srv := newTestServer(t, &stubItems{})

	rec := doRequest(srv, "GET", "/api/calendar?year=2024&month=3", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Detail == "" {
		t.Error("401 should carry a detail message")
	}
}

func TestCalendarEndpoint(t *testing.T) {
	items := &stubItems{
		incomes: []core.Income{
			{ID: 1, UserID: 7, Title: "Salary", Amount: decimal.RequireFromString("2000"), Date: core.NewDate(2024, 1, 25), RecurrenceType: core.RecurrenceMonthly},
		},
		expenses: []core.Expense{
			{ID: 2, UserID: 7, Title: "Rent", Amount: decimal.RequireFromString("500"), Date: core.NewDate(2024, 3, 1), RecurrenceType: core.RecurrenceNone},
		},
	}
	srv := newTestServer(t, items)

	rec := doRequest(srv, "GET", "/api/calendar?year=2024&month=3", "sometoken")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var cal budget.CalendarResponse
	if err := json.NewDecoder(rec.Body).Decode(&cal); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cal.Year != 2024 || cal.Month != 3 {
		t.Errorf("echo = %d-%d", cal.Year, cal.Month)
	}
	if len(cal.Incomes) != 1 || len(cal.Expenses) != 1 {
		t.Fatalf("entries = %d incomes, %d expenses", len(cal.Incomes), len(cal.Expenses))
	}
	if !cal.Incomes[0].OccurrenceDate.Equal(core.NewDate(2024, 3, 25)) {
		t.Errorf("income occurrence = %v", cal.Incomes[0].OccurrenceDate)
	}
	if !cal.Incomes[0].IsRecurring {
		t.Error("monthly income should be flagged recurring")
	}
}

func TestCalendarInvalidMonth(t *testing.T) {
	srv := newTestServer(t, &stubItems{})

	for _, target := range []string{
		"/api/calendar?year=2024&month=13",
		"/api/calendar?year=2024",
		"/api/calendar",
	} {
		rec := doRequest(srv, "GET", target, "sometoken")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", target, rec.Code)
		}
	}
}

func TestBudgetSummaryEndpoint(t *testing.T) {
	items := &stubItems{
		incomes: []core.Income{
			{ID: 1, UserID: 7, Title: "Salary", Amount: decimal.RequireFromString("2000"), Date: core.NewDate(2024, 3, 1), RecurrenceType: core.RecurrenceNone},
		},
		expenses: []core.Expense{
			{ID: 2, UserID: 7, Title: "Rent", Amount: decimal.RequireFromString("500"), Date: core.NewDate(2024, 3, 1), RecurrenceType: core.RecurrenceNone},
		},
		savings: []core.Saving{
			{ID: 3, UserID: 7, Title: "Fund", Amount: decimal.RequireFromString("300"), Date: core.NewDate(2024, 3, 5), RecurrenceType: core.RecurrenceNone, Percentage: 100},
		},
	}
	srv := newTestServer(t, items)

	rec := doRequest(srv, "GET", "/api/budget/summary?year=2024&month=3", "sometoken")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var sum budget.Summary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !sum.Remaining.Equal(decimal.RequireFromString("1500")) {
		t.Errorf("remaining = %s, want 1500 (savings excluded)", sum.Remaining)
	}
	if len(sum.DailyBalance) != 31 {
		t.Errorf("daily balance days = %d, want 31", len(sum.DailyBalance))
	}
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubItems{})

	rec := doRequest(srv, "GET", "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] == "" {
		t.Error("root should return a message")
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrNotFound, http.StatusNotFound},
		{core.ErrAlreadyExists, http.StatusBadRequest},
		{core.ErrInvalidCredentials, http.StatusUnauthorized},
		{core.ErrInvalidWindow, http.StatusUnprocessableEntity},
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{core.ErrEmptyTitle, http.StatusUnprocessableEntity},
		{core.ErrInvalidRecurrenceConfig, http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
