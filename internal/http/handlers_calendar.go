package http

import (
	"net/http"
)

// handleCalendar expands the owner's items into their occurrences within
// the requested month. Pure read; identical stored state yields an
// identical response.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	cal, err := s.budget.Calendar(r.Context(), currentUser(r).ID, year, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

// handleBudgetSummary reduces the same expansion into month totals and a
// per-day balance table.
func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	sum, err := s.budget.Summary(r.Context(), currentUser(r).ID, year, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
