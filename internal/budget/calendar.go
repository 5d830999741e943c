package budget

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"nassets/internal/core"

	"github.com/shopspring/decimal"
)

// Store provides the owner-scoped item lists the engine expands.
// Implementations must return items in creation (id) order; that order is
// the tie-break for occurrences landing on the same date.
type Store interface {
	ListIncomes(ctx context.Context, userID int64) ([]core.Income, error)
	ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	ListSavings(ctx context.Context, userID int64) ([]core.Saving, error)
}

// Entry is one dated occurrence of a financial item inside a queried
// month. It carries the full item fields plus the concrete occurrence
// date, matching what the web client renders.
type Entry struct {
	ID                int64               `json:"id"`
	UserID            int64               `json:"user_id"`
	Title             string              `json:"title"`
	Amount            decimal.Decimal     `json:"amount"`
	Date              core.Date           `json:"date"`
	Category          *string             `json:"category,omitempty"`
	AssetID           *int64              `json:"asset_id,omitempty"`
	Percentage        *float64            `json:"percentage,omitempty"`
	RecurrenceType    core.RecurrenceType `json:"recurrence_type"`
	RecurrenceEndDate *core.Date          `json:"recurrence_end_date"`
	Description       *string             `json:"description"`
	OccurrenceDate    core.Date           `json:"occurrence_date"`
	IsRecurring       bool                `json:"is_recurring"`
}

// CalendarResponse groups a month's occurrences by item kind. The year
// and month are echoed back so the client can match responses to views.
type CalendarResponse struct {
	Incomes  []Entry `json:"incomes"`
	Expenses []Entry `json:"expenses"`
	Savings  []Entry `json:"savings"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
}

// Service answers calendar and budget summary queries. It is stateless
// and safe for concurrent use.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Calendar expands every item the owner has into its occurrences within
// the given month. Read-only; occurrences are recomputed on every call.
func (s *Service) Calendar(ctx context.Context, userID int64, year, month int) (*CalendarResponse, error) {
	w, err := MonthWindow(year, month)
	if err != nil {
		return nil, err
	}

	var (
		incomes  []core.Income
		expenses []core.Expense
		savings  []core.Saving
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListIncomes(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		savings, err = s.store.ListSavings(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	resp := &CalendarResponse{
		Incomes:  make([]Entry, 0),
		Expenses: make([]Entry, 0),
		Savings:  make([]Entry, 0),
		Month:    month,
		Year:     year,
	}

	for _, in := range incomes {
		dates, err := Schedule{Anchor: in.Date, Every: in.RecurrenceType, Until: in.RecurrenceEndDate}.DatesWithin(w)
		if err != nil {
			return nil, fmt.Errorf("expand income %d: %w", in.ID, err)
		}
		for _, d := range dates {
			resp.Incomes = append(resp.Incomes, Entry{
				ID:                in.ID,
				UserID:            in.UserID,
				Title:             in.Title,
				Amount:            in.Amount,
				Date:              in.Date,
				RecurrenceType:    in.RecurrenceType,
				RecurrenceEndDate: in.RecurrenceEndDate,
				Description:       in.Description,
				OccurrenceDate:    d,
				IsRecurring:       in.RecurrenceType.Recurring(),
			})
		}
	}

	for _, ex := range expenses {
		dates, err := Schedule{Anchor: ex.Date, Every: ex.RecurrenceType, Until: ex.RecurrenceEndDate}.DatesWithin(w)
		if err != nil {
			return nil, fmt.Errorf("expand expense %d: %w", ex.ID, err)
		}
		for _, d := range dates {
			resp.Expenses = append(resp.Expenses, Entry{
				ID:                ex.ID,
				UserID:            ex.UserID,
				Title:             ex.Title,
				Amount:            ex.Amount,
				Date:              ex.Date,
				Category:          ex.Category,
				RecurrenceType:    ex.RecurrenceType,
				RecurrenceEndDate: ex.RecurrenceEndDate,
				Description:       ex.Description,
				OccurrenceDate:    d,
				IsRecurring:       ex.RecurrenceType.Recurring(),
			})
		}
	}

	for _, sv := range savings {
		dates, err := Schedule{Anchor: sv.Date, Every: sv.RecurrenceType, Until: sv.RecurrenceEndDate}.DatesWithin(w)
		if err != nil {
			return nil, fmt.Errorf("expand saving %d: %w", sv.ID, err)
		}
		pct := sv.Percentage
		for _, d := range dates {
			resp.Savings = append(resp.Savings, Entry{
				ID:                sv.ID,
				UserID:            sv.UserID,
				Title:             sv.Title,
				Amount:            sv.Amount,
				Date:              sv.Date,
				AssetID:           sv.AssetID,
				Percentage:        &pct,
				RecurrenceType:    sv.RecurrenceType,
				RecurrenceEndDate: sv.RecurrenceEndDate,
				Description:       sv.Description,
				OccurrenceDate:    d,
				IsRecurring:       sv.RecurrenceType.Recurring(),
			})
		}
	}

	sortEntries(resp.Incomes)
	sortEntries(resp.Expenses)
	sortEntries(resp.Savings)

	return resp, nil
}

// sortEntries orders by occurrence date. The sort is stable so items
// sharing a date keep their creation order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurrenceDate.Before(entries[j].OccurrenceDate)
	})
}
