package budget

import (
	"context"

	"nassets/internal/core"

	"github.com/shopspring/decimal"
)

// DailyBalance is the activity of one calendar day. Net is income minus
// expense; savings are transfers within the owner's own funds and stay
// out of it.
type DailyBalance struct {
	Date     core.Date       `json:"date"`
	Incomes  decimal.Decimal `json:"incomes"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
	Net      decimal.Decimal `json:"net"`
}

// Summary aggregates one month of occurrences. Remaining is income minus
// expenses and may go negative; savings never reduce it. DailyBalance
// holds an entry for every day of the month, zero-activity days included,
// so the client can render a full calendar without gap-filling.
type Summary struct {
	Month         int                  `json:"month"`
	Year          int                  `json:"year"`
	TotalIncome   decimal.Decimal      `json:"total_income"`
	TotalExpenses decimal.Decimal      `json:"total_expenses"`
	TotalSavings  decimal.Decimal      `json:"total_savings"`
	Remaining     decimal.Decimal      `json:"remaining"`
	DailyBalance  map[int]DailyBalance `json:"daily_balance"`
}

// Summary reduces the month's calendar into totals and a per-day balance
// table. Both views come from the same expansion, so daily figures summed
// across the month equal the month totals exactly.
func (s *Service) Summary(ctx context.Context, userID int64, year, month int) (*Summary, error) {
	cal, err := s.Calendar(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	return Summarize(cal), nil
}

// Summarize reduces an already-expanded calendar into a Summary.
func Summarize(cal *CalendarResponse) *Summary {
	days := core.DaysInMonth(cal.Year, cal.Month)

	dayIncomes := make([]decimal.Decimal, days+1)
	dayExpenses := make([]decimal.Decimal, days+1)
	daySavings := make([]decimal.Decimal, days+1)
	for day := 1; day <= days; day++ {
		dayIncomes[day] = decimal.Zero
		dayExpenses[day] = decimal.Zero
		daySavings[day] = decimal.Zero
	}
	for _, e := range cal.Incomes {
		day := e.OccurrenceDate.Day()
		dayIncomes[day] = dayIncomes[day].Add(e.Amount)
	}
	for _, e := range cal.Expenses {
		day := e.OccurrenceDate.Day()
		dayExpenses[day] = dayExpenses[day].Add(e.Amount)
	}
	for _, e := range cal.Savings {
		day := e.OccurrenceDate.Day()
		daySavings[day] = daySavings[day].Add(e.Amount)
	}

	sum := &Summary{
		Month:         cal.Month,
		Year:          cal.Year,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalSavings:  decimal.Zero,
		DailyBalance:  make(map[int]DailyBalance, days),
	}
	for day := 1; day <= days; day++ {
		sum.TotalIncome = sum.TotalIncome.Add(dayIncomes[day])
		sum.TotalExpenses = sum.TotalExpenses.Add(dayExpenses[day])
		sum.TotalSavings = sum.TotalSavings.Add(daySavings[day])
		sum.DailyBalance[day] = DailyBalance{
			Date:     core.NewDate(cal.Year, cal.Month, day),
			Incomes:  dayIncomes[day],
			Expenses: dayExpenses[day],
			Savings:  daySavings[day],
			Net:      dayIncomes[day].Sub(dayExpenses[day]),
		}
	}
	sum.Remaining = sum.TotalIncome.Sub(sum.TotalExpenses)

	return sum
}
