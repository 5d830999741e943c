package core

import "github.com/shopspring/decimal"

// Patch types model partial updates: a nil field leaves the stored value
// untouched. Switching a recurrence back to "none" clears the end date,
// since a bound without a cadence is meaningless.

type IncomePatch struct {
	Title             *string          `json:"title"`
	Amount            *decimal.Decimal `json:"amount"`
	Date              *Date            `json:"date"`
	RecurrenceType    *RecurrenceType  `json:"recurrence_type"`
	RecurrenceEndDate *Date            `json:"recurrence_end_date"`
	Description       *string          `json:"description"`
}

type ExpensePatch struct {
	Title             *string          `json:"title"`
	Amount            *decimal.Decimal `json:"amount"`
	Date              *Date            `json:"date"`
	Category          *string          `json:"category"`
	RecurrenceType    *RecurrenceType  `json:"recurrence_type"`
	RecurrenceEndDate *Date            `json:"recurrence_end_date"`
	Description       *string          `json:"description"`
}

type SavingPatch struct {
	AssetID           *int64           `json:"asset_id"`
	Title             *string          `json:"title"`
	Amount            *decimal.Decimal `json:"amount"`
	Date              *Date            `json:"date"`
	RecurrenceType    *RecurrenceType  `json:"recurrence_type"`
	RecurrenceEndDate *Date            `json:"recurrence_end_date"`
	Description       *string          `json:"description"`
	Percentage        *float64         `json:"percentage"`
}

type AssetPatch struct {
	Name        *string          `json:"name"`
	Amount      *decimal.Decimal `json:"amount"`
	Contributed *decimal.Decimal `json:"contributed"`
	TargetDate  *Date            `json:"target_date"`
	Description *string          `json:"description"`
}

func applyRecurrence(rt *RecurrenceType, end *Date, curType *RecurrenceType, curEnd **Date) {
	if rt != nil {
		*curType = *rt
	}
	if end != nil {
		*curEnd = end
	}
	if !(*curType).Recurring() {
		*curEnd = nil
	}
}

func (p IncomePatch) Apply(in *Income) {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
	if p.Description != nil {
		in.Description = p.Description
	}
	applyRecurrence(p.RecurrenceType, p.RecurrenceEndDate, &in.RecurrenceType, &in.RecurrenceEndDate)
}

func (p ExpensePatch) Apply(ex *Expense) {
	if p.Title != nil {
		ex.Title = *p.Title
	}
	if p.Amount != nil {
		ex.Amount = *p.Amount
	}
	if p.Date != nil {
		ex.Date = *p.Date
	}
	if p.Category != nil {
		ex.Category = p.Category
	}
	if p.Description != nil {
		ex.Description = p.Description
	}
	applyRecurrence(p.RecurrenceType, p.RecurrenceEndDate, &ex.RecurrenceType, &ex.RecurrenceEndDate)
}

func (p SavingPatch) Apply(sv *Saving) {
	if p.AssetID != nil {
		sv.AssetID = p.AssetID
	}
	if p.Title != nil {
		sv.Title = *p.Title
	}
	if p.Amount != nil {
		sv.Amount = *p.Amount
	}
	if p.Date != nil {
		sv.Date = *p.Date
	}
	if p.Description != nil {
		sv.Description = p.Description
	}
	if p.Percentage != nil {
		sv.Percentage = *p.Percentage
	}
	applyRecurrence(p.RecurrenceType, p.RecurrenceEndDate, &sv.RecurrenceType, &sv.RecurrenceEndDate)
}

func (p AssetPatch) Apply(a *Asset) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Amount != nil {
		a.Amount = *p.Amount
	}
	if p.Contributed != nil {
		a.Contributed = *p.Contributed
	}
	if p.TargetDate != nil {
		a.TargetDate = p.TargetDate
	}
	if p.Description != nil {
		a.Description = p.Description
	}
}
