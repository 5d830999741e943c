package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIncomePatchApply(t *testing.T) {
	in := Income{
		Title:             "Salary",
		Amount:            decimal.RequireFromString("2500"),
		Date:              NewDate(2024, 1, 1),
		RecurrenceType:    RecurrenceMonthly,
		RecurrenceEndDate: datePtr(NewDate(2024, 12, 31)),
	}

	title := "Updated salary"
	amount := decimal.RequireFromString("2600")
	IncomePatch{Title: &title, Amount: &amount}.Apply(&in)

	if in.Title != "Updated salary" {
		t.Errorf("title = %q", in.Title)
	}
	if !in.Amount.Equal(amount) {
		t.Errorf("amount = %s", in.Amount)
	}
	// Untouched fields stay put.
	if in.RecurrenceType != RecurrenceMonthly {
		t.Errorf("recurrence type changed to %q", in.RecurrenceType)
	}
	if in.RecurrenceEndDate == nil || !in.RecurrenceEndDate.Equal(NewDate(2024, 12, 31)) {
		t.Errorf("recurrence end changed: %v", in.RecurrenceEndDate)
	}
}

func TestPatchToNoneClearsEndDate(t *testing.T) {
	in := Income{
		Title:             "Salary",
		Amount:            decimal.RequireFromString("2500"),
		Date:              NewDate(2024, 1, 1),
		RecurrenceType:    RecurrenceMonthly,
		RecurrenceEndDate: datePtr(NewDate(2024, 12, 31)),
	}

	none := RecurrenceNone
	IncomePatch{RecurrenceType: &none}.Apply(&in)

	if in.RecurrenceType != RecurrenceNone {
		t.Errorf("recurrence type = %q", in.RecurrenceType)
	}
	if in.RecurrenceEndDate != nil {
		t.Errorf("end date should be cleared, got %v", in.RecurrenceEndDate)
	}
}

func TestSavingPatchReassignsAsset(t *testing.T) {
	oldID := int64(1)
	sv := Saving{
		Title:          "House fund",
		Amount:         decimal.RequireFromString("300"),
		Date:           NewDate(2024, 1, 5),
		RecurrenceType: RecurrenceNone,
		AssetID:        &oldID,
		Percentage:     100,
	}

	newID := int64(2)
	pct := 50.0
	SavingPatch{AssetID: &newID, Percentage: &pct}.Apply(&sv)

	if sv.AssetID == nil || *sv.AssetID != 2 {
		t.Errorf("asset id = %v, want 2", sv.AssetID)
	}
	if sv.Percentage != 50 {
		t.Errorf("percentage = %v, want 50", sv.Percentage)
	}
	if sv.Title != "House fund" {
		t.Errorf("title changed to %q", sv.Title)
	}
}
