package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

type (
	// RecurrenceType names how often a financial item repeats.
	RecurrenceType string

	// User is an account that owns financial items.
	User struct {
		ID             int64     `json:"id"`
		Email          string    `json:"email"`
		Username       string    `json:"username"`
		HashedPassword string    `json:"-"`
		FullName       *string   `json:"full_name"`
		IsActive       bool      `json:"is_active"`
		CreatedAt      time.Time `json:"-"`
	}

	// Income is money entering the owner's budget, optionally recurring
	// from Date until RecurrenceEndDate.
	Income struct {
		ID                int64           `json:"id"`
		UserID            int64           `json:"user_id"`
		Title             string          `json:"title"`
		Amount            decimal.Decimal `json:"amount"`
		Date              Date            `json:"date"`
		RecurrenceType    RecurrenceType  `json:"recurrence_type"`
		RecurrenceEndDate *Date           `json:"recurrence_end_date"`
		Description       *string         `json:"description"`
	}

	// Expense is money leaving the owner's budget. Category is free text
	// used for display grouping.
	Expense struct {
		ID                int64           `json:"id"`
		UserID            int64           `json:"user_id"`
		Title             string          `json:"title"`
		Amount            decimal.Decimal `json:"amount"`
		Date              Date            `json:"date"`
		Category          *string         `json:"category"`
		RecurrenceType    RecurrenceType  `json:"recurrence_type"`
		RecurrenceEndDate *Date           `json:"recurrence_end_date"`
		Description       *string         `json:"description"`
	}

	// Saving is a transfer into a savings goal. It never counts as income
	// or expense. Percentage records the contribution fraction of the goal
	// captured at creation time; it is informational and not re-validated
	// against the goal afterwards.
	Saving struct {
		ID                int64           `json:"id"`
		UserID            int64           `json:"user_id"`
		AssetID           *int64          `json:"asset_id"`
		Title             string          `json:"title"`
		Amount            decimal.Decimal `json:"amount"`
		Date              Date            `json:"date"`
		RecurrenceType    RecurrenceType  `json:"recurrence_type"`
		RecurrenceEndDate *Date           `json:"recurrence_end_date"`
		Description       *string         `json:"description"`
		Percentage        float64         `json:"percentage"`
	}

	// Asset is a savings goal. Contributed accumulates recorded savings
	// and is deliberately never clamped to Amount: overshoot stays visible.
	Asset struct {
		ID          int64           `json:"id"`
		UserID      int64           `json:"user_id"`
		Name        string          `json:"name"`
		Amount      decimal.Decimal `json:"amount"`
		Contributed decimal.Decimal `json:"contributed"`
		TargetDate  *Date           `json:"target_date"`
		Description *string         `json:"description"`
	}
)

var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrEmptyTitle              = errors.New("empty title")
	ErrTitleTooLong            = errors.New("title too long (max 200 characters)")
	ErrInvalidDate             = errors.New("invalid date")
	ErrInvalidRecurrenceType   = errors.New("invalid recurrence type")
	ErrInvalidRecurrenceConfig = errors.New("recurrence end date precedes start date")
	ErrInvalidWindow           = errors.New("invalid query window")
	ErrInvalidPercentage       = errors.New("percentage must be between 0 and 100")
	ErrNotFound                = errors.New("not found")
	ErrAlreadyExists           = errors.New("already registered")
	ErrInvalidCredentials      = errors.New("incorrect username or password")
)

// Valid reports whether rt is a known recurrence type.
func (rt RecurrenceType) Valid() bool {
	switch rt {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Recurring reports whether rt repeats at all.
func (rt RecurrenceType) Recurring() bool {
	return rt.Valid() && rt != RecurrenceNone
}

// validateRecurrence checks the shared recurrence fields of an item.
func validateRecurrence(anchor Date, rt RecurrenceType, end *Date) error {
	if err := anchor.Validate(); err != nil {
		return err
	}
	if !rt.Valid() {
		return ErrInvalidRecurrenceType
	}
	if end != nil && end.Before(anchor) {
		return ErrInvalidRecurrenceConfig
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (i Income) Validate() error {
	if err := validateTitle(i.Title); err != nil {
		return err
	}
	if err := validateAmount(i.Amount); err != nil {
		return err
	}
	return validateRecurrence(i.Date, i.RecurrenceType, i.RecurrenceEndDate)
}

func (e Expense) Validate() error {
	if err := validateTitle(e.Title); err != nil {
		return err
	}
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	return validateRecurrence(e.Date, e.RecurrenceType, e.RecurrenceEndDate)
}

func (s Saving) Validate() error {
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	if err := validateAmount(s.Amount); err != nil {
		return err
	}
	if s.Percentage < 0 || s.Percentage > 100 {
		return ErrInvalidPercentage
	}
	return validateRecurrence(s.Date, s.RecurrenceType, s.RecurrenceEndDate)
}

func (a Asset) Validate() error {
	if err := validateTitle(a.Name); err != nil {
		return err
	}
	if err := validateAmount(a.Amount); err != nil {
		return err
	}
	if a.Contributed.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
