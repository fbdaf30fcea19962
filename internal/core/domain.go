package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense EntryType = "EXPENSE"
	Income  EntryType = "INCOME"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

type (
	// EntryType tells whether an entry takes money out or brings it in.
	// The sign of an amount is never stored, it always comes from the type.
	EntryType string

	// Date is a calendar day without time of day, kept at UTC midnight.
	Date struct {
		time.Time
	}

	Entry struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		Amount      decimal.Decimal `json:"amount"`
		Paid        bool            `json:"paid"`
		Type        EntryType       `json:"type"`
	}
)

var (
	ErrNotFound         = errors.New("entry not found")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidType      = errors.New("invalid entry type")
)

// EntryTypes lists the known entry types in display order.
func EntryTypes() []EntryType {
	return []EntryType{Expense, Income}
}

func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if t is one of the known entry types
func (t EntryType) IsValid() bool {
	switch t {
	case Expense, Income:
		return true
	default:
		return false
	}
}

// ParseEntryType resolves an entry type from its name, ignoring case and
// surrounding whitespace.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(isoLayout)
}

// Display formats the date as dd/MM/yyyy.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(displayLayout)
}

// Equal reports whether both dates fall on the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewEntry returns the defaults of an entry that has not been saved yet.
func NewEntry() Entry {
	return Entry{
		Date:   Today(),
		Amount: decimal.Zero,
		Type:   Expense,
	}
}

// IsPersisted reports whether the store has assigned an identity to e.
func (e Entry) IsPersisted() bool {
	return e.ID > 0
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !e.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}
