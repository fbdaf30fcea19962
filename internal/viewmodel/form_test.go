package viewmodel

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/store/memory"
)

// countingStore records how often the form reaches the store.
type countingStore struct {
	*memory.Store
	calls int
}

func (c *countingStore) FindAll() []core.Entry {
	c.calls++
	return c.Store.FindAll()
}

func (c *countingStore) FindOne(id int64) (core.Entry, bool) {
	c.calls++
	return c.Store.FindOne(id)
}

func (c *countingStore) Save(e core.Entry) (core.Entry, error) {
	c.calls++
	return c.Store.Save(e)
}

func (c *countingStore) Remove(e core.Entry) {
	c.calls++
	c.Store.Remove(e)
}

func seeded(t *testing.T) (*memory.Store, core.Entry) {
	t.Helper()
	s := memory.New()
	e, err := s.Save(core.Entry{
		Description: "Electricity",
		Date:        core.NewDate(2024, 4, 10),
		Amount:      decimal.RequireFromString("89.90"),
		Paid:        true,
		Type:        core.Expense,
	})
	require.NoError(t, err)
	return s, e
}

func quiet() Option {
	return WithLogger(applog.Discard())
}

func fill(f *Form, desc, amount, typ string, date core.Date, paid bool) {
	f.OnDescriptionChanged(desc)
	f.OnAmountChanged(amount)
	f.OnTypeChanged(typ)
	f.OnDateChanged(date)
	f.OnPaidChanged(paid)
}

func TestNewFormForNewEntryDoesNotTouchStore(t *testing.T) {
	cs := &countingStore{Store: memory.New()}
	f := NewForm(cs, 0, quiet())

	s := f.State()
	assert.True(t, s.IsNewAccount())
	assert.False(t, s.Loading)
	assert.False(t, s.HasLoadError)
	assert.Equal(t, core.Expense.String(), s.Type.Value)
	assert.True(t, s.Date.Value.Equal(core.Today()))
	assert.Equal(t, 0, cs.calls)
}

func TestNewFormLoadsExistingEntry(t *testing.T) {
	s, e := seeded(t)
	f := NewForm(s, e.ID, quiet())

	st := f.State()
	assert.False(t, st.IsNewAccount())
	assert.False(t, st.Loading)
	assert.False(t, st.HasLoadError)
	assert.Equal(t, e, st.Entry)
	assert.Equal(t, "Electricity", st.Description.Value)
	assert.True(t, st.Date.Value.Equal(core.NewDate(2024, 4, 10)))
	assert.Equal(t, "89.9", st.Amount.Value)
	assert.True(t, st.Paid.Value)
	assert.Equal(t, "EXPENSE", st.Type.Value)
	assert.True(t, st.IsFormValid())
}

func TestNewFormWithMissingIDSetsLoadError(t *testing.T) {
	f := NewForm(memory.New(), 42, quiet())

	st := f.State()
	assert.True(t, st.HasLoadError)
	assert.False(t, st.Loading)
	assert.Equal(t, MessageLoadFailed, st.MessageCode)

	f.OnMessageDisplayed()
	assert.Equal(t, MessageNone, f.State().MessageCode)
}

func TestLoadAccountRetry(t *testing.T) {
	s := memory.New()
	f := NewForm(s, 1, quiet())
	require.True(t, f.State().HasLoadError)

	_, err := s.Save(core.Entry{Description: "late", Date: core.NewDate(2024, 1, 1), Amount: decimal.NewFromInt(1), Type: core.Income})
	require.NoError(t, err)

	f.LoadAccount()
	st := f.State()
	assert.False(t, st.HasLoadError)
	assert.Equal(t, "late", st.Description.Value)
	assert.Equal(t, "INCOME", st.Type.Value)
}

func TestSaveWithBlankDescriptionIsBlocked(t *testing.T) {
	s := memory.New()
	f := NewForm(s, 0, quiet())
	f.OnAmountChanged("10")

	before := s.Len()
	f.SaveAccount()

	st := f.State()
	assert.False(t, st.PersistedOrRemoved)
	assert.False(t, st.Saving)
	assert.Equal(t, CodeDescriptionRequired, st.Description.ErrorCode)
	assert.False(t, st.IsFormValid())
	assert.Equal(t, before, s.Len())
}

func TestFieldValidators(t *testing.T) {
	f := NewForm(memory.New(), 0, quiet())

	f.OnDescriptionChanged("   ")
	assert.Equal(t, CodeDescriptionRequired, f.State().Description.ErrorCode)
	f.OnDescriptionChanged("Groceries")
	assert.True(t, f.State().Description.IsValid())

	cases := []struct {
		amount string
		code   ErrorCode
	}{
		{"", CodeAmountRequired},
		{"abc", CodeAmountInvalid},
		{"-3", CodeAmountNegative},
		{"12,50", CodeNone},
		{"0", CodeNone},
	}
	for _, tc := range cases {
		f.OnAmountChanged("seed")
		f.OnAmountChanged(tc.amount)
		assert.Equal(t, tc.code, f.State().Amount.ErrorCode, "amount %q", tc.amount)
	}

	f.OnTypeChanged("TRANSFER")
	assert.Equal(t, CodeTypeInvalid, f.State().Type.ErrorCode)
	f.OnTypeChanged("INCOME")
	assert.True(t, f.State().Type.IsValid())

	f.OnDateChanged(core.Date{})
	assert.Equal(t, CodeDateRequired, f.State().Date.ErrorCode)
	f.OnDateChanged(core.NewDate(2024, 6, 1))
	assert.True(t, f.State().Date.IsValid())
}

func TestSettersIgnoreUnchangedValues(t *testing.T) {
	f := NewForm(memory.New(), 0, quiet())
	f.OnDescriptionChanged("rent")

	published := 0
	unsubscribe := f.Subscribe(func(FormState) { published++ })
	defer unsubscribe()

	f.OnDescriptionChanged("rent")
	f.OnPaidChanged(false)
	f.OnTypeChanged("EXPENSE")
	f.OnDateChanged(f.State().Date.Value)
	f.OnMessageDisplayed()
	assert.Equal(t, 0, published)

	f.OnPaidChanged(true)
	assert.Equal(t, 1, published)
}

func TestSaveNewEntry(t *testing.T) {
	s := memory.New()
	f := NewForm(s, 0, quiet())

	var states []FormState
	f.Subscribe(func(st FormState) { states = append(states, st) })

	fill(f, "Salary", "3500,75", "INCOME", core.NewDate(2024, 5, 5), true)
	f.SaveAccount()

	st := f.State()
	require.True(t, st.PersistedOrRemoved)
	assert.True(t, st.Saved)
	assert.False(t, st.Saving)
	assert.False(t, st.HasSaveError)
	assert.Equal(t, int64(1), st.AccountID)
	assert.False(t, st.IsNewAccount())

	stored, ok := s.FindOne(1)
	require.True(t, ok)
	assert.Equal(t, "Salary", stored.Description)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("3500.75")))
	assert.Equal(t, core.Income, stored.Type)
	assert.True(t, stored.Paid)
	assert.Equal(t, stored, st.Entry)

	sawSaving := false
	for _, published := range states {
		if published.Saving {
			sawSaving = true
		}
	}
	assert.True(t, sawSaving, "Saving should be published while the save runs")
}

func TestSaveExistingEntryKeepsID(t *testing.T) {
	s, e := seeded(t)
	_, err := s.Save(core.Entry{Description: "other", Date: core.NewDate(2024, 1, 1), Amount: decimal.NewFromInt(5), Type: core.Income})
	require.NoError(t, err)

	f := NewForm(s, e.ID, quiet())
	f.OnDescriptionChanged("Electricity (April)")
	f.OnAmountChanged("91.30")
	f.SaveAccount()

	require.True(t, f.State().PersistedOrRemoved)
	assert.Equal(t, 2, s.Len())
	got, ok := s.FindOne(e.ID)
	require.True(t, ok)
	assert.Equal(t, "Electricity (April)", got.Description)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("91.3")))
	assert.Equal(t, e.ID, s.FindAll()[0].ID)
}

func TestSaveAfterExternalDeleteReportsSaveError(t *testing.T) {
	s, e := seeded(t)
	f := NewForm(s, e.ID, quiet())

	s.Remove(e)
	f.OnDescriptionChanged("edited")
	f.SaveAccount()

	st := f.State()
	assert.True(t, st.HasSaveError)
	assert.False(t, st.Saving)
	assert.False(t, st.PersistedOrRemoved)
	assert.Equal(t, MessageSaveFailed, st.MessageCode)
	assert.Equal(t, 0, s.Len())

	f.OnMessageDisplayed()
	assert.Equal(t, MessageNone, f.State().MessageCode)
}

func TestRemoveAccount(t *testing.T) {
	s, e := seeded(t)
	f := NewForm(s, e.ID, quiet())

	f.RemoveAccount()

	st := f.State()
	assert.True(t, st.PersistedOrRemoved)
	assert.False(t, st.Deleting)
	assert.Equal(t, 0, s.Len())
}

func TestRemoveUnsavedEntryIsHarmless(t *testing.T) {
	s, _ := seeded(t)
	f := NewForm(s, 0, quiet())

	f.RemoveAccount()
	assert.True(t, f.State().PersistedOrRemoved)
	assert.Equal(t, 1, s.Len())
}

func TestFormFieldValidity(t *testing.T) {
	ok := FormField[int]{Value: 1}
	bad := FormField[int]{Value: 1, ErrorCode: CodeAmountInvalid}
	assert.True(t, ok.IsValid())
	assert.False(t, ok.HasError())
	assert.True(t, bad.HasError())
	assert.False(t, bad.IsValid())
}

func TestSaveErrorIsLogged(t *testing.T) {
	s, e := seeded(t)
	var buf bytes.Buffer
	f := NewForm(s, e.ID, WithLogger(applog.New(applog.Config{Format: "json", Output: &buf})))

	s.Remove(e)
	buf.Reset()
	f.OnDescriptionChanged("edited")
	f.SaveAccount()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Failed to save entry", rec["msg"])
	assert.Equal(t, applog.ComponentViewModel, rec[applog.FieldComponent])
	assert.Equal(t, applog.OpSave, rec[applog.FieldOperation])
	assert.Equal(t, float64(e.ID), rec[applog.FieldEntryID])
	assert.Contains(t, rec[applog.FieldError], "entry not found")
}
