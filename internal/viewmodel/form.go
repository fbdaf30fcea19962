package viewmodel

import (
	"fmt"
	"sync"

	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/observe"
	"contas/internal/store"
)

// FormState is an immutable snapshot of the entry form.
type FormState struct {
	AccountID          int64
	Loading            bool
	Entry              core.Entry
	HasLoadError       bool
	HasSaveError       bool
	Saving             bool
	Deleting           bool
	Saved              bool
	PersistedOrRemoved bool
	MessageCode        MessageCode

	Description FormField[string]
	Date        FormField[core.Date]
	Amount      FormField[string]
	Paid        FormField[bool]
	Type        FormField[string]
}

// IsNewAccount reports whether the form edits an entry that was never saved.
func (s FormState) IsNewAccount() bool {
	return s.AccountID <= 0
}

// IsFormValid reports whether no field carries an error.
func (s FormState) IsFormValid() bool {
	return s.Description.IsValid() &&
		s.Date.IsValid() &&
		s.Amount.IsValid() &&
		s.Paid.IsValid() &&
		s.Type.IsValid()
}

func newFormState(accountID int64) FormState {
	e := core.NewEntry()
	return FormState{
		AccountID: accountID,
		Entry:     e,
		Date:      FormField[core.Date]{Value: e.Date},
		Paid:      FormField[bool]{Value: e.Paid},
		Type:      FormField[string]{Value: e.Type.String()},
	}
}

// Form drives the create/edit/delete lifecycle of a single entry.
//
// Events are serialized by opMu; mu only guards the state value so State
// stays cheap while a save is in flight.
type Form struct {
	opMu    sync.Mutex
	mu      sync.Mutex
	store   store.Repository
	log     *applog.Logger
	state   FormState
	changes observe.Registry[FormState]
}

// NewForm creates a form for accountID. Zero or negative ids start a new
// entry without touching the store; positive ids are loaded right away.
func NewForm(repo store.Repository, accountID int64, opts ...Option) *Form {
	o := buildOptions(opts)
	f := &Form{
		store: repo,
		log:   o.logger,
		state: newFormState(accountID),
	}
	if accountID > 0 {
		f.LoadAccount()
	}
	return f
}

// State returns the current form state.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe registers fn to receive every new state.
func (f *Form) Subscribe(fn func(FormState)) (unsubscribe func()) {
	return f.changes.Subscribe(fn)
}

// update is the single reducer every event goes through.
func (f *Form) update(reduce func(FormState) FormState) FormState {
	f.mu.Lock()
	next := reduce(f.state)
	f.state = next
	f.mu.Unlock()

	f.changes.Publish(next)
	return next
}

// LoadAccount (re)reads the entry the form was created for. A miss sets
// HasLoadError; calling it again retries.
func (f *Form) LoadAccount() {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	s := f.update(func(s FormState) FormState {
		s.Loading = true
		s.HasLoadError = false
		return s
	})

	e, ok := f.store.FindOne(s.AccountID)
	if !ok {
		f.log.Warn("Entry not found",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldEntryID, s.AccountID)
		f.update(func(s FormState) FormState {
			s.Loading = false
			s.HasLoadError = true
			s.MessageCode = MessageLoadFailed
			return s
		})
		return
	}

	f.update(func(s FormState) FormState {
		s.Loading = false
		s.Entry = e
		s.Description = FormField[string]{Value: e.Description}
		s.Date = FormField[core.Date]{Value: e.Date}
		s.Amount = FormField[string]{Value: e.Amount.String()}
		s.Paid = FormField[bool]{Value: e.Paid}
		s.Type = FormField[string]{Value: e.Type.String()}
		return s
	})
}

func (f *Form) OnDescriptionChanged(v string) {
	f.opMu.Lock()
	defer f.opMu.Unlock()
	if f.State().Description.Value == v {
		return
	}
	f.update(func(s FormState) FormState {
		s.Description = FormField[string]{Value: v, ErrorCode: validateDescription(v)}
		return s
	})
}

func (f *Form) OnDateChanged(v core.Date) {
	f.opMu.Lock()
	defer f.opMu.Unlock()
	if f.State().Date.Value.Equal(v) {
		return
	}
	f.update(func(s FormState) FormState {
		s.Date = FormField[core.Date]{Value: v, ErrorCode: validateDate(v)}
		return s
	})
}

// OnAmountChanged takes the amount as typed; it is parsed on save.
func (f *Form) OnAmountChanged(v string) {
	f.opMu.Lock()
	defer f.opMu.Unlock()
	if f.State().Amount.Value == v {
		return
	}
	f.update(func(s FormState) FormState {
		s.Amount = FormField[string]{Value: v, ErrorCode: validateAmount(v)}
		return s
	})
}

func (f *Form) OnPaidChanged(v bool) {
	f.opMu.Lock()
	defer f.opMu.Unlock()
	if f.State().Paid.Value == v {
		return
	}
	f.update(func(s FormState) FormState {
		s.Paid = FormField[bool]{Value: v}
		return s
	})
}

// OnTypeChanged takes the entry type name, e.g. "EXPENSE".
func (f *Form) OnTypeChanged(v string) {
	f.opMu.Lock()
	defer f.opMu.Unlock()
	if f.State().Type.Value == v {
		return
	}
	f.update(func(s FormState) FormState {
		s.Type = FormField[string]{Value: v, ErrorCode: validateType(v)}
		return s
	})
}

// SaveAccount validates every field and, when the form is valid, writes
// the entry to the store. Nothing reaches the store if validation fails.
func (f *Form) SaveAccount() {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	s := f.update(validateAll)
	if !s.IsFormValid() {
		f.log.Debug("Form has invalid fields",
			applog.FieldOperation, applog.OpValidate,
			applog.FieldEntryID, s.AccountID)
		return
	}

	f.update(func(s FormState) FormState {
		s.Saving = true
		s.HasSaveError = false
		return s
	})

	saved, err := f.persist(s)
	if err != nil {
		fields := applog.NewFields().WithOperation(applog.OpSave).WithError(err)
		fields[applog.FieldEntryID] = s.AccountID
		f.log.Error("Failed to save entry", fields.ToSlice()...)
		f.update(func(s FormState) FormState {
			s.Saving = false
			s.HasSaveError = true
			s.MessageCode = MessageSaveFailed
			return s
		})
		return
	}

	f.log.Info("Entry saved", applog.NewFields().WithEntry(saved).WithOperation(applog.OpSave).ToSlice()...)
	f.update(func(s FormState) FormState {
		s.Saving = false
		s.Entry = saved
		s.AccountID = saved.ID
		s.Saved = true
		s.PersistedOrRemoved = true
		return s
	})
}

// persist builds the entry from the field values and saves it. The store
// is only called once the entry is fully built.
func (f *Form) persist(s FormState) (core.Entry, error) {
	amount, err := core.ParseAmount(s.Amount.Value)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse amount %q: %w", s.Amount.Value, err)
	}
	typ, err := core.ParseEntryType(s.Type.Value)
	if err != nil {
		return core.Entry{}, err
	}

	e := s.Entry
	e.Description = s.Description.Value
	e.Date = s.Date.Value
	e.Amount = amount
	e.Paid = s.Paid.Value
	e.Type = typ

	saved, err := f.store.Save(e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}
	return saved, nil
}

// RemoveAccount deletes the loaded entry. For an entry that was never
// saved the store ignores the call.
func (f *Form) RemoveAccount() {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	s := f.update(func(s FormState) FormState {
		s.Deleting = true
		return s
	})

	f.store.Remove(s.Entry)
	f.log.Info("Entry removed",
		applog.FieldOperation, applog.OpRemove,
		applog.FieldEntryID, s.Entry.ID)

	f.update(func(s FormState) FormState {
		s.Deleting = false
		s.PersistedOrRemoved = true
		return s
	})
}

// OnMessageDisplayed clears the pending one-shot message.
func (f *Form) OnMessageDisplayed() {
	f.opMu.Lock()
	defer f.opMu.Unlock()
	if f.State().MessageCode == MessageNone {
		return
	}
	f.update(func(s FormState) FormState {
		s.MessageCode = MessageNone
		return s
	})
}

func validateAll(s FormState) FormState {
	s.Description.ErrorCode = validateDescription(s.Description.Value)
	s.Date.ErrorCode = validateDate(s.Date.Value)
	s.Amount.ErrorCode = validateAmount(s.Amount.Value)
	s.Paid.ErrorCode = CodeNone
	s.Type.ErrorCode = validateType(s.Type.Value)
	return s
}
