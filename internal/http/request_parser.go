package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"contas/internal/core"
	"contas/internal/viewmodel"
)

var errInvalidID = errors.New("invalid entry id")

// EntryForm holds the raw values submitted by the entry form.
type EntryForm struct {
	Description string
	Date        string
	Amount      string
	Paid        bool
	Type        string
}

// entryIDParam reads the {id} route parameter. Only positive ids are valid.
func entryIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// ParseEntryForm parses the request form into an EntryForm.
func ParseEntryForm(r *http.Request) (EntryForm, error) {
	if err := r.ParseForm(); err != nil {
		return EntryForm{}, err
	}
	return EntryForm{
		Description: sanitizeInput(r.PostForm.Get("description")),
		Date:        strings.TrimSpace(r.PostForm.Get("date")),
		Amount:      strings.TrimSpace(r.PostForm.Get("amount")),
		Paid:        parseCheckbox(r.PostForm.Get("paid")),
		Type:        strings.TrimSpace(r.PostForm.Get("type")),
	}, nil
}

// Apply replays the submitted values through the form setters. An
// unparsable date is sent as the zero date so the form flags it.
func (f EntryForm) Apply(form *viewmodel.Form) {
	form.OnDescriptionChanged(f.Description)
	date, err := core.ParseDate(f.Date)
	if err != nil {
		date = core.Date{}
	}
	form.OnDateChanged(date)
	form.OnAmountChanged(f.Amount)
	form.OnPaidChanged(f.Paid)
	form.OnTypeChanged(f.Type)
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
