package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/viewmodel"
)

var fieldErrorText = map[viewmodel.ErrorCode]string{
	viewmodel.CodeDescriptionRequired: "Informe a descrição",
	viewmodel.CodeDateRequired:        "Informe uma data válida",
	viewmodel.CodeAmountRequired:      "Informe o valor",
	viewmodel.CodeAmountInvalid:       "Valor inválido",
	viewmodel.CodeAmountNegative:      "O valor não pode ser negativo",
	viewmodel.CodeTypeInvalid:         "Tipo inválido",
}

var messageText = map[viewmodel.MessageCode]string{
	viewmodel.MessageLoadFailed: "Conta não encontrada",
	viewmodel.MessageSaveFailed: "Não foi possível salvar a conta",
}

var typeLabel = map[core.EntryType]string{
	core.Expense: "Despesa",
	core.Income:  "Receita",
}

type listPage struct {
	Entries []core.Entry
	Summary core.Summary
}

type formPage struct {
	State viewmodel.FormState
	Types []core.EntryType
}

// Action is the URL the form posts to.
func (p formPage) Action() string {
	if p.State.IsNewAccount() {
		return "/entries/new"
	}
	return "/entries/" + strconv.FormatInt(p.State.AccountID, 10)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"currency": core.FormatCurrency,
		"signed": func(e core.Entry) decimal.Decimal {
			return core.SignedAmount(e)
		},
		"negative":   func(d decimal.Decimal) bool { return d.IsNegative() },
		"fieldError": func(c viewmodel.ErrorCode) string { return fieldErrorText[c] },
		"message":    func(c viewmodel.MessageCode) string { return messageText[c] },
		"typeLabel":  func(t core.EntryType) string { return typeLabel[t] },
		"entryURL":   func(id int64) string { return "/entries/" + strconv.FormatInt(id, 10) },
	}
}

// render executes name into a buffer first so a template failure still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			"template", name,
			applog.FieldError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderForm renders the form page and acknowledges any message it showed.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, form *viewmodel.Form) {
	s.render(w, r, status, "form.html", formPage{State: form.State(), Types: core.EntryTypes()})
	form.OnMessageDisplayed()
}
