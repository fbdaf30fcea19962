package http

import (
	"net/http"

	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/viewmodel"
)

func formOptions(r *http.Request) []viewmodel.Option {
	return []viewmodel.Option{viewmodel.WithLogger(applog.FromContext(r.Context()))}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.list.State()
	s.render(w, r, http.StatusOK, "list.html", listPage{
		Entries: state.Entries,
		Summary: state.Summary(),
	})
}

func (s *Server) handleNewEntry(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, viewmodel.NewForm(s.store, 0, formOptions(r)...))
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	form := viewmodel.NewForm(s.store, id, formOptions(r)...)
	status := http.StatusOK
	if form.State().HasLoadError {
		status = http.StatusNotFound
	}
	s.renderForm(w, r, status, form)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	s.saveEntry(w, r, 0)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.saveEntry(w, r, id)
}

// saveEntry replays the submitted values through a form view model and
// maps its resulting state to a response.
func (s *Server) saveEntry(w http.ResponseWriter, r *http.Request, id int64) {
	input, err := ParseEntryForm(r)
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Invalid entry form",
			applog.FieldOperation, applog.OpSave,
			applog.FieldError, err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := viewmodel.NewForm(s.store, id, formOptions(r)...)
	if form.State().HasLoadError {
		s.renderForm(w, r, http.StatusNotFound, form)
		return
	}

	input.Apply(form)
	form.SaveAccount()

	state := form.State()
	switch {
	case state.PersistedOrRemoved:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case !state.IsFormValid():
		s.renderForm(w, r, http.StatusUnprocessableEntity, form)
	default:
		s.renderForm(w, r, http.StatusConflict, form)
	}
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	form := viewmodel.NewForm(s.store, id, formOptions(r)...)
	if form.State().HasLoadError {
		s.renderForm(w, r, http.StatusNotFound, form)
		return
	}
	form.RemoveAccount()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAPIEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.list.State().Entries
	if entries == nil {
		entries = []core.Entry{}
	}
	NewJSONResponse().Data(entries).Write(w)
}

func (s *Server) handleAPIEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	e, ok := s.store.FindOne(id)
	if !ok {
		NotFoundError("entry not found").Write(w)
		return
	}
	NewJSONResponse().Data(e).Write(w)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.list.State().Summary()).Write(w)
}
