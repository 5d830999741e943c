package http

import (
	"net/http"

	"nassets/internal/core"
)

func (s *Server) handleCreateSaving(w http.ResponseWriter, r *http.Request) {
	var sv core.Saving
	sv.Percentage = 100
	if err := decodeJSON(r, &sv); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sv.ID = 0
	sv.UserID = currentUser(r).ID
	if sv.RecurrenceType == "" {
		sv.RecurrenceType = core.RecurrenceNone
	}

	created, err := s.ledger.CreateSaving(r.Context(), sv)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	savings, err := s.repo.ListSavings(r.Context(), currentUser(r).ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, savings)
}

func (s *Server) handleGetSaving(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sv, err := s.repo.GetSaving(r.Context(), currentUser(r).ID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (s *Server) handleUpdateSaving(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var patch core.SavingPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.ledger.UpdateSaving(r.Context(), currentUser(r).ID, id, patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSaving(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.DeleteSaving(r.Context(), currentUser(r).ID, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Saving deleted"})
}
