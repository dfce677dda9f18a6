package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Huddle/internal/balance"
	"github.com/MikeSquared-Agency/Huddle/internal/grouping"
	"github.com/MikeSquared-Agency/Huddle/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, balance.ErrInvalidArgument), errors.Is(err, grouping.ErrRosterTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, grouping.ErrSectionNotFound),
		errors.Is(err, grouping.ErrStudentNotFound),
		errors.Is(err, grouping.ErrGroupNotFound),
		errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, grouping.ErrGroupsExist):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func sectionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid section id")
		return uuid.Nil, false
	}
	return id, true
}
