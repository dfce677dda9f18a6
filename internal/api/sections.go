package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Huddle/internal/grouping"
	"github.com/MikeSquared-Agency/Huddle/internal/hermes"
	"github.com/MikeSquared-Agency/Huddle/internal/store"
)

type SectionsHandler struct {
	store  store.Store
	svc    *grouping.Service
	hermes hermes.Client
	logger *slog.Logger
}

func NewSectionsHandler(s store.Store, svc *grouping.Service, h hermes.Client, logger *slog.Logger) *SectionsHandler {
	return &SectionsHandler{store: s, svc: svc, hermes: h, logger: logger}
}

type CreateSectionRequest struct {
	Name string `json:"name"`
}

func (h *SectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	sec := &store.Section{TeacherID: teacherID(r), Name: req.Name}
	if err := h.store.CreateSection(r.Context(), sec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectSectionCreated(sec.ID.String()), hermes.SectionEvent{
			SectionID: sec.ID.String(),
			TeacherID: sec.TeacherID,
			Name:      sec.Name,
		})
	}
	writeJSON(w, http.StatusCreated, sec)
}

func (h *SectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.store.ListSections(r.Context(), teacherID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sections == nil {
		sections = []*store.Section{}
	}
	writeJSON(w, http.StatusOK, sections)
}

// Dashboard returns the section's groups, their insights and the roster.
func (h *SectionsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Dashboard(r.Context(), teacherID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *SectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}
	sec, err := h.svc.Section(r.Context(), teacherID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.store.DeleteSection(r.Context(), sec.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "section not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectSectionDeleted(sec.ID.String()), hermes.SectionEvent{
			SectionID: sec.ID.String(),
			TeacherID: sec.TeacherID,
			Name:      sec.Name,
		})
	}
	h.logger.Info("section deleted", "section_id", sec.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every student and group but keeps the section.
func (h *SectionsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.ClearSection(r.Context(), teacherID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
