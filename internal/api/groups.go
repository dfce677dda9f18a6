package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MikeSquared-Agency/Huddle/internal/grouping"
)

type GroupsHandler struct {
	svc *grouping.Service
}

func NewGroupsHandler(svc *grouping.Service) *GroupsHandler {
	return &GroupsHandler{svc: svc}
}

// GenerateRequest is the body of POST /sections/{id}/generate. Every field
// is optional; an empty body generates with the configured defaults.
// Weights may name any subset of skills.
type GenerateRequest struct {
	GroupCount *int                      `json:"group_count,omitempty"`
	Weights    *grouping.WeightOverrides `json:"weights,omitempty"`
	Force      bool                      `json:"force"`
}

func (h *GroupsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Generate(r.Context(), grouping.GenerateRequest{
		TeacherID:  teacherID(r),
		SectionID:  id,
		GroupCount: req.GroupCount,
		Weights:    req.Weights,
		Force:      req.Force,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
