package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Huddle/internal/balance"
	"github.com/MikeSquared-Agency/Huddle/internal/grouping"
	"github.com/MikeSquared-Agency/Huddle/internal/hermes"
	"github.com/MikeSquared-Agency/Huddle/internal/store"
)

type StudentsHandler struct {
	store  store.Store
	svc    *grouping.Service
	hermes hermes.Client
}

func NewStudentsHandler(s store.Store, svc *grouping.Service, h hermes.Client) *StudentsHandler {
	return &StudentsHandler{store: s, svc: svc, hermes: h}
}

type CreateStudentRequest struct {
	Name       string `json:"name"`
	Coding     int    `json:"coding"`
	Design     int    `json:"design"`
	Writing    int    `json:"writing"`
	Presenting int    `json:"presenting"`
}

func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}

	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	candidate := balance.Student{
		Name:       req.Name,
		Coding:     req.Coding,
		Design:     req.Design,
		Writing:    req.Writing,
		Presenting: req.Presenting,
	}
	if err := candidate.Validate(); err != nil {
		writeServiceError(w, err)
		return
	}

	sec, err := h.svc.Section(r.Context(), teacherID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	st := &store.Student{
		SectionID:  sec.ID,
		Name:       req.Name,
		Coding:     req.Coding,
		Design:     req.Design,
		Writing:    req.Writing,
		Presenting: req.Presenting,
	}
	if err := h.store.CreateStudent(r.Context(), st); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectStudentAdded(sec.ID.String()), hermes.StudentAddedEvent{
			SectionID: sec.ID.String(),
			StudentID: st.ID,
			Name:      st.Name,
		})
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}
	sec, err := h.svc.Section(r.Context(), teacherID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	students, err := h.store.ListStudents(r.Context(), sec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if students == nil {
		students = []*store.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

type DeleteStudentsRequest struct {
	StudentIDs []int64 `json:"student_ids"`
}

func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}
	var req DeleteStudentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.StudentIDs) == 0 {
		writeError(w, http.StatusBadRequest, "student_ids required")
		return
	}

	n, err := h.svc.DeleteStudents(r.Context(), teacherID(r), id, req.StudentIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

type MoveStudentRequest struct {
	GroupID string `json:"group_id"`
}

func (h *StudentsHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionIDParam(w, r)
	if !ok {
		return
	}
	studentID, err := strconv.ParseInt(chi.URLParam(r, "student_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	var req MoveStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group_id")
		return
	}

	st, err := h.svc.MoveStudent(r.Context(), teacherID(r), id, studentID, groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
