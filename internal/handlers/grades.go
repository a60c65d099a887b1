package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/medcampus/medcampus/internal/app"
	"github.com/medcampus/medcampus/internal/metrics"
	"github.com/medcampus/medcampus/internal/models"
)

type GradeHandler struct {
	service  *app.Service
	registry *RegistryHandler
}

func NewGradeHandler(service *app.Service) *GradeHandler {
	return &GradeHandler{
		service:  service,
		registry: NewRegistryHandler(service),
	}
}

// HandleRecordGrade creates a grade. Session and est_rattrape are derived
// server-side; any client-supplied values are discarded.
func (h *GradeHandler) HandleRecordGrade(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(r.URL.Path, r.Method, "200").Observe(time.Since(start).Seconds())
	}()

	if h.registry.authorize(w, r, app.ActionCreate, app.ResourceGrade, "") == nil {
		return
	}

	var grade models.Grade
	if err := json.NewDecoder(r.Body).Decode(&grade); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid request body")
		return
	}

	if err := h.service.Evaluator.RecordGrade(&grade); err != nil {
		writeError(w, err)
		return
	}

	course, err := h.service.Store.GetCourse(grade.CourseID)
	if err == nil && course != nil {
		metrics.GradesRecordedTotal.WithLabelValues(course.Filiere, course.Niveau, grade.Session).Inc()
		metrics.GradeValueHistogram.WithLabelValues(course.Filiere, course.Niveau).Observe(grade.Valeur)
	}

	writeJSON(w, http.StatusCreated, grade, "Note attribuée avec succès")
}

// HandleUpdateGrade applies an instructor edit, running the session
// reconciliation rule.
func (h *GradeHandler) HandleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	if h.registry.authorize(w, r, app.ActionUpdate, app.ResourceGrade, "") == nil {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid grade id")
		return
	}

	var payload struct {
		Valeur *float64 `json:"valeur"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid request body")
		return
	}
	if payload.Valeur == nil {
		writeJSON(w, http.StatusBadRequest, nil, "valeur is required")
		return
	}

	grade, err := h.service.Evaluator.UpdateGradeValue(id, *payload.Valeur)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, grade, "Note mise à jour avec succès")
}

// HandleDeleteGrade removes a grade, an explicit administrative action.
func (h *GradeHandler) HandleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	if h.registry.authorize(w, r, app.ActionDelete, app.ResourceGrade, "") == nil {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid grade id")
		return
	}

	if err := h.service.Evaluator.DeleteGrade(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil, "Note supprimée avec succès")
}

// HandleListStudentGrades lists a student's grades joined to their courses.
func (h *GradeHandler) HandleListStudentGrades(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid student id")
		return
	}

	student, err := h.service.Store.GetStudent(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if student == nil {
		writeJSON(w, http.StatusNotFound, nil, "Étudiant non trouvé")
		return
	}

	if h.registry.authorize(w, r, app.ActionRead, app.ResourceGrade, student.Matricule) == nil {
		return
	}

	grades, err := h.service.Store.ListStudentGrades(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": grades}, "")
}
