package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/medcampus/medcampus/internal/app"
	"github.com/medcampus/medcampus/internal/models"
)

type RegistryHandler struct {
	service *app.Service
}

func NewRegistryHandler(service *app.Service) *RegistryHandler {
	return &RegistryHandler{service: service}
}

// authorize resolves the caller and evaluates the policy table. A nil
// identity means the response has already been written.
func (h *RegistryHandler) authorize(w http.ResponseWriter, r *http.Request, action, resource string, ownerMatricule string) *app.Identity {
	if !h.service.ValidateHeaders(r.Header) {
		writeForbidden(w)
		return nil
	}

	identity, err := h.service.Authenticate(r)
	if err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		writeUnauthorized(w)
		return nil
	}

	isOwner := ownerMatricule != "" && identity.Matricule == ownerMatricule
	if !app.Allowed(identity.Role, action, resource, isOwner) {
		writeForbidden(w)
		return nil
	}
	return identity
}

// HandleCreateStudent registers a student; the matricule is derived, never
// client-supplied.
func (h *RegistryHandler) HandleCreateStudent(w http.ResponseWriter, r *http.Request) {
	if h.authorize(w, r, app.ActionCreate, app.ResourceStudent, "") == nil {
		return
	}

	var student models.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid request body")
		return
	}

	if err := h.service.Evaluator.RegisterStudent(&student); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, student, "Étudiant créé avec succès")
}

func (h *RegistryHandler) HandleGetStudent(w http.ResponseWriter, r *http.Request) {
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

	if h.authorize(w, r, app.ActionRead, app.ResourceStudent, student.Matricule) == nil {
		return
	}

	writeJSON(w, http.StatusOK, student, "")
}

func (h *RegistryHandler) HandleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	if h.authorize(w, r, app.ActionCreate, app.ResourceTeacher, "") == nil {
		return
	}

	var teacher models.Teacher
	if err := json.NewDecoder(r.Body).Decode(&teacher); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid request body")
		return
	}

	if err := h.service.Evaluator.RegisterTeacher(&teacher); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, teacher, "Enseignant créé avec succès")
}

func (h *RegistryHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	if h.authorize(w, r, app.ActionCreate, app.ResourceCourse, "") == nil {
		return
	}

	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "Invalid request body")
		return
	}

	if err := h.service.Evaluator.AddCourse(&course); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, course, "Cours créé avec succès")
}
